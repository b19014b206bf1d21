package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/product"
)

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, category string, limit, offset int) ([]*product.Product, error) {
	var list []*product.Product
	query := r.db.WithContext(ctx)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) Count(ctx context.Context, category string) (int64, error) {
	var n int64
	query := r.db.WithContext(ctx).Model(&product.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *productRepo) Create(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Update(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete 删除商品并级联清理图片，放在同一个事务里，避免遗留孤儿图片
func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&product.Image{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product.Product{}, id).Error
	})
}

func (r *productRepo) ListImages(ctx context.Context, productID int64) ([]*product.Image, error) {
	var imgs []*product.Image
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id").
		Find(&imgs).Error; err != nil {
		return nil, err
	}
	return imgs, nil
}

func (r *productRepo) ListImagesForProducts(ctx context.Context, productIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var imgs []*product.Image
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("id").
		Find(&imgs).Error; err != nil {
		return nil, err
	}
	for _, img := range imgs {
		out[img.ProductID] = append(out[img.ProductID], img.URL)
	}
	return out, nil
}

func (r *productRepo) AddImage(ctx context.Context, img *product.Image) error {
	return r.db.WithContext(ctx).Create(img).Error
}
