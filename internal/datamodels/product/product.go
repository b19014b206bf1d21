package product

import (
	"context"
	"time"
)

// Product 商品模型，价格单位为分
type Product struct {
	ID                int64     `gorm:"primaryKey" json:"products_id"`
	Name              string    `gorm:"size:128;not null" json:"products_name"`
	Category          string    `gorm:"size:64;index" json:"products_category"`
	Description       string    `gorm:"size:1024" json:"products_description"`
	Material          string    `gorm:"size:128" json:"products_material"`
	Quantity          int64     `gorm:"not null" json:"products_quantity"` // 库存数量
	Price             int64     `gorm:"not null" json:"products_price"`
	PriceDiscounted10 int64     `gorm:"not null" json:"products_price_discounted_10"` // 预计算 9 折价
	PriceDiscounted20 int64     `gorm:"not null" json:"products_price_discounted_20"` // 预计算 8 折价
	CreatedAt         time.Time `json:"-"`
	UpdatedAt         time.Time `json:"-"`
}

// Image 商品图片，一个商品可以有多张
type Image struct {
	ID        int64  `gorm:"primaryKey" json:"images_id"`
	URL       string `gorm:"size:512;not null" json:"images_url"`
	ProductID int64  `gorm:"index;not null" json:"images_products_id"`
}

// WithImages 商品 + 图片列表的查询结果
type WithImages struct {
	Product
	ImageURLs []string `json:"image_product"`
}

// Repository 商品仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, category string, limit, offset int) ([]*Product, error)
	Count(ctx context.Context, category string) (int64, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error

	ListImages(ctx context.Context, productID int64) ([]*Image, error)
	ListImagesForProducts(ctx context.Context, productIDs []int64) (map[int64][]string, error)
	AddImage(ctx context.Context, img *Image) error
}
