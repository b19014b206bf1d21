package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/product"
	"github.com/Dashazem/back-end-capstone-project/internal/logger"
)

const (
	// ProductPageSize 商品浏览固定页大小
	ProductPageSize = 20

	catalogVersionKey = "catalog:ver"
	catalogCacheTTL   = 60 // 秒
)

// ProductPage 商品分页结果
type ProductPage struct {
	Products []*product.WithImages `json:"products"`
	Total    int64                 `json:"total"`
}

// CatalogService 商品目录服务，列表页带 Redis 缓存
type CatalogService struct {
	repo  product.Repository
	redis radix.Client
}

// NewCatalogService 创建目录服务，redis 可以为 nil（不启用缓存）
func NewCatalogService(repo product.Repository, redis radix.Client) *CatalogService {
	return &CatalogService{repo: repo, redis: redis}
}

// applyDiscounts 预计算 9 折 / 8 折价格，写路径统一走这里
func applyDiscounts(p *product.Product) {
	p.PriceDiscounted10 = int64(math.Round(float64(p.Price) * 0.9))
	p.PriceDiscounted20 = int64(math.Round(float64(p.Price) * 0.8))
}

func (s *CatalogService) cacheKey(category string, page int) (string, error) {
	var ver int
	if err := s.redis.Do(radix.Cmd(&ver, "GET", catalogVersionKey)); err != nil {
		return "", err
	}
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf("catalog:%d:%s:page:%d", ver, category, page), nil
}

// bumpVersion 商品或图片变更后递增版本号，旧缓存键整体失效
func (s *CatalogService) bumpVersion() {
	if s.redis == nil {
		return
	}
	if err := s.redis.Do(radix.Cmd(nil, "INCR", catalogVersionKey)); err != nil {
		GetMonitor().RecordCacheError()
		logger.L().Warn("bump catalog version failed", zap.Error(err))
	}
}

// List 分页浏览商品，支持按分类过滤，列表页优先走缓存
func (s *CatalogService) List(ctx context.Context, category string, page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}

	var key string
	if s.redis != nil {
		k, err := s.cacheKey(category, page)
		if err == nil {
			key = k
			var raw string
			if err := s.redis.Do(radix.Cmd(&raw, "GET", key)); err == nil && raw != "" {
				var cached ProductPage
				if err := json.Unmarshal([]byte(raw), &cached); err == nil {
					GetMonitor().RecordCacheHit()
					return &cached, nil
				}
			}
		}
		GetMonitor().RecordCacheMiss()
	}

	offset := (page - 1) * ProductPageSize
	list, err := s.repo.List(ctx, category, ProductPageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	total, err := s.repo.Count(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	ids := make([]int64, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	images, err := s.repo.ListImagesForProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	out := make([]*product.WithImages, len(list))
	for i, p := range list {
		urls := images[p.ID]
		if urls == nil {
			urls = []string{}
		}
		out[i] = &product.WithImages{Product: *p, ImageURLs: urls}
	}
	result := &ProductPage{Products: out, Total: total}

	if s.redis != nil && key != "" {
		if body, err := json.Marshal(result); err == nil {
			if err := s.redis.Do(radix.FlatCmd(nil, "SETEX", key, catalogCacheTTL, body)); err != nil {
				GetMonitor().RecordCacheError()
			}
		}
	}
	return result, nil
}

// Get 单个商品详情，带全部图片
func (s *CatalogService) Get(ctx context.Context, id int64) (*product.WithImages, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	imgs, err := s.repo.ListImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	urls := make([]string, 0, len(imgs))
	for _, img := range imgs {
		urls = append(urls, img.URL)
	}
	return &product.WithImages{Product: *p, ImageURLs: urls}, nil
}

// Create 新建商品，价格折扣在写入前预计算
func (s *CatalogService) Create(ctx context.Context, p *product.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	applyDiscounts(p)
	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	s.bumpVersion()
	return nil
}

// Update 保存商品修改并重算折扣价
func (s *CatalogService) Update(ctx context.Context, p *product.Product) error {
	if p.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	applyDiscounts(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	s.bumpVersion()
	return nil
}

// Delete 删除商品（连同图片）
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	s.bumpVersion()
	return nil
}

// AddImage 登记一张已上传好的商品图片 URL
func (s *CatalogService) AddImage(ctx context.Context, productID int64, url string) (*product.Image, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: image url is required", ErrValidation)
	}
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	img := &product.Image{URL: url, ProductID: productID}
	if err := s.repo.AddImage(ctx, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	s.bumpVersion()
	return img, nil
}
