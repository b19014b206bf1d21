package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/product"
)

func TestApplyDiscounts(t *testing.T) {
	p := &product.Product{Price: 45000}
	applyDiscounts(p)
	assert.Equal(t, int64(40500), p.PriceDiscounted10)
	assert.Equal(t, int64(36000), p.PriceDiscounted20)

	// 分账金额四舍五入
	p = &product.Product{Price: 995}
	applyDiscounts(p)
	assert.Equal(t, int64(896), p.PriceDiscounted10)
	assert.Equal(t, int64(796), p.PriceDiscounted20)

	p = &product.Product{Price: 999}
	applyDiscounts(p)
	assert.Equal(t, int64(899), p.PriceDiscounted10)
	assert.Equal(t, int64(799), p.PriceDiscounted20)
}

func TestCatalogListAttachesImages(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(&product.Product{Name: "Oak Table", Category: "tables", Price: 45000})
	repo.add(&product.Product{Name: "Walnut Chair", Category: "chairs", Price: 12000})
	repo.images[1] = []string{"https://cdn.example.com/oak-1.jpg", "https://cdn.example.com/oak-2.jpg"}

	svc := NewCatalogService(repo, nil)
	page, err := svc.List(context.Background(), "", 1)
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Products, 2)
	assert.Equal(t, []string{"https://cdn.example.com/oak-1.jpg", "https://cdn.example.com/oak-2.jpg"},
		page.Products[0].ImageURLs)
	// 没有图片的商品返回空数组而不是 null
	assert.NotNil(t, page.Products[1].ImageURLs)
	assert.Empty(t, page.Products[1].ImageURLs)
}

func TestCatalogListPagination(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewCatalogService(repo, nil)

	_, err := svc.List(context.Background(), "tables", 0)
	require.NoError(t, err)
	_, err = svc.List(context.Background(), "tables", 3)
	require.NoError(t, err)

	require.Len(t, repo.pageCalls, 2)
	assert.Equal(t, pageCall{limit: ProductPageSize, offset: 0}, repo.pageCalls[0])
	assert.Equal(t, pageCall{limit: ProductPageSize, offset: 2 * ProductPageSize}, repo.pageCalls[1])
}

func TestCatalogCreateValidation(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo(), nil)

	err := svc.Create(context.Background(), &product.Product{Price: 100})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.Create(context.Background(), &product.Product{Name: "Oak Table"})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.Create(context.Background(), &product.Product{Name: "Oak Table", Price: 100, Quantity: -1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogCreateComputesDiscounts(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewCatalogService(repo, nil)

	p := &product.Product{Name: "Oak Table", Price: 45000, Quantity: 3}
	require.NoError(t, svc.Create(context.Background(), p))

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40500), stored.PriceDiscounted10)
	assert.Equal(t, int64(36000), stored.PriceDiscounted20)
}

func TestCatalogGetNotFound(t *testing.T) {
	svc := NewCatalogService(newFakeProductRepo(), nil)
	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogAddImageRequiresProduct(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewCatalogService(repo, nil)

	_, err := svc.AddImage(context.Background(), 42, "https://cdn.example.com/x.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddImage(context.Background(), 42, "")
	assert.ErrorIs(t, err, ErrValidation)

	p := repo.add(&product.Product{Name: "Oak Table", Price: 45000})
	img, err := svc.AddImage(context.Background(), p.ID, "https://cdn.example.com/oak.jpg")
	require.NoError(t, err)
	assert.Equal(t, p.ID, img.ProductID)
}
