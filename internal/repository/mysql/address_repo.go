package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/address"
)

type addressRepo struct {
	db *gorm.DB
}

// NewAddressRepository 创建地址仓储
func NewAddressRepository(db *gorm.DB) address.Repository {
	return &addressRepo{db: db}
}

func (r *addressRepo) GetByID(ctx context.Context, id int64) (*address.Address, error) {
	var a address.Address
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *addressRepo) ListByCustomer(ctx context.Context, customerID int64) ([]*address.Address, error) {
	var list []*address.Address
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *addressRepo) Create(ctx context.Context, a *address.Address) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *addressRepo) Update(ctx context.Context, a *address.Address) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *addressRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&address.Address{}, id).Error
}
