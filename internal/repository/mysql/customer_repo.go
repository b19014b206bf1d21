package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/customer"
)

type customerRepo struct {
	db *gorm.DB
}

// NewCustomerRepository 创建顾客仓储
func NewCustomerRepository(db *gorm.DB) customer.Repository {
	return &customerRepo{db: db}
}

func (r *customerRepo) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) Create(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) Update(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&customer.Customer{}, id).Error
}

func (r *customerRepo) List(ctx context.Context, limit, offset int) ([]*customer.Customer, error) {
	var list []*customer.Customer
	if err := r.db.WithContext(ctx).
		Order("first_name, surname").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *customerRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&customer.Customer{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *customerRepo) GetContact(ctx context.Context, customerID int64) (*customer.Contact, error) {
	var ct customer.Contact
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&ct).Error; err != nil {
		return nil, err
	}
	return &ct, nil
}

func (r *customerRepo) CreateContact(ctx context.Context, ct *customer.Contact) error {
	return r.db.WithContext(ctx).Create(ct).Error
}

func (r *customerRepo) UpdatePhone(ctx context.Context, customerID int64, phone string) error {
	res := r.db.WithContext(ctx).
		Model(&customer.Contact{}).
		Where("customer_id = ?", customerID).
		Update("phone_number", phone)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
