package address

import "context"

// Address 收货地址，一个顾客可以有多条
type Address struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	StreetOne  string `gorm:"size:128" json:"street_one"`
	StreetTwo  string `gorm:"size:128" json:"street_two"`
	City       string `gorm:"size:64" json:"city"`
	Province   string `gorm:"size:64" json:"province"`
	Country    string `gorm:"size:64" json:"country"`
	PostalCode string `gorm:"size:16" json:"postal_code"`
	CustomerID int64  `gorm:"index;not null" json:"customer_id"`
}

// Repository 地址仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Address, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*Address, error)
	Create(ctx context.Context, a *Address) error
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id int64) error
}
