package customer

import (
	"context"
	"time"
)

// Customer 顾客模型
type Customer struct {
	ID        int64     `gorm:"primaryKey" json:"customers_id"`
	FirstName string    `gorm:"size:64;not null" json:"customers_first_name"`
	Surname   string    `gorm:"size:64;not null" json:"customers_surname"`
	Email     string    `gorm:"uniqueIndex;size:128;not null" json:"customers_email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt 哈希
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Contact 顾客联系方式，实际使用中一人一条
type Contact struct {
	ID          int64  `gorm:"primaryKey" json:"contacts_id"`
	PhoneNumber string `gorm:"size:32" json:"contacts_phone_number"`
	CustomerID  int64  `gorm:"index;not null" json:"contacts_customers_id"`
}

// Repository 顾客仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Customer, error)
	Count(ctx context.Context) (int64, error)

	GetContact(ctx context.Context, customerID int64) (*Contact, error)
	CreateContact(ctx context.Context, ct *Contact) error
	UpdatePhone(ctx context.Context, customerID int64, phone string) error
}
