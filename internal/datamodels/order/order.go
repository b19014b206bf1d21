package order

import (
	"context"
	"time"
)

// Order 订单头。一次下单只落一行订单头，金额、地址、支付等共享字段
// 不再按行重复存储。Number 由调用方提供，存储层不校验唯一性。
type Order struct {
	ID         int64     `gorm:"primaryKey" json:"orders_id"`
	Number     string    `gorm:"size:64;index;not null" json:"orders_number"`
	TotalPrice int64     `gorm:"not null" json:"orders_total_price"` // 整单总价，单位：分
	CustomerID int64     `gorm:"index;not null" json:"orders_customers_id"`
	AddressID  int64     `gorm:"not null" json:"orders_addresses_id"`
	PaymentID  int64     `gorm:"not null" json:"orders_transactions_id"`
	Date       time.Time `gorm:"index;not null" json:"orders_date"`
	Seen       bool      `gorm:"not null;default:false" json:"orders_seen"` // 管理员是否已查看
}

// Item 订单行，每个 (商品, 数量) 一行，按插入顺序排列
type Item struct {
	ID        int64 `gorm:"primaryKey" json:"-"`
	OrderID   int64 `gorm:"index;not null" json:"-"`
	ProductID int64 `gorm:"index;not null" json:"orders_products_id"`
	Quantity  int64 `gorm:"not null" json:"orders_product_quantity"`
}

// Cart 下单入参，ProductIDs 与 Quantities 按位置一一对应
type Cart struct {
	Number     string  `json:"orders_number"`
	ProductIDs []int64 `json:"orders_products_id"`
	Quantities []int64 `json:"orders_product_quantity"`
	CustomerID int64   `json:"orders_customers_id"`
	AddressID  int64   `json:"orders_addresses_id"`
	TotalPrice int64   `json:"orders_total_price"`
	PaymentID  int64   `json:"orders_transactions_id"`
}

// Summary 订单列表条目，按订单号去重后的摘要
type Summary struct {
	Number     string    `json:"order_number"`
	TotalPrice int64     `json:"total_price"`
	Date       time.Time `json:"date"`
	Seen       bool      `json:"seen"`
}

// CustomerStats 后台顾客总览使用的订单统计
type CustomerStats struct {
	OrderCount int64
	TotalSpent int64
}

// Repository 订单仓储接口。写入路径（下单事务）不经过该接口，
// 由订单服务在单个数据库事务内完成。
type Repository interface {
	GetByNumber(ctx context.Context, number string) (*Order, error)
	ListItems(ctx context.Context, orderID int64) ([]*Item, error)

	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]*Summary, error)
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]*Summary, error)
	CountAll(ctx context.Context) (int64, error)

	MarkSeen(ctx context.Context, number string) error
	StatsByCustomer(ctx context.Context, customerID int64) (*CustomerStats, error)
}
