package payment

import (
	"context"
	"time"
)

// Record 支付记录，由支付回调在下单之前写入，订单只引用其 ID
type Record struct {
	ID         int64     `gorm:"primaryKey" json:"transactions_id"`
	PayerName  string    `gorm:"size:128" json:"payer_name"`
	PayerEmail string    `gorm:"size:128" json:"payer_email"`
	Number     string    `gorm:"size:128;index" json:"transaction_id"` // 外部交易号
	Amount     int64     `gorm:"not null" json:"amount"`               // 单位：分
	CreatedAt  time.Time `json:"-"`
}

// Repository 支付记录仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Record, error)
	Create(ctx context.Context, r *Record) error
}
