package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/payment"
)

type paymentRepo struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付记录仓储
func NewPaymentRepository(db *gorm.DB) payment.Repository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) GetByID(ctx context.Context, id int64) (*payment.Record, error) {
	var rec payment.Record
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *paymentRepo) Create(ctx context.Context, rec *payment.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}
