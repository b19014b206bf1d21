package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/payment"
)

// PaymentService 支付记录登记与查询。记录由支付回调先行写入，
// 订单只保存记录 ID。
type PaymentService struct {
	repo payment.Repository
}

// NewPaymentService 创建支付记录服务
func NewPaymentService(repo payment.Repository) *PaymentService {
	return &PaymentService{repo: repo}
}

// Create 保存一条外部已确认的支付记录，返回其数据库 ID
func (s *PaymentService) Create(ctx context.Context, rec *payment.Record) (int64, error) {
	if rec.Number == "" {
		return 0, fmt.Errorf("%w: missing transaction number", ErrValidation)
	}
	if rec.Amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return rec.ID, nil
}

// Get 按 ID 查询支付记录
func (s *PaymentService) Get(ctx context.Context, id int64) (*payment.Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment record %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return rec, nil
}
