package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/order"
)

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储（读路径 + 标记已读，下单事务在订单服务内完成）
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepo{db: db}
}

func (r *orderRepo) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Where("number = ?", number).
		Order("id").
		First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListItems(ctx context.Context, orderID int64) ([]*order.Item, error) {
	var items []*order.Item
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListByCustomer 顾客订单摘要，按订单号去重、时间倒序分页
func (r *orderRepo) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]*order.Summary, error) {
	var list []*order.Summary
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Select("number, total_price, date, seen").
		Where("customer_id = ?", customerID).
		Group("number, total_price, date, seen").
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("customer_id = ?", customerID).
		Distinct("number").
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// ListAll 后台订单摘要，额外带 seen 标记
func (r *orderRepo) ListAll(ctx context.Context, limit, offset int) ([]*order.Summary, error) {
	var list []*order.Summary
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Select("number, total_price, date, seen").
		Group("number, total_price, date, seen").
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Distinct("number").
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// MarkSeen 将同一订单号下的所有订单头置为已读，重复调用等价于一次
func (r *orderRepo) MarkSeen(ctx context.Context, number string) error {
	return r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("number = ?", number).
		Update("seen", true).Error
}

func (r *orderRepo) StatsByCustomer(ctx context.Context, customerID int64) (*order.CustomerStats, error) {
	var stats order.CustomerStats
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Select("COUNT(DISTINCT number) AS order_count, IFNULL(SUM(total_price), 0) AS total_spent").
		Where("customer_id = ?", customerID).
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
