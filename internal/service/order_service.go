package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/address"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/customer"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/order"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/payment"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/product"
	"github.com/Dashazem/back-end-capstone-project/internal/logger"
)

const (
	// OrderPageSize 订单列表固定页大小
	OrderPageSize = 15

	// OrderEventsQueue 下单成功后投递事件的队列名
	OrderEventsQueue = "order_events"
)

// OrderEvent 下单成功后发往 MQ 的事件体
type OrderEvent struct {
	OrderNumber string `json:"order_number"`
	CustomerID  int64  `json:"customer_id"`
	TotalPrice  int64  `json:"total_price"`
	ItemCount   int    `json:"item_count"`
}

// ProductLine 订单明细里的一行商品，同一商品出现在两行就返回两条，不做合并
type ProductLine struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// CustomerOrderView 顾客侧订单详情
type CustomerOrderView struct {
	OrderNumber string           `json:"order_number"`
	TotalPrice  int64            `json:"total_price"`
	Address     *address.Address `json:"address"`
	Products    []ProductLine    `json:"products"`
}

// CustomerInfo 管理员订单详情中的顾客信息
type CustomerInfo struct {
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
}

// ContactInfo 顾客电话
type ContactInfo struct {
	PhoneNumber string `json:"phone_number"`
}

// TransactionInfo 支付信息，来自真实的支付记录查询
type TransactionInfo struct {
	Number string `json:"number"`
	Amount int64  `json:"amount"`
}

// AdminOrderView 管理员侧订单详情，是顾客视图的超集
type AdminOrderView struct {
	CustomerOrderView
	Customer    CustomerInfo    `json:"customer"`
	Contact     ContactInfo     `json:"contact"`
	Transaction TransactionInfo `json:"transaction"`
}

// OrderPage 订单列表分页结果
type OrderPage struct {
	Orders []*order.Summary
	Total  int64
}

// OrderService 订单核心服务：下单事务、订单重建、订单列表
type OrderService struct {
	db           *gorm.DB
	orderRepo    order.Repository
	productRepo  product.Repository
	addressRepo  address.Repository
	customerRepo customer.Repository
	paymentRepo  payment.Repository
	mqConn       *amqp.Connection
}

// NewOrderService 创建订单服务，mqConn 可以为 nil（不发事件）
func NewOrderService(
	db *gorm.DB,
	orderRepo order.Repository,
	productRepo product.Repository,
	addressRepo address.Repository,
	customerRepo customer.Repository,
	paymentRepo payment.Repository,
	mqConn *amqp.Connection,
) *OrderService {
	return &OrderService{
		db:           db,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		addressRepo:  addressRepo,
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
		mqConn:       mqConn,
	}
}

// validateCart 在任何存储操作之前完成校验
func validateCart(cart *order.Cart) error {
	if cart == nil {
		return fmt.Errorf("%w: empty request", ErrValidation)
	}
	if len(cart.ProductIDs) == 0 {
		return fmt.Errorf("%w: cart has no items", ErrValidation)
	}
	if len(cart.ProductIDs) != len(cart.Quantities) {
		return fmt.Errorf("%w: products and quantities length mismatch (%d vs %d)",
			ErrValidation, len(cart.ProductIDs), len(cart.Quantities))
	}
	for i, qty := range cart.Quantities {
		if qty <= 0 {
			return fmt.Errorf("%w: quantity at position %d must be positive", ErrValidation, i)
		}
	}
	if cart.CustomerID <= 0 {
		return fmt.Errorf("%w: missing customer id", ErrValidation)
	}
	if cart.AddressID <= 0 {
		return fmt.Errorf("%w: missing address id", ErrValidation)
	}
	if cart.PaymentID <= 0 {
		return fmt.Errorf("%w: missing transaction id", ErrValidation)
	}
	if cart.TotalPrice <= 0 {
		return fmt.Errorf("%w: total price must be positive", ErrValidation)
	}
	return nil
}

// cartLine 按商品聚合后的需求量
type cartLine struct {
	productID int64
	quantity  int64
}

// aggregateLines 把购物车按商品 ID 聚合。同一商品允许出现在多个
// 购物车行，库存校验和扣减必须按累计量走一次，否则两行各查各的
// 会互相覆盖扣减结果。聚合保持首次出现的顺序。
func aggregateLines(cart *order.Cart) []cartLine {
	index := make(map[int64]int, len(cart.ProductIDs))
	lines := make([]cartLine, 0, len(cart.ProductIDs))
	for i, pid := range cart.ProductIDs {
		if at, ok := index[pid]; ok {
			lines[at].quantity += cart.Quantities[i]
			continue
		}
		index[pid] = len(lines)
		lines = append(lines, cartLine{productID: pid, quantity: cart.Quantities[i]})
	}
	return lines
}

// Place 下单。整车在一个数据库事务内完成：锁定商品行、校验库存、
// 写入订单头和订单行、扣减库存。任何一步失败则整体回滚，
// 读侧永远看不到半成品订单。
func (s *OrderService) Place(ctx context.Context, cart *order.Cart) (*order.Order, error) {
	if err := validateCart(cart); err != nil {
		return nil, err
	}
	if cart.Number == "" {
		cart.Number = uuid.NewString()
	}

	o := &order.Order{
		Number:     cart.Number,
		TotalPrice: cart.TotalPrice,
		CustomerID: cart.CustomerID,
		AddressID:  cart.AddressID,
		PaymentID:  cart.PaymentID,
		Date:       time.Now(),
		Seen:       false,
	}

	needed := aggregateLines(cart)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先把涉及的商品行全部锁住并按累计需求量校验库存，
		// 两个并发购物车不可能同时通过校验再一起把库存扣成负数
		for _, line := range needed {
			var p product.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&p, line.productID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d", ErrNotFound, line.productID)
				}
				return err
			}
			if p.Quantity < line.quantity {
				return fmt.Errorf("%w: product %d has %d left, requested %d",
					ErrInsufficientStock, line.productID, p.Quantity, line.quantity)
			}
		}

		if err := tx.Create(o).Error; err != nil {
			return err
		}

		// 订单行保持原始购物车行，不做合并
		for i, pid := range cart.ProductIDs {
			item := &order.Item{
				OrderID:   o.ID,
				ProductID: pid,
				Quantity:  cart.Quantities[i],
			}
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}

		// 相对扣减，绝对值写入会让同一商品的多次扣减互相覆盖
		for _, line := range needed {
			res := tx.Model(&product.Product{}).
				Where("id = ? AND quantity >= ?", line.productID, line.quantity).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", line.quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: product %d", ErrInsufficientStock, line.productID)
			}
		}
		return nil
	})
	if err != nil {
		GetMonitor().RecordOrderFailed()
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInsufficientStock) {
			return nil, err
		}
		GetMonitor().RecordDBError()
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	GetMonitor().RecordOrderPlaced()
	s.publishOrderEvent(ctx, o, len(cart.ProductIDs))
	return o, nil
}

// publishOrderEvent 事务提交后尽力投递事件，失败只记日志不影响下单结果
func (s *OrderService) publishOrderEvent(ctx context.Context, o *order.Order, itemCount int) {
	if s.mqConn == nil {
		return
	}
	ch, err := s.mqConn.Channel()
	if err != nil {
		GetMonitor().RecordMQError()
		logger.L().Warn("open mq channel failed", zap.Error(err))
		return
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(OrderEventsQueue, true, false, false, false, nil); err != nil {
		GetMonitor().RecordMQError()
		logger.L().Warn("declare order events queue failed", zap.Error(err))
		return
	}

	body, err := json.Marshal(&OrderEvent{
		OrderNumber: o.Number,
		CustomerID:  o.CustomerID,
		TotalPrice:  o.TotalPrice,
		ItemCount:   itemCount,
	})
	if err != nil {
		logger.L().Warn("marshal order event failed", zap.Error(err))
		return
	}

	err = ch.PublishWithContext(ctx, "", OrderEventsQueue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		GetMonitor().RecordMQError()
		logger.L().Warn("publish order event failed",
			zap.String("order_number", o.Number), zap.Error(err))
	}
}

// GetForCustomer 按订单号重建顾客侧订单详情。
// 商品、地址都按下单时记录的 ID 回查，后续改绑不影响历史订单的定位。
func (s *OrderService) GetForCustomer(ctx context.Context, number string) (*CustomerOrderView, error) {
	view, _, err := s.rebuildOrder(ctx, number)
	return view, err
}

// rebuildOrder 重建顾客视图并带回订单头，管理员视图在此基础上补字段
func (s *OrderService) rebuildOrder(ctx context.Context, number string) (*CustomerOrderView, *order.Order, error) {
	o, err := s.orderRepo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: order %s", ErrNotFound, number)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	addr, err := s.addressRepo.GetByID(ctx, o.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: address %d", ErrNotFound, o.AddressID)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	items, err := s.orderRepo.ListItems(ctx, o.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	// 一行订单行对应一条商品条目，同一商品出现两行就返回两条
	lines := make([]ProductLine, 0, len(items))
	for _, item := range items {
		p, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("%w: product %d", ErrNotFound, item.ProductID)
			}
			return nil, nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		lines = append(lines, ProductLine{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: item.Quantity,
		})
	}

	return &CustomerOrderView{
		OrderNumber: o.Number,
		TotalPrice:  o.TotalPrice,
		Address:     addr,
		Products:    lines,
	}, o, nil
}

// GetForAdmin 管理员侧订单详情：在顾客视图之上补齐顾客、电话和支付信息。
// 支付记录做真实回查，记录缺失时明确报错而不是回显支付 ID。
func (s *OrderService) GetForAdmin(ctx context.Context, number string) (*AdminOrderView, error) {
	base, o, err := s.rebuildOrder(ctx, number)
	if err != nil {
		return nil, err
	}

	c, err := s.customerRepo.GetByID(ctx, o.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer %d", ErrNotFound, o.CustomerID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	view := &AdminOrderView{
		CustomerOrderView: *base,
		Customer: CustomerInfo{
			FirstName: c.FirstName,
			Surname:   c.Surname,
			Email:     c.Email,
		},
	}

	// 电话缺失不算错误，返回空串
	if ct, err := s.customerRepo.GetContact(ctx, o.CustomerID); err == nil {
		view.Contact.PhoneNumber = ct.PhoneNumber
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	rec, err := s.paymentRepo.GetByID(ctx, o.PaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment record %d", ErrNotFound, o.PaymentID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	view.Transaction = TransactionInfo{
		Number: rec.Number,
		Amount: rec.Amount,
	}

	return view, nil
}

// ListForCustomer 顾客订单分页列表，total 是该顾客名下去重订单号总数
func (s *OrderService) ListForCustomer(ctx context.Context, customerID int64, page int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * OrderPageSize

	list, err := s.orderRepo.ListByCustomer(ctx, customerID, OrderPageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	total, err := s.orderRepo.CountByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &OrderPage{Orders: list, Total: total}, nil
}

// ListAll 管理员订单分页列表，摘要额外带 seen 标记
func (s *OrderService) ListAll(ctx context.Context, page int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * OrderPageSize

	list, err := s.orderRepo.ListAll(ctx, OrderPageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	total, err := s.orderRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &OrderPage{Orders: list, Total: total}, nil
}

// MarkSeen 把同一订单号下的订单置为已读，重复调用仍然成功
func (s *OrderService) MarkSeen(ctx context.Context, number string) error {
	if err := s.orderRepo.MarkSeen(ctx, number); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
