package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Dashazem/back-end-capstone-project/internal/auth"
	"github.com/Dashazem/back-end-capstone-project/internal/config"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/address"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/administrator"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/customer"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/order"
)

// CustomerPageSize 后台顾客总览固定页大小
const CustomerPageSize = 20

// IdentityService 顾客与管理员账号服务：注册、登录、资料维护
type IdentityService struct {
	db        *gorm.DB
	customers customer.Repository
	admins    administrator.Repository
	addresses address.Repository
	orders    order.Repository
	jwt       *config.JWTConfig
}

// NewIdentityService 创建身份服务
func NewIdentityService(
	db *gorm.DB,
	customers customer.Repository,
	admins administrator.Repository,
	addresses address.Repository,
	orders order.Repository,
	jwt *config.JWTConfig,
) *IdentityService {
	return &IdentityService{
		db:        db,
		customers: customers,
		admins:    admins,
		addresses: addresses,
		orders:    orders,
		jwt:       jwt,
	}
}

// RegisterCustomerRequest 顾客注册入参：账号 + 首个地址 + 联系电话
type RegisterCustomerRequest struct {
	FirstName string
	Surname   string
	Email     string
	Password  string
	Address   address.Address
	Phone     string
}

// RegisterCustomer 注册顾客，账号、地址、电话在一个事务内写入
func (s *IdentityService) RegisterCustomer(ctx context.Context, req *RegisterCustomerRequest) (int64, error) {
	if req.FirstName == "" || req.Surname == "" || req.Email == "" || req.Password == "" {
		return 0, fmt.Errorf("%w: missing required customer fields", ErrValidation)
	}

	if _, err := s.customers.GetByEmail(ctx, req.Email); err == nil {
		return 0, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	c := &customer.Customer{
		FirstName: req.FirstName,
		Surname:   req.Surname,
		Email:     req.Email,
		Password:  string(hashed),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		addr := req.Address
		addr.ID = 0
		addr.CustomerID = c.ID
		if err := tx.Create(&addr).Error; err != nil {
			return err
		}
		return tx.Create(&customer.Contact{
			PhoneNumber: req.Phone,
			CustomerID:  c.ID,
		}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return c.ID, nil
}

// RegisterAdministrator 注册管理员
func (s *IdentityService) RegisterAdministrator(ctx context.Context, firstName, surname, email, password string) (int64, error) {
	if firstName == "" || surname == "" || email == "" || password == "" {
		return 0, fmt.Errorf("%w: missing required administrator fields", ErrValidation)
	}

	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return 0, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	a := &administrator.Administrator{
		FirstName: firstName,
		Surname:   surname,
		Email:     email,
		Password:  string(hashed),
	}
	if err := s.admins.Create(ctx, a); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return a.ID, nil
}

// LoginResult 登录结果
type LoginResult struct {
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	ID        int64  `json:"id"`
	Token     string `json:"token"`
}

// Login 先查顾客表再查管理员表，命中即返回对应角色的 JWT
func (s *IdentityService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if c, err := s.customers.GetByEmail(ctx, email); err == nil {
		if bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) == nil {
			token, err := auth.GenerateToken(s.jwt, c.ID, c.FirstName, auth.RoleCustomer)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrStorage, err)
			}
			return &LoginResult{Role: auth.RoleCustomer, FirstName: c.FirstName, ID: c.ID, Token: token}, nil
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if a, err := s.admins.GetByEmail(ctx, email); err == nil {
		if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) == nil {
			token, err := auth.GenerateToken(s.jwt, a.ID, a.FirstName, auth.RoleAdmin)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrStorage, err)
			}
			return &LoginResult{Role: auth.RoleAdmin, FirstName: a.FirstName, ID: a.ID, Token: token}, nil
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return nil, ErrInvalidCredentials
}

// CustomerView 顾客资料 + 联系电话
type CustomerView struct {
	CustomerID int64       `json:"customer_id"`
	FirstName  string      `json:"first_name"`
	Surname    string      `json:"surname"`
	Email      string      `json:"email"`
	Contact    ContactInfo `json:"contact"`
}

// GetCustomer 查询顾客资料，电话缺失时返回空串
func (s *IdentityService) GetCustomer(ctx context.Context, id int64) (*CustomerView, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	view := &CustomerView{
		CustomerID: c.ID,
		FirstName:  c.FirstName,
		Surname:    c.Surname,
		Email:      c.Email,
	}
	if ct, err := s.customers.GetContact(ctx, id); err == nil {
		view.Contact.PhoneNumber = ct.PhoneNumber
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return view, nil
}

// UpdateCustomerEmail 更新顾客邮箱
func (s *IdentityService) UpdateCustomerEmail(ctx context.Context, id int64, email string) error {
	if email == "" {
		return fmt.Errorf("%w: missing email", ErrValidation)
	}
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: customer %d", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	c.Email = email
	if err := s.customers.Update(ctx, c); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// VerifyCustomerPassword 校验顾客密码
func (s *IdentityService) VerifyCustomerPassword(ctx context.Context, id int64, password string) (bool, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: customer %d", ErrNotFound, id)
		}
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) == nil, nil
}

// UpdateCustomerPassword 更新顾客密码
func (s *IdentityService) UpdateCustomerPassword(ctx context.Context, id int64, password string) error {
	if password == "" {
		return fmt.Errorf("%w: missing password", ErrValidation)
	}
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: customer %d", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	c.Password = string(hashed)
	if err := s.customers.Update(ctx, c); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// UpdateCustomerPhone 更新顾客电话
func (s *IdentityService) UpdateCustomerPhone(ctx context.Context, id int64, phone string) error {
	if phone == "" {
		return fmt.Errorf("%w: missing phone number", ErrValidation)
	}
	if err := s.customers.UpdatePhone(ctx, id, phone); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: customer %d", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// DeleteCustomer 删除顾客账号
func (s *IdentityService) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// UpdateAdministratorEmail 更新管理员邮箱
func (s *IdentityService) UpdateAdministratorEmail(ctx context.Context, id int64, email string) error {
	if email == "" {
		return fmt.Errorf("%w: missing email", ErrValidation)
	}
	a, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: administrator %d", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	a.Email = email
	if err := s.admins.Update(ctx, a); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// VerifyAdministratorPassword 校验管理员密码
func (s *IdentityService) VerifyAdministratorPassword(ctx context.Context, id int64, password string) (bool, error) {
	a, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: administrator %d", ErrNotFound, id)
		}
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) == nil, nil
}

// UpdateAdministratorPassword 更新管理员密码
func (s *IdentityService) UpdateAdministratorPassword(ctx context.Context, id int64, password string) error {
	if password == "" {
		return fmt.Errorf("%w: missing password", ErrValidation)
	}
	a, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: administrator %d", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	a.Password = string(hashed)
	if err := s.admins.Update(ctx, a); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// DeleteAdministrator 删除管理员账号
func (s *IdentityService) DeleteAdministrator(ctx context.Context, id int64) error {
	if err := s.admins.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// CustomerOverviewEntry 后台顾客总览条目
type CustomerOverviewEntry struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	OrderCount  int64  `json:"order_count"`
	TotalSpent  int64  `json:"total_spent"`
	Address     string `json:"address"`
}

// CustomerOverviewPage 后台顾客总览分页结果
type CustomerOverviewPage struct {
	Customers []CustomerOverviewEntry `json:"customers"`
	Total     int64                   `json:"total"`
}

// CustomerOverview 后台顾客总览：姓名、联系方式、订单数、消费总额和全部地址
func (s *IdentityService) CustomerOverview(ctx context.Context, page int) (*CustomerOverviewPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * CustomerPageSize

	customers, err := s.customers.List(ctx, CustomerPageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	entries := make([]CustomerOverviewEntry, 0, len(customers))
	for _, c := range customers {
		entry := CustomerOverviewEntry{
			FullName: c.FirstName + " " + c.Surname,
			Email:    c.Email,
		}

		if ct, err := s.customers.GetContact(ctx, c.ID); err == nil {
			entry.PhoneNumber = ct.PhoneNumber
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}

		stats, err := s.orders.StatsByCustomer(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		entry.OrderCount = stats.OrderCount
		entry.TotalSpent = stats.TotalSpent

		addrs, err := s.addresses.ListByCustomer(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		parts := make([]string, 0, len(addrs))
		for _, a := range addrs {
			parts = append(parts, strings.Join([]string{
				a.StreetOne, a.StreetTwo, a.City, a.Province, a.Country, a.PostalCode,
			}, ", "))
		}
		// 前端直接渲染多行地址
		entry.Address = strings.Join(parts, "<br />")

		entries = append(entries, entry)
	}

	total, err := s.customers.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &CustomerOverviewPage{Customers: entries, Total: total}, nil
}
