package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/address"
)

// AddressService 收货地址维护
type AddressService struct {
	repo address.Repository
}

// NewAddressService 创建地址服务
func NewAddressService(repo address.Repository) *AddressService {
	return &AddressService{repo: repo}
}

func (s *AddressService) Get(ctx context.Context, id int64) (*address.Address, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: address %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return a, nil
}

func (s *AddressService) ListByCustomer(ctx context.Context, customerID int64) ([]*address.Address, error) {
	list, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return list, nil
}

func (s *AddressService) Add(ctx context.Context, a *address.Address) error {
	if a.CustomerID <= 0 {
		return fmt.Errorf("%w: missing customer id", ErrValidation)
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

func (s *AddressService) Update(ctx context.Context, a *address.Address) error {
	existing, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: address %d", ErrNotFound, a.ID)
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	// 归属关系不允许改
	a.CustomerID = existing.CustomerID
	if err := s.repo.Update(ctx, a); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

func (s *AddressService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
