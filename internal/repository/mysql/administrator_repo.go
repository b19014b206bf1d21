package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/administrator"
)

type administratorRepo struct {
	db *gorm.DB
}

// NewAdministratorRepository 创建管理员仓储
func NewAdministratorRepository(db *gorm.DB) administrator.Repository {
	return &administratorRepo{db: db}
}

func (r *administratorRepo) GetByID(ctx context.Context, id int64) (*administrator.Administrator, error) {
	var a administrator.Administrator
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *administratorRepo) GetByEmail(ctx context.Context, email string) (*administrator.Administrator, error) {
	var a administrator.Administrator
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *administratorRepo) Create(ctx context.Context, a *administrator.Administrator) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *administratorRepo) Update(ctx context.Context, a *administrator.Administrator) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *administratorRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&administrator.Administrator{}, id).Error
}
