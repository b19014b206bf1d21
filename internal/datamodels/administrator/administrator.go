package administrator

import (
	"context"
	"time"
)

// Administrator 管理员模型
type Administrator struct {
	ID        int64     `gorm:"primaryKey" json:"administrators_id"`
	FirstName string    `gorm:"size:64;not null" json:"administrators_first_name"`
	Surname   string    `gorm:"size:64;not null" json:"administrators_surname"`
	Email     string    `gorm:"uniqueIndex;size:128;not null" json:"administrators_email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt 哈希
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Repository 管理员仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Administrator, error)
	GetByEmail(ctx context.Context, email string) (*Administrator, error)
	Create(ctx context.Context, a *Administrator) error
	Update(ctx context.Context, a *Administrator) error
	Delete(ctx context.Context, id int64) error
}
