package mysql

import (
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Dashazem/back-end-capstone-project/internal/config"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/address"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/administrator"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/customer"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/order"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/payment"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/product"
	"github.com/Dashazem/back-end-capstone-project/internal/logger"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init 初始化全局 GORM 实例并自动迁移表结构
func Init(cfg *config.MySQLConfig) *gorm.DB {
	once.Do(func() {
		var err error
		db, err = gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			logger.L().Fatal("failed to connect mysql", zap.Error(err))
		}

		if err = db.AutoMigrate(
			&product.Product{},
			&product.Image{},
			&customer.Customer{},
			&customer.Contact{},
			&administrator.Administrator{},
			&address.Address{},
			&payment.Record{},
			&order.Order{},
			&order.Item{},
		); err != nil {
			logger.L().Fatal("auto migrate failed", zap.Error(err))
		}
	})
	return db
}

// DB 获取全局 DB
func DB() *gorm.DB {
	return db
}
