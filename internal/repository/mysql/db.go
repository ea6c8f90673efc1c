package mysql

import (
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/example/techshop/internal/apperr"
	"github.com/example/techshop/internal/config"
	"github.com/example/techshop/internal/datamodels/category"
	"github.com/example/techshop/internal/datamodels/order"
	"github.com/example/techshop/internal/datamodels/product"
	"github.com/example/techshop/internal/datamodels/user"
)

// Init 打开 MySQL 连接并自动迁移表结构，句柄由调用方显式传递，不保留全局状态
func Init(cfg *config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err = db.AutoMigrate(
		&user.User{},
		&category.Category{},
		&product.Product{},
		&order.Order{},
		&order.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate failed: %w", err)
	}
	return db, nil
}

// translate 将 gorm 错误归一到 apperr 分类，上层不再接触驱动错误码
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.ErrConflict
	default:
		return apperr.Storage(err)
	}
}
