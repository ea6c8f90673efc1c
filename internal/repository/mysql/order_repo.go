package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/techshop/internal/apperr"
	"github.com/example/techshop/internal/datamodels/order"
	"github.com/example/techshop/internal/datamodels/product"
)

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepo{db: db}
}

// Transact 在单个数据库事务内执行 fn，fn 返回错误即整体回滚。
// 事务独占一个连接，gorm 在提交/回滚后无条件归还连接池。
func (r *orderRepo) Transact(ctx context.Context, fn func(tx order.Tx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&orderTx{tx: tx})
	})
}

func (r *orderRepo) GetByUser(ctx context.Context, userID, orderID int64) (*order.Order, error) {
	var o order.Order
	// 归属条件直接写进查询谓词，不泄露他人订单的存在性
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID int64) ([]*order.Order, error) {
	var list []*order.Order
	// id 作为第二排序键，同一秒创建的订单也有稳定顺序
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, orderID int64, status order.Status) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&o, orderID).Error; err != nil {
			return translate(err)
		}
		// Model 直接挂在 o 上，更新后的 status/updated_at 回写到返回值
		return translate(tx.Model(&o).Update("status", status).Error)
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// orderTx 一次下单事务，台账与订单写入共享同一个 *gorm.DB 事务句柄
type orderTx struct {
	tx *gorm.DB
}

func (t *orderTx) Ledger() product.Ledger {
	return &ledger{tx: t.tx}
}

// Create 插入订单行及其全部明细行（gorm 关联写入，同一事务）
func (t *orderTx) Create(ctx context.Context, o *order.Order) error {
	return translate(t.tx.WithContext(ctx).Create(o).Error)
}

// ledger 商品台账的 MySQL 实现。扣减策略（见 product.Ledger）：
// Lookup 用 SELECT ... FOR UPDATE 锁行并预检库存，DecrementStock 再带
// stock >= quantity 守卫做条件更新，两道防线保证并发下单不会超卖。
type ledger struct {
	tx *gorm.DB
}

func (l *ledger) Lookup(ctx context.Context, productID int64) (*product.Product, error) {
	var p product.Product
	if err := l.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, productID).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (l *ledger) DecrementStock(ctx context.Context, productID, quantity int64) error {
	res := l.tx.WithContext(ctx).
		Model(&product.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperr.InsufficientStockError{ProductID: productID}
	}
	return nil
}
