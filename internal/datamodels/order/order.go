package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/techshop/internal/datamodels/product"
)

// Status 订单状态
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ValidStatus 校验状态枚举值
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order 订单模型，总价由服务端计算，创建后不再变化
type Order struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	UserID      int64           `gorm:"index;not null" json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status      Status          `gorm:"size:32;index;not null;default:pending" json:"status"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItem 订单明细，price 为下单时刻的商品快照价，此后不可变
type OrderItem struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	OrderID   int64           `gorm:"index;not null" json:"order_id"`
	ProductID int64           `gorm:"index;not null" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// Tx 下单事务内可用的写操作，与商品台账共享同一个数据库事务
type Tx interface {
	Ledger() product.Ledger
	Create(ctx context.Context, o *Order) error
}

// Repository 订单仓储接口
type Repository interface {
	// Transact 打开一个事务执行 fn，fn 返回错误时整体回滚
	Transact(ctx context.Context, fn func(tx Tx) error) error
	GetByUser(ctx context.Context, userID, orderID int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status Status) (*Order, error)
}
