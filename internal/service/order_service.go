package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/techshop/internal/apperr"
	"github.com/example/techshop/internal/datamodels/order"
	"github.com/example/techshop/internal/infra/mq"
)

// LineRequest 下单请求中的单行：商品与数量，价格一律以服务端为准
type LineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// OrderCreatedEvent 下单成功后发布到 MQ 的事件
type OrderCreatedEvent struct {
	OrderID     int64  `json:"order_id"`
	UserID      int64  `json:"user_id"`
	TotalAmount string `json:"total_amount"`
}

// EventPublisher 事件发布接口，nil 实现时跳过发布
type EventPublisher interface {
	Publish(ctx context.Context, queue string, v interface{}) error
}

// OrderService 订单服务：原子下单事务 + 归属查询
type OrderService struct {
	repo   order.Repository
	events EventPublisher
}

// NewOrderService 创建订单服务，events 可为 nil（不发布事件）
func NewOrderService(repo order.Repository, events EventPublisher) *OrderService {
	return &OrderService{repo: repo, events: events}
}

// Create 原子下单。校验在开事务前完成；事务内逐行加锁读商品、
// 用当前目录价累加总额并写入明细快照价、插入订单与明细、扣减库存。
// 任一行失败整体回滚，外部永远看不到半份订单或半次扣减。
func (s *OrderService) Create(ctx context.Context, userID int64, lines []LineRequest) (*order.Order, error) {
	GetMonitor().RecordOrderRequest()

	if len(lines) == 0 {
		GetMonitor().RecordOrderRejected()
		return nil, apperr.Validation("order must contain at least one item")
	}
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			GetMonitor().RecordOrderRejected()
			return nil, apperr.Validation("quantity must be positive for product %d", ln.ProductID)
		}
	}

	var created *order.Order
	err := s.repo.Transact(ctx, func(tx order.Tx) error {
		ledger := tx.Ledger()

		total := decimal.Zero
		items := make([]order.OrderItem, 0, len(lines))
		for _, ln := range lines {
			p, err := ledger.Lookup(ctx, ln.ProductID)
			if err != nil {
				if errors.Is(err, apperr.ErrNotFound) {
					return &apperr.ProductNotFoundError{ProductID: ln.ProductID}
				}
				return err
			}
			if p.Stock < ln.Quantity {
				return &apperr.InsufficientStockError{ProductID: ln.ProductID}
			}
			// 快照价取本次加锁读到的目录价，绝不信任客户端传价
			total = total.Add(p.Price.Mul(decimal.NewFromInt(ln.Quantity)))
			items = append(items, order.OrderItem{
				ProductID: ln.ProductID,
				Quantity:  ln.Quantity,
				Price:     p.Price,
			})
		}

		o := &order.Order{
			UserID:      userID,
			TotalAmount: total,
			Status:      order.StatusPending,
			Items:       items,
		}
		if err := tx.Create(ctx, o); err != nil {
			return err
		}

		for _, ln := range lines {
			if err := ledger.DecrementStock(ctx, ln.ProductID, ln.Quantity); err != nil {
				return err
			}
		}

		created = o
		return nil
	})
	if err != nil {
		s.recordCreateFailure(err)
		return nil, err
	}

	GetMonitor().RecordOrderCreated()
	s.publishCreated(ctx, created)

	// 返回给调用方的订单不再展开明细
	result := *created
	result.Items = nil
	return &result, nil
}

func (s *OrderService) recordCreateFailure(err error) {
	var pnf *apperr.ProductNotFoundError
	var ins *apperr.InsufficientStockError
	if errors.As(err, &pnf) || errors.As(err, &ins) {
		GetMonitor().RecordOrderRejected()
		return
	}
	GetMonitor().RecordDBError()
}

// publishCreated 提交后尽力而为地发布事件，失败只记日志，不影响订单结果
func (s *OrderService) publishCreated(ctx context.Context, o *order.Order) {
	if s.events == nil {
		return
	}
	ev := OrderCreatedEvent{
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount.StringFixed(2),
	}
	if err := s.events.Publish(ctx, mq.OrderCreatedQueue, ev); err != nil {
		GetMonitor().RecordMQError()
		zap.L().Warn("failed to publish order created event",
			zap.Int64("order_id", o.ID), zap.Error(err))
	}
}

// List 查询用户的全部订单（含明细），按创建时间倒序
func (s *OrderService) List(ctx context.Context, userID int64) ([]*order.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get 查询单个订单，订单不存在或不属于该用户都返回 ErrNotFound
func (s *OrderService) Get(ctx context.Context, userID, orderID int64) (*order.Order, error) {
	return s.repo.GetByUser(ctx, userID, orderID)
}

// UpdateStatus 更新订单状态，非法枚举值在访问数据库前拒绝
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status order.Status) (*order.Order, error) {
	if !order.ValidStatus(status) {
		return nil, apperr.Validation("invalid order status %q", status)
	}
	return s.repo.UpdateStatus(ctx, orderID, status)
}
