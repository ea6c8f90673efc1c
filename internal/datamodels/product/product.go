package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/techshop/internal/datamodels/category"
)

// Product 商品模型，价格使用 decimal(10,2)，库存不允许为负
type Product struct {
	ID          int64              `gorm:"primaryKey" json:"id"`
	Name        string             `gorm:"size:128;not null" json:"name"`
	Slug        string             `gorm:"uniqueIndex;size:128;not null" json:"slug"`
	Brand       string             `gorm:"size:64" json:"brand"`
	Description string             `gorm:"size:1024" json:"description"`
	Price       decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int64              `gorm:"not null" json:"stock"`
	ImageURL    string             `gorm:"size:512" json:"image_url"`
	CategoryID  *int64             `gorm:"index" json:"category_id"`
	Category    *category.Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// 商品列表排序方式
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

// ListFilter 商品列表查询条件
type ListFilter struct {
	CategorySlug string
	Search       string
	Sort         string
	Page         int
	Limit        int
}

// Normalize 纠正非法的分页参数，调用方拿到的 Page/Limit 恒为正数
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	return f
}

// Repository 商品仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, f ListFilter) ([]*Product, int64, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}

// Ledger 商品台账：事务内读取价格/库存并扣减库存。
// Lookup 必须是加锁读（SELECT ... FOR UPDATE 语义），保证同一商品的
// 并发下单在库存校验上串行化；DecrementStock 额外带 stock >= qty 的
// 条件更新，库存永远不会被扣成负数。
type Ledger interface {
	Lookup(ctx context.Context, productID int64) (*Product, error)
	DecrementStock(ctx context.Context, productID, quantity int64) error
}
