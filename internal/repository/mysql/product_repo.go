package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/techshop/internal/datamodels/product"
)

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ?", slug).
		First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// List 支持分类 slug 过滤、名称模糊搜索、排序与分页，返回当前页与总数
func (r *productRepo) List(ctx context.Context, f product.ListFilter) ([]*product.Product, int64, error) {
	f = f.Normalize()
	query := r.db.WithContext(ctx).Model(&product.Product{})

	if f.CategorySlug != "" {
		query = query.
			Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.Search != "" {
		query = query.Where("products.name LIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	switch f.Sort {
	case product.SortPriceAsc:
		query = query.Order("products.price ASC")
	case product.SortPriceDesc:
		query = query.Order("products.price DESC")
	default:
		query = query.Order("products.created_at DESC")
	}

	var list []*product.Product
	if err := query.
		Preload("Category").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&list).Error; err != nil {
		return nil, 0, translate(err)
	}
	return list, total, nil
}

func (r *productRepo) Create(ctx context.Context, p *product.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *productRepo) Update(ctx context.Context, p *product.Product) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&product.Product{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
