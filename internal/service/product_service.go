package service

import (
	"context"
	"errors"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/example/techshop/internal/apperr"
	"github.com/example/techshop/internal/datamodels/product"
)

// ProductInput 创建商品入参
type ProductInput struct {
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	ImageURL    string          `json:"image_url"`
	CategoryID  *int64          `json:"category_id"`
}

// ProductUpdate 更新商品入参，nil 字段保持原值
type ProductUpdate struct {
	Name        *string          `json:"name"`
	Brand       *string          `json:"brand"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int64           `json:"stock"`
	ImageURL    *string          `json:"image_url"`
	CategoryID  *int64           `json:"category_id"`
}

// ProductService 商品目录管理与查询
type ProductService struct {
	repo product.Repository
}

func NewProductService(repo product.Repository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) List(ctx context.Context, f product.ListFilter) ([]*product.Product, int64, error) {
	return s.repo.List(ctx, f)
}

func (s *ProductService) GetBySlug(ctx context.Context, sl string) (*product.Product, error) {
	return s.repo.GetBySlug(ctx, sl)
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*product.Product, error) {
	if in.Name == "" {
		return nil, apperr.Validation("product name is required")
	}
	if in.Price.IsNegative() {
		return nil, apperr.Validation("price must not be negative")
	}
	if in.Stock < 0 {
		return nil, apperr.Validation("stock must not be negative")
	}

	p := &product.Product{
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Brand:       in.Brand,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Validation("a product with this name already exists")
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, sl string, in ProductUpdate) (*product.Product, error) {
	p, err := s.repo.GetBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.Validation("product name is required")
		}
		p.Name = *in.Name
		p.Slug = slug.Make(*in.Name)
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, apperr.Validation("price must not be negative")
		}
		p.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, apperr.Validation("stock must not be negative")
		}
		p.Stock = *in.Stock
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.CategoryID != nil {
		p.CategoryID = in.CategoryID
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Validation("a product with this name already exists")
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, sl string) error {
	p, err := s.repo.GetBySlug(ctx, sl)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, p.ID)
}
