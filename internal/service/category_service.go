package service

import (
	"context"
	"errors"

	"github.com/gosimple/slug"

	"github.com/example/techshop/internal/apperr"
	"github.com/example/techshop/internal/datamodels/category"
)

// CategoryService 分类的增删改查，slug 始终由名称派生
type CategoryService struct {
	repo category.Repository
}

func NewCategoryService(repo category.Repository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context) ([]*category.Category, error) {
	return s.repo.ListAll(ctx)
}

func (s *CategoryService) GetBySlug(ctx context.Context, sl string) (*category.Category, error) {
	return s.repo.GetBySlug(ctx, sl)
}

func (s *CategoryService) Create(ctx context.Context, name string) (*category.Category, error) {
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}
	c := &category.Category{
		Name: name,
		Slug: slug.Make(name),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Validation("category %q already exists", name)
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, name string) (*category.Category, error) {
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.Slug = slug.Make(name)
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Validation("category %q already exists", name)
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
