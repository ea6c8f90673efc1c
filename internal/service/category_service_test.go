package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/techshop/internal/apperr"
	"github.com/example/techshop/internal/datamodels/category"
)

type fakeCategoryRepo struct {
	byID   map[int64]*category.Category
	bySlug map[string]int64
	nextID int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		byID:   make(map[int64]*category.Category),
		bySlug: make(map[string]int64),
		nextID: 1,
	}
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) GetBySlug(ctx context.Context, slug string) (*category.Category, error) {
	id, ok := r.bySlug[slug]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *fakeCategoryRepo) ListAll(ctx context.Context) ([]*category.Category, error) {
	var list []*category.Category
	for _, c := range r.byID {
		cp := *c
		list = append(list, &cp)
	}
	return list, nil
}

func (r *fakeCategoryRepo) Create(ctx context.Context, c *category.Category) error {
	if _, ok := r.bySlug[c.Slug]; ok {
		return apperr.ErrDuplicate
	}
	c.ID = r.nextID
	r.nextID++
	cp := *c
	r.byID[c.ID] = &cp
	r.bySlug[c.Slug] = c.ID
	return nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, c *category.Category) error {
	old, ok := r.byID[c.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	if id, exists := r.bySlug[c.Slug]; exists && id != c.ID {
		return apperr.ErrDuplicate
	}
	delete(r.bySlug, old.Slug)
	cp := *c
	r.byID[c.ID] = &cp
	r.bySlug[c.Slug] = c.ID
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id int64) error {
	c, ok := r.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	delete(r.bySlug, c.Slug)
	delete(r.byID, id)
	return nil
}

func TestCategorySlugDerivation(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		slug string
	}{
		{"Laptops", "laptops"},
		{"Gaming Mice", "gaming-mice"},
		{"Audio & Video", "audio-and-video"},
	}
	for _, tt := range tests {
		c, err := svc.Create(ctx, tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.slug, c.Slug)
	}
}

func TestCategoryDuplicateName(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "Laptops")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Laptops")
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestCategoryUpdateRenamesSlug(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)
	ctx := context.Background()

	c, err := svc.Create(ctx, "Laptops")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, "Notebooks")
	require.NoError(t, err)
	assert.Equal(t, "notebooks", updated.Slug)

	_, err = svc.GetBySlug(ctx, "laptops")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCategoryDeleteMissing(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())
	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
