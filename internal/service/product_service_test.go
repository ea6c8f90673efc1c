package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/techshop/internal/apperr"
	"github.com/example/techshop/internal/datamodels/product"
)

type fakeProductRepo struct {
	products map[int64]*product.Product
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int64]*product.Product), nextID: 1}
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*product.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeProductRepo) List(ctx context.Context, f product.ListFilter) ([]*product.Product, int64, error) {
	out := make([]*product.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error {
	for _, existing := range r.products {
		if existing.Slug == p.Slug {
			return apperr.ErrDuplicate
		}
	}
	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return apperr.ErrNotFound
	}
	for _, existing := range r.products {
		if existing.ID != p.ID && existing.Slug == p.Slug {
			return apperr.ErrDuplicate
		}
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func TestProductCreateValidation(t *testing.T) {
	svc := NewProductService(newFakeProductRepo())

	cases := []struct {
		name string
		in   ProductInput
	}{
		{"名称为空", ProductInput{Price: decimal.NewFromInt(1)}},
		{"价格为负", ProductInput{Name: "x", Price: decimal.NewFromInt(-1)}},
		{"库存为负", ProductInput{Name: "x", Price: decimal.NewFromInt(1), Stock: -1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), c.in)
			var ve *apperr.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestProductCreateDerivesSlug(t *testing.T) {
	svc := NewProductService(newFakeProductRepo())

	p, err := svc.Create(context.Background(), ProductInput{
		Name:  "Wireless Mouse Pro",
		Price: decimal.RequireFromString("29.99"),
		Stock: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "wireless-mouse-pro", p.Slug)

	got, err := svc.GetBySlug(context.Background(), "wireless-mouse-pro")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestProductCreateDuplicateName(t *testing.T) {
	svc := NewProductService(newFakeProductRepo())

	_, err := svc.Create(context.Background(), ProductInput{Name: "Keyboard", Price: decimal.NewFromInt(50)})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), ProductInput{Name: "Keyboard", Price: decimal.NewFromInt(60)})
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestProductPartialUpdate(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo)

	created, err := svc.Create(context.Background(), ProductInput{
		Name:  "Monitor",
		Brand: "Acme",
		Price: decimal.RequireFromString("199.00"),
		Stock: 5,
	})
	require.NoError(t, err)

	newStock := int64(8)
	updated, err := svc.Update(context.Background(), created.Slug, ProductUpdate{Stock: &newStock})
	require.NoError(t, err)

	// 仅库存变化，其余字段保持原值
	assert.Equal(t, int64(8), updated.Stock)
	assert.Equal(t, "Monitor", updated.Name)
	assert.Equal(t, "Acme", updated.Brand)
	assert.True(t, decimal.RequireFromString("199.00").Equal(updated.Price))
}

func TestProductUpdateRenamesSlug(t *testing.T) {
	svc := NewProductService(newFakeProductRepo())

	created, err := svc.Create(context.Background(), ProductInput{Name: "Old Name", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	name := "New Name"
	updated, err := svc.Update(context.Background(), created.Slug, ProductUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "new-name", updated.Slug)

	_, err = svc.GetBySlug(context.Background(), "old-name")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProductDeleteMissing(t *testing.T) {
	svc := NewProductService(newFakeProductRepo())
	err := svc.Delete(context.Background(), "no-such-product")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
