package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func newProductFixture(t *testing.T) (*fakeStore, *usecase.ProductUsecase) {
	t.Helper()

	s := newFakeStore()
	s.tenants[1] = model.Tenant{ID: 1, Name: "shop", Slug: "shop"}
	s.products[1] = model.Product{ID: 1, TenantID: 1, Name: "tea", Price: 100, Stock: 10, IsActive: true}

	uc := usecase.NewProductUsecase(s, &fakeProducts{s})
	return s, uc
}

func TestProduct_GetHidesInactiveAndForeign(t *testing.T) {
	s, uc := newProductFixture(t)
	ctx := context.Background()

	out, err := uc.Get(ctx, 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, "tea", out.Name)

	//非公開は存在しない扱い
	p := s.products[1]
	p.IsActive = false
	s.products[1] = p
	_, err = uc.Get(ctx, 1, 1)
	assertCode(t, err, "NOT_FOUND")

	//他テナントからも見えない
	p.IsActive = true
	s.products[1] = p
	_, err = uc.Get(ctx, 2, 1)
	assertCode(t, err, "NOT_FOUND")
}

func TestProduct_CreateValidation(t *testing.T) {
	_, uc := newProductFixture(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, 1, usecase.CreateProductInput{Name: "", Price: 100})
	assertCode(t, err, "VALIDATION")

	_, err = uc.Create(ctx, 1, usecase.CreateProductInput{Name: "x", Price: -1})
	assertCode(t, err, "VALIDATION")

	out, err := uc.Create(ctx, 1, usecase.CreateProductInput{Name: "coffee", Price: 300, Stock: 5})
	assert.NoError(t, err)
	assert.True(t, out.IsActive)
	assert.Equal(t, int64(300), out.Price)
}

func TestProduct_SetStockRecordsAdjustment(t *testing.T) {
	s, uc := newProductFixture(t)
	ctx := context.Background()

	err := uc.SetStock(ctx, 1, 1, usecase.SetStockInput{Stock: 4, Reason: "damaged units"})
	assert.NoError(t, err)
	assert.Equal(t, int64(4), s.products[1].Stock)

	//他テナントの商品在庫は触れない
	err = uc.SetStock(ctx, 2, 1, usecase.SetStockInput{Stock: 100})
	assertCode(t, err, "NOT_FOUND")
	assert.Equal(t, int64(4), s.products[1].Stock)

	//負の在庫は拒否
	err = uc.SetStock(ctx, 1, 1, usecase.SetStockInput{Stock: -1})
	assertCode(t, err, "VALIDATION")
}
