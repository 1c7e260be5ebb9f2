package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func newCartFixture(t *testing.T) (*fakeStore, *usecase.CartUsecase) {
	t.Helper()

	s := newFakeStore()
	s.tenants[1] = model.Tenant{ID: 1, Name: "shop", Slug: "shop"}
	s.customers[1] = model.Customer{ID: 1, TenantID: 1}
	s.products[1] = model.Product{ID: 1, TenantID: 1, Name: "tea", Price: 100, Stock: 10, IsActive: true}
	s.products[2] = model.Product{ID: 2, TenantID: 1, Name: "hidden", Price: 100, Stock: 10, IsActive: false}
	s.products[3] = model.Product{ID: 3, TenantID: 2, Name: "other-shop", Price: 100, Stock: 10, IsActive: true}

	uc := usecase.NewCartUsecase(&fakeCarts{s}, &fakeCarts{s}, &fakeProducts{s})
	return s, uc
}

func TestCart_AddAndGet(t *testing.T) {
	_, uc := newCartFixture(t)
	ctx := context.Background()

	err := uc.AddItem(ctx, 1, 1, usecase.AddCartItemInput{ProductID: 1, Quantity: 2})
	assert.NoError(t, err)

	//同じ商品の追加は数量加算
	err = uc.AddItem(ctx, 1, 1, usecase.AddCartItemInput{ProductID: 1, Quantity: 3})
	assert.NoError(t, err)

	out, err := uc.GetCart(ctx, 1, 1)
	assert.NoError(t, err)
	if assert.Len(t, out.Items, 1) {
		assert.Equal(t, int64(5), out.Items[0].Quantity)
		assert.Equal(t, int64(100), out.Items[0].UnitPrice)
	}
	assert.Equal(t, int64(500), out.Subtotal)
}

func TestCart_AddInactiveOrForeignProduct(t *testing.T) {
	_, uc := newCartFixture(t)
	ctx := context.Background()

	//非公開商品
	err := uc.AddItem(ctx, 1, 1, usecase.AddCartItemInput{ProductID: 2, Quantity: 1})
	assertCode(t, err, "NOT_FOUND")

	//他テナントの商品
	err = uc.AddItem(ctx, 1, 1, usecase.AddCartItemInput{ProductID: 3, Quantity: 1})
	assertCode(t, err, "NOT_FOUND")
}

func TestCart_UpdateQuantityOwnership(t *testing.T) {
	s, uc := newCartFixture(t)
	ctx := context.Background()

	assert.NoError(t, uc.AddItem(ctx, 1, 1, usecase.AddCartItemInput{ProductID: 1, Quantity: 2}))

	var itemID int64
	for id := range s.cartItems {
		itemID = id
	}

	//他の顧客からは触れない
	s.customers[2] = model.Customer{ID: 2, TenantID: 1}
	err := uc.UpdateItemQuantity(ctx, 2, itemID, 5)
	assertCode(t, err, "NOT_FOUND")

	//本人は変更できる
	assert.NoError(t, uc.UpdateItemQuantity(ctx, 1, itemID, 5))
	assert.Equal(t, int64(5), s.cartItems[itemID].Quantity)

	//数量0は削除
	assert.NoError(t, uc.UpdateItemQuantity(ctx, 1, itemID, 0))
	assert.Empty(t, s.cartItems)
}

func TestCart_RemoveItem(t *testing.T) {
	s, uc := newCartFixture(t)
	ctx := context.Background()

	assert.NoError(t, uc.AddItem(ctx, 1, 1, usecase.AddCartItemInput{ProductID: 1, Quantity: 1}))

	var itemID int64
	for id := range s.cartItems {
		itemID = id
	}

	assert.NoError(t, uc.RemoveItem(ctx, 1, itemID))
	assert.Empty(t, s.cartItems)
}
