package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func newLoyaltyFixture(t *testing.T, balance int64, txs []model.LoyaltyTransaction) (*fakeStore, *usecase.LoyaltyUsecase) {
	t.Helper()

	s := newFakeStore()
	s.tenants[1] = model.Tenant{ID: 1, Name: "shop", Slug: "shop"}
	s.customers[1] = model.Customer{ID: 1, TenantID: 1, LoyaltyPoints: balance}
	s.loyalty = txs

	uc := usecase.NewLoyaltyUsecase(s, &fakeCustomers{s}, &fakeLoyalty{s})
	return s, uc
}

func TestLoyaltyBalance(t *testing.T) {
	_, uc := newLoyaltyFixture(t, 120, nil)

	out, err := uc.Balance(context.Background(), 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(120), out.Balance)

	_, err = uc.Balance(context.Background(), 1, 99)
	assertCode(t, err, "CUSTOMER_NOT_FOUND")
}

func TestLoyaltyTransactions(t *testing.T) {
	_, uc := newLoyaltyFixture(t, 30, []model.LoyaltyTransaction{
		{ID: 1, TenantID: 1, CustomerID: 1, Type: model.LoyaltyTxEarned, Points: 50},
		{ID: 2, TenantID: 1, CustomerID: 1, Type: model.LoyaltyTxRedeemed, Points: 20},
		//他テナントの行は混ざらない
		{ID: 3, TenantID: 2, CustomerID: 1, Type: model.LoyaltyTxEarned, Points: 999},
	})

	out, err := uc.Transactions(context.Background(), 1, 1)
	assert.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestLoyaltyReconcile(t *testing.T) {
	//残高キャッシュ（100）が台帳（50-20=30）とずれている状態
	s, uc := newLoyaltyFixture(t, 100, []model.LoyaltyTransaction{
		{ID: 1, TenantID: 1, CustomerID: 1, Type: model.LoyaltyTxEarned, Points: 50},
		{ID: 2, TenantID: 1, CustomerID: 1, Type: model.LoyaltyTxRedeemed, Points: 20},
	})

	out, err := uc.Reconcile(context.Background(), 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.Before)
	assert.Equal(t, int64(30), out.After)
	assert.Equal(t, int64(30), s.customers[1].LoyaltyPoints)
}

func TestLoyaltyReconcile_ClampsNegative(t *testing.T) {
	//台帳合計が負（データ異常）でも残高は0で止める
	s, uc := newLoyaltyFixture(t, 10, []model.LoyaltyTransaction{
		{ID: 1, TenantID: 1, CustomerID: 1, Type: model.LoyaltyTxRedeemed, Points: 40},
	})

	out, err := uc.Reconcile(context.Background(), 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), out.After)
	assert.Equal(t, int64(0), s.customers[1].LoyaltyPoints)
}
