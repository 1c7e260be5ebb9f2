package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func newAddressFixture(t *testing.T) (*fakeStore, *usecase.AddressUsecase) {
	t.Helper()

	s := newFakeStore()
	s.customers[1] = model.Customer{ID: 1, TenantID: 1}
	s.customers[2] = model.Customer{ID: 2, TenantID: 1}

	uc := usecase.NewAddressUsecase(&fakeAddresses{s})
	return s, uc
}

func validAddress() usecase.AddressInput {
	return usecase.AddressInput{
		Name:    "taro",
		Phone:   "090-0000-0000",
		City:    "Shibuya",
		State:   "Tokyo",
		Pincode: "150-0001",
		Line1:   "1-2-3",
	}
}

func TestAddress_CreateAndList(t *testing.T) {
	_, uc := newAddressFixture(t)
	ctx := context.Background()

	out, err := uc.Create(ctx, 1, 1, validAddress())
	assert.NoError(t, err)
	assert.NotZero(t, out.ID)

	list, err := uc.List(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	//他の顧客には見えない
	list, err = uc.List(ctx, 2)
	assert.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddress_CreateValidation(t *testing.T) {
	_, uc := newAddressFixture(t)
	ctx := context.Background()

	in := validAddress()
	in.Line1 = ""
	_, err := uc.Create(ctx, 1, 1, in)
	assertCode(t, err, "VALIDATION")

	in = validAddress()
	in.Pincode = ""
	_, err = uc.Create(ctx, 1, 1, in)
	assertCode(t, err, "VALIDATION")
}

func TestAddress_UpdateOwnership(t *testing.T) {
	s, uc := newAddressFixture(t)
	ctx := context.Background()

	out, err := uc.Create(ctx, 1, 1, validAddress())
	assert.NoError(t, err)

	//他人の住所は存在しない扱い
	in := validAddress()
	in.City = "Osaka"
	err = uc.Update(ctx, 2, out.ID, in)
	assertCode(t, err, "NOT_FOUND")

	//本人は更新できる
	err = uc.Update(ctx, 1, out.ID, in)
	assert.NoError(t, err)
	assert.Equal(t, "Osaka", s.addresses[out.ID].City)
}

func TestAddress_DeleteOwnership(t *testing.T) {
	s, uc := newAddressFixture(t)
	ctx := context.Background()

	out, err := uc.Create(ctx, 1, 1, validAddress())
	assert.NoError(t, err)

	err = uc.Delete(ctx, 2, out.ID)
	assertCode(t, err, "NOT_FOUND")
	assert.Len(t, s.addresses, 1)

	assert.NoError(t, uc.Delete(ctx, 1, out.ID))
	assert.Empty(t, s.addresses)
}

func TestAddress_SetDefaultSwitches(t *testing.T) {
	s, uc := newAddressFixture(t)
	ctx := context.Background()

	in1 := validAddress()
	in1.IsDefault = true
	a1, err := uc.Create(ctx, 1, 1, in1)
	assert.NoError(t, err)

	a2, err := uc.Create(ctx, 1, 1, validAddress())
	assert.NoError(t, err)

	assert.NoError(t, uc.SetDefault(ctx, 1, a2.ID))
	assert.False(t, s.addresses[a1.ID].IsDefault)
	assert.True(t, s.addresses[a2.ID].IsDefault)
}
