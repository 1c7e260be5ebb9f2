package usecase

import (
	"context"

	"app/internal/domain/model"
)

// 送料ポリシー。テナントごとに差し替えられるようにしておく。
// 元の仕様では送料の算出規則が確定していないため、固定額以外は実装しない。
type ShippingPolicy interface {
	Fee(ctx context.Context, tenant model.Tenant, subtotal int64) (int64, error)
}

// tenants.shipping_feeをそのまま使う固定額ポリシー
type TenantFlatFeePolicy struct{}

func NewTenantFlatFeePolicy() *TenantFlatFeePolicy {
	return &TenantFlatFeePolicy{}
}

func (p *TenantFlatFeePolicy) Fee(ctx context.Context, tenant model.Tenant, subtotal int64) (int64, error) {
	if tenant.ShippingFee < 0 {
		return 0, nil
	}
	return tenant.ShippingFee, nil
}
