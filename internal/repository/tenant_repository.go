package repository

import (
	"context"

	"app/internal/domain/model"
)

type TenantRepository interface {
	FindByID(ctx context.Context, tenantID int64) (model.Tenant, error)
	FindBySlug(ctx context.Context, slug string) (model.Tenant, error)
	//暗号化済みsecretの保存（鍵ローテーション用）
	UpdatePaymentCredentials(ctx context.Context, tenantID int64, keyID, encryptedSecret string) error
}
