package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type TenantGormRepository struct {
	db *gorm.DB
}

func NewTenantGormRepository(db *gorm.DB) *TenantGormRepository {
	return &TenantGormRepository{db: db}
}

func (r *TenantGormRepository) FindByID(ctx context.Context, tenantID int64) (model.Tenant, error) {
	var t model.Tenant
	err := r.db.WithContext(ctx).Where("id = ?", tenantID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Tenant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Tenant{}, err
	}
	return t, nil
}

func (r *TenantGormRepository) FindBySlug(ctx context.Context, slug string) (model.Tenant, error) {
	var t model.Tenant
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Tenant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Tenant{}, err
	}
	return t, nil
}

func (r *TenantGormRepository) UpdatePaymentCredentials(ctx context.Context, tenantID int64, keyID, encryptedSecret string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Tenant{}).
		Where("id = ?", tenantID).
		Updates(map[string]interface{}{
			"payment_key_id":           keyID,
			"payment_secret_encrypted": encryptedSecret,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
