package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type LoyaltyGormRepository struct {
	db *gorm.DB
}

func NewLoyaltyGormRepository(db *gorm.DB) *LoyaltyGormRepository {
	return &LoyaltyGormRepository{db: db}
}

// 台帳へ追記。pointsが正でない行は台帳に入れない
func (r *LoyaltyGormRepository) Append(ctx context.Context, tx model.LoyaltyTransaction) error {
	if tx.Points <= 0 {
		return errors.New("points must be positive")
	}
	if err := r.db.WithContext(ctx).Create(&tx).Error; err != nil {
		return err
	}
	return nil
}

func (r *LoyaltyGormRepository) ListByCustomer(ctx context.Context, tenantID, customerID int64) ([]model.LoyaltyTransaction, error) {
	var list []model.LoyaltyTransaction
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Order("id desc").
		Find(&list).Error
	if err != nil {
		return []model.LoyaltyTransaction{}, err
	}
	return list, nil
}

// sum(EARNED) - sum(REDEEMED)
func (r *LoyaltyGormRepository) SumByCustomer(ctx context.Context, tenantID, customerID int64) (int64, error) {
	var sum *int64
	err := r.db.WithContext(ctx).
		Model(&model.LoyaltyTransaction{}).
		Select("SUM(CASE WHEN type = ? THEN points ELSE -points END)", model.LoyaltyTxEarned).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

func (r *LoyaltyGormRepository) EarnedForOrder(ctx context.Context, orderID int64) (int64, error) {
	var sum *int64
	err := r.db.WithContext(ctx).
		Model(&model.LoyaltyTransaction{}).
		Select("SUM(points)").
		Where("order_id = ? AND type = ?", orderID, model.LoyaltyTxEarned).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
