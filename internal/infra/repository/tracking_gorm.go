package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type TrackingGormRepository struct {
	db *gorm.DB
}

func NewTrackingGormRepository(db *gorm.DB) *TrackingGormRepository {
	return &TrackingGormRepository{db: db}
}

func (r *TrackingGormRepository) Append(ctx context.Context, t model.OrderTracking) error {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return err
	}
	return nil
}

func (r *TrackingGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderTracking, error) {
	var list []model.OrderTracking
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&list).Error
	if err != nil {
		return []model.OrderTracking{}, err
	}
	return list, nil
}
