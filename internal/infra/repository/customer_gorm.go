package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

func (r *CustomerGormRepository) FindByID(ctx context.Context, tenantID, customerID int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", customerID, tenantID).
		First(&c).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

// 残高が足りるときだけ引く。在庫のDecreaseStockIfEnoughと同じ条件付きUPDATE方式
func (r *CustomerGormRepository) RedeemPointsIfEnough(ctx context.Context, customerID int64, points int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ? AND loyalty_points >= ?", customerID, points).
		Update("loyalty_points", gorm.Expr("loyalty_points - ?", points))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 残高に加算。結果は0でクランプ
func (r *CustomerGormRepository) AddPoints(ctx context.Context, customerID int64, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", customerID).
		Update("loyalty_points", gorm.Expr("GREATEST(loyalty_points + ?, 0)", delta))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CustomerGormRepository) SetPoints(ctx context.Context, customerID int64, points int64) error {
	if points < 0 {
		points = 0
	}
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", customerID).
		Update("loyalty_points", points)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
