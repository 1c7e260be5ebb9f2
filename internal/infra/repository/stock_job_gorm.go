package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type StockJobGormRepository struct {
	db *gorm.DB
}

func NewStockJobGormRepository(db *gorm.DB) *StockJobGormRepository {
	return &StockJobGormRepository{db: db}
}

func (r *StockJobGormRepository) Enqueue(ctx context.Context, job model.StockJob) error {
	job.Status = model.StockJobPending
	if err := r.db.WithContext(ctx).Create(&job).Error; err != nil {
		return err
	}
	return nil
}

func (r *StockJobGormRepository) ListPending(ctx context.Context, limit int) ([]model.StockJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var jobs []model.StockJob
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StockJobPending).
		Order("id asc").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return []model.StockJob{}, err
	}
	return jobs, nil
}

func (r *StockJobGormRepository) MarkDone(ctx context.Context, jobID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.StockJob{}).
		Where("id = ?", jobID).
		Update("status", model.StockJobDone)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 試行回数を進める。上限に達したらFAILEDで打ち止め
func (r *StockJobGormRepository) MarkRetry(ctx context.Context, jobID int64, lastError string, maxAttempts int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job model.StockJob
		if err := tx.Where("id = ?", jobID).First(&job).Error; err != nil {
			return err
		}

		job.Attempts++
		job.LastError = lastError
		if job.Attempts >= maxAttempts {
			job.Status = model.StockJobFailed
		}

		return tx.Model(&model.StockJob{}).
			Where("id = ?", jobID).
			Updates(map[string]interface{}{
				"attempts":   job.Attempts,
				"last_error": job.LastError,
				"status":     job.Status,
			}).Error
	})
}
