package repository

import (
	"context"

	"app/internal/domain/model"
)

type StockJobRepository interface {
	Enqueue(ctx context.Context, job model.StockJob) error
	ListPending(ctx context.Context, limit int) ([]model.StockJob, error)
	MarkDone(ctx context.Context, jobID int64) error
	//attemptsを増やしてlast_errorを記録。maxAttempts到達でFAILED
	MarkRetry(ctx context.Context, jobID int64, lastError string, maxAttempts int) error
}
