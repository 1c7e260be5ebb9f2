package worker

import (
	"context"
	"time"

	repo "app/internal/repository"

	"github.com/labstack/gommon/log"
)

// 在庫調整のアウトボックスを掃くワーカー。
// 注文確定/キャンセル時にDB障害で在庫を動かせなかった分を後追いで適用する。
type StockWorker struct {
	jobs      repo.StockJobRepository
	inventory repo.InventoryRepository

	interval    time.Duration
	maxAttempts int
	batchSize   int

	logger *log.Logger
}

func NewStockWorker(
	jobs repo.StockJobRepository,
	inventory repo.InventoryRepository,
	interval time.Duration,
	maxAttempts int,
) *StockWorker {
	logger := log.New("stock-worker")
	logger.SetHeader("${time_rfc3339} ${prefix} ${level}")

	return &StockWorker{
		jobs:        jobs,
		inventory:   inventory,
		interval:    interval,
		maxAttempts: maxAttempts,
		batchSize:   100,
		logger:      logger,
	}
}

// ctxがキャンセルされるまでintervalごとに1バッチ処理する
func (w *StockWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Infof("started (interval=%s, max_attempts=%d)", w.interval, w.maxAttempts)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopped")
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				w.logger.Errorf("batch failed: %v", err)
			}
		}
	}
}

// 1バッチ分の処理。テストからも直接呼ぶ
func (w *StockWorker) RunOnce(ctx context.Context) error {
	pending, err := w.jobs.ListPending(ctx, w.batchSize)
	if err != nil {
		return err
	}

	for _, job := range pending {
		//deltaの適用。結果が負になる分は0でクランプされる
		if err := w.inventory.AdjustStock(ctx, job.ProductID, job.Delta); err != nil {
			w.logger.Warnf("job %d: adjust product %d by %d failed: %v", job.ID, job.ProductID, job.Delta, err)
			if err := w.jobs.MarkRetry(ctx, job.ID, err.Error(), w.maxAttempts); err != nil {
				return err
			}
			continue
		}

		if err := w.jobs.MarkDone(ctx, job.ID); err != nil {
			return err
		}
		w.logger.Infof("job %d: adjusted product %d by %d", job.ID, job.ProductID, job.Delta)
	}

	return nil
}
