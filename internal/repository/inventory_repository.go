package repository

import (
	"context"

	"app/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫の現在値を設定
	SetStock(ctx context.Context, productID int64, newStock int64) error

	// 在庫が足りるときだけ減算。減らせなければfalse
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセルなど）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	// 符号付き調整。結果は0でクランプ（ワーカーの再試行用）
	AdjustStock(ctx context.Context, productID int64, delta int64) error

	// 手動調整の履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.StockAdjustment) error
}
