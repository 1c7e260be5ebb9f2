package repository

import (
	"context"

	"app/internal/domain/model"
)

// 注文追跡ログ。追記のみ。
type TrackingRepository interface {
	Append(ctx context.Context, t model.OrderTracking) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderTracking, error)
}
