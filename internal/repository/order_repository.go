package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type OwnerOrderListFilter struct {
	Page       int
	Limit      int
	Status     string
	CustomerID *int64
	From       *time.Time
	To         *time.Time
}

// 注文のキャンセル確定に必要な更新のまとまり
type CancelUpdate struct {
	Reason      string
	Note        string
	CancelledAt time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByCustomerID(ctx context.Context, tenantID, customerID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	//PENDING→PAIDのみ。既にPAIDなら0件更新でfalse
	MarkPaidIfPending(ctx context.Context, orderID int64, providerPaymentID string) (bool, error)
	Cancel(ctx context.Context, orderID int64, upd CancelUpdate) error

	//同じキーなら同じ注文を返す（at-most-once）
	FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.Order, bool, error)
	//決済プロバイダの注文IDから逆引き（コールバック処理用）
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (model.Order, error)
	//店舗側の注文一覧
	ListOwner(ctx context.Context, tenantID int64, f OwnerOrderListFilter) ([]model.Order, int64, error)
}
