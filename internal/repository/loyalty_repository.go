package repository

import (
	"context"

	"app/internal/domain/model"
)

// ポイント台帳。追記のみで更新・削除のメソッドは持たせない。
type LoyaltyRepository interface {
	Append(ctx context.Context, tx model.LoyaltyTransaction) error
	ListByCustomer(ctx context.Context, tenantID, customerID int64) ([]model.LoyaltyTransaction, error)
	//sum(EARNED) - sum(REDEEMED)
	SumByCustomer(ctx context.Context, tenantID, customerID int64) (int64, error)
	//その注文で付与済みのEARNEDポイント合計（配達時の二重付与ガード、キャンセル時の取り消し額）
	EarnedForOrder(ctx context.Context, orderID int64) (int64, error)
}
