package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartRepository interface {
	GetOrCreateActive(ctx context.Context, tenantID, customerID int64) (model.Cart, error)
	FindActive(ctx context.Context, tenantID, customerID int64) (model.Cart, error)
	UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error
	//明細を全削除。カート行自体は残す
	Clear(ctx context.Context, cartID int64) error
}
