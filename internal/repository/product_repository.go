package repository

import (
	"context"

	"app/internal/domain/model"
)

type ProductListFilter struct {
	Page  int
	Limit int
	Q     string
}

type ProductRepository interface {
	FindByID(ctx context.Context, productID int64) (model.Product, error)
	ListByTenant(ctx context.Context, tenantID int64, f ProductListFilter) ([]model.Product, int64, error)
	Create(ctx context.Context, product model.Product) (int64, error)
	Update(ctx context.Context, product model.Product) error
}
