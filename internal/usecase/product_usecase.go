package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProductUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
}

func NewProductUsecase(tx repo.TransactionManager, products repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{tx: tx, products: products}
}

type ProductOutput struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Stock       int64     `json:"stock"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductListOutput struct {
	Items []ProductOutput `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// カタログ一覧（顧客向け・非公開商品も含めて返すのは店舗側のみ）
func (u *ProductUsecase) List(ctx context.Context, tenantID int64, page, limit int, q string) (ProductListOutput, error) {
	if tenantID <= 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := u.products.ListByTenant(ctx, tenantID, repo.ProductListFilter{
		Page:  page,
		Limit: limit,
		Q:     strings.TrimSpace(q),
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	out := ProductListOutput{
		Items: make([]ProductOutput, 0, len(items)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, p := range items {
		out.Items = append(out.Items, toProductOutput(p))
	}
	return out, nil
}

func (u *ProductUsecase) Get(ctx context.Context, tenantID, productID int64) (ProductOutput, error) {
	if tenantID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if p.TenantID != tenantID || !p.IsActive {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
	}
	return toProductOutput(p), nil
}

type CreateProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
}

// 店舗側：商品登録
func (u *ProductUsecase) Create(ctx context.Context, tenantID int64, in CreateProductInput) (ProductOutput, error) {
	if tenantID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || len(in.Name) > 255 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid name")
	}
	if in.Price < 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid price")
	}
	if in.Stock < 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid stock")
	}

	now := time.Now()
	p := model.Product{
		TenantID:    tenantID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := u.products.Create(ctx, p)
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	p.ID = id
	return toProductOutput(p), nil
}

type UpdateProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	IsActive    bool   `json:"is_active"`
}

// 店舗側：商品更新。在庫はここでは触らない（SetStock経由のみ）
func (u *ProductUsecase) Update(ctx context.Context, tenantID, productID int64, in UpdateProductInput) error {
	if tenantID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || len(in.Name) > 255 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid name")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid price")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if p.TenantID != tenantID {
		return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.IsActive = in.IsActive
	p.UpdatedAt = time.Now()

	if err := u.products.Update(ctx, p); err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}

type SetStockInput struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

// 店舗側：在庫の手動設定。履歴を同一トランザクションで残す
func (u *ProductUsecase) SetStock(ctx context.Context, tenantID, productID int64, in SetStockInput) error {
	if tenantID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid stock")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if p.TenantID != tenantID {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}

		if err := r.Inventory().SetStock(ctx, productID, in.Stock); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		reason := strings.TrimSpace(in.Reason)
		if reason == "" {
			reason = "manual stock adjustment"
		}

		return r.Inventory().CreateAdjustment(ctx, model.StockAdjustment{
			ProductID: productID,
			TenantID:  tenantID,
			Delta:     in.Stock - p.Stock,
			Reason:    reason,
			CreatedAt: time.Now(),
		})
	})
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}
