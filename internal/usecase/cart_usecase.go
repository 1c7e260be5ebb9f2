package usecase

import (
	"context"
	"net/http"
	"time"

	repo "app/internal/repository"
)

type CartUsecase struct {
	carts     repo.CartRepository
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
}

func NewCartUsecase(
	carts repo.CartRepository,
	cartItems repo.CartItemRepository,
	products repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		carts:     carts,
		cartItems: cartItems,
		products:  products,
	}
}

type CartItemOutput struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

type CartOutput struct {
	ID       int64            `json:"id"`
	Items    []CartItemOutput `json:"items"`
	Subtotal int64            `json:"subtotal"`
}

// ACTIVEカートの取得（なければ作る）
func (u *CartUsecase) GetCart(ctx context.Context, tenantID, customerID int64) (CartOutput, error) {
	if tenantID <= 0 || customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}

	cart, err := u.carts.GetOrCreateActive(ctx, tenantID, customerID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	items, err := u.cartItems.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	out := CartOutput{ID: cart.ID, Items: make([]CartItemOutput, 0, len(items))}
	for _, it := range items {
		name := ""
		//表示名は現在の商品マスタから。削除済みならスナップショットしか出せないので空のまま
		if p, err := u.products.FindByID(ctx, it.ProductID); err == nil {
			name = p.Name
		}
		out.Items = append(out.Items, CartItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      name,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
			CreatedAt: it.CreatedAt,
		})
		out.Subtotal += it.UnitPriceSnapshot * it.Quantity
	}
	return out, nil
}

type AddCartItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// カートへ追加。同じ商品は数量加算
func (u *CartUsecase) AddItem(ctx context.Context, tenantID, customerID int64, in AddCartItemInput) error {
	if tenantID <= 0 || customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if in.ProductID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid product_id")
	}
	if in.Quantity <= 0 || in.Quantity > 100 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid quantity")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	//他テナントの商品・非公開商品は入れられない
	if p.TenantID != tenantID || !p.IsActive {
		return NewHTTPError(http.StatusNotFound, CodeNotFound, "product not found")
	}

	cart, err := u.carts.GetOrCreateActive(ctx, tenantID, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	if err := u.cartItems.UpsertByCartAndProduct(ctx, cart.ID, in.ProductID, in.Quantity, p.Price); err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}

// 数量変更。0は削除扱い
func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, customerID, cartItemID, qty int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}
	if qty < 0 || qty > 100 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid quantity")
	}

	owned, err := u.cartItems.IsOwnedByCustomer(ctx, cartItemID, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
	}

	if qty == 0 {
		if err := u.cartItems.DeleteByID(ctx, cartItemID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		return nil
	}

	if err := u.cartItems.UpdateQuantity(ctx, cartItemID, qty); err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, customerID, cartItemID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	owned, err := u.cartItems.IsOwnedByCustomer(ctx, cartItemID, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
	}

	if err := u.cartItems.DeleteByID(ctx, cartItemID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}
