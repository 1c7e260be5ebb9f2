package usecase

import (
	"context"
	"net/http"
	"time"

	repo "app/internal/repository"
)

type LoyaltyUsecase struct {
	tx        repo.TransactionManager
	customers repo.CustomerRepository
	loyalty   repo.LoyaltyRepository
}

func NewLoyaltyUsecase(
	tx repo.TransactionManager,
	customers repo.CustomerRepository,
	loyalty repo.LoyaltyRepository,
) *LoyaltyUsecase {
	return &LoyaltyUsecase{
		tx:        tx,
		customers: customers,
		loyalty:   loyalty,
	}
}

type LoyaltyTransactionOutput struct {
	ID        int64     `json:"id"`
	OrderID   *int64    `json:"order_id,omitempty"`
	Type      string    `json:"type"`
	Points    int64     `json:"points"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type LoyaltyBalanceOutput struct {
	Balance int64 `json:"balance"`
}

// 台帳の明細（新しい順）
func (u *LoyaltyUsecase) Transactions(ctx context.Context, tenantID, customerID int64) ([]LoyaltyTransactionOutput, error) {
	if tenantID <= 0 || customerID <= 0 {
		return []LoyaltyTransactionOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}

	list, err := u.loyalty.ListByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return []LoyaltyTransactionOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	outs := make([]LoyaltyTransactionOutput, 0, len(list))
	for _, t := range list {
		outs = append(outs, LoyaltyTransactionOutput{
			ID:        t.ID,
			OrderID:   t.OrderID,
			Type:      string(t.Type),
			Points:    t.Points,
			Note:      t.Note,
			CreatedAt: t.CreatedAt,
		})
	}
	return outs, nil
}

// 現在残高（customers.loyalty_pointsのキャッシュ値）
func (u *LoyaltyUsecase) Balance(ctx context.Context, tenantID, customerID int64) (LoyaltyBalanceOutput, error) {
	if tenantID <= 0 || customerID <= 0 {
		return LoyaltyBalanceOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}

	cust, err := u.customers.FindByID(ctx, tenantID, customerID)
	if err == repo.ErrNotFound {
		return LoyaltyBalanceOutput{}, NewHTTPError(http.StatusNotFound, CodeCustomerNotFound, "customer not found")
	}
	if err != nil {
		return LoyaltyBalanceOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	return LoyaltyBalanceOutput{Balance: cust.LoyaltyPoints}, nil
}

type ReconcileOutput struct {
	Before int64 `json:"before"`
	After  int64 `json:"after"`
}

// 台帳から残高を再計算してキャッシュ値を上書きする。
// 台帳が正、customers.loyalty_pointsは導出値という関係を保つための管理用操作。
func (u *LoyaltyUsecase) Reconcile(ctx context.Context, tenantID, customerID int64) (ReconcileOutput, error) {
	if tenantID <= 0 || customerID <= 0 {
		return ReconcileOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}

	var out ReconcileOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cust, err := r.Customers().FindByID(ctx, tenantID, customerID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeCustomerNotFound, "customer not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		sum, err := r.Loyalty().SumByCustomer(ctx, tenantID, customerID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if sum < 0 {
			sum = 0
		}

		if err := r.Customers().SetPoints(ctx, customerID, sum); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		out.Before = cust.LoyaltyPoints
		out.After = sum
		return nil
	})

	if err != nil {
		return ReconcileOutput{}, err
	}
	return out, nil
}
