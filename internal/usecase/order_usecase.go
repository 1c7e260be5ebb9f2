package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// ポイント換算。10ポイント=1通貨単位の割引、10通貨単位の支払いで1ポイント付与
const (
	pointsPerCurrencyUnit = 10
	earnPerCurrencyUnits  = 10
)

// コミット後の通知。トランザクション内では呼ばない
type OrderEvents interface {
	OrderPlaced(ctx context.Context, orderID, tenantID, customerID, total int64)
	OrderStatus(ctx context.Context, orderID, tenantID, customerID int64, status string)
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	tenants   repo.TenantRepository
	customers repo.CustomerRepository
	addresses repo.AddressRepository
	shipping  ShippingPolicy
	events    OrderEvents
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	tenants repo.TenantRepository,
	customers repo.CustomerRepository,
	addresses repo.AddressRepository,
	shipping ShippingPolicy,
	events OrderEvents,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		tenants:   tenants,
		customers: customers,
		addresses: addresses,
		shipping:  shipping,
		events:    events,
	}
}

type PlaceOrderInput struct {
	AddressID      int64
	PaymentMode    string
	PointsToRedeem int64
	IdempotencyKey string
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID             int64             `json:"id"`
	CustomerID     int64             `json:"customer_id"`
	Status         string            `json:"status"`
	PaymentMode    string            `json:"payment_mode"`
	PaymentStatus  string            `json:"payment_status"`
	Subtotal       int64             `json:"subtotal"`
	Discount       int64             `json:"discount"`
	ShippingFee    int64             `json:"shipping_fee"`
	TotalAmount    int64             `json:"total_amount"`
	PointsRedeemed int64             `json:"points_redeemed"`
	CreatedAt      time.Time         `json:"created_at"`
	Items          []OrderItemOutput `json:"items"`
}

// 注文確定。カート→注文の変換、在庫減算、ポイント精算までを1トランザクションで行う。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, tenantID, customerID int64, in PlaceOrderInput) (OrderOutput, error) {
	if tenantID <= 0 || customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if in.AddressID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeInvalidAddress, "invalid address_id")
	}
	if in.PointsToRedeem < 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid points_to_redeem")
	}

	mode := model.PaymentMode(strings.ToUpper(strings.TrimSpace(in.PaymentMode)))
	if mode != model.PaymentModeCOD && mode != model.PaymentModeOnline {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid payment_mode")
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid idempotency_key")
	}

	//テナント（送料・ポイント設定のため）
	tenant, err := u.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	//顧客の存在確認
	cust, err := u.customers.FindByID(ctx, tenantID, customerID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, CodeCustomerNotFound, "customer not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	//住所の存在確認＋所有チェック。
	//address_idはクライアント入力なので、他人の住所を指されても必ずここで弾く
	addr, err := u.addresses.FindByID(ctx, in.AddressID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, CodeInvalidAddress, "address not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	if addr.CustomerID != customerID || addr.TenantID != tenantID {
		return OrderOutput{}, NewHTTPError(http.StatusForbidden, CodeInvalidAddress, "address does not belong to customer")
	}

	var out OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, customerID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			out = toOrderOutput(existing, items)
			return nil
		}

		//ACTIVEカート取得
		cart, err := r.Carts().FindActive(ctx, tenantID, customerID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, CodeEmptyCart, "cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, CodeEmptyCart, "cart is empty")
		}

		//明細の組み立て。単価は必ずproductsの現在価格（クライアント入力は信用しない）
		now := time.Now()
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		var subtotal int64 = 0

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid product")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			if !p.IsActive || p.TenantID != tenantID {
				return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid product")
			}

			//事前チェック。最終判定は後段の条件付きUPDATE
			if p.Stock < ci.Quantity {
				return NewHTTPError(http.StatusConflict, CodeInsufficientStock,
					fmt.Sprintf("not enough stock for %s", p.Name))
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           ci.ProductID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            ci.Quantity,
				CreatedAt:           now,
			})

			subtotal += p.Price * ci.Quantity
		}

		//ポイント利用の検証。残高→上限の順で弾く
		var discount int64 = 0
		if in.PointsToRedeem > 0 {
			if cust.LoyaltyPoints < in.PointsToRedeem {
				return NewHTTPError(http.StatusBadRequest, CodeInsufficientPoints, "not enough loyalty points")
			}

			discount = in.PointsToRedeem / pointsPerCurrencyUnit

			//割引は小計の50%まで
			if discount*2 > subtotal {
				return NewHTTPError(http.StatusBadRequest, CodeRedemptionExceedsCap,
					"points redemption is capped at 50% of order subtotal")
			}
		}

		shippingFee, err := u.shipping.Fee(ctx, tenant, subtotal)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "shipping policy error")
		}

		total := subtotal + shippingFee - discount
		if total < 0 {
			total = 0
		}

		providerOrderID := ""
		if mode == model.PaymentModeOnline {
			providerOrderID = "order_" + uuid.NewString()
		}

		// 注文作成。住所はスナップショットで持つ
		orderID, err := r.Orders().Create(ctx, model.Order{
			TenantID:        tenantID,
			CustomerID:      customerID,
			Subtotal:        subtotal,
			Discount:        discount,
			ShippingFee:     shippingFee,
			TotalAmount:     total,
			PointsRedeemed:  in.PointsToRedeem,
			PaymentMode:     mode,
			PaymentStatus:   model.PaymentStatusPending,
			Status:          model.OrderStatusPending,
			ShipName:        addr.Name,
			ShipPhone:       addr.Phone,
			ShipCity:        addr.City,
			ShipState:       addr.State,
			ShipPincode:     addr.Pincode,
			ShipLine1:       addr.Line1,
			ProviderOrderID: providerOrderID,
			IdempotencyKey:  key,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			//競合（同時に同じキーが入った等）はもう一回検索して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, customerID, key)
			if err2 == nil && found2 {
				items2, err3 := r.OrderItems().ListByOrderID(ctx, ex2.ID)
				if err3 != nil {
					return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
				}
				out = toOrderOutput(ex2, items2)
				return nil
			}
			return NewHTTPError(http.StatusInternalServerError, CodeOrderCreationFailed, "order creation failed")
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeOrderCreationFailed, "order creation failed")
		}

		//カート明細をクリア（カート自体は使い回す）
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		//在庫減算。条件付きUPDATEが最終判定：0件更新=確定時点で在庫切れ。
		//DB障害のときだけ注文は生かしてアウトボックスに積み、ワーカーが後で追いつかせる
		for _, it := range orderItems {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				if qErr := r.StockJobs().Enqueue(ctx, model.StockJob{
					ProductID: it.ProductID,
					Delta:     -it.Quantity,
					Reason:    fmt.Sprintf("order %d placement", orderID),
				}); qErr != nil {
					return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
				}
				continue
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, CodeInsufficientStock,
					fmt.Sprintf("not enough stock for %s", it.ProductNameSnapshot))
			}
		}

		//追跡ログ
		if err := r.Tracking().Append(ctx, model.OrderTracking{
			OrderID:   orderID,
			Status:    model.TrackingStatusCreated,
			Note:      "Order placed successfully",
			CreatedAt: now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		//ポイント精算。利用分の減算も条件付きUPDATEが最終判定
		oid := orderID
		if in.PointsToRedeem > 0 {
			ok, err := r.Customers().RedeemPointsIfEnough(ctx, customerID, in.PointsToRedeem)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, CodeInsufficientPoints, "not enough loyalty points")
			}
			if err := r.Loyalty().Append(ctx, model.LoyaltyTransaction{
				TenantID:   tenantID,
				CustomerID: customerID,
				OrderID:    &oid,
				Type:       model.LoyaltyTxRedeemed,
				Points:     in.PointsToRedeem,
				Note:       fmt.Sprintf("Redeemed on order %d", orderID),
				CreatedAt:  now,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
		}

		//付与は割引後の支払額に対して
		earned := total / earnPerCurrencyUnits
		if earned > 0 {
			if err := r.Loyalty().Append(ctx, model.LoyaltyTransaction{
				TenantID:   tenantID,
				CustomerID: customerID,
				OrderID:    &oid,
				Type:       model.LoyaltyTxEarned,
				Points:     earned,
				Note:       fmt.Sprintf("Earned on order %d", orderID),
				CreatedAt:  now,
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			if err := r.Customers().AddPoints(ctx, customerID, earned); err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
		}

		created := model.Order{
			ID:             orderID,
			TenantID:       tenantID,
			CustomerID:     customerID,
			Subtotal:       subtotal,
			Discount:       discount,
			ShippingFee:    shippingFee,
			TotalAmount:    total,
			PointsRedeemed: in.PointsToRedeem,
			PaymentMode:    mode,
			PaymentStatus:  model.PaymentStatusPending,
			Status:         model.OrderStatusPending,
			CreatedAt:      now,
		}
		out = toOrderOutput(created, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	if u.events != nil {
		u.events.OrderPlaced(ctx, out.ID, tenantID, customerID, out.TotalAmount)
	}
	return out, nil
}

type CancelOrderInput struct {
	Reason string
	Note   string
}

type CancelOrderOutput struct {
	//オンライン決済で支払い済みなら、外部での返金処理を促す
	RefundReminder bool `json:"refund_reminder"`
}

// キャンセル。終端（DELIVERED/CANCELLED）からは遷移不可。在庫は戻す。
func (u *OrderUsecase) CancelOrder(ctx context.Context, tenantID, orderID int64, in CancelOrderInput) (CancelOrderOutput, error) {
	if tenantID <= 0 {
		return CancelOrderOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if orderID <= 0 {
		return CancelOrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	tenant, err := u.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return CancelOrderOutput{}, NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	var (
		out        CancelOrderOutput
		customerID int64
	)

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		//他テナントの注文は「存在しない扱い」
		if o.TenantID != tenantID {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}

		// 終端ガード
		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusConflict, CodeInvalidTransition,
				fmt.Sprintf("cannot cancel order in %s state", o.Status))
		}

		now := time.Now()

		//在庫戻し。失敗はアウトボックスへ
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		for _, it := range items {
			if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
				if qErr := r.StockJobs().Enqueue(ctx, model.StockJob{
					ProductID: it.ProductID,
					Delta:     it.Quantity,
					Reason:    fmt.Sprintf("order %d cancellation", orderID),
				}); qErr != nil {
					return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
				}
			}
		}

		if err := r.Orders().Cancel(ctx, orderID, repo.CancelUpdate{
			Reason:      in.Reason,
			Note:        in.Note,
			CancelledAt: now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		trackingNote := "Order cancelled"
		if in.Reason != "" {
			trackingNote = "Order cancelled: " + in.Reason
		}

		//設定されていれば付与済みポイントを取り消す。
		//残高が足りない（既に使われた）場合は取り消さず、その旨を追跡ログに残す
		if tenant.ReversePointsOnCancel {
			earned, err := r.Loyalty().EarnedForOrder(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			if earned > 0 {
				ok, err := r.Customers().RedeemPointsIfEnough(ctx, o.CustomerID, earned)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
				}
				if ok {
					if err := r.Loyalty().Append(ctx, model.LoyaltyTransaction{
						TenantID:   tenantID,
						CustomerID: o.CustomerID,
						OrderID:    &orderID,
						Type:       model.LoyaltyTxRedeemed,
						Points:     earned,
						Note:       fmt.Sprintf("Reversal of points earned on order %d", orderID),
						CreatedAt:  now,
					}); err != nil {
						return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
					}
				} else {
					trackingNote += " (points reversal skipped: insufficient balance)"
				}
			}
		}

		if err := r.Tracking().Append(ctx, model.OrderTracking{
			OrderID:   orderID,
			Status:    model.TrackingStatusCancelled,
			Note:      trackingNote,
			CreatedAt: now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		out.RefundReminder = o.PaymentMode != model.PaymentModeCOD && o.PaymentStatus == model.PaymentStatusPaid
		customerID = o.CustomerID
		return nil
	})

	if err != nil {
		return CancelOrderOutput{}, err
	}

	if u.events != nil {
		u.events.OrderStatus(ctx, orderID, tenantID, customerID, string(model.OrderStatusCancelled))
	}
	return out, nil
}

// 配達完了。SHIPPED以外からは遷移不可。支払いステータスは触らない（CODは回収まで未払いのまま）。
func (u *OrderUsecase) MarkDelivered(ctx context.Context, tenantID, orderID int64) error {
	if tenantID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	var customerID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if o.TenantID != tenantID {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}
		customerID = o.CustomerID

		if o.Status != model.OrderStatusShipped {
			return NewHTTPError(http.StatusConflict, CodeInvalidTransition,
				"order must be Shipped to mark Delivered")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusDelivered); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		now := time.Now()

		//配達時付与。注文確定時に付与済みなら二重付与しない
		earned := o.TotalAmount / earnPerCurrencyUnits
		if earned > 0 {
			prev, err := r.Loyalty().EarnedForOrder(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			if prev == 0 {
				if err := r.Loyalty().Append(ctx, model.LoyaltyTransaction{
					TenantID:   tenantID,
					CustomerID: o.CustomerID,
					OrderID:    &orderID,
					Type:       model.LoyaltyTxEarned,
					Points:     earned,
					Note:       fmt.Sprintf("Earned on delivery of order %d", orderID),
					CreatedAt:  now,
				}); err != nil {
					return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
				}
				if err := r.Customers().AddPoints(ctx, o.CustomerID, earned); err != nil {
					return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
				}
			}
		}

		return r.Tracking().Append(ctx, model.OrderTracking{
			OrderID:   orderID,
			Status:    model.TrackingStatusDelivered,
			Note:      "Order delivered",
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}

	if u.events != nil {
		u.events.OrderStatus(ctx, orderID, tenantID, customerID, string(model.OrderStatusDelivered))
	}
	return nil
}

// CODの手動回収。支払いステータスのみ。配送ステータスは触らない。
func (u *OrderUsecase) MarkPaid(ctx context.Context, tenantID, orderID int64) error {
	if tenantID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if o.TenantID != tenantID {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}

		ok, err := r.Orders().MarkPaidIfPending(ctx, orderID, "")
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusConflict, CodeAlreadyPaid, "order is already paid")
		}

		return r.Tracking().Append(ctx, model.OrderTracking{
			OrderID:   orderID,
			Status:    model.TrackingStatusPaymentPaid,
			Note:      "Payment collected manually (COD)",
			CreatedAt: time.Now(),
		})
	})
}

// 配送ステータス更新。PENDING→CONFIRMED/SHIPPED、CONFIRMED→SHIPPEDのみ。
// DELIVEREDはMarkDelivered、CANCELLEDはCancelOrder経由でしか入れない。
func (u *OrderUsecase) UpdateFulfillmentStatus(ctx context.Context, tenantID, orderID int64, newStatus string) error {
	if tenantID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	target := model.OrderStatus(strings.ToUpper(strings.TrimSpace(newStatus)))
	switch target {
	case model.OrderStatusConfirmed, model.OrderStatusShipped:
		// OK
	default:
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid status")
	}

	var (
		customerID int64
		changed    bool
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		if o.TenantID != tenantID {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}
		customerID = o.CustomerID

		// すでに同じなら何もしない（200）
		if o.Status == target {
			return nil
		}

		allowed := (o.Status == model.OrderStatusPending) ||
			(o.Status == model.OrderStatusConfirmed && target == model.OrderStatusShipped)
		if !allowed {
			return NewHTTPError(http.StatusConflict, CodeInvalidTransition,
				fmt.Sprintf("cannot move order from %s to %s", o.Status, target))
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, target); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		if err := r.Tracking().Append(ctx, model.OrderTracking{
			OrderID:   orderID,
			Status:    model.TrackingStatusStatusChanged,
			Note:      fmt.Sprintf("Status changed from %s to %s", o.Status, target),
			CreatedAt: time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		changed = true
		return nil
	})
	if err != nil {
		return err
	}

	if changed && u.events != nil {
		u.events.OrderStatus(ctx, orderID, tenantID, customerID, string(target))
	}
	return nil
}

// 顧客自身の注文一覧
func (u *OrderUsecase) ListMyOrders(ctx context.Context, tenantID, customerID int64) ([]OrderOutput, error) {
	if tenantID <= 0 || customerID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByCustomerID(ctx, tenantID, customerID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

type OrderDetailOutput struct {
	OrderOutput
	Tracking []TrackingOutput `json:"tracking"`
}

type TrackingOutput struct {
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// 顧客自身の注文詳細（追跡ログ付き）
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, tenantID, customerID, orderID int64) (OrderDetailOutput, error) {
	if tenantID <= 0 || customerID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if orderID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid id")
	}

	var out OrderDetailOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		//他人の注文は「存在しない扱い」にする
		if o.TenantID != tenantID || o.CustomerID != customerID {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		tracking, err := r.Tracking().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		out.OrderOutput = toOrderOutput(o, items)
		out.Tracking = make([]TrackingOutput, 0, len(tracking))
		for _, t := range tracking {
			out.Tracking = append(out.Tracking, TrackingOutput{
				Status:    string(t.Status),
				Note:      t.Note,
				CreatedAt: t.CreatedAt,
			})
		}
		return nil
	})

	if err != nil {
		return OrderDetailOutput{}, err
	}
	return out, nil
}

// 店舗側の注文一覧
func (u *OrderUsecase) ListOwnerOrders(ctx context.Context, tenantID int64, f repo.OwnerOrderListFilter) ([]OrderOutput, error) {
	if tenantID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, CodeValidation, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListOwner(ctx, tenantID, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:             o.ID,
		CustomerID:     o.CustomerID,
		Status:         string(o.Status),
		PaymentMode:    string(o.PaymentMode),
		PaymentStatus:  string(o.PaymentStatus),
		Subtotal:       o.Subtotal,
		Discount:       o.Discount,
		ShippingFee:    o.ShippingFee,
		TotalAmount:    o.TotalAmount,
		PointsRedeemed: o.PointsRedeemed,
		CreatedAt:      o.CreatedAt,
		Items:          outItems,
	}
}
