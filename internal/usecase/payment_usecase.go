package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/secrets"
)

// 決済プロバイダからのコールバック検証。
// 署名が一致しない限り、注文には一切触れない。
type PaymentUsecase struct {
	tx      repo.TransactionManager
	tenants repo.TenantRepository
	box     *secrets.Box
	//プラットフォーム自身のサブスク課金コールバック検証用の鍵ペア
	platformKeyID  string
	platformSecret string
	events         OrderEvents
}

func NewPaymentUsecase(
	tx repo.TransactionManager,
	tenants repo.TenantRepository,
	box *secrets.Box,
	platformKeyID string,
	platformSecret string,
	events OrderEvents,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:             tx,
		tenants:        tenants,
		box:            box,
		platformKeyID:  platformKeyID,
		platformSecret: platformSecret,
		events:         events,
	}
}

type PaymentCallbackInput struct {
	KeyID             string `json:"key_id"`
	ProviderOrderID   string `json:"provider_order_id"`
	ProviderPaymentID string `json:"provider_payment_id"`
	Signature         string `json:"signature"`
}

// 署名対象は provider_order_id + "|" + provider_payment_id
func computeSignature(secret, providerOrderID, providerPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(providerOrderID + "|" + providerPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// テナント個別secretで検証するコールバック
func (u *PaymentUsecase) VerifyCallback(ctx context.Context, in PaymentCallbackInput) error {
	return u.verify(ctx, in, false)
}

// プラットフォーム共通secretで検証するコールバック
func (u *PaymentUsecase) VerifyPlatformCallback(ctx context.Context, in PaymentCallbackInput) error {
	return u.verify(ctx, in, true)
}

func (u *PaymentUsecase) verify(ctx context.Context, in PaymentCallbackInput, platform bool) error {
	in.KeyID = strings.TrimSpace(in.KeyID)
	in.ProviderOrderID = strings.TrimSpace(in.ProviderOrderID)
	in.ProviderPaymentID = strings.TrimSpace(in.ProviderPaymentID)
	in.Signature = strings.TrimSpace(in.Signature)

	if in.ProviderOrderID == "" || in.ProviderPaymentID == "" || in.Signature == "" {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "missing callback fields")
	}

	var (
		order    model.Order
		tenantID int64
	)

	//注文の逆引きと署名検証は状態変更の前に済ませる
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByProviderOrderID(ctx, in.ProviderOrderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, CodeNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		order = o
		tenantID = o.TenantID
		return nil
	})
	if err != nil {
		return err
	}

	keyID, secret, err := u.resolveSecret(ctx, tenantID, platform)
	if err != nil {
		return err
	}

	//鍵IDが登録済みなら、コールバック側のkey_idも一致を要求する
	if keyID != "" && in.KeyID != keyID {
		return NewHTTPError(http.StatusUnauthorized, CodeSignatureInvalid, "unknown key id")
	}

	expected := computeSignature(secret, in.ProviderOrderID, in.ProviderPaymentID)
	if !hmac.Equal([]byte(expected), []byte(in.Signature)) {
		//不一致なら何も書かずに弾く
		return NewHTTPError(http.StatusUnauthorized, CodeSignatureInvalid, "signature verification failed")
	}

	var (
		customerID int64
		confirmed  bool
	)

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//署名検証とこのトランザクションの間にキャンセルされている可能性があるので読み直す
		o, err := r.Orders().FindByID(ctx, order.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		customerID = o.CustomerID

		ok, err := r.Orders().MarkPaidIfPending(ctx, o.ID, in.ProviderPaymentID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
		}
		//既にPAIDならコールバックの再送。成功として返す
		if !ok {
			return nil
		}

		note := "Payment confirmed by provider"
		switch o.Status {
		case model.OrderStatusCancelled:
			//入金自体は事実として記録し、返金が必要な旨を追跡ログに残す
			note = "Payment received after cancellation; refund required"
		case model.OrderStatusPending:
			if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusConfirmed); err != nil {
				return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
			}
			confirmed = true
		}

		return r.Tracking().Append(ctx, model.OrderTracking{
			OrderID:   o.ID,
			Status:    model.TrackingStatusPaymentPaid,
			Note:      note,
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return err
	}

	if confirmed && u.events != nil {
		u.events.OrderStatus(ctx, order.ID, tenantID, customerID, string(model.OrderStatusConfirmed))
	}
	return nil
}

func (u *PaymentUsecase) resolveSecret(ctx context.Context, tenantID int64, platform bool) (string, string, error) {
	if platform {
		if u.platformSecret == "" {
			return "", "", NewHTTPError(http.StatusInternalServerError, CodeInternal, "platform payment secret is not configured")
		}
		return u.platformKeyID, u.platformSecret, nil
	}

	tenant, err := u.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return "", "", NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}

	//テナントの鍵が未登録なら検証不能として弾く。共通鍵への降格はしない
	if tenant.PaymentSecretEncrypted == "" {
		return "", "", NewHTTPError(http.StatusUnauthorized, CodeSignatureInvalid, "payment credentials are not registered")
	}

	secret, err := u.box.Decrypt(tenant.PaymentSecretEncrypted)
	if err != nil {
		return "", "", NewHTTPError(http.StatusInternalServerError, CodeInternal, "payment secret decryption failed")
	}
	return tenant.PaymentKeyID, secret, nil
}

// 店舗側のsecretローテーション。平文は保存しない
func (u *PaymentUsecase) RotateCredentials(ctx context.Context, tenantID int64, keyID, plainSecret string) error {
	if tenantID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, CodeValidation, "unauthorized")
	}
	keyID = strings.TrimSpace(keyID)
	if keyID == "" || plainSecret == "" {
		return NewHTTPError(http.StatusBadRequest, CodeValidation, "key_id and secret are required")
	}

	encrypted, err := u.box.Encrypt(plainSecret)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "encryption failed")
	}

	if err := u.tenants.UpdatePaymentCredentials(ctx, tenantID, keyID, encrypted); err != nil {
		return NewHTTPError(http.StatusInternalServerError, CodeInternal, "db error")
	}
	return nil
}
