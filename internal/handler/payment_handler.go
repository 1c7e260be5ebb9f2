package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 決済プロバイダからのコールバック。認証ヘッダは付かないので署名だけが門番。
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type PaymentCallbackRequest struct {
	KeyID             string `json:"key_id"`
	ProviderOrderID   string `json:"provider_order_id"`
	ProviderPaymentID string `json:"provider_payment_id"`
	Signature         string `json:"signature"`
}

type RotateCredentialsRequest struct {
	KeyID  string `json:"key_id"`
	Secret string `json:"secret"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	//公開エンドポイント（署名検証のみ）
	e.POST("/payments/callback", h.callback)
	e.POST("/billing/callback", h.platformCallback)

	//店舗側のsecretローテーション
	og := e.Group("/owner/payments")
	og.Use(middleware.AuthJWT(cfg))
	og.Use(middleware.OwnerRoleGuard())
	og.PUT("/credentials", h.rotateCredentials)
}

func (h *PaymentHandler) callback(c echo.Context) error {
	var req PaymentCallbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.VerifyCallback(c.Request().Context(), usecase.PaymentCallbackInput{
		KeyID:             req.KeyID,
		ProviderOrderID:   req.ProviderOrderID,
		ProviderPaymentID: req.ProviderPaymentID,
		Signature:         req.Signature,
	}); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusOK)
}

func (h *PaymentHandler) platformCallback(c echo.Context) error {
	var req PaymentCallbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.VerifyPlatformCallback(c.Request().Context(), usecase.PaymentCallbackInput{
		KeyID:             req.KeyID,
		ProviderOrderID:   req.ProviderOrderID,
		ProviderPaymentID: req.ProviderPaymentID,
		Signature:         req.Signature,
	}); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusOK)
}

func (h *PaymentHandler) rotateCredentials(c echo.Context) error {
	tenantID, ok := getTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req RotateCredentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.RotateCredentials(c.Request().Context(), tenantID, req.KeyID, req.Secret); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusOK)
}
