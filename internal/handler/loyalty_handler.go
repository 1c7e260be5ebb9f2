package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /loyaltyのHTTP
type LoyaltyHandler struct {
	uc *usecase.LoyaltyUsecase
}

func NewLoyaltyHandler(uc *usecase.LoyaltyUsecase) *LoyaltyHandler {
	return &LoyaltyHandler{uc: uc}
}

func (h *LoyaltyHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/loyalty")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("/balance", h.balance)
	g.GET("/transactions", h.transactions)

	//管理用：台帳からの残高再計算
	og := e.Group("/owner/loyalty")
	og.Use(middleware.AuthJWT(cfg))
	og.Use(middleware.OwnerRoleGuard())
	og.POST("/customers/:id/reconcile", h.reconcile)
}

func (h *LoyaltyHandler) balance(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	tenantID, ok := getTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Balance(c.Request().Context(), tenantID, customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoyaltyHandler) transactions(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	tenantID, ok := getTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Transactions(c.Request().Context(), tenantID, customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoyaltyHandler) reconcile(c echo.Context) error {
	tenantID, ok := getTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	customerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Reconcile(c.Request().Context(), tenantID, customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
