package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /addressesのHTTP
type AddressHandler struct {
	uc *usecase.AddressUsecase
}

func NewAddressHandler(uc *usecase.AddressUsecase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

type AddressRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Line1     string `json:"line1"`
	IsDefault bool   `json:"is_default"`
}

func (h *AddressHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/addresses")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/default", h.setDefault)
}

func toAddressInput(req AddressRequest) usecase.AddressInput {
	return usecase.AddressInput{
		Name:      req.Name,
		Phone:     req.Phone,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		Line1:     req.Line1,
		IsDefault: req.IsDefault,
	}
}

func (h *AddressHandler) create(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	tenantID, ok := getTenantIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), tenantID, customerID, toAddressInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AddressHandler) list(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.List(c.Request().Context(), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AddressHandler) update(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Update(c.Request().Context(), customerID, id, toAddressInput(req)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *AddressHandler) delete(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), customerID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *AddressHandler) setDefault(c echo.Context) error {
	customerID, ok := getCustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.SetDefault(c.Request().Context(), customerID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}
