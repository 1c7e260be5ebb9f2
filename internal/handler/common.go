package handler

import (
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// エラー応答。UIはcodeで分岐する
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Code: he.Code})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: usecase.CodeInternal})
}

func getCustomerIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxCustomerIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}

func getTenantIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxTenantIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}
