package server

import (
	"net/http"

	"app/internal/config"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Order.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Payment.RegisterRoutes(e, cfg)
	h.Loyalty.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e, cfg)
	h.Address.RegisterRoutes(e, cfg)
}
