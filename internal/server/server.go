package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Order   *handler.OrderHandler
	Cart    *handler.CartHandler
	Payment *handler.PaymentHandler
	Loyalty *handler.LoyaltyHandler
	Product *handler.ProductHandler
	Address *handler.AddressHandler
}

func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	registerRoutes(e, cfg, h)
	return e
}

func Start(e *echo.Echo, cfg config.Config) error {
	return e.Start(":" + cfg.Port)
}
