package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"
)

type Handlers struct {
	Movements *handler.MovementHandler
	Holds     *handler.HoldHandler
	Checkout  *handler.CheckoutHandler
	Webhook   *handler.WebhookHandler
}

func New(cfg config.Config, h Handlers, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h.Movements.RegisterRoutes(e, cfg)
	h.Holds.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e)
	h.Webhook.RegisterRoutes(e)

	return e
}
