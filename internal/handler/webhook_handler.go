package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	repo "app/internal/repository"
	"app/internal/usecase"
)

// WebhookHandler receives gateway notifications. The shared secret guards
// against spoofed deliveries; a wrong secret never reveals whether the
// reference exists.
type WebhookHandler struct {
	uc     *usecase.WebhookUsecase
	secret string
}

func NewWebhookHandler(uc *usecase.WebhookUsecase, secret string) *WebhookHandler {
	return &WebhookHandler{uc: uc, secret: secret}
}

func (h *WebhookHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhooks/payment", h.notify)
}

func (h *WebhookHandler) notify(c echo.Context) error {
	got := c.Request().Header.Get("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.NotificationInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.HandleNotification(c.Request().Context(), req); err != nil {
		// 404 tells the gateway the reference is not ours; everything else
		// should be retried
		if errors.Is(err, repo.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown reference"})
		}
		return writeError(c, err)
	}
	return c.NoContent(http.StatusOK)
}
