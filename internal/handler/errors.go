package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"app/internal/domain/model"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"
)

type ErrorResponse struct {
	Error   string                `json:"error"`
	Details []usecase.ErrorDetail `json:"details,omitempty"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var ise *repo.InsufficientStockError
	if errors.As(err, &ise) {
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error: "insufficient stock",
			Details: []usecase.ErrorDetail{{
				Field:   "product_detail_id",
				Message: ise.Error(),
			}},
		})
	}

	if errors.Is(err, repo.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Details: he.Details})
	}

	// opaque on purpose: storage details never leak to clients
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getProfileIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxProfileIDKey)
	id, ok := v.(int64)
	return id, ok
}

func roleIn(role model.Role, allowed ...model.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
