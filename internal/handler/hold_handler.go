package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"
)

type HoldHandler struct {
	uc   *usecase.HoldUsecase
	gate repo.AccessGate
}

func NewHoldHandler(uc *usecase.HoldUsecase, gate repo.AccessGate) *HoldHandler {
	return &HoldHandler{uc: uc, gate: gate}
}

func (h *HoldHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/hold-groups")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/:id/approve", h.approve)
	g.POST("/:id/return", h.returnGroup)
}

func (h *HoldHandler) approve(c echo.Context) error {
	return h.resolve(c, h.uc.ApproveGroup)
}

func (h *HoldHandler) returnGroup(c echo.Context) error {
	return h.resolve(c, h.uc.ReturnGroup)
}

func (h *HoldHandler) resolve(c echo.Context, fn func(ctx context.Context, groupID int64) error) error {
	profileID, ok := getProfileIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	groupID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	role, err := h.gate.RoleForGroup(c.Request().Context(), groupID, profileID)
	if err != nil {
		return writeError(c, err)
	}
	if !roleIn(role, model.RoleAdministrator, model.RoleSupervisor, model.RoleMember) {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	}

	if err := fn(c.Request().Context(), groupID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
