package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"
)

type MovementHandler struct {
	uc   *usecase.MovementUsecase
	gate repo.AccessGate
}

func NewMovementHandler(uc *usecase.MovementUsecase, gate repo.AccessGate) *MovementHandler {
	return &MovementHandler{uc: uc, gate: gate}
}

type MovementCreateRequest struct {
	Type     string                 `json:"type"`
	Date     *time.Time             `json:"date,omitempty"`
	Outsider string                 `json:"outsider,omitempty"`
	Lines    []usecase.MovementLine `json:"lines"`
}

type MovementDateRequest struct {
	Date time.Time `json:"date"`
}

func (h *MovementHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/inventories/:id/inflows", h.createInflow)
	g.POST("/inventories/:id/outflows", h.createOutflow)
	g.GET("/inventories/:id/inflows", h.listInflows)
	g.GET("/inventories/:id/outflows", h.listOutflows)
	g.GET("/inflows/:id", h.getInflow)
	g.GET("/outflows/:id", h.getOutflow)
	g.PATCH("/inflows/:id/date", h.updateInflowDate)
	g.PATCH("/outflows/:id/date", h.updateOutflowDate)
}

func (h *MovementHandler) createInflow(c echo.Context) error {
	return h.create(c, model.MovementKindInflow)
}

func (h *MovementHandler) createOutflow(c echo.Context) error {
	return h.create(c, model.MovementKindOutflow)
}

func (h *MovementHandler) create(c echo.Context, kind model.MovementKind) error {
	profileID, ok := getProfileIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	inventoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid inventory id"})
	}

	role, err := h.gate.RoleForInventory(c.Request().Context(), inventoryID, profileID)
	if err != nil {
		return writeError(c, err)
	}
	if !roleIn(role, model.RoleAdministrator, model.RoleSupervisor) {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	}

	var req MovementCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.MovementInput{
		Kind:        kind,
		InventoryID: inventoryID,
		Outsider:    req.Outsider,
		Lines:       req.Lines,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}
	if kind == model.MovementKindInflow {
		in.InflowType = model.InflowType(req.Type)
	} else {
		in.OutflowType = model.OutflowType(req.Type)
	}

	id, err := h.uc.Create(c.Request().Context(), in, true)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (h *MovementHandler) getInflow(c echo.Context) error {
	return h.get(c, model.MovementKindInflow)
}

func (h *MovementHandler) getOutflow(c echo.Context) error {
	return h.get(c, model.MovementKindOutflow)
}

func (h *MovementHandler) get(c echo.Context, kind model.MovementKind) error {
	profileID, ok := getProfileIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	includeDetails := c.QueryParam("details") == "true"

	out, err := h.uc.Get(c.Request().Context(), kind, id, includeDetails)
	if err != nil {
		return writeError(c, err)
	}

	// the movement names its inventory, so the role check follows the load
	role, err := h.gate.RoleForInventory(c.Request().Context(), out.InventoryID, profileID)
	if err != nil {
		return writeError(c, err)
	}
	if role == model.RoleUndefined {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	return c.JSON(http.StatusOK, out)
}

func (h *MovementHandler) listInflows(c echo.Context) error {
	return h.list(c, model.MovementKindInflow)
}

func (h *MovementHandler) listOutflows(c echo.Context) error {
	return h.list(c, model.MovementKindOutflow)
}

func (h *MovementHandler) list(c echo.Context, kind model.MovementKind) error {
	profileID, ok := getProfileIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	inventoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid inventory id"})
	}

	role, err := h.gate.RoleForInventory(c.Request().Context(), inventoryID, profileID)
	if err != nil {
		return writeError(c, err)
	}
	if role == model.RoleUndefined {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	out, err := h.uc.List(c.Request().Context(), kind, inventoryID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MovementHandler) updateInflowDate(c echo.Context) error {
	return h.updateDate(c, model.MovementKindInflow)
}

func (h *MovementHandler) updateOutflowDate(c echo.Context) error {
	return h.updateDate(c, model.MovementKindOutflow)
}

func (h *MovementHandler) updateDate(c echo.Context, kind model.MovementKind) error {
	profileID, ok := getProfileIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Get(c.Request().Context(), kind, id, false)
	if err != nil {
		return writeError(c, err)
	}
	role, err := h.gate.RoleForInventory(c.Request().Context(), out.InventoryID, profileID)
	if err != nil {
		return writeError(c, err)
	}
	if !roleIn(role, model.RoleAdministrator, model.RoleSupervisor) {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	}

	var req MovementDateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateDate(c.Request().Context(), kind, id, req.Date); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
