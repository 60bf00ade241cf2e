package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type MovementListQuery struct {
	InventoryID int64
	Page        int
	Limit       int
}

type InflowRepository interface {
	Create(ctx context.Context, header model.Inflow) (int64, error)
	CreateDetail(ctx context.Context, d model.InflowDetail) (int64, error)
	FindByID(ctx context.Context, id int64) (model.Inflow, error)
	ListDetails(ctx context.Context, inflowID int64) ([]model.InflowDetail, error)
	CountDetails(ctx context.Context, inflowID int64) (int64, error)
	List(ctx context.Context, q MovementListQuery) ([]model.Inflow, int64, error)
	UpdateDate(ctx context.Context, id int64, date time.Time) error
}

type OutflowRepository interface {
	Create(ctx context.Context, header model.Outflow) (int64, error)
	CreateDetail(ctx context.Context, d model.OutflowDetail) (int64, error)
	FindByID(ctx context.Context, id int64) (model.Outflow, error)
	ListDetails(ctx context.Context, outflowID int64) ([]model.OutflowDetail, error)
	CountDetails(ctx context.Context, outflowID int64) (int64, error)
	List(ctx context.Context, q MovementListQuery) ([]model.Outflow, int64, error)
	UpdateDate(ctx context.Context, id int64, date time.Time) error

	// ListActiveByOrderID returns the order's outflows whose status is not
	// REVERSED yet.
	ListActiveByOrderID(ctx context.Context, orderID int64) ([]model.Outflow, error)

	// MarkReversed flips status to REVERSED, guarded by status <> REVERSED.
	// false means the row was already reversed (or missing).
	MarkReversed(ctx context.Context, id int64) (bool, error)

	// HasByOrderID reports whether any outflow exists for the order. This is
	// the Paid-webhook idempotency guard.
	HasByOrderID(ctx context.Context, orderID int64) (bool, error)
}
