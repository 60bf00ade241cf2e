package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type HoldRepository interface {
	Create(ctx context.Context, h model.Hold) (int64, error)
	FindByID(ctx context.Context, id int64) (model.Hold, error)
	ListByGroupID(ctx context.Context, groupID int64) ([]model.Hold, error)

	// Resolve moves a hold out of NONE into the given terminal status and
	// returns the resolved hold. A hold that is missing or already resolved
	// yields ErrNotFound so callers treat re-resolution as a no-op.
	Resolve(ctx context.Context, id int64, to model.HoldStatus) (model.Hold, error)
}

type HoldGroupRepository interface {
	Create(ctx context.Context, g model.HoldGroup) (int64, error)
	FindByID(ctx context.Context, id int64) (model.HoldGroup, error)

	// InventoryID resolves the inventory owning any member hold's product.
	InventoryID(ctx context.Context, groupID int64) (int64, error)

	// ListExpired returns groups past their expiration that still have at
	// least one NONE-status hold.
	ListExpired(ctx context.Context, before time.Time) ([]model.HoldGroup, error)
}
