package repository

import (
	"context"

	"app/internal/domain/model"
)

// AccessGate resolves the caller's role for an entity. The ledger only
// consumes the resulting Role; how membership is administered lives outside
// this module. A profile with no grant resolves to RoleUndefined, not an
// error.
type AccessGate interface {
	RoleForInventory(ctx context.Context, inventoryID int64, profileID int64) (model.Role, error)
	RoleForGroup(ctx context.Context, groupID int64, profileID int64) (model.Role, error)
}
