package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	// Create returns ErrDuplicateReference when the external reference is
	// already taken.
	Create(ctx context.Context, o model.Order) (int64, error)
	FindByID(ctx context.Context, id int64) (model.Order, error)
	ListByExternalRef(ctx context.Context, ref string) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}
