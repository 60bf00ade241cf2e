package repository

import "context"

// StockRepository is the single mutation surface for product-detail
// quantities. Every implementation must apply the arithmetic as one atomic
// statement in the store, never as a read-modify-write in application code.
type StockRepository interface {
	// SetQuantity overwrites the quantity (CORRECTION inflows).
	SetQuantity(ctx context.Context, productDetailID int64, quantity int64) error

	// Increase adds quantity unconditionally.
	Increase(ctx context.Context, productDetailID int64, quantity int64) error

	// Decrease subtracts quantity without a floor check. Hold creation uses
	// this; the missing floor is a known gap carried from the original
	// design, not an oversight.
	Decrease(ctx context.Context, productDetailID int64, quantity int64) error

	// DecreaseIfEnough subtracts only when the remaining quantity stays
	// non-negative. false means the stock floor would be violated.
	DecreaseIfEnough(ctx context.Context, productDetailID int64, quantity int64) (bool, error)
}
