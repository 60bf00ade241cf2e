package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicateReference signals a unique-constraint violation on an
	// order's external reference.
	ErrDuplicateReference = errors.New("duplicate reference")
)

// InsufficientStockError identifies the detail line whose decrement would
// drive stock below zero. Callers surface it per line instead of a generic
// failure.
type InsufficientStockError struct {
	ProductDetailID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product detail %d", e.ProductDetailID)
}
