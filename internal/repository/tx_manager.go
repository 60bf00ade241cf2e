package repository

import "context"

// TxRepos is the set of repositories bound to one open transaction.
// Passing it down is the only way a nested call participates in the
// caller's transaction; there is no implicit sharing.
type TxRepos interface {
	Stock() StockRepository
	ProductDetails() ProductDetailRepository
	Inflows() InflowRepository
	Outflows() OutflowRepository
	Holds() HoldRepository
	HoldGroups() HoldGroupRepository
	Orders() OrderRepository
}

// TransactionManager hides begin/commit/rollback from the usecases.
// fn returning an error rolls back everything written through r.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
