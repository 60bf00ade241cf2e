package repository

import (
	"context"

	"gorm.io/gorm"

	repo "app/internal/repository"
)

type txReposGorm struct {
	stock      repo.StockRepository
	details    repo.ProductDetailRepository
	inflows    repo.InflowRepository
	outflows   repo.OutflowRepository
	holds      repo.HoldRepository
	holdGroups repo.HoldGroupRepository
	orders     repo.OrderRepository
}

func (r *txReposGorm) Stock() repo.StockRepository                  { return r.stock }
func (r *txReposGorm) ProductDetails() repo.ProductDetailRepository { return r.details }
func (r *txReposGorm) Inflows() repo.InflowRepository               { return r.inflows }
func (r *txReposGorm) Outflows() repo.OutflowRepository             { return r.outflows }
func (r *txReposGorm) Holds() repo.HoldRepository                   { return r.holds }
func (r *txReposGorm) HoldGroups() repo.HoldGroupRepository         { return r.holdGroups }
func (r *txReposGorm) Orders() repo.OrderRepository                 { return r.orders }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// every repo is rebuilt on the transactional handle
		r := &txReposGorm{
			stock:      NewStockGormRepository(tx),
			details:    NewProductDetailGormRepository(tx),
			inflows:    NewInflowGormRepository(tx),
			outflows:   NewOutflowGormRepository(tx),
			holds:      NewHoldGormRepository(tx),
			holdGroups: NewHoldGroupGormRepository(tx),
			orders:     NewOrderGormRepository(tx),
		}
		return fn(r)
	})
}
