package repository

import (
	"context"

	"gorm.io/gorm"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type StockGormRepository struct {
	db *gorm.DB
}

func NewStockGormRepository(db *gorm.DB) *StockGormRepository {
	return &StockGormRepository{db: db}
}

func (r *StockGormRepository) SetQuantity(ctx context.Context, productDetailID int64, quantity int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.ProductDetail{}).
		Where("id = ?", productDetailID).
		Update("quantity", quantity)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *StockGormRepository) Increase(ctx context.Context, productDetailID int64, quantity int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.ProductDetail{}).
		Where("id = ?", productDetailID).
		Update("quantity", gorm.Expr("quantity + ?", quantity))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *StockGormRepository) Decrease(ctx context.Context, productDetailID int64, quantity int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.ProductDetail{}).
		Where("id = ?", productDetailID).
		Update("quantity", gorm.Expr("quantity - ?", quantity))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Only the decrement is conditional; the arithmetic itself always runs as a
// single UPDATE so concurrent movements cannot lose updates.
func (r *StockGormRepository) DecreaseIfEnough(ctx context.Context, productDetailID int64, quantity int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ProductDetail{}).
		Where("id = ? AND quantity >= ?", productDetailID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}
