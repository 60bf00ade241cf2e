package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProductDetailGormRepository struct {
	db *gorm.DB
}

func NewProductDetailGormRepository(db *gorm.DB) *ProductDetailGormRepository {
	return &ProductDetailGormRepository{db: db}
}

func (r *ProductDetailGormRepository) FindByID(ctx context.Context, id int64) (model.ProductDetail, error) {
	var d model.ProductDetail
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductDetail{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductDetail{}, err
	}
	return d, nil
}
