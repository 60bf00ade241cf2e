package repository

import (
	"context"

	"app/internal/domain/model"
)

type ProductDetailRepository interface {
	FindByID(ctx context.Context, id int64) (model.ProductDetail, error)
}
