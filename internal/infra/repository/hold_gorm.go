package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type HoldGormRepository struct {
	db *gorm.DB
}

func NewHoldGormRepository(db *gorm.DB) *HoldGormRepository {
	return &HoldGormRepository{db: db}
}

func (r *HoldGormRepository) Create(ctx context.Context, h model.Hold) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&h).Error; err != nil {
		return 0, err
	}
	return h.ID, nil
}

func (r *HoldGormRepository) FindByID(ctx context.Context, id int64) (model.Hold, error) {
	var h model.Hold
	err := r.db.WithContext(ctx).First(&h, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Hold{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Hold{}, err
	}
	return h, nil
}

func (r *HoldGormRepository) ListByGroupID(ctx context.Context, groupID int64) ([]model.Hold, error) {
	var hs []model.Hold
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("id ASC").
		Find(&hs).Error
	if err != nil {
		return nil, err
	}
	return hs, nil
}

// Resolve loads the hold filtered to NONE, then flips it with the same
// guard. An already-resolved hold reports ErrNotFound so callers cannot
// double-apply stock changes.
func (r *HoldGormRepository) Resolve(ctx context.Context, id int64, to model.HoldStatus) (model.Hold, error) {
	var h model.Hold
	err := r.db.WithContext(ctx).
		First(&h, "id = ? AND status = ?", id, model.HoldStatusNone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Hold{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Hold{}, err
	}

	res := r.db.WithContext(ctx).
		Model(&model.Hold{}).
		Where("id = ? AND status = ?", id, model.HoldStatusNone).
		Update("status", to)
	if res.Error != nil {
		return model.Hold{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.Hold{}, repo.ErrNotFound
	}

	h.Status = to
	return h, nil
}
