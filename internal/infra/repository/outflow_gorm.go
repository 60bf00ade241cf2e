package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type OutflowGormRepository struct {
	db *gorm.DB
}

func NewOutflowGormRepository(db *gorm.DB) *OutflowGormRepository {
	return &OutflowGormRepository{db: db}
}

func (r *OutflowGormRepository) Create(ctx context.Context, header model.Outflow) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&header).Error; err != nil {
		return 0, err
	}
	return header.ID, nil
}

func (r *OutflowGormRepository) CreateDetail(ctx context.Context, d model.OutflowDetail) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		return 0, err
	}
	return d.ID, nil
}

func (r *OutflowGormRepository) FindByID(ctx context.Context, id int64) (model.Outflow, error) {
	var m model.Outflow
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Outflow{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Outflow{}, err
	}
	return m, nil
}

func (r *OutflowGormRepository) ListDetails(ctx context.Context, outflowID int64) ([]model.OutflowDetail, error) {
	var ds []model.OutflowDetail
	err := r.db.WithContext(ctx).
		Where("outflow_id = ?", outflowID).
		Order("id ASC").
		Find(&ds).Error
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *OutflowGormRepository) CountDetails(ctx context.Context, outflowID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.OutflowDetail{}).
		Where("outflow_id = ?", outflowID).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *OutflowGormRepository) List(ctx context.Context, q repo.MovementListQuery) ([]model.Outflow, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.Outflow{}).
		Where("inventory_id = ?", q.InventoryID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []model.Outflow
	err := base.
		Order("date DESC, id DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&ms).Error
	if err != nil {
		return nil, 0, err
	}
	return ms, total, nil
}

func (r *OutflowGormRepository) UpdateDate(ctx context.Context, id int64, date time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Outflow{}).
		Where("id = ?", id).
		Update("date", date)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OutflowGormRepository) ListActiveByOrderID(ctx context.Context, orderID int64) ([]model.Outflow, error) {
	var ms []model.Outflow
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status <> ?", orderID, model.MovementReversed).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return ms, nil
}

// Guarded flip: repeated deliveries find zero affected rows and no-op.
func (r *OutflowGormRepository) MarkReversed(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Outflow{}).
		Where("id = ? AND status <> ?", id, model.MovementReversed).
		Update("status", model.MovementReversed)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OutflowGormRepository) HasByOrderID(ctx context.Context, orderID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Outflow{}).
		Where("order_id = ?", orderID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
