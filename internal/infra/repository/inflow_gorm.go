package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type InflowGormRepository struct {
	db *gorm.DB
}

func NewInflowGormRepository(db *gorm.DB) *InflowGormRepository {
	return &InflowGormRepository{db: db}
}

func (r *InflowGormRepository) Create(ctx context.Context, header model.Inflow) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&header).Error; err != nil {
		return 0, err
	}
	return header.ID, nil
}

func (r *InflowGormRepository) CreateDetail(ctx context.Context, d model.InflowDetail) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		return 0, err
	}
	return d.ID, nil
}

func (r *InflowGormRepository) FindByID(ctx context.Context, id int64) (model.Inflow, error) {
	var m model.Inflow
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Inflow{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Inflow{}, err
	}
	return m, nil
}

func (r *InflowGormRepository) ListDetails(ctx context.Context, inflowID int64) ([]model.InflowDetail, error) {
	var ds []model.InflowDetail
	err := r.db.WithContext(ctx).
		Where("inflow_id = ?", inflowID).
		Order("id ASC").
		Find(&ds).Error
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *InflowGormRepository) CountDetails(ctx context.Context, inflowID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.InflowDetail{}).
		Where("inflow_id = ?", inflowID).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *InflowGormRepository) List(ctx context.Context, q repo.MovementListQuery) ([]model.Inflow, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.Inflow{}).
		Where("inventory_id = ?", q.InventoryID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []model.Inflow
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

func (r *InflowGormRepository) UpdateDate(ctx context.Context, id int64, date time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Inflow{}).
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
