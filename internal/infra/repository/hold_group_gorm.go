package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type HoldGroupGormRepository struct {
	db *gorm.DB
}

func NewHoldGroupGormRepository(db *gorm.DB) *HoldGroupGormRepository {
	return &HoldGroupGormRepository{db: db}
}

func (r *HoldGroupGormRepository) Create(ctx context.Context, g model.HoldGroup) (int64, error) {
	g.Holds = nil
	if err := r.db.WithContext(ctx).Create(&g).Error; err != nil {
		return 0, err
	}
	return g.ID, nil
}

func (r *HoldGroupGormRepository) FindByID(ctx context.Context, id int64) (model.HoldGroup, error) {
	var g model.HoldGroup
	err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.HoldGroup{}, repo.ErrNotFound
	}
	if err != nil {
		return model.HoldGroup{}, err
	}
	return g, nil
}

func (r *HoldGroupGormRepository) InventoryID(ctx context.Context, groupID int64) (int64, error) {
	var inventoryID *int64
	err := r.db.WithContext(ctx).
		Table("holds").
		Select("products.inventory_id").
		Joins("JOIN product_details ON product_details.id = holds.product_detail_id").
		Joins("JOIN products ON products.id = product_details.product_id").
		Where("holds.group_id = ?", groupID).
		Limit(1).
		Scan(&inventoryID).Error
	if err != nil {
		return 0, err
	}
	if inventoryID == nil {
		return 0, repo.ErrNotFound
	}
	return *inventoryID, nil
}

func (r *HoldGroupGormRepository) ListExpired(ctx context.Context, before time.Time) ([]model.HoldGroup, error) {
	var gs []model.HoldGroup
	err := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Where("EXISTS (SELECT 1 FROM holds WHERE holds.group_id = hold_groups.id AND holds.status = ?)", model.HoldStatusNone).
		Order("expires_at ASC").
		Find(&gs).Error
	if err != nil {
		return nil, err
	}
	return gs, nil
}
