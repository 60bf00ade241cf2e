package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// MemberGormRepository backs the AccessGate contract with the members table.
type MemberGormRepository struct {
	db *gorm.DB
}

func NewMemberGormRepository(db *gorm.DB) *MemberGormRepository {
	return &MemberGormRepository{db: db}
}

func (r *MemberGormRepository) RoleForInventory(ctx context.Context, inventoryID int64, profileID int64) (model.Role, error) {
	var m model.Member
	err := r.db.WithContext(ctx).
		First(&m, "inventory_id = ? AND profile_id = ?", inventoryID, profileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RoleUndefined, nil
	}
	if err != nil {
		return model.RoleUndefined, err
	}
	return m.Role, nil
}

func (r *MemberGormRepository) RoleForGroup(ctx context.Context, groupID int64, profileID int64) (model.Role, error) {
	groups := NewHoldGroupGormRepository(r.db)
	inventoryID, err := groups.InventoryID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.RoleUndefined, repo.ErrNotFound
		}
		return model.RoleUndefined, err
	}
	return r.RoleForInventory(ctx, inventoryID, profileID)
}
