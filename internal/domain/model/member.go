package model

import "time"

type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleSupervisor    Role = "SUPERVISOR"
	RoleMember        Role = "MEMBER"
	RoleReader        Role = "READER"
	RoleGuest         Role = "GUEST"
	RoleUndefined     Role = "UNDEFINED"
)

// Member grants a profile a role on one inventory.
type Member struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	InventoryID int64     `gorm:"not null;index:idx_members_inventory_profile,unique" json:"inventory_id"`
	ProfileID   int64     `gorm:"not null;index:idx_members_inventory_profile,unique" json:"profile_id"`
	Role        Role      `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
