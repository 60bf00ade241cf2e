package model

import "time"

type HoldStatus string

const (
	HoldStatusNone     HoldStatus = "NONE"
	HoldStatusApproved HoldStatus = "APPROVED"
	HoldStatusReversed HoldStatus = "REVERSED"
)

// Hold reserves a quantity against one product detail. The stock decrement
// happens at creation time; NONE is the only mutable state and it is left
// exactly once.
type Hold struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductDetailID int64      `gorm:"not null;index" json:"product_detail_id"`
	Quantity        int64      `gorm:"not null" json:"quantity"`
	Status          HoldStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	GroupID         *int64     `gorm:"index" json:"group_id,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// HoldGroup batches the holds of one checkout attempt. ExpiresAt is advisory:
// nothing enforces it unless the reaper is enabled.
type HoldGroup struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	Holds     []Hold    `gorm:"foreignKey:GroupID" json:"holds,omitempty"`
}
