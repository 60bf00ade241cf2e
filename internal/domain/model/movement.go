package model

import "time"

type MovementKind string

const (
	MovementKindInflow  MovementKind = "INFLOW"
	MovementKindOutflow MovementKind = "OUTFLOW"
)

type InflowType string

const (
	InflowPurchase   InflowType = "PURCHASE"
	InflowGift       InflowType = "GIFT"
	InflowCorrection InflowType = "CORRECTION"
	InflowRefund     InflowType = "REFUND"
)

type OutflowType string

const (
	OutflowSale        OutflowType = "SALE"
	OutflowInternalUse OutflowType = "INTERNAL_USE"
	OutflowLoss        OutflowType = "LOSS"
	OutflowExpiry      OutflowType = "EXPIRY"
	OutflowFraud       OutflowType = "FRAUD"
	OutflowDonation    OutflowType = "DONATION"
)

type MovementStatus string

const (
	MovementAccepted MovementStatus = "ACCEPTED"
	MovementApproved MovementStatus = "APPROVED"
	MovementReversed MovementStatus = "REVERSED"
)

// Inflow is a dated transaction that adds stock to one inventory.
// Immutable after creation except the Reversed flip and a date correction.
type Inflow struct {
	ID               int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	InventoryID      int64          `gorm:"not null;index" json:"inventory_id"`
	Date             time.Time      `gorm:"not null" json:"date"`
	Type             InflowType     `gorm:"type:varchar(20);not null" json:"type"`
	Status           MovementStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Outsider         string         `gorm:"type:varchar(255)" json:"outsider,omitempty"`
	OutflowRelatedID *int64         `gorm:"index" json:"outflow_related_id,omitempty"`
	OrderID          *int64         `gorm:"index" json:"order_id,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type InflowDetail struct {
	ID              int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	InflowID        int64 `gorm:"not null;index" json:"inflow_id"`
	ProductDetailID int64 `gorm:"not null;index" json:"product_detail_id"`
	// Quantity is a delta for every type except CORRECTION, where it is the
	// new absolute stock value.
	Quantity int64 `gorm:"not null" json:"quantity"`
}

// Outflow is the subtracting counterpart of Inflow.
type Outflow struct {
	ID              int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	InventoryID     int64          `gorm:"not null;index" json:"inventory_id"`
	Date            time.Time      `gorm:"not null" json:"date"`
	Type            OutflowType    `gorm:"type:varchar(20);not null" json:"type"`
	Status          MovementStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Outsider        string         `gorm:"type:varchar(255)" json:"outsider,omitempty"`
	InflowRelatedID *int64         `gorm:"index" json:"inflow_related_id,omitempty"`
	OrderID         *int64         `gorm:"index" json:"order_id,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type OutflowDetail struct {
	ID              int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OutflowID       int64 `gorm:"not null;index" json:"outflow_id"`
	ProductDetailID int64 `gorm:"not null;index" json:"product_detail_id"`
	Quantity        int64 `gorm:"not null" json:"quantity"`
}

func ValidInflowType(t InflowType) bool {
	switch t {
	case InflowPurchase, InflowGift, InflowCorrection, InflowRefund:
		return true
	}
	return false
}

func ValidOutflowType(t OutflowType) bool {
	switch t {
	case OutflowSale, OutflowInternalUse, OutflowLoss, OutflowExpiry, OutflowFraud, OutflowDonation:
		return true
	}
	return false
}
