package model

import "time"

// Gateway status vocabulary. Order.Status mirrors whatever the gateway
// delivered (last write wins), so these are matching constants, not an
// exhaustive enum.
const (
	OrderStatusPaymentRequired = "PAYMENT_REQUIRED"
	OrderStatusPending         = "PENDING"
	OrderStatusPartiallyPaid   = "PARTIALLY_PAID"
	OrderStatusPaid            = "PAID"
	OrderStatusRejected        = "REJECTED"
	OrderStatusExpired         = "EXPIRED"
	OrderStatusReverted        = "REVERTED"
)

// Order links an external payment-gateway reference to a HoldGroup.
type Order struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalRef   string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"external_ref"`
	Status        string    `gorm:"type:varchar(40);not null" json:"status"`
	HoldGroupID   int64     `gorm:"not null;index" json:"hold_group_id"`
	PayerName     string    `gorm:"type:varchar(255)" json:"payer_name,omitempty"`
	PayerMail     string    `gorm:"type:varchar(255)" json:"payer_mail,omitempty"`
	PayerDocument string    `gorm:"type:varchar(64)" json:"payer_document,omitempty"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
