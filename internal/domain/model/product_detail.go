package model

import "time"

type DetailStatus string

const (
	DetailStatusNormal     DetailStatus = "NORMAL"
	DetailStatusDeprecated DetailStatus = "DEPRECATED"
)

// ProductDetail is a priced, stocked variant of a Product. Quantity is the
// source of truth for availability: holds pre-subtract it at creation time.
type ProductDetail struct {
	ID            int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID     int64        `gorm:"not null;index" json:"product_id"`
	PurchasePrice int64        `gorm:"not null" json:"purchase_price"`
	SalePrice     int64        `gorm:"not null" json:"sale_price"`
	Quantity      int64        `gorm:"not null" json:"quantity"`
	Status        DetailStatus `gorm:"type:varchar(20);not null;default:'NORMAL'" json:"status"`
	CreatedAt     time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
