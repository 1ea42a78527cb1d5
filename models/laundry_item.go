package models

import (
	"time"
)

// LaundryItem is one line of an order. Items are batch-inserted at
// order creation and never edited afterwards.
type LaundryItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order             Order           `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	LaundryCategoryID uint            `gorm:"not null" json:"laundry_category_id"`
	LaundryCategory   LaundryCategory `gorm:"foreignKey:LaundryCategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"laundry_category"`
	Quantity          int             `gorm:"not null" json:"quantity"`
	CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}
