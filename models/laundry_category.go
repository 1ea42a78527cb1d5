package models

import "time"

// LaundryCategory is reference data consulted when pricing laundry items,
// e.g. "Duvet" billed per piece or "Mixed clothes" billed per kg.
type LaundryCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);unique;not null" json:"name"`
	Unit      string    `gorm:"type:varchar(20);not null" json:"unit"`
	UnitPrice float64   `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
