package models

import (
	"time"
)

// OrderImage references a photo already hosted by the upload provider.
type OrderImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Order     Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	PublicID  string    `gorm:"type:varchar(255);not null" json:"public_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
