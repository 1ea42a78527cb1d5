package models

import (
	"time"
)

// OrderLog is an append-only audit entry written whenever the workflow
// performs a state-changing action. Entries are never updated or deleted.
type OrderLog struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderID     uint        `gorm:"not null;index" json:"order_id"`
	Order       Order       `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Stage       OrderStatus `gorm:"type:varchar(20);not null" json:"stage"`
	Description string      `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
}
