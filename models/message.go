package models

import (
	"time"
)

// Message records one outbound WhatsApp notification attempt, success
// or failure, so deliveries stay auditable even when the provider is down.
type Message struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"not null;index" json:"order_id"`
	Order        Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Status       string    `gorm:"type:varchar(30);not null" json:"status"`
	WhatsappID   string    `gorm:"type:varchar(255)" json:"whatsapp_id"`
	Recipient    string    `gorm:"type:varchar(15);not null" json:"recipient"`
	TemplateName string    `gorm:"type:varchar(50);not null" json:"template_name"`
	Payload      string    `gorm:"type:text" json:"payload"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
