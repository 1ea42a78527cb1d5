package models

import (
	"time"
)

// Payment records one payment event against an order. Rows are
// immutable; the order balance is always recomputed from the sum of
// amounts, Balance here is only an audit snapshot of the balance as it
// stood before this payment was recognised.
type Payment struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	OrderID       uint    `json:"order_id" gorm:"not null;index"`
	Order         Order   `json:"-" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Amount        float64 `json:"amount" gorm:"type:decimal(10,2);not null"`
	PaymentMethod string  `json:"payment_method" gorm:"type:varchar(20);not null;default:'cash'"`
	OtherDetails  string  `json:"other_details" gorm:"type:text"`
	Balance       float64 `json:"balance" gorm:"type:decimal(10,2);not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
