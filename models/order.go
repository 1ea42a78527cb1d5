package models

import (
	"time"
)

// Order lifecycle stages. Transitions are driven explicitly by staff
// actions, never inferred: created -> processing on the first payment,
// then completed/collected via the status endpoint.
type OrderStatus string

const (
	OrderCreated    OrderStatus = "created"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCollected  OrderStatus = "collected"
)

// IsUpdatable reports whether a status may be set through the
// status-update endpoint. Only the terminal stages qualify; the
// processing transition belongs to the payment flow.
func (s OrderStatus) IsUpdatable() bool {
	return s == OrderCompleted || s == OrderCollected
}

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	OrderNumber   string      `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`
	CustomerName  string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone string      `gorm:"type:varchar(15);not null" json:"customer_phone"`
	TotalAmount   float64     `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentAmount float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"payment_amount"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'created'" json:"status"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`

	LaundryItems []LaundryItem `gorm:"foreignKey:OrderID" json:"laundry_items"`
	Payments     []Payment     `gorm:"foreignKey:OrderID" json:"payments"`
	Logs         []OrderLog    `gorm:"foreignKey:OrderID" json:"logs"`
	Images       []OrderImage  `gorm:"foreignKey:OrderID" json:"images"`
	Messages     []Message     `gorm:"foreignKey:OrderID" json:"-"`
}

// Balance derives the amount still owed from the loaded payments.
// It is never stored on the order row.
func (o *Order) Balance() float64 {
	paid := 0.0
	for _, p := range o.Payments {
		paid += p.Amount
	}
	return o.TotalAmount - paid
}
