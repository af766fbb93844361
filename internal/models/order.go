package models

import "time"

// Order statuses. Orders are created pending; advancing them is handled
// outside this service.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

// PaymentMethods accepted at checkout.
var PaymentMethods = []string{"card", "upi", "cod"}

// Order represents a placed order with a snapshot of the cart lines.
type Order struct {
	ID              string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string     `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Items           []CartItem `json:"items" gorm:"type:text;serializer:json"`
	TotalAmount     float64    `json:"total_amount"`
	Status          string     `json:"status" gorm:"type:varchar(20)"`
	PaymentMethod   string     `json:"payment_method" gorm:"type:varchar(20)"`
	ShippingAddress string     `json:"shipping_address" gorm:"type:text"`
	CreatedAt       time.Time  `json:"created_at"`
}
