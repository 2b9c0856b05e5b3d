package models

import "time"

// order status
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// IsValidOrderStatus reports whether s is one of the allowed order statuses.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a line item frozen at order-creation time. Later edits to the
// product record do not affect it.
type OrderItem struct {
	ProductID     string
	Name          string
	AltNames      []string
	Description   string
	Images        []string
	LabelledPrice float64
	Price         float64
	Quantity      int
}

// Order is order entity. Immutable after creation except for Status.
type Order struct {
	ID            uint64
	OrderID       string
	Email         string
	Name          string
	Phone         string
	Address       string
	Status        string
	LabelledTotal float64
	Total         float64
	Items         []OrderItem
	CreatedAt     time.Time
}

// OrderEvent is published after order creation and status changes.
type OrderEvent struct {
	OrderID  string    `json:"order_id"`
	Email    string    `json:"email"`
	Type     string    `json:"type"`
	Status   string    `json:"status"`
	Total    float64   `json:"total"`
	Occurred time.Time `json:"occurred"`
}
