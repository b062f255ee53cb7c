package domain

import "time"

// Order status values. Transitions are driven by fulfillment and payment
// events outside this codebase; only the initial value is set here.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusShipped    = "shipped"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Order is an immutable-at-creation snapshot of a cart. Monetary fields are
// independent copies; the source cart is cleared in the same transaction.
type Order struct {
	ID              string      `json:"id"`
	OrderNumber     int64       `json:"orderNumber"`
	UserID          *string     `json:"userId,omitempty"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"paymentStatus"`
	Subtotal        int64       `json:"subtotal"`
	ShippingTotal   int64       `json:"shipping"`
	DiscountTotal   int64       `json:"discount"`
	Total           int64       `json:"total"`
	Notes           string      `json:"notes,omitempty"`
	PaymentIntentID *string     `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	Items           []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID        string `json:"id"`
	OrderID   string `json:"orderId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}
