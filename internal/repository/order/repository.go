package order

import (
	"context"

	"tiendanorte/internal/domain"
)

// CreateFromCartInput carries the monetary snapshot computed by checkout.
// Line items are copied from the cart with their cart-time unit prices.
type CreateFromCartInput struct {
	Cart          domain.Cart
	UserID        *string
	OrderNumber   int64
	Status        string
	PaymentStatus string
	Subtotal      int64
	ShippingTotal int64
	DiscountTotal int64
	Total         int64
	Notes         string
}

type Repository interface {
	// CreateFromCart persists the order snapshot and clears the source
	// cart's items and cached totals in a single transaction.
	CreateFromCart(ctx context.Context, in CreateFromCartInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	SetPaymentIntent(ctx context.Context, orderID, paymentIntentID string) error
}
