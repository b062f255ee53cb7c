// Package payment abstracts the external hosted-checkout provider. A nil
// Provider means payments are unconfigured and checkout falls back to the
// pay-on-delivery path.
package payment

import "context"

// LineItem is one billable row in a payment session. The synthetic shipping
// line built by checkout is an ordinary LineItem.
type LineItem struct {
	Name       string
	Quantity   int64
	UnitAmount int64
}

type SessionInput struct {
	OrderID       string
	CustomerEmail string
	Currency      string
	SuccessURL    string
	CancelURL     string
	Items         []LineItem
}

// Session is the provider's hosted checkout reference. PaymentIntentID is
// empty when the provider does not return an intent at session creation.
type Session struct {
	URL             string
	PaymentIntentID string
}

type Provider interface {
	CreateSession(ctx context.Context, in SessionInput) (*Session, error)
}
