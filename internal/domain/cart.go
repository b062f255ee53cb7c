package domain

import "time"

// Cart is the authoritative server-side cart. Exactly one of UserID and
// SessionToken is set at creation; a guest cart keys on the opaque token
// stored in the client cookie.
type Cart struct {
	ID            string     `json:"id"`
	UserID        *string    `json:"userId,omitempty"`
	SessionToken  *string    `json:"-"`
	Currency      string     `json:"currency"`
	Subtotal      int64      `json:"subtotal"`
	ShippingTotal int64      `json:"shipping"`
	DiscountTotal int64      `json:"discount"`
	Total         int64      `json:"total"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Items         []CartItem `json:"items,omitempty"`
}

// CartItem holds a quantity and the unit price snapshotted at upsert time.
// The price is a copy taken from the catalog, not a live reference.
type CartItem struct {
	ID        string    `json:"id"`
	CartID    string    `json:"cartId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unitPrice"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecomputedTotal applies the storefront totals rule: subtotal plus stored
// shipping minus stored discount. The result is not floored at zero.
func (c Cart) RecomputedTotal(subtotal int64) int64 {
	return subtotal + c.ShippingTotal - c.DiscountTotal
}

// CartSummary is the read-only projection sent to clients. It is derived
// from Cart plus joined product display fields and is never persisted.
type CartSummary struct {
	ID       string        `json:"id"`
	Subtotal int64         `json:"subtotal"`
	Shipping int64         `json:"shipping"`
	Discount int64         `json:"discount"`
	Total    int64         `json:"total"`
	Currency string        `json:"currency"`
	Items    []SummaryItem `json:"items"`
}

type SummaryItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Brand     *string `json:"brand,omitempty"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     int64   `json:"price"`
}
