package domain

import "time"

type Product struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Brand       *string   `json:"brand,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image,omitempty"`
	Price       int64     `json:"price"`
	WeightKg    *float64  `json:"weightKg,omitempty"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ShipmentWeight returns the weight used for shipping estimates. Products
// without a recorded weight count as one kilogram.
func (p Product) ShipmentWeight() float64 {
	if p.WeightKg == nil {
		return 1
	}
	return *p.WeightKg
}
