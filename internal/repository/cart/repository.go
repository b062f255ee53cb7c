package cart

import (
	"context"

	"tiendanorte/internal/domain"
)

type CreateCartInput struct {
	UserID       *string
	SessionToken *string
	Currency     string
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	GetBySession(ctx context.Context, sessionToken string) (*domain.Cart, error)
	UpsertItem(ctx context.Context, cartID, productID string, quantity int, unitPrice int64) error
	RemoveItem(ctx context.Context, cartID, productID string) error
	UpdateTotals(ctx context.Context, cartID string, subtotal, shipping, discount, total int64) error
	ItemsWithProducts(ctx context.Context, cartID string) ([]domain.SummaryItem, error)
}
