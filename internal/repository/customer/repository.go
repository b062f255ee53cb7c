package customer

import (
	"context"

	"tiendanorte/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, user domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
	AddAddress(ctx context.Context, address domain.Address) (*domain.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) error
}
