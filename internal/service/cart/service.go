package cart

import (
	"context"
	"errors"

	"tiendanorte/internal/domain"
	cartrepo "tiendanorte/internal/repository/cart"

	"github.com/google/uuid"
)

var (
	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrProductNotFound is returned when the referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")
)

// Service owns all writes to carts and cart items. Every mutation persists
// recomputed totals and returns the refreshed summary.
type Service struct {
	repo        cartRepo
	productRepo productRepo
	currency    string
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	GetBySession(ctx context.Context, sessionToken string) (*domain.Cart, error)
	UpsertItem(ctx context.Context, cartID, productID string, quantity int, unitPrice int64) error
	RemoveItem(ctx context.Context, cartID, productID string) error
	UpdateTotals(ctx context.Context, cartID string, subtotal, shipping, discount, total int64) error
	ItemsWithProducts(ctx context.Context, cartID string) ([]domain.SummaryItem, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, productRepo productRepo, currency string) *Service {
	return &Service{repo: repo, productRepo: productRepo, currency: currency}
}

// Ensure resolves the caller's cart. An authenticated user gets their
// account cart (created on first use); a guest gets the cart bound to the
// session token, minting a fresh opaque token when none was presented.
// Callers must persist the token on the returned cart as a long-lived
// cookie so repeat visits resolve to the same cart.
func (s *Service) Ensure(ctx context.Context, userID, sessionToken string) (*domain.Cart, error) {
	if userID != "" {
		cart, err := s.repo.GetByUser(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		owner := userID
		return s.repo.Create(ctx, cartrepo.CreateCartInput{
			UserID:   &owner,
			Currency: s.currency,
		})
	}

	token := sessionToken
	if token == "" {
		token = uuid.NewString()
	} else {
		cart, err := s.repo.GetBySession(ctx, token)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return s.repo.Create(ctx, cartrepo.CreateCartInput{
		SessionToken: &token,
		Currency:     s.currency,
	})
}

// UpsertItem sets the quantity for a (cart, product) pair, snapshotting the
// current catalog price as the line's unit price. Adding an already-present
// product updates it; there is never more than one line per pair.
func (s *Service) UpsertItem(ctx context.Context, cartID, productID string, quantity int) (*domain.CartSummary, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if err := s.repo.UpsertItem(ctx, cartID, productID, quantity, product.Price); err != nil {
		return nil, err
	}
	return s.RefreshTotals(ctx, cartID)
}

// RemoveItem deletes the line if present. Removing an absent product from an
// existing cart is a no-op; only a missing cart reports not-found.
func (s *Service) RemoveItem(ctx context.Context, cartID, productID string) (*domain.CartSummary, error) {
	if err := s.repo.RemoveItem(ctx, cartID, productID); err != nil {
		return nil, err
	}
	return s.RefreshTotals(ctx, cartID)
}

// RefreshTotals recomputes the subtotal from current line items, carries the
// stored shipping and discount over, persists all four fields and returns
// the summary. Shipping is only ever calculated at checkout.
func (s *Service) RefreshTotals(ctx context.Context, cartID string) (*domain.CartSummary, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ItemsWithProducts(ctx, cartID)
	if err != nil {
		return nil, err
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Quantity)
	}
	total := cart.RecomputedTotal(subtotal)

	if err := s.repo.UpdateTotals(ctx, cartID, subtotal, cart.ShippingTotal, cart.DiscountTotal, total); err != nil {
		return nil, err
	}

	return &domain.CartSummary{
		ID:       cart.ID,
		Subtotal: subtotal,
		Shipping: cart.ShippingTotal,
		Discount: cart.DiscountTotal,
		Total:    total,
		Currency: cart.Currency,
		Items:    items,
	}, nil
}

// Get returns the cart with its raw line items, without recomputing totals.
func (s *Service) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	return s.repo.GetByID(ctx, cartID)
}
