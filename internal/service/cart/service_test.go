package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tiendanorte/internal/domain"
	cartrepo "tiendanorte/internal/repository/cart"
)

// memoryCartRepo is a lightweight in-memory cart repository for tests.
type memoryCartRepo struct {
	nextID int
	carts  map[string]*domain.Cart
	items  map[string]map[string]domain.CartItem // cartID -> productID -> item
}

func newMemoryCartRepo() *memoryCartRepo {
	return &memoryCartRepo{
		carts: make(map[string]*domain.Cart),
		items: make(map[string]map[string]domain.CartItem),
	}
}

func (r *memoryCartRepo) Create(_ context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error) {
	r.nextID++
	cart := &domain.Cart{
		ID:           fmt.Sprintf("cart-%d", r.nextID),
		UserID:       in.UserID,
		SessionToken: in.SessionToken,
		Currency:     in.Currency,
	}
	r.carts[cart.ID] = cart
	r.items[cart.ID] = make(map[string]domain.CartItem)
	return cloneCart(cart), nil
}

func (r *memoryCartRepo) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	cart, ok := r.carts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneCart(cart), nil
}

func (r *memoryCartRepo) GetByUser(_ context.Context, userID string) (*domain.Cart, error) {
	for _, cart := range r.carts {
		if cart.UserID != nil && *cart.UserID == userID {
			return cloneCart(cart), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryCartRepo) GetBySession(_ context.Context, token string) (*domain.Cart, error) {
	for _, cart := range r.carts {
		if cart.SessionToken != nil && *cart.SessionToken == token {
			return cloneCart(cart), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryCartRepo) UpsertItem(_ context.Context, cartID, productID string, quantity int, unitPrice int64) error {
	if _, ok := r.carts[cartID]; !ok {
		return domain.ErrNotFound
	}
	r.items[cartID][productID] = domain.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	return nil
}

func (r *memoryCartRepo) RemoveItem(_ context.Context, cartID, productID string) error {
	if _, ok := r.carts[cartID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items[cartID], productID)
	return nil
}

func (r *memoryCartRepo) UpdateTotals(_ context.Context, cartID string, subtotal, shipping, discount, total int64) error {
	cart, ok := r.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	cart.Subtotal = subtotal
	cart.ShippingTotal = shipping
	cart.DiscountTotal = discount
	cart.Total = total
	return nil
}

func (r *memoryCartRepo) ItemsWithProducts(_ context.Context, cartID string) ([]domain.SummaryItem, error) {
	out := make([]domain.SummaryItem, 0, len(r.items[cartID]))
	for _, item := range r.items[cartID] {
		out = append(out, domain.SummaryItem{
			ID:        item.CartID + "/" + item.ProductID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
		})
	}
	return out, nil
}

func cloneCart(c *domain.Cart) *domain.Cart {
	clone := *c
	return &clone
}

type memoryProductRepo struct {
	products map[string]domain.Product
}

func (r *memoryProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := p
	return &clone, nil
}

func newService(products map[string]domain.Product) (*Service, *memoryCartRepo) {
	repo := newMemoryCartRepo()
	return New(repo, &memoryProductRepo{products: products}, "CLP"), repo
}

func TestEnsure_MintsAndReusesSessionToken(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	first, err := svc.Ensure(ctx, "", "")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if first.SessionToken == nil || *first.SessionToken == "" {
		t.Fatalf("expected minted session token, got %+v", first)
	}
	if first.Currency != "CLP" {
		t.Fatalf("currency = %q, want CLP", first.Currency)
	}

	again, err := svc.Ensure(ctx, "", *first.SessionToken)
	if err != nil {
		t.Fatalf("ensure with token: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("expected same cart for same token, got %s and %s", first.ID, again.ID)
	}
}

func TestEnsure_UserCartCreatedOnce(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	first, err := svc.Ensure(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if first.UserID == nil || *first.UserID != "user-1" {
		t.Fatalf("expected user-owned cart, got %+v", first)
	}
	if first.SessionToken != nil {
		t.Fatalf("user cart must not carry a session token")
	}

	again, err := svc.Ensure(ctx, "user-1", "ignored-token")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("expected one cart per user, got %s and %s", first.ID, again.ID)
	}
}

func TestUpsertItem_RejectsNonPositiveQuantity(t *testing.T) {
	svc, _ := newService(map[string]domain.Product{"p1": {ID: "p1", Price: 1000}})
	ctx := context.Background()

	cart, _ := svc.Ensure(ctx, "", "")
	for _, q := range []int{0, -1} {
		if _, err := svc.UpsertItem(ctx, cart.ID, "p1", q); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", q, err)
		}
	}
}

func TestUpsertItem_UnknownProduct(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	cart, _ := svc.Ensure(ctx, "", "")
	if _, err := svc.UpsertItem(ctx, cart.ID, "missing", 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestUpsertItem_SetsQuantityWithoutDuplicating(t *testing.T) {
	svc, repo := newService(map[string]domain.Product{"p1": {ID: "p1", Price: 1000}})
	ctx := context.Background()

	cart, _ := svc.Ensure(ctx, "", "")
	if _, err := svc.UpsertItem(ctx, cart.ID, "p1", 3); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	summary, err := svc.UpsertItem(ctx, cart.ID, "p1", 2)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if len(summary.Items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(summary.Items))
	}
	if summary.Items[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", summary.Items[0].Quantity)
	}
	if got := repo.items[cart.ID]["p1"].Quantity; got != 2 {
		t.Fatalf("persisted quantity = %d, want 2", got)
	}
}

func TestUpsertItem_SnapshotsCurrentPrice(t *testing.T) {
	products := map[string]domain.Product{"p1": {ID: "p1", Price: 1000}}
	svc, repo := newService(products)
	ctx := context.Background()

	cart, _ := svc.Ensure(ctx, "", "")
	if _, err := svc.UpsertItem(ctx, cart.ID, "p1", 1); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Catalog price changes do not touch the line until it is re-upserted.
	products["p1"] = domain.Product{ID: "p1", Price: 2500}
	if got := repo.items[cart.ID]["p1"].UnitPrice; got != 1000 {
		t.Fatalf("unit price = %d, want 1000", got)
	}

	summary, err := svc.UpsertItem(ctx, cart.ID, "p1", 2)
	if err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	if got := repo.items[cart.ID]["p1"].UnitPrice; got != 2500 {
		t.Fatalf("unit price after re-upsert = %d, want 2500", got)
	}
	if summary.Subtotal != 5000 {
		t.Fatalf("subtotal = %d, want 5000", summary.Subtotal)
	}
}

func TestRefreshTotals_SumsLineItems(t *testing.T) {
	svc, _ := newService(map[string]domain.Product{
		"p1": {ID: "p1", Price: 1000},
		"p2": {ID: "p2", Price: 250},
	})
	ctx := context.Background()

	cart, _ := svc.Ensure(ctx, "", "")
	if _, err := svc.UpsertItem(ctx, cart.ID, "p1", 3); err != nil {
		t.Fatalf("upsert p1: %v", err)
	}
	summary, err := svc.UpsertItem(ctx, cart.ID, "p2", 4)
	if err != nil {
		t.Fatalf("upsert p2: %v", err)
	}

	if summary.Subtotal != 4000 {
		t.Fatalf("subtotal = %d, want 4000", summary.Subtotal)
	}
	if summary.Total != 4000 {
		t.Fatalf("total = %d, want 4000", summary.Total)
	}
}

func TestRefreshTotals_CarriesShippingAndDiscount(t *testing.T) {
	svc, repo := newService(map[string]domain.Product{"p1": {ID: "p1", Price: 1000}})
	ctx := context.Background()

	cart, _ := svc.Ensure(ctx, "", "")
	repo.carts[cart.ID].ShippingTotal = 4990
	repo.carts[cart.ID].DiscountTotal = 500

	summary, err := svc.UpsertItem(ctx, cart.ID, "p1", 2)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if summary.Shipping != 4990 || summary.Discount != 500 {
		t.Fatalf("shipping/discount = %d/%d, want 4990/500", summary.Shipping, summary.Discount)
	}
	if summary.Total != 2000+4990-500 {
		t.Fatalf("total = %d, want %d", summary.Total, 2000+4990-500)
	}
}

func TestRemoveItem_AbsentProductIsNoOp(t *testing.T) {
	svc, _ := newService(map[string]domain.Product{"p1": {ID: "p1", Price: 1000}})
	ctx := context.Background()

	cart, _ := svc.Ensure(ctx, "", "")
	if _, err := svc.UpsertItem(ctx, cart.ID, "p1", 2); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	summary, err := svc.RemoveItem(ctx, cart.ID, "never-added")
	if err != nil {
		t.Fatalf("remove absent product: %v", err)
	}
	if summary.Subtotal != 2000 {
		t.Fatalf("subtotal changed to %d, want 2000", summary.Subtotal)
	}
}

func TestRemoveItem_MissingCart(t *testing.T) {
	svc, _ := newService(nil)
	if _, err := svc.RemoveItem(context.Background(), "missing", "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRefreshTotals_MissingCart(t *testing.T) {
	svc, _ := newService(nil)
	if _, err := svc.RefreshTotals(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
