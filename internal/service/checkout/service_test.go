package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tiendanorte/internal/domain"
	"tiendanorte/internal/payment"
	orderrepo "tiendanorte/internal/repository/order"
)

type fakeCarts struct {
	cart    domain.Cart
	summary domain.CartSummary
}

func (f *fakeCarts) Ensure(_ context.Context, _, _ string) (*domain.Cart, error) {
	clone := f.cart
	return &clone, nil
}

func (f *fakeCarts) RefreshTotals(_ context.Context, _ string) (*domain.CartSummary, error) {
	clone := f.summary
	return &clone, nil
}

func (f *fakeCarts) Get(_ context.Context, _ string) (*domain.Cart, error) {
	clone := f.cart
	return &clone, nil
}

type fakeProducts struct {
	products map[string]domain.Product
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := p
	return &clone, nil
}

type fakeOrders struct {
	created *orderrepo.CreateFromCartInput
	intents map[string]string
}

func (f *fakeOrders) CreateFromCart(_ context.Context, in orderrepo.CreateFromCartInput) (*domain.Order, error) {
	f.created = &in
	return &domain.Order{
		ID:            "order-1",
		OrderNumber:   in.OrderNumber,
		UserID:        in.UserID,
		Status:        in.Status,
		PaymentStatus: in.PaymentStatus,
		Subtotal:      in.Subtotal,
		ShippingTotal: in.ShippingTotal,
		DiscountTotal: in.DiscountTotal,
		Total:         in.Total,
		Notes:         in.Notes,
	}, nil
}

func (f *fakeOrders) SetPaymentIntent(_ context.Context, orderID, intentID string) error {
	if f.intents == nil {
		f.intents = make(map[string]string)
	}
	f.intents[orderID] = intentID
	return nil
}

type fakeProvider struct {
	input   payment.SessionInput
	session payment.Session
	err     error
}

func (f *fakeProvider) CreateSession(_ context.Context, in payment.SessionInput) (*payment.Session, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	clone := f.session
	return &clone, nil
}

func validInput() Input {
	return Input{
		Contact: Contact{Name: "Ana Perez", Email: "ana@example.com", Phone: "+56911112222"},
		Shipping: AddressInput{
			Street:     "Av. Italia 1234",
			City:       "Santiago",
			Region:     "rm",
			PostalCode: "7500000",
		},
	}
}

func cartFixture() (*fakeCarts, *fakeProducts) {
	weight := 2.0
	carts := &fakeCarts{
		cart: domain.Cart{
			ID:       "cart-1",
			Currency: "CLP",
			Items: []domain.CartItem{
				{CartID: "cart-1", ProductID: "p1", Quantity: 2, UnitPrice: 10_000},
			},
		},
		summary: domain.CartSummary{
			ID:       "cart-1",
			Subtotal: 20_000,
			Total:    20_000,
			Currency: "CLP",
			Items: []domain.SummaryItem{
				{ProductID: "p1", Name: "Taladro", Quantity: 2, Price: 10_000},
			},
		},
	}
	products := &fakeProducts{products: map[string]domain.Product{
		"p1": {ID: "p1", Price: 10_000, WeightKg: &weight},
	}}
	return carts, products
}

func TestCheckout_EmptyCart(t *testing.T) {
	carts, products := cartFixture()
	carts.summary.Items = nil
	svc := New(carts, products, &fakeOrders{}, nil, "http://localhost", nil)

	_, err := svc.Checkout(context.Background(), "", "tok", validInput())
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_FallbackPath(t *testing.T) {
	carts, products := cartFixture()
	orders := &fakeOrders{}
	svc := New(carts, products, orders, nil, "http://localhost", nil)

	result, err := svc.Checkout(context.Background(), "", "tok", validInput())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if !result.Success || result.OrderID != "order-1" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.CheckoutURL != "" {
		t.Fatalf("fallback path must not return a checkout url")
	}
	if result.Shipping == nil || result.Shipping.Cost != 4990 {
		t.Fatalf("expected rm shipping quote, got %+v", result.Shipping)
	}

	if orders.created == nil {
		t.Fatalf("order was not created")
	}
	if orders.created.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("payment status = %q, want paid", orders.created.PaymentStatus)
	}
	if orders.created.Status != domain.OrderStatusProcessing {
		t.Fatalf("status = %q, want processing", orders.created.Status)
	}
	if orders.created.Total != 20_000+4990 {
		t.Fatalf("total = %d, want %d", orders.created.Total, 20_000+4990)
	}
	if orders.created.OrderNumber == 0 {
		t.Fatalf("order number not derived from creation time")
	}
}

func TestCheckout_NotesFoldContactAndAddress(t *testing.T) {
	carts, products := cartFixture()
	orders := &fakeOrders{}
	svc := New(carts, products, orders, nil, "http://localhost", nil)

	in := validInput()
	in.Shipping.Notes = "dejar en conserjeria"
	if _, err := svc.Checkout(context.Background(), "", "tok", in); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	notes := orders.created.Notes
	for _, want := range []string{"dejar en conserjeria", "Av. Italia 1234", "Contacto: Ana Perez - ana@example.com - +56911112222"} {
		if !strings.Contains(notes, want) {
			t.Fatalf("notes %q missing %q", notes, want)
		}
	}
}

func TestCheckout_ProviderPath(t *testing.T) {
	carts, products := cartFixture()
	orders := &fakeOrders{}
	provider := &fakeProvider{session: payment.Session{
		URL:             "https://pay.example/session/123",
		PaymentIntentID: "pi_123",
	}}
	svc := New(carts, products, orders, provider, "https://shop.example", nil)

	result, err := svc.Checkout(context.Background(), "user-1", "", validInput())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if result.CheckoutURL != "https://pay.example/session/123" {
		t.Fatalf("checkout url = %q", result.CheckoutURL)
	}
	if result.Success {
		t.Fatalf("provider path must not set the fallback success flag")
	}
	if orders.created.PaymentStatus != domain.PaymentStatusPending {
		t.Fatalf("payment status = %q, want pending", orders.created.PaymentStatus)
	}
	if orders.created.UserID == nil || *orders.created.UserID != "user-1" {
		t.Fatalf("order not bound to user: %+v", orders.created.UserID)
	}
	if got := orders.intents["order-1"]; got != "pi_123" {
		t.Fatalf("payment intent = %q, want pi_123", got)
	}

	// One line per cart item plus the synthetic shipping line.
	if len(provider.input.Items) != 2 {
		t.Fatalf("expected 2 session lines, got %d", len(provider.input.Items))
	}
	last := provider.input.Items[len(provider.input.Items)-1]
	if last.Name != "Envio" || last.UnitAmount != 4990 {
		t.Fatalf("shipping line = %+v", last)
	}
	if provider.input.OrderID != "order-1" {
		t.Fatalf("session order id = %q", provider.input.OrderID)
	}
	if provider.input.CustomerEmail != "ana@example.com" {
		t.Fatalf("session email = %q", provider.input.CustomerEmail)
	}
	if !strings.Contains(provider.input.SuccessURL, "order-1") {
		t.Fatalf("success url %q missing order id", provider.input.SuccessURL)
	}
}

func TestCheckout_WeightDrivesShipping(t *testing.T) {
	carts, products := cartFixture()
	// No recorded weight counts as one kilogram per unit.
	products.products["p1"] = domain.Product{ID: "p1", Price: 10_000}
	carts.cart.Items[0].Quantity = 7
	carts.summary.Subtotal = 70_000
	orders := &fakeOrders{}
	svc := New(carts, products, orders, nil, "http://localhost", nil)

	result, err := svc.Checkout(context.Background(), "", "tok", validInput())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	// 7kg total: base 4990 plus 2kg over threshold at 1500 each.
	if result.Shipping.Cost != 4990+3000 {
		t.Fatalf("shipping cost = %d, want %d", result.Shipping.Cost, 4990+3000)
	}
}

func TestCheckout_ProviderFailurePropagates(t *testing.T) {
	carts, products := cartFixture()
	orders := &fakeOrders{}
	provider := &fakeProvider{err: errors.New("stripe down")}
	svc := New(carts, products, orders, provider, "http://localhost", nil)

	_, err := svc.Checkout(context.Background(), "", "tok", validInput())
	if err == nil || !strings.Contains(err.Error(), "create payment session") {
		t.Fatalf("expected payment session error, got %v", err)
	}
	// The order exists already: session creation happens after commit.
	if orders.created == nil {
		t.Fatalf("order should have been created before the provider call")
	}
}
