package checkout

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"tiendanorte/internal/domain"
	"tiendanorte/internal/payment"
	orderrepo "tiendanorte/internal/repository/order"
	"tiendanorte/internal/shipping"
)

// Service converts a validated cart into a persisted order and, when a
// payment provider is configured, an external payment session. Order
// creation and cart clearing commit in one transaction before the provider
// is called.
type Service struct {
	carts    cartService
	products productReader
	orders   orderRepo
	provider payment.Provider
	baseURL  string
	logger   *log.Logger
}

type cartService interface {
	Ensure(ctx context.Context, userID, sessionToken string) (*domain.Cart, error)
	RefreshTotals(ctx context.Context, cartID string) (*domain.CartSummary, error)
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
}

type productReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type orderRepo interface {
	CreateFromCart(ctx context.Context, in orderrepo.CreateFromCartInput) (*domain.Order, error)
	SetPaymentIntent(ctx context.Context, orderID, paymentIntentID string) error
}

// New builds the service. provider may be nil, which selects the
// pay-on-delivery fallback path.
func New(carts cartService, products productReader, orders orderRepo, provider payment.Provider, baseURL string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		carts:    carts,
		products: products,
		orders:   orders,
		provider: provider,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Input is validated at the HTTP layer via binding tags; every field
// problem is enumerated before the service runs.
type Input struct {
	Contact  Contact      `json:"contact" binding:"required"`
	Shipping AddressInput `json:"shipping" binding:"required"`
}

type Contact struct {
	Name  string `json:"name" binding:"required,min=3"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,min=8"`
}

type AddressInput struct {
	Street     string `json:"street" binding:"required,min=3"`
	City       string `json:"city" binding:"required,min=2"`
	Region     string `json:"region" binding:"required,min=2"`
	PostalCode string `json:"postalCode" binding:"required,min=4"`
	Notes      string `json:"notes"`
}

// Result carries either the provider redirect (CheckoutURL set) or the
// fallback acknowledgment (Success set, Shipping echoed).
type Result struct {
	Success     bool            `json:"success,omitempty"`
	OrderID     string          `json:"orderId"`
	CheckoutURL string          `json:"checkoutUrl,omitempty"`
	Shipping    *shipping.Quote `json:"shipping,omitempty"`
}

func (s *Service) Checkout(ctx context.Context, userID, sessionToken string, in Input) (*Result, error) {
	cart, err := s.carts.Ensure(ctx, userID, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("resolve cart: %w", err)
	}

	summary, err := s.carts.RefreshTotals(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("refresh totals: %w", err)
	}
	if len(summary.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// Re-read for the line items with their snapshotted unit prices.
	full, err := s.carts.Get(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	weight, err := s.totalWeight(ctx, full.Items)
	if err != nil {
		return nil, fmt.Errorf("total weight: %w", err)
	}

	quote := shipping.Estimate(in.Shipping.Region, summary.Subtotal, weight)
	orderTotal := summary.Subtotal + quote.Cost - summary.Discount

	paymentStatus := domain.PaymentStatusPaid
	if s.provider != nil {
		paymentStatus = domain.PaymentStatusPending
	}

	var owner *string
	if userID != "" {
		owner = &userID
	}

	order, err := s.orders.CreateFromCart(ctx, orderrepo.CreateFromCartInput{
		Cart:          *full,
		UserID:        owner,
		OrderNumber:   time.Now().Unix(),
		Status:        domain.OrderStatusProcessing,
		PaymentStatus: paymentStatus,
		Subtotal:      summary.Subtotal,
		ShippingTotal: quote.Cost,
		DiscountTotal: summary.Discount,
		Total:         orderTotal,
		Notes:         foldNotes(in),
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.logger.Printf("checkout: order %s created (number=%d total=%d)", order.ID, order.OrderNumber, order.Total)

	if s.provider == nil {
		return &Result{Success: true, OrderID: order.ID, Shipping: &quote}, nil
	}

	sess, err := s.provider.CreateSession(ctx, s.sessionInput(order, summary, quote, in.Contact.Email))
	if err != nil {
		return nil, fmt.Errorf("create payment session: %w", err)
	}
	if sess.PaymentIntentID != "" {
		if err := s.orders.SetPaymentIntent(ctx, order.ID, sess.PaymentIntentID); err != nil {
			return nil, fmt.Errorf("persist payment intent: %w", err)
		}
	}

	return &Result{OrderID: order.ID, CheckoutURL: sess.URL}, nil
}

func (s *Service) totalWeight(ctx context.Context, items []domain.CartItem) (float64, error) {
	var total float64
	for _, item := range items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return 0, err
		}
		total += product.ShipmentWeight() * float64(item.Quantity)
	}
	return total, nil
}

func (s *Service) sessionInput(order *domain.Order, summary *domain.CartSummary, quote shipping.Quote, email string) payment.SessionInput {
	items := make([]payment.LineItem, 0, len(summary.Items)+1)
	for _, item := range summary.Items {
		items = append(items, payment.LineItem{
			Name:       item.Name,
			Quantity:   int64(item.Quantity),
			UnitAmount: item.Price,
		})
	}
	items = append(items, payment.LineItem{
		Name:       "Envio",
		Quantity:   1,
		UnitAmount: quote.Cost,
	})

	return payment.SessionInput{
		OrderID:       order.ID,
		CustomerEmail: email,
		Currency:      summary.Currency,
		SuccessURL:    fmt.Sprintf("%s/checkout/success?order=%s", s.baseURL, order.ID),
		CancelURL:     s.baseURL + "/checkout",
		Items:         items,
	}
}

func foldNotes(in Input) string {
	contact := fmt.Sprintf("Contacto: %s - %s - %s", in.Contact.Name, in.Contact.Email, in.Contact.Phone)
	address := fmt.Sprintf("%s, %s, %s, %s", in.Shipping.Street, in.Shipping.City, in.Shipping.Region, in.Shipping.PostalCode)
	notes := "Envio: " + address
	if in.Shipping.Notes != "" {
		notes = in.Shipping.Notes + "\n" + notes
	}
	return notes + "\n" + contact
}
