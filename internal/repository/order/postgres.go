package order

import (
	"context"
	"errors"
	"io"
	"log"

	"tiendanorte/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `id::text, order_number, user_id::text, status, payment_status, subtotal, shipping_total, discount_total, total, notes, payment_intent_id, created_at`

// CreateFromCart inserts the order and its items and clears the cart inside
// one transaction, so a crash cannot leave a persisted order next to a
// still-populated cart.
func (r *postgresRepo) CreateFromCart(ctx context.Context, in CreateFromCartInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (order_number, user_id, status, payment_status, subtotal, shipping_total, discount_total, total, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + orderColumns + `
`
	var out domain.Order
	row := tx.QueryRow(ctx, insertOrder,
		in.OrderNumber, in.UserID, in.Status, in.PaymentStatus,
		in.Subtotal, in.ShippingTotal, in.DiscountTotal, in.Total, in.Notes,
	)
	if err := scanOrder(row, &out); err != nil {
		return nil, err
	}

	for _, item := range in.Cart.Items {
		var oi domain.OrderItem
		if err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4)
RETURNING id::text, order_id::text, product_id::text, quantity, unit_price
`, out.ID, item.ProductID, item.Quantity, item.UnitPrice).Scan(
			&oi.ID, &oi.OrderID, &oi.ProductID, &oi.Quantity, &oi.UnitPrice,
		); err != nil {
			return nil, err
		}
		out.Items = append(out.Items, oi)
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE cart_id = $1
`, in.Cart.ID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
UPDATE carts
SET subtotal = 0,
    shipping_total = 0,
    discount_total = 0,
    total = 0,
    updated_at = now()
WHERE id = $1
`, in.Cart.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Printf("order repo: created order id=%s number=%d total=%d", out.ID, out.OrderNumber, out.Total)
	return &out, nil
}

// GetByID treats a malformed id as a missing order; the uuid column can
// never match it.
func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	var out domain.Order
	if err := scanOrder(r.pool.QueryRow(ctx, q, id), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT id::text, order_id::text, product_id::text, quantity, unit_price
FROM order_items
WHERE order_id = $1
`
	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var oi domain.OrderItem
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.ProductID, &oi.Quantity, &oi.UnitPrice); err != nil {
			return nil, err
		}
		out.Items = append(out.Items, oi)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) SetPaymentIntent(ctx context.Context, orderID, paymentIntentID string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET payment_intent_id = $2
WHERE id = $1
`, orderID, paymentIntentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row, o *domain.Order) error {
	return row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Status,
		&o.PaymentStatus,
		&o.Subtotal,
		&o.ShippingTotal,
		&o.DiscountTotal,
		&o.Total,
		&o.Notes,
		&o.PaymentIntentID,
		&o.CreatedAt,
	)
}
