package cart

import (
	"context"
	"errors"

	"tiendanorte/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const cartColumns = `id::text, user_id::text, session_token, currency, subtotal, shipping_total, discount_total, total, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id, session_token, currency)
VALUES ($1, $2, $3)
RETURNING ` + cartColumns + `
`
	return r.scanCart(ctx, r.pool.QueryRow(ctx, q, in.UserID, in.SessionToken, in.Currency), false)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE id = $1
`
	return r.scanCart(ctx, r.pool.QueryRow(ctx, q, id), true)
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1
`
	return r.scanCart(ctx, r.pool.QueryRow(ctx, q, userID), true)
}

func (r *postgresRepo) GetBySession(ctx context.Context, sessionToken string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE session_token = $1
`
	return r.scanCart(ctx, r.pool.QueryRow(ctx, q, sessionToken), true)
}

// UpsertItem writes the quantity and the freshly snapshotted unit price in a
// single statement, so concurrent upserts for the same (cart, product) pair
// cannot lose updates. Set-quantity semantics: the later write wins.
func (r *postgresRepo) UpsertItem(ctx context.Context, cartID, productID string, quantity int, unitPrice int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = EXCLUDED.quantity,
    unit_price = EXCLUDED.unit_price
`, cartID, productID, quantity, unitPrice); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RemoveItem deletes the (cart, product) row if present. Deletion is
// idempotent by key; a missing row is not an error. A malformed product id
// cannot match the uuid column, so there is nothing to delete.
func (r *postgresRepo) RemoveItem(ctx context.Context, cartID, productID string) error {
	if _, err := uuid.Parse(productID); err != nil {
		return nil
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE cart_id = $1 AND product_id = $2
`, cartID, productID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) UpdateTotals(ctx context.Context, cartID string, subtotal, shipping, discount, total int64) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE carts
SET subtotal = $2,
    shipping_total = $3,
    discount_total = $4,
    total = $5,
    updated_at = now()
WHERE id = $1
`, cartID, subtotal, shipping, discount, total)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ItemsWithProducts joins each line item with the catalog display fields
// used by the CartSummary projection.
func (r *postgresRepo) ItemsWithProducts(ctx context.Context, cartID string) ([]domain.SummaryItem, error) {
	const q = `
SELECT ci.id::text, ci.product_id::text, p.slug, p.name, p.brand, COALESCE(p.image_url, ''), ci.quantity, ci.unit_price
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.SummaryItem, 0)
	for rows.Next() {
		var it domain.SummaryItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Slug, &it.Name, &it.Brand, &it.Image, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) scanCart(ctx context.Context, row pgx.Row, withItems bool) (*domain.Cart, error) {
	var cart domain.Cart
	if err := row.Scan(
		&cart.ID,
		&cart.UserID,
		&cart.SessionToken,
		&cart.Currency,
		&cart.Subtotal,
		&cart.ShippingTotal,
		&cart.DiscountTotal,
		&cart.Total,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !withItems {
		return &cart, nil
	}

	const linesQuery = `
SELECT id::text, cart_id::text, product_id::text, quantity, unit_price, created_at
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

func touchCart(ctx context.Context, tx pgx.Tx, cartID string) error {
	cmd, err := tx.Exec(ctx, `
UPDATE carts
SET updated_at = now()
WHERE id = $1
`, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
