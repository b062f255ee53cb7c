package seed

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Name        string
	Brand       string
	Description string
	Price       int64
	WeightKg    float64
	ImageURL    string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name:        "Taladro Percutor 650W",
			Brand:       "Makita",
			Description: "Taladro percutor con mandril de 13mm y velocidad variable",
			Price:       64990,
			WeightKg:    2.4,
			ImageURL:    "/images/taladro-percutor-650w.jpg",
		},
		{
			Name:        "Sierra Circular 185mm",
			Brand:       "Bosch",
			Description: "Sierra circular 1400W con guia laser",
			Price:       89990,
			WeightKg:    4.1,
			ImageURL:    "/images/sierra-circular-185mm.jpg",
		},
		{
			Name:        "Set Destornilladores 12 Piezas",
			Brand:       "Stanley",
			Description: "Set de destornilladores punta plana y cruz con mango ergonomico",
			Price:       14990,
			WeightKg:    0.9,
			ImageURL:    "/images/set-destornilladores-12.jpg",
		},
		{
			Name:        "Esmeril Angular 4.5 Pulgadas",
			Brand:       "DeWalt",
			Description: "Esmeril angular 850W con proteccion ajustable",
			Price:       49990,
			WeightKg:    1.8,
			ImageURL:    "/images/esmeril-angular-45.jpg",
		},
		{
			Name:        "Compresor de Aire 24L",
			Brand:       "Einhell",
			Description: "Compresor 8 bar con estanque de 24 litros",
			Price:       129990,
			WeightKg:    18.5,
			ImageURL:    "/images/compresor-24l.jpg",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	if err := ensureUser(ctx, pool, "demo@tiendanorte.cl", "Demo1234", "Demo", "Cliente"); err != nil {
		return fmt.Errorf("ensure demo user: %w", err)
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (slug, name, brand, description, image_url, price, weight_kg)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    brand = EXCLUDED.brand,
    description = EXCLUDED.description,
    image_url = EXCLUDED.image_url,
    price = EXCLUDED.price,
    weight_kg = EXCLUDED.weight_kg
`
	_, err := pool.Exec(ctx, q, slug.Make(p.Name), p.Name, p.Brand, p.Description, p.ImageURL, p.Price, p.WeightKg)
	return err
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, password, firstName, lastName string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (email, password_hash, first_name, last_name)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hashed), firstName, lastName)
	return err
}
