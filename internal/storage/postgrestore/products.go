package postgrestore

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/catalog"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/inventory"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/postgres"
	"github.com/jackc/pgx/v5"
)

type ProductRepo struct {
	Q postgres.Querier
}

const productColumns = `
	id, title, price_cents, description, category, image,
	rating_rate, rating_count, variants, inventory_status, created_at, updated_at`

func (r *ProductRepo) Get(ctx context.Context, id string) (catalog.Product, error) {
	row := r.Q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, err
}

func (r *ProductRepo) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.Q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) SetInventoryStatus(ctx context.Context, id string, st inventory.Status) error {
	ct, err := r.Q.Exec(ctx, `
		UPDATE products SET inventory_status=$2, updated_at=now() WHERE id=$1`, id, st)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Put(ctx context.Context, p catalog.Product) error {
	_, err := r.Q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			price_cents = EXCLUDED.price_cents,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			image = EXCLUDED.image,
			rating_rate = EXCLUDED.rating_rate,
			rating_count = EXCLUDED.rating_count,
			variants = EXCLUDED.variants,
			inventory_status = EXCLUDED.inventory_status,
			updated_at = now()`,
		p.ID, p.Title, p.PriceCents, p.Description, p.Category, p.Image,
		p.Rating.Rate, p.Rating.Count, p.Variants, p.InventoryStatus, p.CreatedAt, p.UpdatedAt)
	return err
}

func scanProduct(row pgx.Row) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.Title, &p.PriceCents, &p.Description, &p.Category, &p.Image,
		&p.Rating.Rate, &p.Rating.Count, &p.Variants, &p.InventoryStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
