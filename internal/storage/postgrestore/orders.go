package postgrestore

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/postgres"
	"github.com/jackc/pgx/v5"
)

type OrderRepo struct {
	Q postgres.Querier
}

const orderColumns = `
	id, product_id, title, price_cents, image, variant, quantity,
	full_name, email, phone,
	street, city, state, zip_code, country,
	status, total_cents, created_at, updated_at`

func (r *OrderRepo) Create(ctx context.Context, o orders.Order) error {
	_, err := r.Q.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		o.ID, o.Product.ProductID, o.Product.Title, o.Product.PriceCents, o.Product.Image,
		o.Product.Variant, o.Product.Quantity,
		o.Customer.FullName, o.Customer.Email, o.Customer.Phone,
		o.Shipping.Street, o.Shipping.City, o.Shipping.State, o.Shipping.ZipCode, o.Shipping.Country,
		o.Status, o.TotalCents, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *OrderRepo) Get(ctx context.Context, id string) (orders.Order, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate locks the order row for the duration of the surrounding
// transaction. Concurrent Pay calls on the same order queue here.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (orders.Order, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *OrderRepo) get(ctx context.Context, id, suffix string) (orders.Order, error) {
	row := r.Q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`+suffix, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, err
}

func (r *OrderRepo) List(ctx context.Context) ([]orders.Order, error) {
	rows, err := r.Q.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orders.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// SetStatus moves a pending order to a terminal status. The status guard sits
// in the WHERE clause, so a second settle attempt touches zero rows.
func (r *OrderRepo) SetStatus(ctx context.Context, id string, st orders.Status) error {
	if !orders.CanTransition(orders.StatusPending, st) {
		return orders.ErrInvalidTransition
	}
	ct, err := r.Q.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=now()
		WHERE id=$1 AND status=$3`,
		id, st, orders.StatusPending)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}
	// Zero rows: distinguish a missing order from an already-settled one.
	var cur string
	err = r.Q.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return orders.ErrNotFound
	}
	if err != nil {
		return err
	}
	return orders.ErrInvalidTransition
}

func scanOrder(row pgx.Row) (orders.Order, error) {
	var o orders.Order
	err := row.Scan(
		&o.ID, &o.Product.ProductID, &o.Product.Title, &o.Product.PriceCents, &o.Product.Image,
		&o.Product.Variant, &o.Product.Quantity,
		&o.Customer.FullName, &o.Customer.Email, &o.Customer.Phone,
		&o.Shipping.Street, &o.Shipping.City, &o.Shipping.State, &o.Shipping.ZipCode, &o.Shipping.Country,
		&o.Status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}
