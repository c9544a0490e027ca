package postgrestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/inventory"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/postgres"
	"github.com/jackc/pgx/v5"
)

type LedgerRepo struct {
	Q postgres.Querier
}

func (r *LedgerRepo) Get(ctx context.Context, productID, variant string) (inventory.Record, error) {
	var rec inventory.Record
	err := r.Q.QueryRow(ctx, `
		SELECT product_id, variant, quantity, low_stock_threshold, updated_at
		FROM inventory WHERE product_id=$1 AND variant=$2`,
		productID, variant,
	).Scan(&rec.ProductID, &rec.Variant, &rec.Quantity, &rec.LowStockThreshold, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return inventory.Record{}, inventory.ErrNotFound
	}
	if err != nil {
		return inventory.Record{}, err
	}
	return rec, nil
}

// Reserve locks the counter row, checks admission and decrements. The
// quantity >= 0 invariant holds because the decrement happens under the lock.
func (r *LedgerRepo) Reserve(ctx context.Context, productID, variant string, qty int) error {
	if qty <= 0 {
		return inventory.ErrInvalidQuantity
	}
	var available int
	err := r.Q.QueryRow(ctx, `
		SELECT quantity FROM inventory
		WHERE product_id=$1 AND variant=$2 FOR UPDATE`,
		productID, variant,
	).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return inventory.ErrNotFound
	}
	if err != nil {
		return err
	}
	if available < qty {
		return fmt.Errorf("%w: need %d, have %d", inventory.ErrInsufficient, qty, available)
	}
	_, err = r.Q.Exec(ctx, `
		UPDATE inventory SET quantity = quantity - $3, updated_at = now()
		WHERE product_id=$1 AND variant=$2`,
		productID, variant, qty)
	return err
}

func (r *LedgerRepo) Restore(ctx context.Context, productID, variant string, qty int) error {
	if qty <= 0 {
		return inventory.ErrInvalidQuantity
	}
	ct, err := r.Q.Exec(ctx, `
		UPDATE inventory SET quantity = quantity + $3, updated_at = now()
		WHERE product_id=$1 AND variant=$2`,
		productID, variant, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

func (r *LedgerRepo) Put(ctx context.Context, rec inventory.Record) error {
	_, err := r.Q.Exec(ctx, `
		INSERT INTO inventory (product_id, variant, quantity, low_stock_threshold, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, variant) DO UPDATE
		SET quantity = EXCLUDED.quantity,
		    low_stock_threshold = EXCLUDED.low_stock_threshold,
		    updated_at = now()`,
		rec.ProductID, rec.Variant, rec.Quantity, rec.LowStockThreshold)
	return err
}
