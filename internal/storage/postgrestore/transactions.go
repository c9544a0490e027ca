package postgrestore

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/postgres"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo is append-only: rows are inserted, never updated. A partial
// unique index on (order_id) WHERE status='success' backs the one-success-
// per-order rule at the database level.
type TransactionRepo struct {
	Q postgres.Querier
}

func (r *TransactionRepo) Create(ctx context.Context, t payment.Transaction) error {
	_, err := r.Q.Exec(ctx, `
		INSERT INTO transactions
			(id, order_id, amount_cents, cardholder_name, card_last4, card_expiry, status, message, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		t.ID, t.OrderID, t.AmountCents,
		t.Details.CardholderName, t.Details.CardLast4, t.Details.ExpiryDate,
		t.Status, t.Message, t.CreatedAt)
	return err
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (payment.Transaction, error) {
	var t payment.Transaction
	err := r.Q.QueryRow(ctx, `
		SELECT id, order_id, amount_cents, cardholder_name, card_last4, card_expiry, status, message, created_at
		FROM transactions WHERE id=$1`, id,
	).Scan(&t.ID, &t.OrderID, &t.AmountCents,
		&t.Details.CardholderName, &t.Details.CardLast4, &t.Details.ExpiryDate,
		&t.Status, &t.Message, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return payment.Transaction{}, payment.ErrNotFound
	}
	if err != nil {
		return payment.Transaction{}, err
	}
	return t, nil
}

func (r *TransactionRepo) HasSucceeded(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := r.Q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM transactions WHERE order_id=$1 AND status=$2)`,
		orderID, payment.StatusSuccess,
	).Scan(&exists)
	return exists, err
}
