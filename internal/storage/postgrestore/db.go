// Package postgrestore implements the storage ports on pgx. Atomic units map
// onto database transactions; per-key isolation comes from SELECT ... FOR
// UPDATE row locks, so two reservations for the same (product, variant) or
// two payments for the same order serialize without a global lock.
package postgrestore

import (
	"context"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/catalog"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/inventory"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/postgres"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *DB { return &DB{pool: pool} }

func (d *DB) Products() catalog.Store                { return &ProductRepo{Q: d.pool} }
func (d *DB) Ledger() inventory.Ledger               { return &LedgerRepo{Q: d.pool} }
func (d *DB) Orders() orders.Store                   { return &OrderRepo{Q: d.pool} }
func (d *DB) Transactions() payment.TransactionStore { return &TransactionRepo{Q: d.pool} }

// WithinTx runs fn against transaction-bound repositories. fn returning an
// error (or the context being cancelled before commit) rolls everything back.
func (d *DB) WithinTx(ctx context.Context, fn func(storage.Store) error) error {
	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&txStore{q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type txStore struct {
	q postgres.Querier
}

func (s *txStore) Products() catalog.Store                { return &ProductRepo{Q: s.q} }
func (s *txStore) Ledger() inventory.Ledger               { return &LedgerRepo{Q: s.q} }
func (s *txStore) Orders() orders.Store                   { return &OrderRepo{Q: s.q} }
func (s *txStore) Transactions() payment.TransactionStore { return &TransactionRepo{Q: s.q} }
