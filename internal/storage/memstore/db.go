// Package memstore implements the storage ports in memory. Transactions are
// copy-on-write: WithinTx clones the state, runs fn against the clone and
// swaps it in only on success, so an aborted unit leaves no partial effect.
// Used by tests and the STORAGE=memory mode.
package memstore

import (
	"context"
	"sync"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/catalog"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/inventory"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/storage"
)

type invKey struct {
	productID string
	variant   string
}

type state struct {
	products  map[string]catalog.Product
	inventory map[invKey]inventory.Record
	orders    map[string]orders.Order
	orderSeq  []string
	txns      map[string]payment.Transaction
	succeeded map[string]string // order_id -> success transaction id
}

func newState() *state {
	return &state{
		products:  make(map[string]catalog.Product),
		inventory: make(map[invKey]inventory.Record),
		orders:    make(map[string]orders.Order),
		txns:      make(map[string]payment.Transaction),
		succeeded: make(map[string]string),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:  make(map[string]catalog.Product, len(s.products)),
		inventory: make(map[invKey]inventory.Record, len(s.inventory)),
		orders:    make(map[string]orders.Order, len(s.orders)),
		orderSeq:  append([]string(nil), s.orderSeq...),
		txns:      make(map[string]payment.Transaction, len(s.txns)),
		succeeded: make(map[string]string, len(s.succeeded)),
	}
	for k, p := range s.products {
		p.Variants = append([]string(nil), p.Variants...)
		c.products[k] = p
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.txns {
		c.txns[k] = v
	}
	for k, v := range s.succeeded {
		c.succeeded[k] = v
	}
	return c
}

type DB struct {
	mu sync.Mutex
	st *state
}

func New() *DB { return &DB{st: newState()} }

// WithinTx serializes all units with one mutex. Coarser than the row locks of
// the postgres backend, but the isolation guarantees are the same.
func (d *DB) WithinTx(ctx context.Context, fn func(storage.Store) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	work := d.st.clone()
	if err := fn(&store{st: work}); err != nil {
		return err
	}
	// Abort-on-cancel: a unit whose context died before commit must not commit.
	if err := ctx.Err(); err != nil {
		return err
	}
	d.st = work
	return nil
}

// Auto-commit accessors run each call as its own single-op unit.

func (d *DB) Products() catalog.Store                { return autoProducts{d} }
func (d *DB) Ledger() inventory.Ledger               { return autoLedger{d} }
func (d *DB) Orders() orders.Store                   { return autoOrders{d} }
func (d *DB) Transactions() payment.TransactionStore { return autoTxns{d} }

type store struct {
	st *state
}

func (s *store) Products() catalog.Store                { return &productRepo{st: s.st} }
func (s *store) Ledger() inventory.Ledger               { return &ledgerRepo{st: s.st} }
func (s *store) Orders() orders.Store                   { return &orderRepo{st: s.st} }
func (s *store) Transactions() payment.TransactionStore { return &txnRepo{st: s.st} }
