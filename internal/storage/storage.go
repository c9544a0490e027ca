// Package storage defines the persistence ports shared by the coordinator
// and the payment processor. The backends under storage/postgrestore and
// storage/memstore implement them.
package storage

import (
	"context"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/catalog"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/inventory"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
)

// Store groups the repositories over one persistence handle. Obtained either
// directly from DB (auto-commit, one statement per call) or inside WithinTx,
// where every repository call joins the same transaction.
type Store interface {
	Products() catalog.Store
	Ledger() inventory.Ledger
	Orders() orders.Store
	Transactions() payment.TransactionStore
}

// DB is the atomic multi-write primitive. WithinTx runs fn against a
// transaction-bound Store: fn returning nil commits all writes together,
// any error (including context cancellation) aborts them all.
type DB interface {
	Store
	WithinTx(ctx context.Context, fn func(Store) error) error
}
