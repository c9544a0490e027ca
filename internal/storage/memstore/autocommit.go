package memstore

import (
	"context"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/catalog"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/inventory"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/storage"
)

// The auto* wrappers turn every direct repository call into its own
// single-operation unit, keeping reads and writes consistent with
// concurrently running WithinTx units.

type autoLedger struct{ d *DB }

func (a autoLedger) Get(ctx context.Context, productID, variant string) (inventory.Record, error) {
	var rec inventory.Record
	err := a.d.WithinTx(ctx, func(s storage.Store) error {
		var err error
		rec, err = s.Ledger().Get(ctx, productID, variant)
		return err
	})
	return rec, err
}

func (a autoLedger) Reserve(ctx context.Context, productID, variant string, qty int) error {
	return a.d.WithinTx(ctx, func(s storage.Store) error {
		return s.Ledger().Reserve(ctx, productID, variant, qty)
	})
}

func (a autoLedger) Restore(ctx context.Context, productID, variant string, qty int) error {
	return a.d.WithinTx(ctx, func(s storage.Store) error {
		return s.Ledger().Restore(ctx, productID, variant, qty)
	})
}

func (a autoLedger) Put(ctx context.Context, rec inventory.Record) error {
	return a.d.WithinTx(ctx, func(s storage.Store) error {
		return s.Ledger().Put(ctx, rec)
	})
}

type autoOrders struct{ d *DB }

func (a autoOrders) Create(ctx context.Context, o orders.Order) error {
	return a.d.WithinTx(ctx, func(s storage.Store) error {
		return s.Orders().Create(ctx, o)
	})
}

func (a autoOrders) Get(ctx context.Context, id string) (orders.Order, error) {
	var o orders.Order
	err := a.d.WithinTx(ctx, func(s storage.Store) error {
		var err error
		o, err = s.Orders().Get(ctx, id)
		return err
	})
	return o, err
}

func (a autoOrders) GetForUpdate(ctx context.Context, id string) (orders.Order, error) {
	return a.Get(ctx, id)
}

func (a autoOrders) List(ctx context.Context) ([]orders.Order, error) {
	var out []orders.Order
	err := a.d.WithinTx(ctx, func(s storage.Store) error {
		var err error
		out, err = s.Orders().List(ctx)
		return err
	})
	return out, err
}

func (a autoOrders) SetStatus(ctx context.Context, id string, st orders.Status) error {
	return a.d.WithinTx(ctx, func(s storage.Store) error {
		return s.Orders().SetStatus(ctx, id, st)
	})
}

type autoTxns struct{ d *DB }

func (a autoTxns) Create(ctx context.Context, t payment.Transaction) error {
	return a.d.WithinTx(ctx, func(s storage.Store) error {
		return s.Transactions().Create(ctx, t)
	})
}

func (a autoTxns) Get(ctx context.Context, id string) (payment.Transaction, error) {
	var t payment.Transaction
	err := a.d.WithinTx(ctx, func(s storage.Store) error {
		var err error
		t, err = s.Transactions().Get(ctx, id)
		return err
	})
	return t, err
}

func (a autoTxns) HasSucceeded(ctx context.Context, orderID string) (bool, error) {
	var ok bool
	err := a.d.WithinTx(ctx, func(s storage.Store) error {
		var err error
		ok, err = s.Transactions().HasSucceeded(ctx, orderID)
		return err
	})
	return ok, err
}

type autoProducts struct{ d *DB }

func (a autoProducts) Get(ctx context.Context, id string) (catalog.Product, error) {
	var p catalog.Product
	err := a.d.WithinTx(ctx, func(s storage.Store) error {
		var err error
		p, err = s.Products().Get(ctx, id)
		return err
	})
	return p, err
}

func (a autoProducts) List(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	err := a.d.WithinTx(ctx, func(s storage.Store) error {
		var err error
		out, err = s.Products().List(ctx)
		return err
	})
	return out, err
}

func (a autoProducts) SetInventoryStatus(ctx context.Context, id string, st inventory.Status) error {
	return a.d.WithinTx(ctx, func(s storage.Store) error {
		return s.Products().SetInventoryStatus(ctx, id, st)
	})
}

func (a autoProducts) Put(ctx context.Context, p catalog.Product) error {
	return a.d.WithinTx(ctx, func(s storage.Store) error {
		return s.Products().Put(ctx, p)
	})
}
