package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/catalog"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/inventory"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
)

type ledgerRepo struct {
	st *state
}

func (r *ledgerRepo) Get(ctx context.Context, productID, variant string) (inventory.Record, error) {
	rec, ok := r.st.inventory[invKey{productID, variant}]
	if !ok {
		return inventory.Record{}, inventory.ErrNotFound
	}
	return rec, nil
}

func (r *ledgerRepo) Reserve(ctx context.Context, productID, variant string, qty int) error {
	if qty <= 0 {
		return inventory.ErrInvalidQuantity
	}
	k := invKey{productID, variant}
	rec, ok := r.st.inventory[k]
	if !ok {
		return inventory.ErrNotFound
	}
	if rec.Quantity < qty {
		return fmt.Errorf("%w: need %d, have %d", inventory.ErrInsufficient, qty, rec.Quantity)
	}
	rec.Quantity -= qty
	rec.UpdatedAt = time.Now().UTC()
	r.st.inventory[k] = rec
	return nil
}

func (r *ledgerRepo) Restore(ctx context.Context, productID, variant string, qty int) error {
	if qty <= 0 {
		return inventory.ErrInvalidQuantity
	}
	k := invKey{productID, variant}
	rec, ok := r.st.inventory[k]
	if !ok {
		return inventory.ErrNotFound
	}
	rec.Quantity += qty
	rec.UpdatedAt = time.Now().UTC()
	r.st.inventory[k] = rec
	return nil
}

func (r *ledgerRepo) Put(ctx context.Context, rec inventory.Record) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	r.st.inventory[invKey{rec.ProductID, rec.Variant}] = rec
	return nil
}

type orderRepo struct {
	st *state
}

func (r *orderRepo) Create(ctx context.Context, o orders.Order) error {
	r.st.orders[o.ID] = o
	r.st.orderSeq = append(r.st.orderSeq, o.ID)
	return nil
}

func (r *orderRepo) Get(ctx context.Context, id string) (orders.Order, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, nil
}

// GetForUpdate is plain Get here: the unit already runs under the global lock.
func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (orders.Order, error) {
	return r.Get(ctx, id)
}

// List returns newest first, matching the postgres backend.
func (r *orderRepo) List(ctx context.Context) ([]orders.Order, error) {
	out := make([]orders.Order, 0, len(r.st.orderSeq))
	for i := len(r.st.orderSeq) - 1; i >= 0; i-- {
		out = append(out, r.st.orders[r.st.orderSeq[i]])
	}
	return out, nil
}

func (r *orderRepo) SetStatus(ctx context.Context, id string, st orders.Status) error {
	o, ok := r.st.orders[id]
	if !ok {
		return orders.ErrNotFound
	}
	if !orders.CanTransition(o.Status, st) {
		return orders.ErrInvalidTransition
	}
	o.Status = st
	o.UpdatedAt = time.Now().UTC()
	r.st.orders[id] = o
	return nil
}

type txnRepo struct {
	st *state
}

func (r *txnRepo) Create(ctx context.Context, t payment.Transaction) error {
	r.st.txns[t.ID] = t
	if t.Status == payment.StatusSuccess {
		r.st.succeeded[t.OrderID] = t.ID
	}
	return nil
}

func (r *txnRepo) Get(ctx context.Context, id string) (payment.Transaction, error) {
	t, ok := r.st.txns[id]
	if !ok {
		return payment.Transaction{}, payment.ErrNotFound
	}
	return t, nil
}

func (r *txnRepo) HasSucceeded(ctx context.Context, orderID string) (bool, error) {
	_, ok := r.st.succeeded[orderID]
	return ok, nil
}

type productRepo struct {
	st *state
}

func (r *productRepo) Get(ctx context.Context, id string) (catalog.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (r *productRepo) List(ctx context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.st.products))
	for _, p := range r.st.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *productRepo) SetInventoryStatus(ctx context.Context, id string, st inventory.Status) error {
	p, ok := r.st.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	p.InventoryStatus = st
	p.UpdatedAt = time.Now().UTC()
	r.st.products[id] = p
	return nil
}

func (r *productRepo) Put(ctx context.Context, p catalog.Product) error {
	r.st.products[p.ID] = p
	return nil
}
