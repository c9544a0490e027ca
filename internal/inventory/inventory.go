package inventory

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("inventory: record not found")
	ErrInvalidQuantity = errors.New("inventory: quantity must be greater than zero")
	ErrInsufficient    = errors.New("inventory: insufficient stock")
)

// Record tracks the stock counter for one (product, variant) pair.
// Quantity is mutated only through Ledger.Reserve/Restore.
type Record struct {
	ProductID         string    `json:"product_id"`
	Variant           string    `json:"variant"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (r Record) Status() Status {
	return ComputeStatus(r.Quantity, r.LowStockThreshold)
}

// Ledger is the inventory admission-control port. Reserve and Restore are
// expected to run inside the caller's transaction (storage.DB.WithinTx) so
// they commit or roll back together with the order/payment writes.
type Ledger interface {
	Get(ctx context.Context, productID, variant string) (Record, error)
	// Reserve decrements the counter by qty. ErrInsufficient when the
	// current quantity is lower than qty, ErrNotFound for an unknown pair.
	Reserve(ctx context.Context, productID, variant string, qty int) error
	// Restore increments the counter back after a failed payment.
	Restore(ctx context.Context, productID, variant string, qty int) error
	// Put creates or replaces a record. Used by seeding only.
	Put(ctx context.Context, rec Record) error
}
