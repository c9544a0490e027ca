package redisx

import "time"

const (
	// Fast-path paid guard: paid:order:{order_id} -> transaction_id.
	// Hint only; the transactions table stays the source of truth.
	KeyOrderPaid = "paid:order:%s"

	// Cache of the full order JSON: order:{order_id}
	KeyOrder = "order:%s"

	// Dedup for consumed events: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLPaidGuard  = 24 * time.Hour
	TTLOrderCache = 5 * time.Minute
	TTLDedup      = 48 * time.Hour
)
