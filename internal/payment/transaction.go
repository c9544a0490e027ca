package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("payment: transaction not found")
	ErrAlreadyPaid        = errors.New("payment: order already paid")
	ErrGatewayUnavailable = errors.New("payment: gateway unavailable")
	// ErrDeclined is returned together with the recorded failed transaction.
	// Inventory has already been restored; a retry needs a new attempt.
	ErrDeclined       = errors.New("payment: declined")
	ErrInvalidDetails = errors.New("payment: invalid payment details")
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Details is the client-supplied card input. Only a masked snapshot of it is
// ever persisted; the full PAN and CVV stay out of storage.
type Details struct {
	CardNumber     string `json:"card_number"`
	CardholderName string `json:"cardholder_name"`
	ExpiryDate     string `json:"expiry_date"`
	CVV            string `json:"cvv"`
}

// Snapshot masks the card details down to what the transaction record keeps.
func (d Details) Snapshot() DetailsSnapshot {
	last4 := d.CardNumber
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return DetailsSnapshot{
		CardholderName: d.CardholderName,
		CardLast4:      last4,
		ExpiryDate:     d.ExpiryDate,
	}
}

type DetailsSnapshot struct {
	CardholderName string `json:"cardholder_name"`
	CardLast4      string `json:"card_last4"`
	ExpiryDate     string `json:"expiry_date"`
}

// Transaction records one payment attempt. Append-only: rows are never
// mutated after creation. At most one success exists per order.
type Transaction struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	AmountCents int64           `json:"amount_cents"`
	Details     DetailsSnapshot `json:"payment_details"`
	Status      Status          `json:"status"`
	Message     string          `json:"message,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewTransaction builds a transaction with the amount copied from the order,
// never from the caller.
func NewTransaction(orderID string, amountCents int64, details Details, st Status, message string) Transaction {
	return Transaction{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		AmountCents: amountCents,
		Details:     details.Snapshot(),
		Status:      st,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}
}

type TransactionStore interface {
	Create(ctx context.Context, t Transaction) error
	Get(ctx context.Context, id string) (Transaction, error)
	// HasSucceeded is the idempotency guard: true iff a success transaction
	// already exists for the order.
	HasSucceeded(ctx context.Context, orderID string) (bool, error)
}
