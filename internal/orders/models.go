package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("orders: order not found")
	ErrInvalidQuantity   = errors.New("orders: quantity must be greater than zero")
	ErrInvalidTransition = errors.New("orders: invalid status transition")
)

// LineItem is the denormalized product snapshot taken at order time.
// It is not a live reference; later catalog edits do not affect it.
type LineItem struct {
	ProductID  string `json:"product_id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	Image      string `json:"image"`
	Variant    string `json:"variant"`
	Quantity   int    `json:"quantity"`
}

type CustomerInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type Order struct {
	ID         string          `json:"id"`
	Product    LineItem        `json:"product"`
	Customer   CustomerInfo    `json:"customer_info"`
	Shipping   ShippingAddress `json:"shipping_address"`
	Status     Status          `json:"status"`
	TotalCents int64           `json:"total_cents"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// New builds a pending order with a fresh id and the authoritative total
// (price * quantity; tax/shipping are display-only and never charged).
func New(item LineItem, customer CustomerInfo, shipping ShippingAddress) (Order, error) {
	if item.Quantity <= 0 {
		return Order{}, ErrInvalidQuantity
	}
	now := time.Now().UTC()
	return Order{
		ID:         uuid.NewString(),
		Product:    item,
		Customer:   customer,
		Shipping:   shipping,
		Status:     StatusPending,
		TotalCents: item.PriceCents * int64(item.Quantity),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Store persists orders. Create and SetStatus are expected to run inside the
// caller's transaction; GetForUpdate takes a row lock so concurrent Pay calls
// on the same order serialize without blocking other orders.
type Store interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	GetForUpdate(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	// SetStatus performs the one-way pending -> terminal transition.
	// ErrInvalidTransition when the order is not pending anymore.
	SetStatus(ctx context.Context, id string, st Status) error
}
