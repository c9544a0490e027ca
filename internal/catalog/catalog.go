package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/inventory"
)

var ErrNotFound = errors.New("catalog: product not found")

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is reference data for order creation. Orders take a denormalized
// snapshot of it; InventoryStatus is the only field the core writes back.
type Product struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	PriceCents      int64            `json:"price_cents"`
	Description     string           `json:"description"`
	Category        string           `json:"category"`
	Image           string           `json:"image"`
	Rating          Rating           `json:"rating"`
	Variants        []string         `json:"variants,omitempty"`
	InventoryStatus inventory.Status `json:"inventory_status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type Store interface {
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
	// SetInventoryStatus persists the derived status onto the product row.
	SetInventoryStatus(ctx context.Context, id string, st inventory.Status) error
	// Put creates or replaces a product. Used by seeding only.
	Put(ctx context.Context, p Product) error
}
