// Package fulfillment holds the order-payment core: the Coordinator owns the
// reserve-then-order phase, the Processor owns pay-then-settle. Both run
// their writes through storage.DB.WithinTx so each phase is one atomic unit.
package fulfillment

import (
	"context"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/catalog"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/inventory"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/storage"
	"go.uber.org/zap"
)

// Notifier delivers the order confirmation. Best-effort: errors are logged
// and never affect order or transaction state.
type Notifier interface {
	Notify(ctx context.Context, o orders.Order, txn payment.Transaction) error
}

type CreateOrderInput struct {
	ProductID string
	Variant   string
	Quantity  int
	Customer  orders.CustomerInfo
	Shipping  orders.ShippingAddress
}

type Coordinator struct {
	db  storage.DB
	log *zap.Logger
}

func NewCoordinator(db storage.DB, log *zap.Logger) *Coordinator {
	return &Coordinator{db: db, log: log}
}

// CreateOrder reserves inventory and persists the pending order as one
// atomic unit. On any failure nothing is committed: no order without a
// matching reservation is ever observable.
func (c *Coordinator) CreateOrder(ctx context.Context, in CreateOrderInput) (orders.Order, error) {
	if in.Quantity <= 0 {
		return orders.Order{}, orders.ErrInvalidQuantity
	}

	p, err := c.db.Products().Get(ctx, in.ProductID)
	if err != nil {
		return orders.Order{}, err
	}

	o, err := orders.New(orders.LineItem{
		ProductID:  p.ID,
		Title:      p.Title,
		PriceCents: p.PriceCents,
		Image:      p.Image,
		Variant:    in.Variant,
		Quantity:   in.Quantity,
	}, in.Customer, in.Shipping)
	if err != nil {
		return orders.Order{}, err
	}

	err = c.db.WithinTx(ctx, func(s storage.Store) error {
		if err := s.Ledger().Reserve(ctx, in.ProductID, in.Variant, in.Quantity); err != nil {
			return err
		}
		return s.Orders().Create(ctx, o)
	})
	if err != nil {
		return orders.Order{}, err
	}

	c.log.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("product_id", in.ProductID),
		zap.String("variant", in.Variant),
		zap.Int("quantity", in.Quantity),
		zap.Int64("total_cents", o.TotalCents),
	)

	// Derivative write, outside the reservation transaction: the product's
	// denormalized status only has to be eventually consistent.
	RefreshInventoryStatus(ctx, c.db, c.log, in.ProductID, in.Variant)

	return o, nil
}

func (c *Coordinator) GetOrder(ctx context.Context, id string) (orders.Order, error) {
	return c.db.Orders().Get(ctx, id)
}

func (c *Coordinator) ListOrders(ctx context.Context) ([]orders.Order, error) {
	return c.db.Orders().List(ctx)
}

func (c *Coordinator) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	return c.db.Products().Get(ctx, id)
}

func (c *Coordinator) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return c.db.Products().List(ctx)
}

// RefreshInventoryStatus recomputes the derived stock status for the variant
// just touched and persists it onto the product. Best-effort: failures are
// logged and the quantity in the ledger stays authoritative.
func RefreshInventoryStatus(ctx context.Context, db storage.DB, log *zap.Logger, productID, variant string) {
	rec, err := db.Ledger().Get(ctx, productID, variant)
	if err != nil {
		log.Warn("inventory status refresh: read failed",
			zap.String("product_id", productID), zap.String("variant", variant), zap.Error(err))
		return
	}
	st := inventory.ComputeStatus(rec.Quantity, rec.LowStockThreshold)
	if err := db.Products().SetInventoryStatus(ctx, productID, st); err != nil {
		log.Warn("inventory status refresh: write failed",
			zap.String("product_id", productID), zap.Error(err))
	}
}
