package fulfillment

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/storage"
	"go.uber.org/zap"
)

// Processor executes single payment attempts. Per order the whole
// idempotency-check -> gateway draw -> transaction -> settle sequence runs
// under the order's row lock, so concurrent Pay calls on the same order
// serialize while different orders stay independent.
type Processor struct {
	db       storage.DB
	outcomes payment.OutcomeSource
	notifier Notifier
	log      *zap.Logger
}

func NewProcessor(db storage.DB, outcomes payment.OutcomeSource, notifier Notifier, log *zap.Logger) *Processor {
	return &Processor{db: db, outcomes: outcomes, notifier: notifier, log: log}
}

// Pay runs one payment attempt against a pending order.
//
// Declines return payment.ErrDeclined together with the recorded failed
// transaction; the reserved quantity has already been restored. A gateway
// failure records nothing and is safe to retry.
func (p *Processor) Pay(ctx context.Context, orderID string, details payment.Details) (payment.Transaction, error) {
	if orderID == "" {
		return payment.Transaction{}, orders.ErrNotFound
	}

	var (
		txn      payment.Transaction
		order    orders.Order
		declined bool
	)
	err := p.db.WithinTx(ctx, func(s storage.Store) error {
		o, err := s.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		order = o

		// Idempotency guard. Checked before any gateway simulation so a
		// client retry can never double-charge or double-decrement.
		paid, err := s.Transactions().HasSucceeded(ctx, orderID)
		if err != nil {
			return err
		}
		if paid {
			return payment.ErrAlreadyPaid
		}
		if o.Status != orders.StatusPending {
			if o.Status == orders.StatusSuccess {
				return payment.ErrAlreadyPaid
			}
			return orders.ErrInvalidTransition
		}

		if !p.outcomes.GatewayAvailable() {
			// Transient network failure: abort before anything is written.
			return payment.ErrGatewayUnavailable
		}

		st, msg := payment.StatusSuccess, "approved"
		if p.outcomes.Declined() {
			st, msg = payment.StatusFailed, "card declined"
			declined = true
		}
		// Amount comes from the order row, never from the caller.
		txn = payment.NewTransaction(o.ID, o.TotalCents, details, st, msg)
		if err := s.Transactions().Create(ctx, txn); err != nil {
			return err
		}

		if declined {
			if err := s.Ledger().Restore(ctx, o.Product.ProductID, o.Product.Variant, o.Product.Quantity); err != nil {
				return err
			}
			return s.Orders().SetStatus(ctx, o.ID, orders.StatusFailed)
		}
		return s.Orders().SetStatus(ctx, o.ID, orders.StatusSuccess)
	})
	if err != nil {
		return payment.Transaction{}, err
	}

	if declined {
		p.log.Info("payment declined",
			zap.String("order_id", order.ID),
			zap.String("transaction_id", txn.ID),
			zap.Int64("amount_cents", txn.AmountCents),
		)
		RefreshInventoryStatus(ctx, p.db, p.log, order.Product.ProductID, order.Product.Variant)
		return txn, payment.ErrDeclined
	}

	p.log.Info("payment succeeded",
		zap.String("order_id", order.ID),
		zap.String("transaction_id", txn.ID),
		zap.Int64("amount_cents", txn.AmountCents),
	)
	if p.notifier != nil {
		if err := p.notifier.Notify(ctx, order, txn); err != nil {
			p.log.Warn("confirmation notify failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	return txn, nil
}

// HasAlreadyPaid reports whether a successful transaction exists for the order.
func (p *Processor) HasAlreadyPaid(ctx context.Context, orderID string) (bool, error) {
	return p.db.Transactions().HasSucceeded(ctx, orderID)
}

func (p *Processor) GetTransaction(ctx context.Context, id string) (payment.Transaction, error) {
	return p.db.Transactions().Get(ctx, id)
}

// Retryable reports whether the caller may safely retry the same Pay call.
func Retryable(err error) bool {
	return errors.Is(err, payment.ErrGatewayUnavailable)
}
