package notify

import (
	"context"
	"time"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/kafkax"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// KafkaNotifier publishes order confirmations for the mailer worker.
// Publishing is best-effort: the producer logs write failures and the
// payment path never waits on the broker.
type KafkaNotifier struct {
	Producer *kafkax.Producer
	Service  string
}

func (n *KafkaNotifier) Notify(ctx context.Context, o orders.Order, txn payment.Transaction) error {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderConfirmed,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      n.Service,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(OrderConfirmedPayload{
			OrderID:        o.ID,
			TransactionID:  txn.ID,
			AmountCents:    txn.AmountCents,
			Status:         txn.Status,
			Email:          o.Customer.Email,
			FullName:       o.Customer.FullName,
			Title:          o.Product.Title,
			Variant:        o.Product.Variant,
			Quantity:       o.Product.Quantity,
			Street:         o.Shipping.Street,
			City:           o.Shipping.City,
			State:          o.Shipping.State,
			ZipCode:        o.Shipping.ZipCode,
			Country:        o.Shipping.Country,
			OrderedAt:      o.CreatedAt,
			TrackingNumber: TrackingNumber(),
			PaymentDetails: txn.Details,
		}),
	}
	n.Producer.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderConfirmed)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	return nil
}
