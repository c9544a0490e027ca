package notify

import (
	"encoding/json"
	"time"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
)

const (
	EventOrderConfirmed = "OrderConfirmed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// OrderConfirmedPayload carries everything the mailer needs to render the
// confirmation without calling back into the API.
type OrderConfirmedPayload struct {
	OrderID        string                  `json:"order_id"`
	TransactionID  string                  `json:"transaction_id"`
	AmountCents    int64                   `json:"amount_cents"`
	Status         payment.Status          `json:"status"`
	Email          string                  `json:"email"`
	FullName       string                  `json:"full_name"`
	Title          string                  `json:"title"`
	Variant        string                  `json:"variant"`
	Quantity       int                     `json:"quantity"`
	Street         string                  `json:"street"`
	City           string                  `json:"city"`
	State          string                  `json:"state"`
	ZipCode        string                  `json:"zip_code"`
	Country        string                  `json:"country"`
	OrderedAt      time.Time               `json:"ordered_at"`
	TrackingNumber string                  `json:"tracking_number"`
	PaymentDetails payment.DetailsSnapshot `json:"payment_details"`
}
