package orders

import "math"

// Display-only checkout totals. The persisted/charged total stays
// price * quantity; tax and shipping exist for presentation only.
const (
	taxRate              = 0.0825
	flatShippingCents    = 1299
	freeShippingOverCent = 10000
)

type Totals struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TotalCents    int64 `json:"total_cents"`
}

func DisplayTotals(subtotalCents int64) Totals {
	tax := int64(math.Round(float64(subtotalCents) * taxRate))
	var shipping int64
	if subtotalCents <= freeShippingOverCent {
		shipping = flatShippingCents
	}
	return Totals{
		SubtotalCents: subtotalCents,
		TaxCents:      tax,
		ShippingCents: shipping,
		TotalCents:    subtotalCents + tax + shipping,
	}
}
