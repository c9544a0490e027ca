package mailer

import (
	"fmt"
	"strings"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/notify"
)

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// Render produces the confirmation mail for a settled order.
func Render(p notify.OrderConfirmedPayload) (subject, body string) {
	subject = "Order Confirmation"

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", p.FullName)
	b.WriteString("Thank you for your order! Your payment has been processed successfully.\n\n")
	b.WriteString("Order Details\n")
	fmt.Fprintf(&b, "  Order ID:     %s\n", p.OrderID)
	fmt.Fprintf(&b, "  Order Date:   %s\n", p.OrderedAt.Format("January 2, 2006 15:04"))
	fmt.Fprintf(&b, "  Product:      %s\n", p.Title)
	if p.Variant != "" {
		fmt.Fprintf(&b, "  Variant:      %s\n", p.Variant)
	}
	fmt.Fprintf(&b, "  Quantity:     %d\n", p.Quantity)
	fmt.Fprintf(&b, "  Total Amount: %s\n", formatCents(p.AmountCents))
	fmt.Fprintf(&b, "  Payment:      %s (card ending %s)\n\n", p.Status, p.PaymentDetails.CardLast4)
	b.WriteString("Shipping Information\n")
	fmt.Fprintf(&b, "  %s\n  %s, %s %s\n  %s\n\n", p.Street, p.City, p.State, p.ZipCode, p.Country)
	fmt.Fprintf(&b, "Tracking Number: %s\n\n", p.TrackingNumber)
	b.WriteString("Best regards,\nThe Storefront Team\n")
	return subject, b.String()
}
