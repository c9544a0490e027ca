package httpx

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
)

// Checkout validation rules, matching the storefront's form constraints.
var (
	rePhone  = regexp.MustCompile(`^\+[1-9]\d{1,14}$`) // E.164
	reEmail  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	reZip    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	reCard   = regexp.MustCompile(`^[0-9]{16}$`)
	reExpiry = regexp.MustCompile(`^(0[1-9]|1[0-2])/([2-9][0-9])$`)
	reCVV    = regexp.MustCompile(`^[0-9]{3,4}$`)
)

func lengthBetween(field, v string, min, max int) string {
	if len(v) < min || len(v) > max {
		return fmt.Sprintf("%s must be between %d and %d characters", field, min, max)
	}
	return ""
}

func validateCheckout(c orders.CustomerInfo, s orders.ShippingAddress) []string {
	var problems []string
	add := func(p string) {
		if p != "" {
			problems = append(problems, p)
		}
	}
	add(lengthBetween("full_name", c.FullName, 2, 50))
	if !reEmail.MatchString(c.Email) {
		add("email must be a valid address")
	}
	if !rePhone.MatchString(c.Phone) {
		add("phone must be in E.164 format")
	}
	add(lengthBetween("street", s.Street, 5, 100))
	add(lengthBetween("city", s.City, 2, 50))
	add(lengthBetween("state", s.State, 2, 50))
	add(lengthBetween("country", s.Country, 2, 50))
	if !reZip.MatchString(s.ZipCode) {
		add("zip_code must be 12345 or 12345-6789")
	}
	return problems
}

func validatePayment(d payment.Details) []string {
	var problems []string
	if !reCard.MatchString(d.CardNumber) {
		problems = append(problems, "card_number must be 16 digits")
	}
	if p := lengthBetween("cardholder_name", d.CardholderName, 2, 50); p != "" {
		problems = append(problems, p)
	}
	if !reExpiry.MatchString(d.ExpiryDate) {
		problems = append(problems, "expiry_date must be MM/YY")
	} else if expired(d.ExpiryDate, time.Now()) {
		problems = append(problems, "expiry_date must be in the future")
	}
	if !reCVV.MatchString(d.CVV) {
		problems = append(problems, "cvv must be 3 or 4 digits")
	}
	return problems
}

func expired(mmYY string, now time.Time) bool {
	month, _ := strconv.Atoi(mmYY[:2])
	year, _ := strconv.Atoi(mmYY[3:])
	year += 2000
	if year > now.Year() {
		return false
	}
	if year == now.Year() && month >= int(now.Month()) {
		return false
	}
	return true
}
