package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/catalog"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/inventory"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the core error taxonomy onto HTTP status codes. Errors are
// surfaced verbatim; nothing is downgraded.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, orders.ErrNotFound),
		errors.Is(err, inventory.ErrNotFound),
		errors.Is(err, payment.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, orders.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, payment.ErrInvalidDetails):
		code = http.StatusBadRequest
	case errors.Is(err, inventory.ErrInsufficient),
		errors.Is(err, payment.ErrAlreadyPaid),
		errors.Is(err, orders.ErrInvalidTransition):
		code = http.StatusConflict
	case errors.Is(err, payment.ErrGatewayUnavailable):
		code = http.StatusBadGateway
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
