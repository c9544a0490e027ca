package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/fulfillment"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// Handler is the thin JSON-over-HTTP presentation of the fulfillment core.
// Redis is an optional read cache and paid-order fast path; the database
// stays the source of truth either way.
type Handler struct {
	Coordinator *fulfillment.Coordinator
	Processor   *fulfillment.Processor
	Redis       *redis.Client
}

type CreateOrderReq struct {
	Product struct {
		ProductID string `json:"product_id"`
		Variant   string `json:"variant"`
		Quantity  int    `json:"quantity"`
	} `json:"product"`
	Customer orders.CustomerInfo    `json:"customer_info"`
	Shipping orders.ShippingAddress `json:"shipping_address"`
}

type CreateOrderResp struct {
	Order  orders.Order  `json:"order"`
	Totals orders.Totals `json:"totals"`
}

type PayReq struct {
	OrderID string          `json:"order_id"`
	Details payment.Details `json:"payment_details"`
}

func (h *Handler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/payment", h.pay)
	r.Get("/payment/{id}", h.getTransaction)
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Product.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "product_id is required"})
		return
	}
	if req.Product.Quantity <= 0 {
		writeError(w, orders.ErrInvalidQuantity)
		return
	}
	if problems := validateCheckout(req.Customer, req.Shipping); len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "details": problems})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Coordinator.CreateOrder(ctx, fulfillment.CreateOrderInput{
		ProductID: req.Product.ProductID,
		Variant:   req.Product.Variant,
		Quantity:  req.Product.Quantity,
		Customer:  req.Customer,
		Shipping:  req.Shipping,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.cacheOrder(ctx, o)
	writeJSON(w, http.StatusCreated, CreateOrderResp{Order: o, Totals: orders.DisplayTotals(o.TotalCents)})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Coordinator.ListOrders(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrder, id)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	o, err := h.Coordinator.GetOrder(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheOrder(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	var req PayReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.OrderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_id is required"})
		return
	}
	if problems := validatePayment(req.Details); len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "details": problems})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Fast-path idempotency guard; the processor re-checks inside its
	// transaction either way.
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderPaid, req.OrderID)
		if paid, _ := redisx.Exists(ctx, h.Redis, key); paid {
			writeError(w, payment.ErrAlreadyPaid)
			return
		}
	}

	txn, err := h.Processor.Pay(ctx, req.OrderID, req.Details)
	if errors.Is(err, payment.ErrDeclined) {
		h.dropOrderCache(ctx, req.OrderID)
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"error":       err.Error(),
			"transaction": txn,
		})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderPaid, req.OrderID)
		_ = h.Redis.Set(ctx, key, txn.ID, redisx.TTLPaidGuard).Err()
	}
	h.dropOrderCache(ctx, req.OrderID)
	writeJSON(w, http.StatusOK, txn)
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	txn, err := h.Processor.GetTransaction(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Coordinator.ListProducts(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Coordinator.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) cacheOrder(ctx context.Context, o orders.Order) {
	if h.Redis == nil {
		return
	}
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrder, o.ID)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLOrderCache).Err()
}

func (h *Handler) dropOrderCache(ctx context.Context, id string) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrder, id)).Err()
}
