package fulfillment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/go-storefront-fulfillment/internal/catalog"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/inventory"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/orders"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/payment"
	"github.com/ariefcatur/go-storefront-fulfillment/internal/storage/memstore"
	"go.uber.org/zap"
)

// scriptedOutcomes forces deterministic gateway results.
type scriptedOutcomes struct {
	mu        sync.Mutex
	gatewayUp bool
	declined  bool
}

func (s *scriptedOutcomes) set(gatewayUp, declined bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gatewayUp, s.declined = gatewayUp, declined
}

func (s *scriptedOutcomes) GatewayAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gatewayUp
}

func (s *scriptedOutcomes) Declined() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.declined
}

type captureNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (n *captureNotifier) Notify(ctx context.Context, o orders.Order, txn payment.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.err
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

type env struct {
	db       *memstore.DB
	coord    *Coordinator
	proc     *Processor
	outcomes *scriptedOutcomes
	notifier *captureNotifier
}

const (
	productID = "p1"
	variant   = "red"
	priceCent = 4999
	stockQty  = 5
	threshold = 2
)

func newEnv(t *testing.T) *env {
	t.Helper()
	db := memstore.New()
	ctx := context.Background()

	err := db.Products().Put(ctx, catalog.Product{
		ID:              productID,
		Title:           "Enamel Mug",
		PriceCents:      priceCent,
		Variants:        []string{variant, "blue"},
		InventoryStatus: inventory.StatusInStock,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	err = db.Ledger().Put(ctx, inventory.Record{
		ProductID:         productID,
		Variant:           variant,
		Quantity:          stockQty,
		LowStockThreshold: threshold,
		UpdatedAt:         time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	log := zap.NewNop()
	outcomes := &scriptedOutcomes{gatewayUp: true}
	notifier := &captureNotifier{}
	return &env{
		db:       db,
		coord:    NewCoordinator(db, log),
		proc:     NewProcessor(db, outcomes, notifier, log),
		outcomes: outcomes,
		notifier: notifier,
	}
}

func (e *env) createOrder(t *testing.T, qty int) orders.Order {
	t.Helper()
	o, err := e.coord.CreateOrder(context.Background(), CreateOrderInput{
		ProductID: productID,
		Variant:   variant,
		Quantity:  qty,
		Customer:  orders.CustomerInfo{FullName: "Jane Doe", Email: "jane@example.com", Phone: "+12125551234"},
		Shipping:  orders.ShippingAddress{Street: "123 Main Street", City: "Springfield", State: "IL", ZipCode: "62704", Country: "USA"},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return o
}

func (e *env) quantity(t *testing.T) int {
	t.Helper()
	rec, err := e.db.Ledger().Get(context.Background(), productID, variant)
	if err != nil {
		t.Fatalf("ledger get: %v", err)
	}
	return rec.Quantity
}

var testDetails = payment.Details{
	CardNumber:     "4242424242424242",
	CardholderName: "Jane Doe",
	ExpiryDate:     "12/30",
	CVV:            "123",
}

func TestCreateOrderReservesInventory(t *testing.T) {
	e := newEnv(t)
	o := e.createOrder(t, stockQty)

	if o.Status != orders.StatusPending {
		t.Fatalf("expected pending, got %s", o.Status)
	}
	if o.TotalCents != int64(stockQty)*priceCent {
		t.Fatalf("unexpected total %d", o.TotalCents)
	}
	if got := e.quantity(t); got != 0 {
		t.Fatalf("expected quantity 0, got %d", got)
	}

	p, err := e.db.Products().Get(context.Background(), productID)
	if err != nil {
		t.Fatalf("product get: %v", err)
	}
	if p.InventoryStatus != inventory.StatusOutOfStock {
		t.Fatalf("expected out_of_stock, got %s", p.InventoryStatus)
	}
}

func TestCreateOrderInsufficientInventory(t *testing.T) {
	e := newEnv(t)
	_, err := e.coord.CreateOrder(context.Background(), CreateOrderInput{
		ProductID: productID, Variant: variant, Quantity: stockQty + 1,
	})
	if !errors.Is(err, inventory.ErrInsufficient) {
		t.Fatalf("expected ErrInsufficient, got %v", err)
	}
	if got := e.quantity(t); got != stockQty {
		t.Fatalf("inventory must be unchanged, got %d", got)
	}
	list, err := e.coord.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected zero orders, got %d", len(list))
	}
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	e := newEnv(t)
	_, err := e.coord.CreateOrder(context.Background(), CreateOrderInput{
		ProductID: "nope", Variant: variant, Quantity: 1,
	})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected catalog.ErrNotFound, got %v", err)
	}
}

func TestCreateOrderUnknownVariant(t *testing.T) {
	e := newEnv(t)
	_, err := e.coord.CreateOrder(context.Background(), CreateOrderInput{
		ProductID: productID, Variant: "chartreuse", Quantity: 1,
	})
	if !errors.Is(err, inventory.ErrNotFound) {
		t.Fatalf("expected inventory.ErrNotFound, got %v", err)
	}
	list, _ := e.coord.ListOrders(context.Background())
	if len(list) != 0 {
		t.Fatalf("expected zero orders, got %d", len(list))
	}
}

func TestCreateOrderNonPositiveQuantity(t *testing.T) {
	e := newEnv(t)
	for _, qty := range []int{0, -3} {
		_, err := e.coord.CreateOrder(context.Background(), CreateOrderInput{
			ProductID: productID, Variant: variant, Quantity: qty,
		})
		if !errors.Is(err, orders.ErrInvalidQuantity) {
			t.Fatalf("qty=%d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestCreateOrderCancelledContextCommitsNothing(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.coord.CreateOrder(ctx, CreateOrderInput{
		ProductID: productID, Variant: variant, Quantity: 1,
	})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if got := e.quantity(t); got != stockQty {
		t.Fatalf("inventory must be unchanged, got %d", got)
	}
	list, _ := e.coord.ListOrders(context.Background())
	if len(list) != 0 {
		t.Fatalf("expected zero orders, got %d", len(list))
	}
}

func TestConcurrentReservationsNeverOversell(t *testing.T) {
	e := newEnv(t)

	const callers = 10
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.coord.CreateOrder(context.Background(), CreateOrderInput{
				ProductID: productID, Variant: variant, Quantity: 1,
				Customer: orders.CustomerInfo{FullName: "Jane Doe"},
			})
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, inventory.ErrInsufficient):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != stockQty {
		t.Fatalf("expected %d successful reservations, got %d", stockQty, ok)
	}
	if insufficient != callers-stockQty {
		t.Fatalf("expected %d rejections, got %d", callers-stockQty, insufficient)
	}
	if got := e.quantity(t); got != 0 {
		t.Fatalf("expected quantity 0, got %d", got)
	}
}

func TestSecondOrderAfterStockExhausted(t *testing.T) {
	e := newEnv(t)
	e.createOrder(t, stockQty)

	_, err := e.coord.CreateOrder(context.Background(), CreateOrderInput{
		ProductID: productID, Variant: variant, Quantity: 1,
	})
	if !errors.Is(err, inventory.ErrInsufficient) {
		t.Fatalf("expected ErrInsufficient, got %v", err)
	}
}

func TestPaySuccess(t *testing.T) {
	e := newEnv(t)
	o := e.createOrder(t, 2)

	txn, err := e.proc.Pay(context.Background(), o.ID, testDetails)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if txn.Status != payment.StatusSuccess {
		t.Fatalf("expected success, got %s", txn.Status)
	}
	if txn.AmountCents != o.TotalCents {
		t.Fatalf("amount must come from the order: got %d, want %d", txn.AmountCents, o.TotalCents)
	}
	if txn.Details.CardLast4 != "4242" {
		t.Fatalf("expected masked card, got %+v", txn.Details)
	}

	got, err := e.coord.GetOrder(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.Status != orders.StatusSuccess {
		t.Fatalf("expected order success, got %s", got.Status)
	}
	if q := e.quantity(t); q != stockQty-2 {
		t.Fatalf("successful payment must not touch inventory, got %d", q)
	}
	if e.notifier.count() != 1 {
		t.Fatalf("expected 1 notification, got %d", e.notifier.count())
	}

	paid, err := e.proc.HasAlreadyPaid(context.Background(), o.ID)
	if err != nil || !paid {
		t.Fatalf("HasAlreadyPaid = %v, %v", paid, err)
	}
}

func TestPayTwiceIsAlreadyPaid(t *testing.T) {
	e := newEnv(t)
	o := e.createOrder(t, 2)

	if _, err := e.proc.Pay(context.Background(), o.ID, testDetails); err != nil {
		t.Fatalf("first Pay: %v", err)
	}
	qtyAfter := e.quantity(t)

	_, err := e.proc.Pay(context.Background(), o.ID, testDetails)
	if !errors.Is(err, payment.ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
	if e.quantity(t) != qtyAfter {
		t.Fatal("second Pay must not mutate inventory")
	}
	if e.notifier.count() != 1 {
		t.Fatalf("expected 1 notification, got %d", e.notifier.count())
	}
}

func TestPayDeclinedCompensates(t *testing.T) {
	e := newEnv(t)
	o := e.createOrder(t, 3)
	e.outcomes.set(true, true)

	txn, err := e.proc.Pay(context.Background(), o.ID, testDetails)
	if !errors.Is(err, payment.ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if txn.Status != payment.StatusFailed {
		t.Fatalf("expected recorded failed transaction, got %+v", txn)
	}
	if txn.AmountCents != o.TotalCents {
		t.Fatalf("declined transaction still snapshots the order amount, got %d", txn.AmountCents)
	}

	// Compensation restored exactly the reserved quantity.
	if q := e.quantity(t); q != stockQty {
		t.Fatalf("expected restored quantity %d, got %d", stockQty, q)
	}
	got, _ := e.coord.GetOrder(context.Background(), o.ID)
	if got.Status != orders.StatusFailed {
		t.Fatalf("expected order failed, got %s", got.Status)
	}
	if e.notifier.count() != 0 {
		t.Fatal("declines must not notify")
	}

	// The failed transaction is still readable.
	stored, err := e.proc.GetTransaction(context.Background(), txn.ID)
	if err != nil || stored.Status != payment.StatusFailed {
		t.Fatalf("GetTransaction = %+v, %v", stored, err)
	}

	// The order is terminal: another attempt is a state error, not AlreadyPaid.
	e.outcomes.set(true, false)
	_, err = e.proc.Pay(context.Background(), o.ID, testDetails)
	if !errors.Is(err, orders.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestPayGatewayFailureLeavesNoTrace(t *testing.T) {
	e := newEnv(t)
	o := e.createOrder(t, 2)
	e.outcomes.set(false, false)

	_, err := e.proc.Pay(context.Background(), o.ID, testDetails)
	if !errors.Is(err, payment.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
	if !Retryable(err) {
		t.Fatal("gateway failure must be retryable")
	}

	got, _ := e.coord.GetOrder(context.Background(), o.ID)
	if got.Status != orders.StatusPending {
		t.Fatalf("order must stay pending, got %s", got.Status)
	}
	if q := e.quantity(t); q != stockQty-2 {
		t.Fatalf("reservation must stay in place, got %d", q)
	}
	paid, _ := e.proc.HasAlreadyPaid(context.Background(), o.ID)
	if paid {
		t.Fatal("no transaction may be recorded on gateway failure")
	}

	// The retry is a fresh attempt and may succeed.
	e.outcomes.set(true, false)
	txn, err := e.proc.Pay(context.Background(), o.ID, testDetails)
	if err != nil {
		t.Fatalf("retry Pay: %v", err)
	}
	if txn.Status != payment.StatusSuccess {
		t.Fatalf("expected success on retry, got %s", txn.Status)
	}
}

func TestPayUnknownOrder(t *testing.T) {
	e := newEnv(t)
	_, err := e.proc.Pay(context.Background(), "missing", testDetails)
	if !errors.Is(err, orders.ErrNotFound) {
		t.Fatalf("expected orders.ErrNotFound, got %v", err)
	}
}

func TestNotifierFailureDoesNotFailPayment(t *testing.T) {
	e := newEnv(t)
	e.notifier.err = errors.New("smtp down")
	o := e.createOrder(t, 1)

	txn, err := e.proc.Pay(context.Background(), o.ID, testDetails)
	if err != nil {
		t.Fatalf("Pay must swallow notifier errors, got %v", err)
	}
	if txn.Status != payment.StatusSuccess {
		t.Fatalf("expected success, got %s", txn.Status)
	}
	got, _ := e.coord.GetOrder(context.Background(), o.ID)
	if got.Status != orders.StatusSuccess {
		t.Fatalf("expected order success, got %s", got.Status)
	}
}

func TestConcurrentPaySameOrderSettlesOnce(t *testing.T) {
	e := newEnv(t)
	o := e.createOrder(t, 2)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.proc.Pay(context.Background(), o.ID, testDetails)
		}(i)
	}
	wg.Wait()

	var ok, alreadyPaid int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, payment.ErrAlreadyPaid):
			alreadyPaid++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("exactly one Pay may succeed, got %d", ok)
	}
	if alreadyPaid != callers-1 {
		t.Fatalf("expected %d AlreadyPaid, got %d", callers-1, alreadyPaid)
	}
	if e.notifier.count() != 1 {
		t.Fatalf("expected 1 notification, got %d", e.notifier.count())
	}
	if q := e.quantity(t); q != stockQty-2 {
		t.Fatalf("inventory mutated by racing payments, got %d", q)
	}
}

func TestDeclineRefreshesProductStatus(t *testing.T) {
	e := newEnv(t)
	o := e.createOrder(t, stockQty) // drains stock, product goes out_of_stock
	e.outcomes.set(true, true)

	if _, err := e.proc.Pay(context.Background(), o.ID, testDetails); !errors.Is(err, payment.ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}

	p, err := e.db.Products().Get(context.Background(), productID)
	if err != nil {
		t.Fatalf("product get: %v", err)
	}
	if p.InventoryStatus != inventory.StatusInStock {
		t.Fatalf("expected in_stock after restore, got %s", p.InventoryStatus)
	}
}
