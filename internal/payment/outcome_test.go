package payment

import "testing"

func TestRandomOutcomesEdgeRates(t *testing.T) {
	alwaysUp := NewRandomOutcomes(0, 0)
	for i := 0; i < 100; i++ {
		if !alwaysUp.GatewayAvailable() {
			t.Fatal("rate 0 must never fail the gateway")
		}
		if alwaysUp.Declined() {
			t.Fatal("rate 0 must never decline")
		}
	}

	alwaysDown := NewRandomOutcomes(1, 1)
	for i := 0; i < 100; i++ {
		if alwaysDown.GatewayAvailable() {
			t.Fatal("rate 1 must always fail the gateway")
		}
		if !alwaysDown.Declined() {
			t.Fatal("rate 1 must always decline")
		}
	}
}

func TestDetailsSnapshotMasksCard(t *testing.T) {
	d := Details{
		CardNumber:     "4242424242424242",
		CardholderName: "Ada Lovelace",
		ExpiryDate:     "12/30",
		CVV:            "123",
	}
	s := d.Snapshot()
	if s.CardLast4 != "4242" {
		t.Fatalf("expected last4 4242, got %q", s.CardLast4)
	}
	if s.CardholderName != "Ada Lovelace" || s.ExpiryDate != "12/30" {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}

func TestNewTransactionCopiesAmount(t *testing.T) {
	txn := NewTransaction("o1", 4999, Details{CardNumber: "4242424242424242"}, StatusSuccess, "approved")
	if txn.AmountCents != 4999 {
		t.Fatalf("expected amount 4999, got %d", txn.AmountCents)
	}
	if txn.ID == "" || txn.OrderID != "o1" {
		t.Fatalf("unexpected transaction: %+v", txn)
	}
}
