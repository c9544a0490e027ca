package inventory

import "testing"

func TestComputeStatus(t *testing.T) {
	cases := []struct {
		name      string
		qty       int
		threshold int
		want      Status
	}{
		{"zero is out of stock", 0, 5, StatusOutOfStock},
		{"zero beats threshold", 0, 0, StatusOutOfStock},
		{"at threshold is low", 5, 5, StatusLowStock},
		{"below threshold is low", 3, 5, StatusLowStock},
		{"just above threshold is in stock", 6, 5, StatusInStock},
		{"plenty is in stock", 100, 20, StatusInStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeStatus(tc.qty, tc.threshold); got != tc.want {
				t.Fatalf("ComputeStatus(%d, %d) = %s, want %s", tc.qty, tc.threshold, got, tc.want)
			}
		})
	}
}

func TestRecordStatus(t *testing.T) {
	r := Record{Quantity: 4, LowStockThreshold: 5}
	if r.Status() != StatusLowStock {
		t.Fatalf("expected low_stock, got %s", r.Status())
	}
}
