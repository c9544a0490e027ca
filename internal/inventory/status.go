package inventory

type Status string

const (
	StatusInStock    Status = "in_stock"
	StatusLowStock   Status = "low_stock"
	StatusOutOfStock Status = "out_of_stock"
)

// ComputeStatus derives the stock status from a quantity and threshold.
// Zero quantity wins over the low-stock threshold.
func ComputeStatus(quantity, lowStockThreshold int) Status {
	switch {
	case quantity == 0:
		return StatusOutOfStock
	case quantity <= lowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
