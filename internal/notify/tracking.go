package notify

import (
	"fmt"
	"math/rand"
)

// TrackingNumber returns a "TRK" prefixed 10-digit shipment reference.
func TrackingNumber() string {
	return fmt.Sprintf("TRK%010d", rand.Int63n(1e10))
}
