package payment

import (
	"math/rand"
	"sync"
	"time"
)

// Gateway simulation defaults: 10% of calls fail before a transaction is
// recorded, 25% of the rest are declined. The two draws are independent.
const (
	DefaultGatewayFailureRate = 0.10
	DefaultDeclineRate        = 0.25
)

// OutcomeSource supplies the two independent probability draws of the
// simulated gateway so tests can force deterministic outcomes.
type OutcomeSource interface {
	// GatewayAvailable is drawn first; false means the payment network was
	// unreachable and no transaction may be recorded.
	GatewayAvailable() bool
	// Declined decides the recorded transaction outcome.
	Declined() bool
}

type RandomOutcomes struct {
	mu                 sync.Mutex
	r                  *rand.Rand
	gatewayFailureRate float64
	declineRate        float64
}

func NewRandomOutcomes(gatewayFailureRate, declineRate float64) *RandomOutcomes {
	return &RandomOutcomes{
		r:                  rand.New(rand.NewSource(time.Now().UnixNano())),
		gatewayFailureRate: gatewayFailureRate,
		declineRate:        declineRate,
	}
}

func (o *RandomOutcomes) GatewayAvailable() bool {
	return o.draw() >= o.gatewayFailureRate
}

func (o *RandomOutcomes) Declined() bool {
	return o.draw() < o.declineRate
}

func (o *RandomOutcomes) draw() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.r.Float64()
}
