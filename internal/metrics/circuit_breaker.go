package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var circuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "hedgewatch",
	Subsystem: "circuit_breaker",
	Name:      "state",
	Help:      "Breaker state per upstream: 0 closed, 1 half-open, 2 open.",
}, []string{"name"})

// CircuitBreaker exports breaker state transitions.
type CircuitBreaker struct{}

func NewCircuitBreaker() *CircuitBreaker {
	return &CircuitBreaker{}
}

// OnStateChange matches the gobreaker OnStateChange hook.
func (m CircuitBreaker) OnStateChange(name string, _, to gobreaker.State) {
	circuitBreakerState.WithLabelValues(name).Set(float64(to))
}
