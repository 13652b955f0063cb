// Package circuitbreaker builds gobreaker circuit breakers for outbound clients.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker"
)

var (
	// MaxNumOfFailingRequests is the number of requests a breaker must see before it may trip.
	MaxNumOfFailingRequests = 10
	// FailingRatio is the share of failed requests that trips the breaker.
	FailingRatio = 0.6
	// OpenTimeout is how long a tripped breaker rejects calls before probing again.
	OpenTimeout = time.Minute
)

// StateListener is notified on every breaker state transition.
type StateListener func(name string, from, to gobreaker.State)

// New returns a breaker that trips once more than MaxNumOfFailingRequests requests
// were seen and at least FailingRatio of them failed.
func New(name string, onStateChange StateListener) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
		OnStateChange: onStateChange,
	})
}

// Execute runs fn through cb and returns its typed result.
func Execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	return res.(T), nil
}
