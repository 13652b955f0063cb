package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clientRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedgewatch",
		Subsystem: "client",
		Name:      "operations_total",
		Help:      "Count of upstream service calls.",
	}, []string{"service", "operation", "status"})
	clientRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hedgewatch",
		Subsystem: "client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of upstream service calls.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"service", "operation", "status"})
)

// Client tracks metrics for calls to one upstream service (explorer, oracle, premium
// feed, settlement helper).
type Client struct {
	service string
}

// NewClient constructs a metrics collector for an upstream service.
func NewClient(service string) *Client {
	if service == "" {
		service = "unknown"
	}
	return &Client{service: service}
}

// Observe records a single call outcome and duration.
func (m Client) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	clientRequestsTotal.WithLabelValues(m.service, operation, status).Inc()
	clientRequestDuration.WithLabelValues(m.service, operation, status).Observe(time.Since(started).Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
