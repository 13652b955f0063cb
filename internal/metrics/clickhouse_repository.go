package metrics

import (
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clickhouseRepositoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedgewatch",
		Subsystem: "clickhouse_repository",
		Name:      "operations_total",
		Help:      "Count of repository operations.",
	}, []string{"operation", "currency", "status"})
	clickhouseRepositoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hedgewatch",
		Subsystem: "clickhouse_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of repository operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"operation", "currency", "status"})
)

// ClickhouseRepository tracks metrics for ClickHouse repository operations.
type ClickhouseRepository struct{}

// NewClickhouseRepository creates a ClickhouseRepository metrics collector.
func NewClickhouseRepository() *ClickhouseRepository {
	return &ClickhouseRepository{}
}

// Observe records duration and status of a repository operation. Batches spanning
// several currencies are reported with an empty currency.
func (m ClickhouseRepository) Observe(operation string, currency model.Currency, err error, started time.Time) {
	if currency == "" {
		currency = "all"
	}
	status := statusOf(err)
	clickhouseRepositoryRequestsTotal.WithLabelValues(operation, string(currency), status).Inc()
	clickhouseRepositoryRequestDuration.WithLabelValues(operation, string(currency), status).Observe(time.Since(started).Seconds())
}
