package metrics

import (
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	discoveryHistoryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedgewatch",
		Subsystem: "discovery",
		Name:      "history_fetch_total",
		Help:      "Count of transaction history fetches by source.",
	}, []string{"currency", "source", "status"})

	discoveryBatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedgewatch",
		Subsystem: "discovery",
		Name:      "detail_batch_total",
		Help:      "Count of transaction detail batches.",
	}, []string{"currency", "status"})

	discoveryBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hedgewatch",
		Subsystem: "discovery",
		Name:      "detail_batch_duration_seconds",
		Help:      "Duration of fetching and classifying one detail batch.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"currency", "status"})

	discoveryClassifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedgewatch",
		Subsystem: "discovery",
		Name:      "classified_transactions_total",
		Help:      "Count of newly classified wallet transactions.",
	}, []string{"currency", "kind"})

	discoveryCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedgewatch",
		Subsystem: "discovery",
		Name:      "cache_hits_total",
		Help:      "Count of history entries already classified in the funding cache.",
	}, []string{"currency"})
)

// Discovery tracks contract discovery for one unit of account.
type Discovery struct {
	currency string
}

func NewDiscovery(currency model.Currency) *Discovery {
	c := string(currency)
	if c == "" {
		c = "unknown"
	}
	return &Discovery{currency: c}
}

func (m Discovery) ObserveHistory(source string, err error) {
	discoveryHistoryTotal.WithLabelValues(m.currency, source, statusOf(err)).Inc()
}

func (m Discovery) ObserveBatch(err error, started time.Time) {
	status := statusOf(err)
	discoveryBatchTotal.WithLabelValues(m.currency, status).Inc()
	discoveryBatchDuration.WithLabelValues(m.currency, status).Observe(time.Since(started).Seconds())
}

// ObserveClassified counts a classified transaction as "funding" or "other".
func (m Discovery) ObserveClassified(funding bool) {
	kind := "other"
	if funding {
		kind = "funding"
	}
	discoveryClassifiedTotal.WithLabelValues(m.currency, kind).Inc()
}

func (m Discovery) ObserveCacheHits(n int) {
	discoveryCacheHitsTotal.WithLabelValues(m.currency).Add(float64(n))
}
