package metrics

import (
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	monitorCycleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedgewatch",
		Subsystem: "monitor",
		Name:      "refresh_cycles_total",
		Help:      "Count of refresh cycles.",
	}, []string{"status"})

	monitorCycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hedgewatch",
		Subsystem: "monitor",
		Name:      "refresh_cycle_duration_seconds",
		Help:      "Duration of a refresh cycle across all accounts.",
		Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1200},
	}, []string{"status"})

	monitorAccountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hedgewatch",
		Subsystem: "monitor",
		Name:      "account_refresh_total",
		Help:      "Count of account refreshes.",
	}, []string{"currency", "status"})

	monitorWalletBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "hedgewatch",
		Subsystem: "monitor",
		Name:      "wallet_balance_bch",
		Help:      "Latest wallet balance in BCH.",
	}, []string{"currency"})

	monitorContractsBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "hedgewatch",
		Subsystem: "monitor",
		Name:      "contracts_balance_bch",
		Help:      "Latest value of active hedge contracts in BCH.",
	}, []string{"currency"})

	monitorProposalAPY = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "hedgewatch",
		Subsystem: "monitor",
		Name:      "proposal_apy_percent",
		Help:      "Adjusted APY of the latest proposal, 0 when there is none.",
	}, []string{"currency"})
)

// Monitor tracks refresh cycles and the latest per-account figures.
type Monitor struct{}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m Monitor) ObserveCycle(err error, started time.Time) {
	status := statusOf(err)
	monitorCycleTotal.WithLabelValues(status).Inc()
	monitorCycleDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

func (m Monitor) ObserveAccount(a model.Account) {
	currency := string(a.Wallet.Currency)
	monitorAccountTotal.WithLabelValues(currency, statusOf(a.Err)).Inc()
	if a.Err != nil {
		return
	}
	if a.WalletBalanceBch != nil {
		monitorWalletBalance.WithLabelValues(currency).Set(a.WalletBalanceBch.InexactFloat64())
	}
	if a.ContractsBalanceBch != nil {
		monitorContractsBalance.WithLabelValues(currency).Set(a.ContractsBalanceBch.InexactFloat64())
	}
	apy := 0.0
	if a.Proposal != nil {
		apy = a.Proposal.Offer.AdjustedAPY.InexactFloat64()
	}
	monitorProposalAPY.WithLabelValues(currency).Set(apy)
}
