package monitor

import (
	"sort"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/shopspring/decimal"
)

// View is the published state of one account. It never carries key material.
type View struct {
	Currency            model.Currency   `json:"currency"`
	Address             string           `json:"address,omitempty"`
	WatchOnly           bool             `json:"watchOnly"`
	OracleKey           string           `json:"oracleKey"`
	LatestPrice         decimal.Decimal  `json:"latestPrice"`
	WalletBalanceBch    *decimal.Decimal `json:"walletBalanceBch,omitempty"`
	WalletBalance       *decimal.Decimal `json:"walletBalance,omitempty"`
	ContractsBalance    *decimal.Decimal `json:"contractsBalance,omitempty"`
	ContractsBalanceBch *decimal.Decimal `json:"contractsBalanceBch,omitempty"`
	TotalBalanceBch     *decimal.Decimal `json:"totalBalanceBch,omitempty"`
	ActiveContracts     int              `json:"activeContracts"`
	SettledContracts    int              `json:"settledContracts"`
	CostBasis           *decimal.Decimal `json:"costBasis,omitempty"`
	PriceDelta          *decimal.Decimal `json:"priceDeltaPercent,omitempty"`
	Proposal            *ProposalView    `json:"proposal,omitempty"`
	Error               string           `json:"error,omitempty"`
	RefreshedAt         time.Time        `json:"refreshedAt"`
}

type ProposalView struct {
	AmountBch       decimal.Decimal `json:"amountBch"`
	DurationSeconds int64           `json:"durationSeconds"`
	DurationDays    float64         `json:"durationDays"`
	APY             decimal.Decimal `json:"apy"`
	AdjustedAPY     decimal.Decimal `json:"adjustedApy"`
	TotalFee        decimal.Decimal `json:"totalFeePercent"`
}

// NewView projects an account onto its published form.
func NewView(a model.Account) View {
	v := View{
		Currency:            a.Wallet.Currency,
		Address:             a.Wallet.Address,
		WatchOnly:           !a.Wallet.HasKey(),
		OracleKey:           a.OracleKey,
		LatestPrice:         a.LatestPrice,
		WalletBalanceBch:    a.WalletBalanceBch,
		WalletBalance:       a.WalletBalance,
		ContractsBalance:    a.ContractsBalance,
		ContractsBalanceBch: a.ContractsBalanceBch,
		TotalBalanceBch:     a.TotalBalanceBch(),
		ActiveContracts:     a.ActiveContracts,
		SettledContracts:    a.SettledContracts,
		CostBasis:           a.CostBasis,
		PriceDelta:          a.PriceDelta,
		RefreshedAt:         a.RefreshedAt,
	}
	if p := a.Proposal; p != nil {
		v.Proposal = &ProposalView{
			AmountBch:       p.Amount,
			DurationSeconds: p.Offer.DurationSeconds,
			DurationDays:    p.Offer.DurationDays(),
			APY:             p.Offer.APY,
			AdjustedAPY:     p.Offer.AdjustedAPY,
			TotalFee:        p.Offer.Fees.Total,
		}
	}
	if a.Err != nil {
		v.Error = a.Err.Error()
	}
	return v
}

// Status holds the latest view of every account.
type Status struct {
	views *xsync.Map[string, View]
}

func NewStatus() *Status {
	return &Status{views: xsync.NewMap[string, View]()}
}

func (s *Status) Set(a model.Account) {
	s.views.Store(a.Wallet.String(), NewView(a))
}

// All returns the views ordered by currency and address.
func (s *Status) All() []View {
	out := make([]View, 0, s.views.Size())
	s.views.Range(func(_ string, v View) bool {
		out = append(out, v)
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Currency != out[j].Currency {
			return out[i].Currency < out[j].Currency
		}
		return out[i].Address < out[j].Address
	})
	return out
}

// ByCurrency returns the views of one unit of account.
func (s *Status) ByCurrency(currency model.Currency) []View {
	var out []View
	for _, v := range s.All() {
		if v.Currency == currency {
			out = append(out, v)
		}
	}
	return out
}
