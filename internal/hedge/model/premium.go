package model

import (
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/clock"
	"github.com/shopspring/decimal"
)

const secondsPerDay = 86400

// PremiumFees is the fee breakdown for one grid cell, in percent of the amount.
// Negative totals are favorable to the taker.
type PremiumFees struct {
	Total                decimal.Decimal `json:"total"`
	LiquidityPremium     decimal.Decimal `json:"liquidityPremium"`
	SettlementServiceFee decimal.Decimal `json:"settlementServiceFee"`
}

// PremiumGrid is the published premium surface keyed by oracle public key.
type PremiumGrid map[string]CurrencyPremiums

// CurrencyPremiums is the surface of one oracle.
// TakerHedge is keyed amount -> leverage -> counter leverage -> duration seconds.
type CurrencyPremiums struct {
	Timestamp  int64
	TakerHedge map[string]map[string]map[string]map[string]PremiumFees
}

// PublishedAt returns the publish time of the surface.
func (p CurrencyPremiums) PublishedAt() time.Time {
	return clock.FromUnix(p.Timestamp)
}

// PremiumOffer is one flattened (amount, duration) market offer.
type PremiumOffer struct {
	OracleKey       string
	Amount          decimal.Decimal
	Leverage        decimal.Decimal
	CounterLeverage decimal.Decimal
	DurationSeconds int64
	Fees            PremiumFees
	Yield           decimal.Decimal
	APY             decimal.Decimal
	AdjustedAPY     decimal.Decimal
	BestForAmount   bool
}

// DurationDays returns the duration in (possibly fractional) days.
func (o PremiumOffer) DurationDays() float64 {
	return float64(o.DurationSeconds) / secondsPerDay
}

// Proposal is the recommended contract: the chosen offer and the amount to commit.
type Proposal struct {
	Amount decimal.Decimal
	Offer  PremiumOffer
}
