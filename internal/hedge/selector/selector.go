// Package selector picks the contract to propose from the ranked premium offers.
package selector

import (
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/premium"
	"github.com/shopspring/decimal"
)

// satoshiPlaces is the number of decimal places of one satoshi in BCH.
const satoshiPlaces = 8

var hundred = decimal.NewFromInt(100)

// Policy bounds the offers that may be proposed.
type Policy struct {
	MinAPY          decimal.Decimal
	MinContractSize decimal.Decimal
	MinerReserve    decimal.Decimal
}

// Select returns the best offer for a wallet holding balance BCH, or nil when no offer
// qualifies. Offers are ranked by AdjustedAPY. When a larger amount bucket of the same
// duration is also the best choice for its amount, the proposal moves to the smallest
// such bucket that covers the balance, or the largest one when none does. The proposed
// amount never exceeds the balance.
func Select(offers []model.PremiumOffer, balance decimal.Decimal, policy Policy) *model.Proposal {
	if !balance.IsPositive() {
		return nil
	}

	eligible := make([]model.PremiumOffer, 0, len(offers))
	for _, o := range offers {
		if o.Amount.LessThan(policy.MinContractSize) || o.AdjustedAPY.LessThan(policy.MinAPY) {
			continue
		}
		eligible = append(eligible, o)
	}
	if len(eligible) == 0 {
		return nil
	}

	premium.SortOffers(eligible)
	premium.MarkBestForAmount(eligible, func(o model.PremiumOffer) decimal.Decimal { return o.AdjustedAPY })

	best := 0
	for i := range eligible {
		if eligible[i].AdjustedAPY.GreaterThan(eligible[best].AdjustedAPY) {
			best = i
		}
	}

	selected := eligible[best]
	if upgrade, ok := findUpgrade(eligible, selected, balance); ok {
		selected = upgrade
	}

	amount := decimal.Min(selected.Amount, balance)
	if amount.LessThan(policy.MinContractSize) {
		return nil
	}
	return &model.Proposal{Amount: amount, Offer: selected}
}

func findUpgrade(offers []model.PremiumOffer, best model.PremiumOffer, balance decimal.Decimal) (model.PremiumOffer, bool) {
	var (
		covering, largest       model.PremiumOffer
		haveCovering, haveLarge bool
	)
	for _, o := range offers {
		if !o.BestForAmount || o.DurationSeconds != best.DurationSeconds || !o.Amount.GreaterThan(best.Amount) {
			continue
		}
		if !haveLarge || o.Amount.GreaterThan(largest.Amount) {
			largest, haveLarge = o, true
		}
		if o.Amount.GreaterThanOrEqual(balance) && (!haveCovering || o.Amount.LessThan(covering.Amount)) {
			covering, haveCovering = o, true
		}
	}
	if haveCovering {
		return covering, true
	}
	return largest, haveLarge
}

// FeeMultiplier is the share of the amount paid on top of it in fees. The liquidity
// premium only counts when it is positive, that is when the taker pays it.
func FeeMultiplier(fees model.PremiumFees) decimal.Decimal {
	m := decimal.NewFromInt(1).Add(fees.SettlementServiceFee.Div(hundred))
	if fees.LiquidityPremium.IsPositive() {
		m = m.Add(fees.LiquidityPremium.Div(hundred))
	}
	return m
}

// ApplyFeeOverhead shrinks the proposal so that amount, fees and the miner reserve fit
// in balance. The reduced amount is truncated to whole satoshis.
func ApplyFeeOverhead(p model.Proposal, balance decimal.Decimal, policy Policy) (model.Proposal, error) {
	multiplier := FeeMultiplier(p.Offer.Fees)
	required := p.Amount.Mul(multiplier).Add(policy.MinerReserve)
	if required.LessThanOrEqual(balance) {
		return p, nil
	}

	reduced := balance.Sub(policy.MinerReserve).Div(multiplier).Truncate(satoshiPlaces)
	if !reduced.IsPositive() || reduced.LessThan(policy.MinContractSize) {
		minimum := decimal.Max(policy.MinContractSize, decimal.New(1, -satoshiPlaces))
		return model.Proposal{}, &model.InsufficientFundsError{
			Required:  minimum.Mul(multiplier).Add(policy.MinerReserve).StringFixed(satoshiPlaces),
			Available: balance.StringFixed(satoshiPlaces),
		}
	}
	p.Amount = reduced
	return p, nil
}
