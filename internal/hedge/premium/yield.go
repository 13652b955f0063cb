package premium

import (
	"math"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// MaxAPY and MinAPY bound annualized yields to the range of a 96 bit decimal.
	MaxAPY = decimal.RequireFromString("79228162514264337593543950335")
	MinAPY = MaxAPY.Neg()
)

// YieldToAPY annualizes a per-period yield in percent: ((1 + y/100)^(365/days) - 1) * 100.
// The compounding runs in float64; results outside [MinAPY, MaxAPY] are clamped and
// NaN maps to MinAPY.
func YieldToAPY(yieldPercent decimal.Decimal, durationDays float64) decimal.Decimal {
	y := yieldPercent.InexactFloat64() / 100
	result := (math.Pow(1+y, 365/durationDays) - 1) * 100

	switch {
	case math.IsNaN(result):
		return MinAPY
	case result >= MaxAPY.InexactFloat64():
		return MaxAPY
	case result <= MinAPY.InexactFloat64():
		return MinAPY
	}
	return decimal.NewFromFloat(result)
}

// PriceDelta returns (latest - cost) / cost * 100, or nil when the cost basis is unknown.
func PriceDelta(costBasis *decimal.Decimal, latestPrice decimal.Decimal) *decimal.Decimal {
	if costBasis == nil || costBasis.IsZero() {
		return nil
	}
	delta := latestPrice.Sub(*costBasis).Div(*costBasis).Mul(hundred)
	return &delta
}

// ApplyPriceDrift returns copies of offers with AdjustedAPY set for the drift between
// the cost basis and the latest price. A gain is added to the APY as is. A loss is
// folded into the per-period yield before annualizing. Without a cost basis the
// adjusted APY equals the APY.
func ApplyPriceDrift(offers []model.PremiumOffer, costBasis *decimal.Decimal, latestPrice decimal.Decimal) []model.PremiumOffer {
	delta := PriceDelta(costBasis, latestPrice)

	out := make([]model.PremiumOffer, len(offers))
	for i, o := range offers {
		switch {
		case delta == nil:
			o.AdjustedAPY = o.APY
		case !delta.IsNegative():
			o.AdjustedAPY = o.APY.Add(*delta)
		default:
			o.AdjustedAPY = YieldToAPY(o.Yield.Add(*delta), o.DurationDays())
		}
		out[i] = o
	}
	return out
}
