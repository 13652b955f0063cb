// Package premium reads the published premium surface and turns it into ranked offers.
package premium

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/shopspring/decimal"
)

const (
	// DefaultURL is the public premium surface.
	DefaultURL = "https://premiums.anyhedge.com/api/v2/currentPremiumsV2"
	// DefaultCounterLeverage selects offers hedging 20% of the long side.
	DefaultCounterLeverage = "5"
)

// Getter is the JSON transport the client runs on.
type Getter interface {
	GetJSON(ctx context.Context, operation, url string, out any) error
}

type takerHedge map[string]map[string]map[string]map[string]model.PremiumFees

type currencyWire struct {
	Timestamp int64 `json:"timestamp"`
	Fees      struct {
		TakerHedge takerHedge `json:"takerHedge"`
	} `json:"fees"`
}

// Client fetches the premium surface.
type Client struct {
	url    string
	getter Getter
}

func NewClient(url string, getter Getter) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{url: url, getter: getter}
}

// Grid returns the current surface for every oracle.
func (c *Client) Grid(ctx context.Context) (model.PremiumGrid, error) {
	var wire map[string]currencyWire
	if err := c.getter.GetJSON(ctx, "premiums", c.url, &wire); err != nil {
		return nil, err
	}
	grid := make(model.PremiumGrid, len(wire))
	for key, cur := range wire {
		grid[key] = model.CurrencyPremiums{
			Timestamp:  cur.Timestamp,
			TakerHedge: cur.Fees.TakerHedge,
		}
	}
	return grid, nil
}

// Flatten lists the offers of one oracle for the given counter leverage whose total fee
// does not exceed maxPremium. Offers are ordered by amount then duration. Yield is the
// negated total fee and APY its annualization; BestForAmount marks the first offer with
// the highest APY among offers of the same amount.
func Flatten(grid model.PremiumGrid, oracleKey, counterLeverage string, maxPremium decimal.Decimal) ([]model.PremiumOffer, error) {
	cur, ok := grid[oracleKey]
	if !ok {
		return nil, nil
	}
	wantCounter, err := decimal.NewFromString(counterLeverage)
	if err != nil {
		return nil, fmt.Errorf("counter leverage %q: %w", counterLeverage, err)
	}

	var offers []model.PremiumOffer
	for amountKey, byLeverage := range cur.TakerHedge {
		amount, err := parseKey("amount", amountKey)
		if err != nil {
			return nil, err
		}
		for leverageKey, byCounter := range byLeverage {
			leverage, err := parseKey("leverage", leverageKey)
			if err != nil {
				return nil, err
			}
			for counterKey, byDuration := range byCounter {
				counter, err := parseKey("counter leverage", counterKey)
				if err != nil {
					return nil, err
				}
				if !counter.Equal(wantCounter) {
					continue
				}
				for durationKey, fees := range byDuration {
					if fees.Total.GreaterThan(maxPremium) {
						continue
					}
					seconds, err := strconv.ParseInt(durationKey, 10, 64)
					if err != nil || seconds <= 0 {
						return nil, model.NewDataIntegrityError(fmt.Sprintf("premium duration key %q", durationKey))
					}
					offer := model.PremiumOffer{
						OracleKey:       oracleKey,
						Amount:          amount,
						Leverage:        leverage,
						CounterLeverage: counter,
						DurationSeconds: seconds,
						Fees:            fees,
						Yield:           fees.Total.Neg(),
					}
					offer.APY = YieldToAPY(offer.Yield, offer.DurationDays())
					offer.AdjustedAPY = offer.APY
					offers = append(offers, offer)
				}
			}
		}
	}

	SortOffers(offers)
	MarkBestForAmount(offers, func(o model.PremiumOffer) decimal.Decimal { return o.APY })
	return offers, nil
}

// SortOffers orders offers by amount, duration and leverage.
func SortOffers(offers []model.PremiumOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c < 0
		}
		if a.DurationSeconds != b.DurationSeconds {
			return a.DurationSeconds < b.DurationSeconds
		}
		return a.Leverage.LessThan(b.Leverage)
	})
}

// MarkBestForAmount sets BestForAmount on the first offer per amount with the highest rank.
func MarkBestForAmount(offers []model.PremiumOffer, rank func(model.PremiumOffer) decimal.Decimal) {
	best := make(map[string]int)
	for i := range offers {
		offers[i].BestForAmount = false
		key := offers[i].Amount.String()
		j, seen := best[key]
		if !seen || rank(offers[i]).GreaterThan(rank(offers[j])) {
			best[key] = i
		}
	}
	for _, i := range best {
		offers[i].BestForAmount = true
	}
}

func parseKey(name, key string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(key)
	if err != nil {
		return decimal.Zero, model.NewDataIntegrityError(fmt.Sprintf("premium %s key %q", name, key))
	}
	return v, nil
}
