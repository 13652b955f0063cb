// Package costbasis computes the FIFO acquisition price of a wallet's BCH balance.
package costbasis

import (
	"fmt"
	"sort"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/oracle"
	"github.com/shopspring/decimal"
)

var satsPerBch = decimal.NewFromInt(100_000_000)

type settled struct {
	sequence int32
	txHash   string
	payout   decimal.Decimal
	price    decimal.Decimal
}

// FIFO returns the average price at which the current balance was received from settled
// contracts, newest settlement first by oracle message sequence. Only the part of the
// balance covered by settlements is priced. It returns nil when the balance is unknown
// or zero, when there are no settlements, or when they cover none of the balance.
func FIFO(balance *decimal.Decimal, contracts []model.Contract, scaling int64) (*decimal.Decimal, error) {
	if balance == nil || !balance.IsPositive() || len(contracts) == 0 {
		return nil, nil
	}
	if scaling <= 0 {
		return nil, model.NewDataIntegrityError("attestation scaling must be positive")
	}
	scale := decimal.NewFromInt(scaling)

	items := make([]settled, 0, len(contracts))
	for _, c := range contracts {
		s := c.Settlement()
		if s == nil {
			continue
		}
		msg, err := oracle.ParsePriceMessage(s.SettlementMessage)
		if err != nil {
			return nil, fmt.Errorf("contract %s settlement message: %w", c.Address, err)
		}
		items = append(items, settled{
			sequence: msg.MessageSequence,
			txHash:   s.SettlementTransactionHash,
			payout:   decimal.NewFromInt(s.ShortPayoutInSatoshis.Int64()).Div(satsPerBch),
			price:    decimal.NewFromInt(s.SettlementPrice.Int64()).Div(scale),
		})
	}
	if len(items) == 0 {
		return nil, nil
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].sequence != items[j].sequence {
			return items[i].sequence > items[j].sequence
		}
		return items[i].txHash < items[j].txHash
	})

	remaining := *balance
	totalCost := decimal.Zero
	for _, it := range items {
		if !remaining.IsPositive() {
			break
		}
		amount := decimal.Min(remaining, it.payout)
		if !amount.IsPositive() {
			continue
		}
		totalCost = totalCost.Add(amount.Mul(it.price))
		remaining = remaining.Sub(amount)
	}

	attributed := balance.Sub(remaining)
	if !attributed.IsPositive() {
		return nil, nil
	}
	cost := totalCost.Div(attributed)
	return &cost, nil
}
