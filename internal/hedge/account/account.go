// Package account summarizes the hedge exposure of one wallet.
package account

import (
	"fmt"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/costbasis"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/premium"
	"github.com/shopspring/decimal"
)

// Split partitions contracts of the oracle into active and settled ones.
func Split(contracts []model.Contract, oracleKey string) (active, settled []model.Contract) {
	for _, c := range contracts {
		if c.Parameters.OraclePublicKey != oracleKey {
			continue
		}
		if c.IsSettled() {
			settled = append(settled, c)
		} else {
			active = append(active, c)
		}
	}
	return active, settled
}

// Summarize fills the contract figures of a: active exposure in oracle units and BCH,
// the FIFO cost basis of the wallet balance and its drift from the latest price.
// Contracts of other oracles are ignored.
func Summarize(a model.Account, contracts []model.Contract) (model.Account, error) {
	scaling := a.Metadata.Scaling()
	if !scaling.IsPositive() {
		return a, model.NewDataIntegrityError(fmt.Sprintf("oracle %s has no attestation scaling", a.OracleKey))
	}

	active, settled := Split(contracts, a.OracleKey)
	a.ActiveContracts = len(active)
	a.SettledContracts = len(settled)

	nominal := decimal.Zero
	for _, c := range active {
		nominal = nominal.Add(c.Metadata.NominalUnits)
	}
	contractsBalance := nominal.Div(scaling)
	a.ContractsBalance = &contractsBalance
	a.ContractsBalanceBch = nil
	if a.LatestPrice.IsPositive() {
		bch := contractsBalance.Div(a.LatestPrice)
		a.ContractsBalanceBch = &bch
	}

	cost, err := costbasis.FIFO(a.WalletBalanceBch, settled, a.Metadata.AttestationScaling)
	if err != nil {
		return a, fmt.Errorf("cost basis: %w", err)
	}
	a.CostBasis = cost
	a.PriceDelta = premium.PriceDelta(cost, a.LatestPrice)
	return a, nil
}

// WithWalletBalance sets the wallet balance in BCH and its value in oracle units.
func WithWalletBalance(a model.Account, balanceBch *decimal.Decimal) model.Account {
	a.WalletBalanceBch = balanceBch
	a.WalletBalance = nil
	if balanceBch != nil {
		v := balanceBch.Mul(a.LatestPrice)
		a.WalletBalance = &v
	}
	return a
}
