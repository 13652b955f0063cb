package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the state of one wallet for one unit of account after a refresh.
// Optional values are nil while unknown.
type Account struct {
	Wallet    Wallet
	OracleKey string
	Metadata  OracleMetadata

	LatestPrice      decimal.Decimal
	WalletBalanceBch *decimal.Decimal
	WalletBalance    *decimal.Decimal

	ContractsBalance    *decimal.Decimal
	ContractsBalanceBch *decimal.Decimal
	ActiveContracts     int
	SettledContracts    int

	CostBasis  *decimal.Decimal
	PriceDelta *decimal.Decimal

	Proposal    *Proposal
	Err         error
	RefreshedAt time.Time
}

// TotalBalanceBch sums wallet and active contract balances when both are known.
func (a Account) TotalBalanceBch() *decimal.Decimal {
	if a.WalletBalanceBch == nil || a.ContractsBalanceBch == nil {
		return nil
	}
	total := a.WalletBalanceBch.Add(*a.ContractsBalanceBch)
	return &total
}
