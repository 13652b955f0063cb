package model

import (
	"time"

	"github.com/goodnatureofminers/hedgewatch/pkg/safe"
	"github.com/shopspring/decimal"
)

// AccountSnapshot is the ledger row written after every account refresh.
type AccountSnapshot struct {
	Currency            Currency
	Address             string
	RefreshedAt         time.Time
	LatestPrice         decimal.Decimal
	WalletBalanceBch    *decimal.Decimal
	ContractsBalanceBch *decimal.Decimal
	CostBasis           *decimal.Decimal
	ProposalAmount      *decimal.Decimal
	ProposalDuration    uint32
	ProposalAPY         *decimal.Decimal
	Error               string
}

// SettlementRow is the ledger row for a settled contract.
type SettlementRow struct {
	Currency          Currency
	ContractAddress   string
	FundingTxID       string
	SettlementTxID    string
	SettlementType    string
	SettlementPrice   decimal.Decimal
	MessageSequence   int32
	ShortPayoutSats   uint64
	LongPayoutSats    uint64
	NominalUnits      decimal.Decimal
	MaturityTimestamp time.Time
}

// NewAccountSnapshot flattens an account into a ledger row.
func NewAccountSnapshot(a Account) AccountSnapshot {
	s := AccountSnapshot{
		Currency:            a.Wallet.Currency,
		Address:             a.Wallet.Address,
		RefreshedAt:         a.RefreshedAt,
		LatestPrice:         a.LatestPrice,
		WalletBalanceBch:    a.WalletBalanceBch,
		ContractsBalanceBch: a.ContractsBalanceBch,
		CostBasis:           a.CostBasis,
	}
	if a.Proposal != nil {
		amount := a.Proposal.Amount
		apy := a.Proposal.Offer.AdjustedAPY
		s.ProposalAmount = &amount
		s.ProposalAPY = &apy
		if d, err := safe.Uint32(a.Proposal.Offer.DurationSeconds); err == nil {
			s.ProposalDuration = d
		}
	}
	if a.Err != nil {
		s.Error = a.Err.Error()
	}
	return s
}
