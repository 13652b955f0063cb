package model

import "github.com/shopspring/decimal"

// Contract is a point-in-time view of one hedge contract as reported by the
// settlement service.
type Contract struct {
	Version    string     `json:"version"`
	Address    string     `json:"address"`
	Parameters Parameters `json:"parameters"`
	Metadata   Metadata   `json:"metadata"`
	Fundings   []Funding  `json:"fundings"`
	Fees       []Fee      `json:"fees"`
}

type Parameters struct {
	MaturityTimestamp                    FlexInt `json:"maturityTimestamp"`
	StartTimestamp                       FlexInt `json:"startTimestamp"`
	HighLiquidationPrice                 FlexInt `json:"highLiquidationPrice"`
	LowLiquidationPrice                  FlexInt `json:"lowLiquidationPrice"`
	PayoutSats                           FlexInt `json:"payoutSats"`
	NominalUnitsXSatsPerBch              FlexInt `json:"nominalUnitsXSatsPerBch"`
	SatsForNominalUnitsAtHighLiquidation FlexInt `json:"satsForNominalUnitsAtHighLiquidation"`
	OraclePublicKey                      string  `json:"oraclePublicKey"`
	LongLockScript                       string  `json:"longLockScript"`
	ShortLockScript                      string  `json:"shortLockScript"`
	EnableMutualRedemption               FlexInt `json:"enableMutualRedemption"`
	LongMutualRedeemPublicKey            string  `json:"longMutualRedeemPublicKey"`
	ShortMutualRedeemPublicKey           string  `json:"shortMutualRedeemPublicKey"`
}

type Metadata struct {
	TakerSide                      string          `json:"takerSide"`
	MakerSide                      string          `json:"makerSide"`
	ShortPayoutAddress             string          `json:"shortPayoutAddress"`
	LongPayoutAddress              string          `json:"longPayoutAddress"`
	StartingOracleMessage          string          `json:"startingOracleMessage"`
	StartingOracleSignature        string          `json:"startingOracleSignature"`
	DurationInSeconds              FlexInt         `json:"durationInSeconds"`
	HighLiquidationPriceMultiplier decimal.Decimal `json:"highLiquidationPriceMultiplier"`
	LowLiquidationPriceMultiplier  decimal.Decimal `json:"lowLiquidationPriceMultiplier"`
	IsSimpleHedge                  FlexInt         `json:"isSimpleHedge"`
	StartPrice                     FlexInt         `json:"startPrice"`
	NominalUnits                   decimal.Decimal `json:"nominalUnits"`
	ShortInputInOracleUnits        decimal.Decimal `json:"shortInputInOracleUnits"`
	LongInputInOracleUnits         decimal.Decimal `json:"longInputInOracleUnits"`
	ShortInputInSatoshis           FlexInt         `json:"shortInputInSatoshis"`
	LongInputInSatoshis            FlexInt         `json:"longInputInSatoshis"`
	MinerCostInSatoshis            FlexInt         `json:"minerCostInSatoshis"`
}

type Funding struct {
	FundingTransactionHash string      `json:"fundingTransactionHash"`
	FundingOutputIndex     FlexInt     `json:"fundingOutputIndex"`
	FundingSatoshis        FlexInt     `json:"fundingSatoshis"`
	Settlement             *Settlement `json:"settlement,omitempty"`
}

type Settlement struct {
	SettlementTransactionHash string  `json:"settlementTransactionHash"`
	SettlementType            string  `json:"settlementType"`
	SettlementPrice           FlexInt `json:"settlementPrice"`
	SettlementMessage         string  `json:"settlementMessage"`
	SettlementSignature       string  `json:"settlementSignature"`
	PreviousMessage           string  `json:"previousMessage"`
	PreviousSignature         string  `json:"previousSignature"`
	ShortPayoutInSatoshis     FlexInt `json:"shortPayoutInSatoshis"`
	LongPayoutInSatoshis      FlexInt `json:"longPayoutInSatoshis"`
}

type Fee struct {
	Address     string  `json:"address"`
	Satoshis    FlexInt `json:"satoshis"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

// Settlement returns the settlement of the first funding, or nil while the contract is active.
func (c Contract) Settlement() *Settlement {
	if len(c.Fundings) == 0 {
		return nil
	}
	return c.Fundings[0].Settlement
}

// IsSettled reports whether the contract has matured or been redeemed.
func (c Contract) IsSettled() bool {
	return c.Settlement() != nil
}
