package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// PriceMessageLength is the size of an oracle price attestation in bytes.
const PriceMessageLength = 16

// PriceMessage is a decoded oracle price attestation.
type PriceMessage struct {
	Timestamp       int32
	MessageSequence int32
	ContentSequence int32
	Price           int32
}

// Time returns the attestation time.
func (m PriceMessage) Time() time.Time {
	return time.Unix(int64(m.Timestamp), 0).UTC()
}

// ScaledPrice divides the integer price by the oracle attestation scaling.
func (m PriceMessage) ScaledPrice(scaling int64) decimal.Decimal {
	if scaling <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt32(m.Price).Div(decimal.NewFromInt(scaling))
}

// OracleMetadata is the set of metadata messages an oracle publishes about itself.
type OracleMetadata struct {
	OperatorName              string `json:"operatorName"`
	OperatorWebsite           string `json:"operatorWebsite"`
	RelayServer               string `json:"relayServer"`
	StartingTimestamp         int64  `json:"startingTimestamp"`
	EndingTimestamp           int64  `json:"endingTimestamp"`
	AttestationScaling        int64  `json:"attestationScaling"`
	AttestationPeriod         int64  `json:"attestationPeriodMs"`
	OperatorHash              string `json:"operatorHash"`
	SourceName                string `json:"sourceName"`
	SourceWebsite             string `json:"sourceWebsite"`
	SourceNumeratorUnitName   string `json:"sourceNumeratorUnitName"`
	SourceNumeratorUnitCode   string `json:"sourceNumeratorUnitCode"`
	SourceHash                string `json:"sourceHash"`
	SourceDenominatorUnitName string `json:"sourceDenominatorUnitName"`
	SourceDenominatorUnitCode string `json:"sourceDenominatorUnitCode"`
}

// Decimals is the number of decimal places implied by the attestation scaling
// (100 -> 2). Scalings that are not a power of ten round down.
func (m OracleMetadata) Decimals() int {
	if m.AttestationScaling <= 1 {
		return 0
	}
	return len(strconv.FormatInt(m.AttestationScaling, 10)) - 1
}

// Scaling returns the attestation scaling as a decimal.
func (m OracleMetadata) Scaling() decimal.Decimal {
	return decimal.NewFromInt(m.AttestationScaling)
}
