package oracle

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
)

const metadataHeaderLength = 12

// ParsePriceMessage decodes a hex encoded 16 byte price attestation.
func ParsePriceMessage(message string) (model.PriceMessage, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(message))
	if err != nil {
		return model.PriceMessage{}, model.NewDataIntegrityError(fmt.Sprintf("price message is not hex: %v", err))
	}
	if len(raw) != model.PriceMessageLength {
		return model.PriceMessage{}, model.NewDataIntegrityError(
			fmt.Sprintf("price message must be %d bytes, got %d", model.PriceMessageLength, len(raw)))
	}
	return model.PriceMessage{
		Timestamp:       int32(binary.LittleEndian.Uint32(raw[0:4])),
		MessageSequence: int32(binary.LittleEndian.Uint32(raw[4:8])),
		ContentSequence: int32(binary.LittleEndian.Uint32(raw[8:12])),
		Price:           int32(binary.LittleEndian.Uint32(raw[12:16])),
	}, nil
}

// MetadataMessage is one decoded oracle metadata message.
type MetadataMessage struct {
	Timestamp       uint32
	FieldID         uint32
	NegativeFieldID int32
	Content         string
}

// ParseMetadataMessage decodes [timestamp u32][field id u32][negative field id i32][utf8 content].
func ParseMetadataMessage(message string) (MetadataMessage, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(message))
	if err != nil {
		return MetadataMessage{}, model.NewDataIntegrityError(fmt.Sprintf("metadata message is not hex: %v", err))
	}
	if len(raw) < metadataHeaderLength {
		return MetadataMessage{}, model.NewDataIntegrityError(
			fmt.Sprintf("metadata message must be at least %d bytes, got %d", metadataHeaderLength, len(raw)))
	}
	content := raw[metadataHeaderLength:]
	if !utf8.Valid(content) {
		return MetadataMessage{}, model.NewDataIntegrityError("metadata content is not utf-8")
	}
	return MetadataMessage{
		Timestamp:       binary.LittleEndian.Uint32(raw[0:4]),
		FieldID:         binary.LittleEndian.Uint32(raw[4:8]),
		NegativeFieldID: int32(binary.LittleEndian.Uint32(raw[8:12])),
		Content:         string(content),
	}, nil
}

// BuildMetadata folds metadata messages into OracleMetadata. Unknown field ids are
// returned so the caller can log them. Metadata without a positive attestation scaling
// cannot be used to scale prices and is rejected.
func BuildMetadata(messages []MetadataMessage) (model.OracleMetadata, []int32, error) {
	var (
		md      model.OracleMetadata
		unknown []int32
	)
	for _, m := range messages {
		var err error
		switch m.NegativeFieldID {
		case -1:
			md.OperatorName = m.Content
		case -2:
			md.OperatorWebsite = m.Content
		case -3:
			md.RelayServer = m.Content
		case -4:
			md.StartingTimestamp, err = parseInt(m)
		case -5:
			md.EndingTimestamp, err = parseInt(m)
		case -6:
			md.AttestationScaling, err = parseInt(m)
		case -7:
			md.AttestationPeriod, err = parseInt(m)
		case -8:
			md.OperatorHash = m.Content
		case -51:
			md.SourceName = m.Content
		case -52:
			md.SourceWebsite = m.Content
		case -53:
			md.SourceNumeratorUnitName = m.Content
		case -54:
			md.SourceNumeratorUnitCode = m.Content
		case -55:
			md.SourceHash = m.Content
		case -56:
			md.SourceDenominatorUnitName = m.Content
		case -57:
			md.SourceDenominatorUnitCode = m.Content
		default:
			unknown = append(unknown, m.NegativeFieldID)
		}
		if err != nil {
			return model.OracleMetadata{}, unknown, err
		}
	}
	if md.AttestationScaling <= 0 {
		return model.OracleMetadata{}, unknown, model.NewDataIntegrityError("oracle metadata has no positive attestation scaling")
	}
	return md, unknown, nil
}

func parseInt(m MetadataMessage) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(m.Content), 10, 64)
	if err != nil {
		return 0, model.NewDataIntegrityError(fmt.Sprintf("metadata field %d: %q is not an integer", m.NegativeFieldID, m.Content))
	}
	return v, nil
}
