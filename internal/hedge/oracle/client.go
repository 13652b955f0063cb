// Package oracle reads price attestations and metadata published by price oracles.
package oracle

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public oracle relay.
const DefaultBaseURL = "https://oracles.generalprotocols.com/api/v1"

// Getter is the JSON transport the client runs on.
type Getter interface {
	GetJSON(ctx context.Context, operation, url string, out any) error
}

type signedMessage struct {
	Message   string `json:"message"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

type messagesResponse struct {
	OracleMessages []signedMessage `json:"oracleMessages"`
}

type metadataResponse struct {
	OracleMetadata []signedMessage `json:"oracleMetadata"`
}

// Client reads oracle messages from a relay.
type Client struct {
	baseURL string
	getter  Getter
	logger  *zap.Logger
}

func NewClient(baseURL string, getter Getter, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		getter:  getter,
		logger:  logger.Named("oracle"),
	}
}

// LatestPrice returns the most recent price attestation of the oracle.
func (c *Client) LatestPrice(ctx context.Context, oracleKey string) (model.PriceMessage, error) {
	var resp messagesResponse
	endpoint := fmt.Sprintf("%s/oracleMessages?publicKey=%s", c.baseURL, url.QueryEscape(oracleKey))
	if err := c.getter.GetJSON(ctx, "oracle_messages", endpoint, &resp); err != nil {
		return model.PriceMessage{}, err
	}
	if len(resp.OracleMessages) == 0 {
		return model.PriceMessage{}, model.NewDataIntegrityError(fmt.Sprintf("oracle %s returned no messages", oracleKey))
	}
	msg, err := ParsePriceMessage(resp.OracleMessages[0].Message)
	if err != nil {
		return model.PriceMessage{}, fmt.Errorf("oracle %s: %w", oracleKey, err)
	}
	return msg, nil
}

// Metadata returns the oracle's self-description.
func (c *Client) Metadata(ctx context.Context, oracleKey string) (model.OracleMetadata, error) {
	var resp metadataResponse
	endpoint := fmt.Sprintf("%s/oracleMetadata?publicKey=%s", c.baseURL, url.QueryEscape(oracleKey))
	if err := c.getter.GetJSON(ctx, "oracle_metadata", endpoint, &resp); err != nil {
		return model.OracleMetadata{}, err
	}

	messages := make([]MetadataMessage, 0, len(resp.OracleMetadata))
	for _, m := range resp.OracleMetadata {
		parsed, err := ParseMetadataMessage(m.Message)
		if err != nil {
			return model.OracleMetadata{}, fmt.Errorf("oracle %s: %w", oracleKey, err)
		}
		messages = append(messages, parsed)
	}

	md, unknown, err := BuildMetadata(messages)
	if err != nil {
		return model.OracleMetadata{}, fmt.Errorf("oracle %s: %w", oracleKey, err)
	}
	if len(unknown) > 0 {
		c.logger.Debug("unknown metadata fields", zap.String("oracle", oracleKey), zap.Int32s("fields", unknown))
	}
	return md, nil
}
