// Package blockchair reads Bitcoin Cash address histories and transactions from the
// Blockchair dashboards API.
package blockchair

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/wallet"
	"github.com/goodnatureofminers/hedgewatch/pkg/safe"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Bitcoin Cash section of the public API.
	DefaultBaseURL = "https://api.blockchair.com/bitcoin-cash"
	// MaxBatchSize is the number of transactions one dashboard request may carry.
	MaxBatchSize = 10
)

// Getter is the JSON transport the client runs on.
type Getter interface {
	GetJSON(ctx context.Context, operation, url string, out any) error
}

type addressTransaction struct {
	Hash          string `json:"hash"`
	BalanceChange int64  `json:"balance_change"`
}

type addressDashboard struct {
	Address struct {
		Balance int64 `json:"balance"`
	} `json:"address"`
	Transactions []addressTransaction `json:"transactions"`
}

type addressResponse struct {
	Data map[string]addressDashboard `json:"data"`
}

type txInput struct {
	TransactionHash string `json:"transaction_hash"`
	Index           int64  `json:"index"`
	Recipient       string `json:"recipient"`
	Value           int64  `json:"value"`
	Type            string `json:"type"`
	ScriptHex       string `json:"script_hex"`
}

type txOutput = txInput

type txDashboard struct {
	Inputs  []txInput  `json:"inputs"`
	Outputs []txOutput `json:"outputs"`
}

type transactionsResponse struct {
	Data map[string]txDashboard `json:"data"`
}

// Client is a history source, a detail source and a balance source.
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
		logger:  logger.Named("blockchair"),
	}
}

func (c *Client) address(ctx context.Context, address string) (addressDashboard, error) {
	var resp addressResponse
	endpoint := fmt.Sprintf("%s/dashboards/address/%s?transaction_details=true", c.baseURL, url.PathEscape(address))
	if err := c.getter.GetJSON(ctx, "address_dashboard", endpoint, &resp); err != nil {
		return addressDashboard{}, err
	}
	// the response is keyed by the address as the API spells it, which may differ in prefix
	for _, d := range resp.Data {
		return d, nil
	}
	return addressDashboard{}, model.NewDataIntegrityError(fmt.Sprintf("address %s missing from response", address))
}

// FetchHistory returns the ids of transactions that spent from address.
func (c *Client) FetchHistory(ctx context.Context, address string) ([]string, error) {
	d, err := c.address(ctx, address)
	if err != nil {
		return nil, err
	}
	txids := make([]string, 0, len(d.Transactions))
	for _, tx := range d.Transactions {
		if tx.BalanceChange < 0 {
			txids = append(txids, tx.Hash)
		}
	}
	return txids, nil
}

// Balance returns the confirmed and unconfirmed balance of address in BCH.
func (c *Client) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	d, err := c.address(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(d.Address.Balance, -8), nil
}

// FetchTransactions returns the full records of up to MaxBatchSize transactions.
// A record without inputs or outputs fails the whole batch.
func (c *Client) FetchTransactions(ctx context.Context, txids []string) ([]model.Transaction, error) {
	if len(txids) == 0 {
		return nil, nil
	}
	if len(txids) > MaxBatchSize {
		return nil, fmt.Errorf("batch of %d transactions exceeds %d", len(txids), MaxBatchSize)
	}

	var resp transactionsResponse
	endpoint := fmt.Sprintf("%s/dashboards/transactions/%s", c.baseURL, strings.Join(txids, ","))
	if err := c.getter.GetJSON(ctx, "transactions_dashboard", endpoint, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Data))
	for id := range resp.Data {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	txs := make([]model.Transaction, 0, len(ids))
	for _, id := range ids {
		tx, err := c.convert(id, resp.Data[id])
		if err != nil {
			return nil, err
		}
		if err := tx.Validate(); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if missing := missingIDs(txids, resp.Data); len(missing) > 0 {
		c.logger.Warn("transactions missing from response", zap.Int("requested", len(txids)), zap.Strings("missing", missing))
		return nil, model.NewDataIntegrityError(fmt.Sprintf("transactions dashboard omitted %s", strings.Join(missing, ",")))
	}
	return txs, nil
}

func missingIDs(txids []string, data map[string]txDashboard) []string {
	var missing []string
	for _, id := range txids {
		if _, ok := data[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func (c *Client) convert(txid string, d txDashboard) (model.Transaction, error) {
	tx := model.Transaction{
		TxID:    txid,
		Inputs:  make([]model.TransactionInput, 0, len(d.Inputs)),
		Outputs: make([]model.TransactionOutput, 0, len(d.Outputs)),
	}

	for _, in := range d.Inputs {
		index, err := safe.Uint32(in.Index)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s input index %d: %w", txid, in.Index, err)
		}
		value, err := safe.Uint64(in.Value)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s input value %d: %w", txid, in.Value, err)
		}
		tx.Inputs = append(tx.Inputs, model.TransactionInput{
			PrevTxID:   in.TransactionHash,
			PrevIndex:  index,
			Recipient:  model.NormalizeAddress(in.Recipient),
			Value:      value,
			ScriptType: in.Type,
		})
	}

	for _, out := range d.Outputs {
		index, err := safe.Uint32(out.Index)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s output index %d: %w", txid, out.Index, err)
		}
		value, err := safe.Uint64(out.Value)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s output value %d: %w", txid, out.Value, err)
		}
		scriptType, recipient := out.Type, model.NormalizeAddress(out.Recipient)
		if (scriptType == "" || recipient == "") && out.ScriptHex != "" {
			decoded, err := wallet.DecodeScript(out.ScriptHex)
			if err != nil {
				return model.Transaction{}, fmt.Errorf("tx %s output %d: %w", txid, out.Index, err)
			}
			if scriptType == "" {
				scriptType = decoded.Type
			}
			if recipient == "" {
				recipient = decoded.Recipient
			}
		}
		tx.Outputs = append(tx.Outputs, model.TransactionOutput{
			Index:      index,
			Recipient:  recipient,
			Value:      value,
			ScriptType: scriptType,
			ScriptHex:  out.ScriptHex,
		})
	}
	return tx, nil
}
