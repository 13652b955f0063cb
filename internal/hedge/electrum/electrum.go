// Package electrum queries Electrum (Fulcrum) servers over secure websockets for
// address histories and unspent outputs.
package electrum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/wallet"
	"github.com/goodnatureofminers/hedgewatch/internal/metrics"
	"github.com/goodnatureofminers/hedgewatch/pkg/circuitbreaker"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	serviceName     = "electrum"
	clientName      = "hedgewatch"
	protocolVersion = "1.4"
)

// DefaultServers are queried in priority order.
var DefaultServers = []string{
	"wss://bch.imaginary.cash:50004",
	"wss://blackie.c3-soft.com:50004",
	"wss://electroncash.de:60002",
	"wss://electroncash.dk:50004",
	"wss://bch.loping.net:50004",
	"wss://electrum.imaginary.cash:50004",
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type response struct {
	ID     *int            `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type historyItem struct {
	TxHash string `json:"tx_hash"`
	Height int64  `json:"height"`
}

type unspent struct {
	TxHash string `json:"tx_hash"`
	TxPos  uint32 `json:"tx_pos"`
	Value  int64  `json:"value"`
}

type server struct {
	url     string
	breaker *gobreaker.CircuitBreaker
}

// Client sends each query to the first server that answers it.
type Client struct {
	servers []server
	dialer  *websocket.Dialer
	timeout time.Duration
	metrics *metrics.Client
	logger  *zap.Logger
}

// NewClient returns a client for urls, DefaultServers when empty. Hosts without a
// scheme are dialed over wss.
func NewClient(urls []string, timeout time.Duration, onStateChange circuitbreaker.StateListener, logger *zap.Logger) *Client {
	if len(urls) == 0 {
		urls = DefaultServers
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	servers := make([]server, 0, len(urls))
	for _, u := range urls {
		if !strings.Contains(u, "://") {
			u = "wss://" + u
		}
		servers = append(servers, server{url: u, breaker: circuitbreaker.New(serviceName+" "+u, onStateChange)})
	}
	return &Client{
		servers: servers,
		dialer:  &websocket.Dialer{HandshakeTimeout: timeout},
		timeout: timeout,
		metrics: metrics.NewClient(serviceName),
		logger:  logger.Named("electrum"),
	}
}

// FetchHistory returns the ids of all confirmed and mempool transactions touching address.
func (c *Client) FetchHistory(ctx context.Context, address string) (txids []string, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_history", err, started)
	}()

	scriptHash, err := wallet.ElectrumScriptHash(address)
	if err != nil {
		return nil, err
	}
	raw, err := c.call(ctx, "blockchain.scripthash.get_history", scriptHash)
	if err != nil {
		return nil, err
	}
	var items []historyItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, model.NewNetworkError(serviceName, fmt.Errorf("decode history: %w", err))
	}
	txids = make([]string, 0, len(items))
	for _, item := range items {
		txids = append(txids, item.TxHash)
	}
	return txids, nil
}

// Balance returns the sum of unspent outputs of address in BCH.
func (c *Client) Balance(ctx context.Context, address string) (balance decimal.Decimal, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("list_unspent", err, started)
	}()

	scriptHash, err := wallet.ElectrumScriptHash(address)
	if err != nil {
		return decimal.Zero, err
	}
	raw, err := c.call(ctx, "blockchain.scripthash.listunspent", scriptHash)
	if err != nil {
		return decimal.Zero, err
	}
	var utxos []unspent
	if err := json.Unmarshal(raw, &utxos); err != nil {
		return decimal.Zero, model.NewNetworkError(serviceName, fmt.Errorf("decode unspent outputs: %w", err))
	}
	var sats int64
	for _, u := range utxos {
		sats += u.Value
	}
	return decimal.New(sats, -8), nil
}

// call tries the servers in order and returns the first successful result.
func (c *Client) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	var errs []error
	for _, s := range c.servers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := circuitbreaker.Execute(s.breaker, func() (json.RawMessage, error) {
			return c.roundTrip(ctx, s.url, method, params)
		})
		if err == nil {
			return result, nil
		}
		var rpcErr *rpcError
		if errors.As(err, &rpcErr) {
			// the server understood the request, asking the next one will not help
			return nil, model.NewNetworkError(serviceName, fmt.Errorf("%s %s: %w", s.url, method, err))
		}
		c.logger.Warn("electrum server failed", zap.String("server", s.url), zap.String("method", method), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", s.url, err))
	}
	return nil, model.NewNetworkError(serviceName, fmt.Errorf("%s: all servers failed: %w", method, errors.Join(errs...)))
}

func (c *Client) roundTrip(ctx context.Context, url, method string, params []any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}

	requests := []request{
		{JSONRPC: "2.0", ID: 0, Method: "server.version", Params: []any{clientName, protocolVersion}},
		{JSONRPC: "2.0", ID: 1, Method: method, Params: params},
	}
	for _, r := range requests {
		if err := conn.WriteJSON(r); err != nil {
			return nil, fmt.Errorf("write %s: %w", r.Method, err)
		}
	}

	for {
		var resp response
		if err := conn.ReadJSON(&resp); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("read: %w", err)
		}
		if resp.ID == nil {
			continue
		}
		if resp.Error != nil {
			if *resp.ID == 0 {
				return nil, fmt.Errorf("version negotiation: %s", resp.Error.Message)
			}
			return nil, resp.Error
		}
		if *resp.ID == 1 {
			return resp.Result, nil
		}
	}
}
