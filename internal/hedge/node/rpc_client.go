package node

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
)

// Config addresses a Bitcoin Cash node's JSON-RPC interface.
type Config struct {
	Host string
	User string
	Pass string
	TLS  bool
}

// Dial creates an HTTP POST mode client; no connection is made until the first call.
func Dial(cfg Config) (*rpcclient.Client, error) {
	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         cfg.Host,
		User:         cfg.User,
		Pass:         cfg.Pass,
		HTTPPostMode: true,
		DisableTLS:   !cfg.TLS,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("node rpc client: %w", err)
	}
	return client, nil
}

// ObservedClient wraps an RPC client with metrics instrumentation.
type ObservedClient struct {
	client     RPCClient
	rpcMetrics RPCMetrics
}

// NewObservedClient constructs an instrumented RPC client.
func NewObservedClient(client RPCClient, rpcMetrics RPCMetrics) *ObservedClient {
	return &ObservedClient{
		client:     client,
		rpcMetrics: rpcMetrics,
	}
}

// GetRawTransactionVerbose returns a decoded transaction.
func (r *ObservedClient) GetRawTransactionVerbose(txHash *chainhash.Hash) (res *btcjson.TxRawResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_raw_transaction_verbose", err, started)
	}()
	return r.client.GetRawTransactionVerbose(txHash)
}
