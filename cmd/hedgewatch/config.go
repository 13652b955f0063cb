package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/selector"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/service/monitor"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/wallet"
	"github.com/shopspring/decimal"
)

const (
	fundingCacheFile  = "contracts_cache.json"
	settledCacheFile  = "contract_cache.json"
	healthServiceName = "hedgewatch"
)

type config struct {
	Wallets []model.Wallet `long:"wallet" env:"HEDGEWATCH_WALLETS" env-delim:";" required:"true" description:"Wallet as CURRENCY/ADDRESS/WIF, address and key optional; repeat for more wallets"`

	MinAPY          string `long:"min-apy" env:"HEDGEWATCH_MIN_APY" default:"5" description:"Minimum adjusted APY in percent"`
	MinContractSize string `long:"min-contract-size" env:"HEDGEWATCH_MIN_CONTRACT_SIZE" default:"0.01" description:"Smallest contract to propose, in BCH"`
	MaxPremium      string `long:"max-premium" env:"HEDGEWATCH_MAX_PREMIUM" default:"0" description:"Highest total premium in percent an offer may charge"`
	MinerReserve    string `long:"miner-reserve" env:"HEDGEWATCH_MINER_RESERVE" default:"0.0001" description:"BCH kept aside for miner fees"`
	CounterLeverage string `long:"counter-leverage" env:"HEDGEWATCH_COUNTER_LEVERAGE" default:"5" description:"Counter leverage of the offers to consider"`
	Execution       string `long:"execution" env:"HEDGEWATCH_EXECUTION" default:"off" choice:"off" choice:"propose" choice:"fund" description:"What to do with a proposal"`

	CacheDir string `long:"cache-dir" env:"HEDGEWATCH_CACHE_DIR" default:"." description:"Directory of the JSON caches and the transaction log"`

	ElectrumServers []string      `long:"electrum-server" env:"HEDGEWATCH_ELECTRUM_SERVERS" env-delim:"," description:"Electrum WSS server; repeat for more, defaults to the public list"`
	ElectrumTimeout time.Duration `long:"electrum-timeout" env:"HEDGEWATCH_ELECTRUM_TIMEOUT" default:"30s" description:"Electrum request timeout"`
	BlockchairURL   string        `long:"blockchair-url" env:"HEDGEWATCH_BLOCKCHAIR_URL" description:"Blockchair Bitcoin Cash API base URL"`
	BlockchairRPS   int           `long:"blockchair-rps" env:"HEDGEWATCH_BLOCKCHAIR_RPS" default:"1" description:"Blockchair requests per second"`
	OracleURL       string        `long:"oracle-url" env:"HEDGEWATCH_ORACLE_URL" description:"Oracle relay API base URL"`
	PremiumURL      string        `long:"premium-url" env:"HEDGEWATCH_PREMIUM_URL" description:"Premium surface URL"`
	HTTPTimeout     time.Duration `long:"http-timeout" env:"HEDGEWATCH_HTTP_TIMEOUT" default:"30s" description:"Timeout of upstream HTTP requests"`
	BatchDelay      time.Duration `long:"batch-delay" env:"HEDGEWATCH_BATCH_DELAY" default:"2m" description:"Delay between throttled transaction detail batches"`

	NodeRPCHost string `long:"node-rpc-host" env:"HEDGEWATCH_NODE_RPC_HOST" description:"BCH node JSON-RPC host:port; when set, transaction details come from the node"`
	NodeRPCUser string `long:"node-rpc-user" env:"HEDGEWATCH_NODE_RPC_USER" description:"BCH node RPC user"`
	NodeRPCPass string `long:"node-rpc-pass" env:"HEDGEWATCH_NODE_RPC_PASS" description:"BCH node RPC password"`
	NodeRPCTLS  bool   `long:"node-rpc-tls" env:"HEDGEWATCH_NODE_RPC_TLS" description:"Use TLS for the node RPC"`

	SettlementDir     string        `long:"settlement-dir" env:"HEDGEWATCH_SETTLEMENT_DIR" description:"Directory of the settlement helper scripts; contracts are not loaded without it"`
	SettlementNode    string        `long:"settlement-node" env:"HEDGEWATCH_SETTLEMENT_NODE" default:"node" description:"Interpreter of the settlement helpers"`
	SettlementToken   string        `long:"settlement-token" env:"HEDGEWATCH_SETTLEMENT_TOKEN" description:"Settlement service account token"`
	SettlementTimeout time.Duration `long:"settlement-timeout" env:"HEDGEWATCH_SETTLEMENT_TIMEOUT" default:"2m" description:"Timeout of one settlement helper run"`
	StatusWorkers     int           `long:"status-workers" env:"HEDGEWATCH_STATUS_WORKERS" default:"8" description:"Concurrent contract status requests"`

	CronSpec      string        `long:"cron" env:"HEDGEWATCH_CRON" default:"@every 15m" description:"Refresh schedule"`
	Addr          string        `long:"addr" env:"HEDGEWATCH_ADDR" default:":8000" description:"gRPC health listen address"`
	RestAddr      string        `long:"rest-addr" env:"HEDGEWATCH_REST_ADDR" default:":8001" description:"HTTP status API and metrics listen address"`
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"HEDGEWATCH_CLICKHOUSE_DSN" description:"ClickHouse DSN of the ledger; the ledger is off when empty"`
	LedgerFlush   time.Duration `long:"ledger-flush" env:"HEDGEWATCH_LEDGER_FLUSH" default:"30s" description:"Ledger flush interval"`

	LogJSON       bool   `long:"log-json" env:"HEDGEWATCH_LOG_JSON" description:"Log JSON instead of the console format"`
	LogLevel      string `long:"log-level" env:"HEDGEWATCH_LOG_LEVEL" default:"info" description:"Minimum log level"`
	LogFile       string `long:"log-file" env:"HEDGEWATCH_LOG_FILE" description:"Also write JSON logs to this rotated file"`
	LogMaxSizeMB  int    `long:"log-max-size" env:"HEDGEWATCH_LOG_MAX_SIZE" default:"100" description:"Megabytes before the log file is rotated"`
	LogMaxBackups int    `long:"log-max-backups" env:"HEDGEWATCH_LOG_MAX_BACKUPS" default:"5" description:"Rotated log files to keep"`
}

func (c config) path(name string) string {
	return filepath.Join(c.CacheDir, name)
}

func (c config) monitorConfig() (monitor.Config, error) {
	var (
		policy     selector.Policy
		maxPremium decimal.Decimal
		err        error
	)
	if policy.MinAPY, err = parseDecimal("min-apy", c.MinAPY); err != nil {
		return monitor.Config{}, err
	}
	if policy.MinContractSize, err = parseDecimal("min-contract-size", c.MinContractSize); err != nil {
		return monitor.Config{}, err
	}
	if policy.MinerReserve, err = parseDecimal("miner-reserve", c.MinerReserve); err != nil {
		return monitor.Config{}, err
	}
	if maxPremium, err = parseDecimal("max-premium", c.MaxPremium); err != nil {
		return monitor.Config{}, err
	}
	if policy.MinContractSize.IsNegative() || policy.MinerReserve.IsNegative() {
		return monitor.Config{}, errors.New("min-contract-size and miner-reserve must not be negative")
	}
	if _, err := parseDecimal("counter-leverage", c.CounterLeverage); err != nil {
		return monitor.Config{}, err
	}
	return monitor.Config{
		Policy:              policy,
		MaxPremium:          maxPremium,
		CounterLeverage:     c.CounterLeverage,
		Execution:           monitor.Execution(c.Execution),
		LedgerFlushInterval: c.LedgerFlush,
	}, nil
}

// wallets validates the configured addresses and keys and returns the wallets with
// canonical addresses.
func (c config) wallets() ([]model.Wallet, error) {
	out := make([]model.Wallet, 0, len(c.Wallets))
	for _, w := range c.Wallets {
		addr, err := wallet.Normalize(w.Address)
		if err != nil {
			return nil, fmt.Errorf("wallet %s: %w", w, err)
		}
		w.Address = addr
		if w.HasKey() {
			if _, err := wallet.AddressFromWIF(w.PrivateKeyWIF); err != nil {
				return nil, fmt.Errorf("wallet %s: %w", w, err)
			}
		}
		out = append(out, w)
	}
	return out, nil
}

func parseDecimal(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q: %w", name, value, err)
	}
	return d, nil
}
