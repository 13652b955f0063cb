// Package discovery finds the hedge contracts a wallet funded by classifying its
// outgoing transactions. Classifications are cached forever, so only new transactions
// are ever fetched.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/clock"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/wallet"
	"github.com/goodnatureofminers/hedgewatch/pkg/workerpool"
	"go.uber.org/zap"
)

const (
	DefaultBatchSize         = 10
	DefaultConcurrentBatches = 3
	DefaultBatchDelay        = 2 * time.Minute
)

// Config tunes detail fetching. Batches after the first ConcurrentBatches run one at a
// time, each after BatchDelay.
type Config struct {
	BatchSize         int
	ConcurrentBatches int
	BatchDelay        time.Duration
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.ConcurrentBatches <= 0 {
		c.ConcurrentBatches = DefaultConcurrentBatches
	}
	if c.BatchDelay < 0 {
		c.BatchDelay = 0
	}
	return c
}

// Sources names the collaborators of a Service.
type Sources struct {
	Primary      HistorySource
	PrimaryName  string
	Fallback     HistorySource
	FallbackName string
	Details      DetailSource
}

// Result lists the contract addresses of a wallet and the funding records behind them.
type Result struct {
	Addresses []string
	Fundings  []model.ContractFunding
}

// Service discovers the contracts of one wallet.
type Service struct {
	sources Sources
	cache   FundingCache
	metrics Metrics
	cfg     Config
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

func New(sources Sources, cache FundingCache, metrics Metrics, cfg Config, logger *zap.Logger) *Service {
	if sources.PrimaryName == "" {
		sources.PrimaryName = "primary"
	}
	if sources.FallbackName == "" {
		sources.FallbackName = "fallback"
	}
	return &Service{
		sources: sources,
		cache:   cache,
		metrics: metrics,
		cfg:     cfg.withDefaults(),
		logger:  logger.Named("discovery"),
		sleep:   clock.SleepWithContext,
	}
}

// Discover returns the contracts funded from the wallet's key-derived address.
// Watch-only wallets have no contracts.
func (s *Service) Discover(ctx context.Context, w model.Wallet) (Result, error) {
	if !w.HasKey() {
		return Result{}, nil
	}
	address, err := wallet.AddressFromWIF(w.PrivateKeyWIF)
	if err != nil {
		return Result{}, fmt.Errorf("wallet %s: %w", w, err)
	}
	return s.DiscoverAddress(ctx, address)
}

// DiscoverAddress runs one reconciliation pass for address.
func (s *Service) DiscoverAddress(ctx context.Context, address string) (Result, error) {
	logger := s.logger.With(zap.String("address", address))

	txids, err := s.history(ctx, address, logger)
	if err != nil {
		return Result{}, err
	}

	known := make([]model.ContractFunding, 0, len(txids))
	missing := make([]string, 0, len(txids))
	seen := make(map[string]struct{}, len(txids))
	for _, txid := range txids {
		if _, dup := seen[txid]; dup {
			continue
		}
		seen[txid] = struct{}{}
		if f, ok := s.cache.TryGet(txid); ok {
			known = append(known, f)
			continue
		}
		missing = append(missing, txid)
	}
	s.metrics.ObserveCacheHits(len(known))

	fresh, fetchErr := s.classifyMissing(ctx, missing, logger)
	if err := s.cache.Save(); err != nil {
		logger.Error("save funding cache", zap.Error(err))
		if fetchErr == nil {
			fetchErr = fmt.Errorf("save funding cache: %w", err)
		}
	}
	if fetchErr != nil {
		return Result{}, fetchErr
	}

	logger.Debug("contracts discovered",
		zap.Int("history", len(txids)),
		zap.Int("cached", len(known)),
		zap.Int("classified", len(fresh)),
	)
	return buildResult(append(known, fresh...), address), nil
}

func (s *Service) history(ctx context.Context, address string, logger *zap.Logger) ([]string, error) {
	txids, err := s.sources.Primary.FetchHistory(ctx, address)
	s.metrics.ObserveHistory(s.sources.PrimaryName, err)
	if err == nil {
		return txids, nil
	}
	if s.sources.Fallback == nil || errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("history from %s: %w", s.sources.PrimaryName, err)
	}
	logger.Warn("primary history source failed, using fallback",
		zap.String("primary", s.sources.PrimaryName),
		zap.String("fallback", s.sources.FallbackName),
		zap.Error(err),
	)

	txids, err = s.sources.Fallback.FetchHistory(ctx, address)
	s.metrics.ObserveHistory(s.sources.FallbackName, err)
	if err != nil {
		return nil, fmt.Errorf("history from %s: %w", s.sources.FallbackName, err)
	}
	return txids, nil
}

// classifyMissing fetches and classifies txids batch by batch. Every completed batch is
// in the cache even when a later one fails.
func (s *Service) classifyMissing(ctx context.Context, txids []string, logger *zap.Logger) ([]model.ContractFunding, error) {
	if len(txids) == 0 {
		return nil, nil
	}
	batches := workerpool.Chunk(txids, s.cfg.BatchSize)
	head := batches[:min(len(batches), s.cfg.ConcurrentBatches)]
	tail := batches[len(head):]

	results := make([][]model.ContractFunding, len(batches))
	indexes := make([]int, len(head))
	for i := range indexes {
		indexes[i] = i
	}

	err := workerpool.Process(ctx, len(head), indexes, func(ctx context.Context, i int) error {
		fundings, err := s.processBatch(ctx, batches[i])
		if err != nil {
			return err
		}
		results[i] = fundings
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}

	for j, batch := range tail {
		logger.Debug("throttling detail batch", zap.Int("batch", len(head)+j+1), zap.Int("batches", len(batches)), zap.Duration("delay", s.cfg.BatchDelay))
		if err := s.sleep(ctx, s.cfg.BatchDelay); err != nil {
			return nil, err
		}
		fundings, err := s.processBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		results[len(head)+j] = fundings
	}

	var all []model.ContractFunding
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// processBatch inserts nothing unless every record of the batch is complete.
func (s *Service) processBatch(ctx context.Context, txids []string) (fundings []model.ContractFunding, err error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveBatch(err, started)
	}()

	txs, err := s.sources.Details.FetchTransactions(ctx, txids)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, err
		}
	}

	fundings = make([]model.ContractFunding, 0, len(txs))
	for _, tx := range txs {
		f := Classify(tx)
		actual, inserted := s.cache.Add(tx.TxID, f)
		if inserted {
			s.metrics.ObserveClassified(actual.IsContract())
		}
		fundings = append(fundings, actual)
	}
	return fundings, nil
}

// Classify records what tx pays: the contract is the first pay-to-script-hash output
// and the first input's source transaction is the pre-funding transaction. The result
// does not depend on the wallet, so it can be cached by txid for every wallet.
func Classify(tx model.Transaction) model.ContractFunding {
	f := model.ContractFunding{TxID: tx.TxID, SpentFrom: spentFrom(tx)}
	if len(tx.Inputs) > 0 {
		f.PreFundingTxID = tx.Inputs[0].PrevTxID
	}
	for _, out := range tx.Outputs {
		if out.ScriptType != model.ScriptTypeScriptHash || out.Recipient == "" {
			continue
		}
		addr := model.NormalizeAddress(out.Recipient)
		f.ContractAddress = &addr
		break
	}
	return f
}

func spentFrom(tx model.Transaction) []string {
	var from []string
	seen := make(map[string]struct{}, len(tx.Inputs))
	for _, in := range tx.Inputs {
		if in.Recipient == "" {
			continue
		}
		addr := model.NormalizeAddress(in.Recipient)
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		from = append(from, addr)
	}
	sort.Strings(from)
	return from
}

// buildResult keeps the contracts funded from address. Transactions that only paid
// the wallet are in its history but were spent from other addresses.
func buildResult(fundings []model.ContractFunding, address string) Result {
	sort.Slice(fundings, func(i, j int) bool { return fundings[i].TxID < fundings[j].TxID })

	res := Result{Addresses: []string{}, Fundings: []model.ContractFunding{}}
	seen := make(map[string]struct{})
	for _, f := range fundings {
		if !f.FundedFrom(address) {
			continue
		}
		res.Fundings = append(res.Fundings, f)
		addr := f.Address()
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		res.Addresses = append(res.Addresses, addr)
	}
	sort.Strings(res.Addresses)
	return res
}
