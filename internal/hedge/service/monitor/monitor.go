// Package monitor runs the refresh cycle: every configured wallet is reconciled against
// the chain, its contracts and the premium surface, and the result is published.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/selector"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Execution controls what happens with a proposal.
type Execution string

const (
	ExecutionOff     Execution = "off"
	ExecutionPropose Execution = "propose"
	ExecutionFund    Execution = "fund"
)

const (
	defaultAccountWorkers = 4
	defaultFetchWorkers   = 16
	defaultCounter        = "5"
)

var ErrAllAccountsFailed = errors.New("every account failed to refresh")

// Config holds the selection policy and the service limits.
type Config struct {
	Policy              selector.Policy
	MaxPremium          decimal.Decimal
	CounterLeverage     string
	Execution           Execution
	AccountWorkers      int
	FetchWorkers        int
	LedgerFlushInterval time.Duration
}

// Watch pairs a configured wallet with the discovery service of its key.
type Watch struct {
	Wallet    model.Wallet
	Discovery Discoverer
}

// NamedBalanceSource is one balance provider, tried in configuration order.
type NamedBalanceSource struct {
	Name   string
	Source BalanceSource
}

// Deps are the collaborators of a Service. Executor, TxLog, Ledger and Health may be nil.
type Deps struct {
	Balances  []NamedBalanceSource
	Prices    PriceSource
	Premiums  PremiumSource
	Contracts ContractLoader
	Executor  Executor
	TxLog     TransactionLog
	Ledger    Ledger
	Health    HealthReporter
	Metrics   Metrics
}

// Service refreshes every watched account. Refresh cycles never overlap.
type Service struct {
	watches []Watch
	deps    Deps
	cfg     Config
	logger  *zap.Logger
	status  *Status

	metadata    *xsync.Map[string, model.OracleMetadata]
	recorded    *xsync.Map[string, struct{}]
	accountPool pond.Pool
	fetchPool   pond.Pool
	ledger      *ledgerWriter
	triggers    chan struct{}
	now         func() time.Time
}

func New(watches []Watch, deps Deps, cfg Config, logger *zap.Logger) (*Service, error) {
	if len(watches) == 0 {
		return nil, errors.New("at least one wallet is required")
	}
	if deps.Prices == nil || deps.Premiums == nil || deps.Metrics == nil {
		return nil, errors.New("price, premium and metrics dependencies are required")
	}
	if cfg.Execution == "" {
		cfg.Execution = ExecutionOff
	}
	if cfg.Execution != ExecutionOff && deps.Executor == nil {
		return nil, fmt.Errorf("execution %q needs a settlement executor", cfg.Execution)
	}
	if cfg.CounterLeverage == "" {
		cfg.CounterLeverage = defaultCounter
	}
	if cfg.AccountWorkers <= 0 {
		cfg.AccountWorkers = defaultAccountWorkers
	}
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = defaultFetchWorkers
	}

	logger = logger.Named("monitor")
	s := &Service{
		watches:     watches,
		deps:        deps,
		cfg:         cfg,
		logger:      logger,
		status:      NewStatus(),
		metadata:    xsync.NewMap[string, model.OracleMetadata](),
		recorded:    xsync.NewMap[string, struct{}](),
		accountPool: pond.NewPool(cfg.AccountWorkers),
		fetchPool:   pond.NewPool(cfg.FetchWorkers),
		triggers:    make(chan struct{}, 1),
		now:         time.Now,
	}
	if deps.Ledger != nil {
		s.ledger = newLedgerWriter(deps.Ledger, cfg.LedgerFlushInterval, logger)
	}
	return s, nil
}

// Status returns the published account views.
func (s *Service) Status() *Status {
	return s.status
}

// Trigger asks for a refresh. It reports false when one is already pending.
func (s *Service) Trigger() bool {
	select {
	case s.triggers <- struct{}{}:
		return true
	default:
		return false
	}
}

// Run refreshes once immediately and then on every trigger until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if s.ledger != nil {
		s.ledger.Start(ctx)
		defer s.ledger.Stop()
	}
	defer s.fetchPool.StopAndWait()
	defer s.accountPool.StopAndWait()

	s.Trigger()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.triggers:
			if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("refresh cycle failed", zap.Error(err))
			}
		}
	}
}

// Refresh runs one cycle over all accounts. A failing account is recorded and does not
// stop the others. The returned error reports the premium source or a cycle in which no
// account could be refreshed.
func (s *Service) Refresh(ctx context.Context) (err error) {
	started := time.Now()
	defer func() {
		s.deps.Metrics.ObserveCycle(err, started)
	}()

	gridFetch := newGridFetch(ctx, s.fetchPool, s.deps.Premiums)

	results := make([]accountResult, len(s.watches))
	group := s.accountPool.NewGroupContext(ctx)
	for i, w := range s.watches {
		group.Submit(func() {
			results[i] = s.refreshAccount(group.Context(), w, gridFetch)
		})
	}
	if waitErr := group.Wait(); waitErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("refresh accounts: %w", waitErr)
	}

	failed := 0
	for _, r := range results {
		s.publish(ctx, r)
		if r.account.Err != nil && !isInsufficientFunds(r.account.Err) {
			failed++
		}
	}
	healthy := failed < len(results)
	if s.deps.Health != nil {
		s.deps.Health.SetHealthy(healthy)
	}
	s.logger.Info("refresh cycle finished",
		zap.Int("accounts", len(results)),
		zap.Int("failed", failed),
		zap.Duration("took", time.Since(started)),
	)

	var errs []error
	if _, gridErr := gridFetch.wait(); gridErr != nil {
		errs = append(errs, fmt.Errorf("premium grid: %w", gridErr))
	}
	if !healthy {
		errs = append(errs, ErrAllAccountsFailed)
	}
	return errors.Join(errs...)
}

func (s *Service) publish(ctx context.Context, r accountResult) {
	a := r.account
	s.status.Set(a)
	s.deps.Metrics.ObserveAccount(a)

	logger := s.logger.With(zap.Stringer("wallet", a.Wallet))
	if a.Err != nil {
		logger.Warn("account refresh failed", zap.Error(a.Err))
	}
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Write(ctx, model.NewAccountSnapshot(a), r.settlements); err != nil {
		logger.Error("queue account snapshot", zap.Error(err))
	}
}

func isInsufficientFunds(err error) bool {
	var insufficient *model.InsufficientFundsError
	return errors.As(err, &insufficient)
}

// gridFetch shares one premium grid request between all accounts of a cycle.
type gridFetch struct {
	task pond.Task
	grid model.PremiumGrid
	err  error
}

func newGridFetch(ctx context.Context, pool pond.Pool, source PremiumSource) *gridFetch {
	f := &gridFetch{}
	f.task = pool.Submit(func() {
		f.grid, f.err = source.Grid(ctx)
	})
	return f
}

func (f *gridFetch) wait() (model.PremiumGrid, error) {
	if err := f.task.Wait(); err != nil {
		return nil, err
	}
	return f.grid, f.err
}
