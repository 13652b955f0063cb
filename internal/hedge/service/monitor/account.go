package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/account"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/premium"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/selector"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type accountResult struct {
	account     model.Account
	settlements []model.SettlementRow
}

type fetched struct {
	price        model.PriceMessage
	priceErr     error
	balance      *decimal.Decimal
	balanceErr   error
	contracts    []model.Contract
	contractsErr error
}

// refreshAccount never fails as a whole: what could not be fetched is left unknown and
// the reason is recorded in the account.
func (s *Service) refreshAccount(ctx context.Context, w Watch, grid *gridFetch) accountResult {
	a := model.Account{Wallet: w.Wallet, RefreshedAt: s.now()}

	key, err := w.Wallet.Currency.OracleKey()
	if err != nil {
		a.Err = err
		return accountResult{account: a}
	}
	a.OracleKey = key

	md, err := s.oracleMetadata(ctx, key)
	if err != nil {
		a.Err = fmt.Errorf("oracle metadata: %w", err)
		return accountResult{account: a}
	}
	a.Metadata = md

	f := s.fetch(ctx, w, key)
	if f.priceErr != nil {
		a.Err = fmt.Errorf("latest price: %w", f.priceErr)
		return accountResult{account: a}
	}
	a.LatestPrice = f.price.ScaledPrice(md.AttestationScaling)
	a = account.WithWalletBalance(a, f.balance)

	var (
		errs []error
		res  accountResult
	)
	if f.balanceErr != nil {
		errs = append(errs, fmt.Errorf("wallet balance: %w", f.balanceErr))
	}
	if f.contractsErr != nil {
		errs = append(errs, fmt.Errorf("contracts: %w", f.contractsErr))
	} else {
		if a, err = account.Summarize(a, f.contracts); err != nil {
			errs = append(errs, err)
		}
		res.settlements = s.newSettlements(a, f.contracts)
	}
	if len(errs) == 0 {
		if err := s.propose(ctx, &a, grid); err != nil {
			errs = append(errs, err)
		}
	}
	a.Err = errors.Join(errs...)
	res.account = a
	return res
}

// oracleMetadata is fetched once per oracle and kept for the life of the service.
func (s *Service) oracleMetadata(ctx context.Context, key string) (model.OracleMetadata, error) {
	if md, ok := s.metadata.Load(key); ok {
		return md, nil
	}
	md, err := s.deps.Prices.Metadata(ctx, key)
	if err != nil {
		return model.OracleMetadata{}, err
	}
	s.metadata.Store(key, md)
	return md, nil
}

// fetch runs the independent lookups of one account concurrently.
func (s *Service) fetch(ctx context.Context, w Watch, key string) fetched {
	var f fetched
	group := s.fetchPool.NewGroupContext(ctx)
	groupCtx := group.Context()

	group.Submit(func() {
		f.price, f.priceErr = s.deps.Prices.LatestPrice(groupCtx, key)
	})
	if w.Wallet.HasAddress() {
		group.Submit(func() {
			balance, err := s.balance(groupCtx, w.Wallet.Address)
			if err != nil {
				f.balanceErr = err
				return
			}
			f.balance = &balance
		})
	}
	if w.Wallet.HasKey() && w.Discovery != nil && s.deps.Contracts != nil {
		group.Submit(func() {
			f.contracts, f.contractsErr = s.contracts(groupCtx, w)
		})
	}
	if err := group.Wait(); err != nil && f.priceErr == nil {
		f.priceErr = err
	}
	return f
}

func (s *Service) balance(ctx context.Context, address string) (decimal.Decimal, error) {
	if len(s.deps.Balances) == 0 {
		return decimal.Zero, errors.New("no balance source configured")
	}
	var errs []error
	for _, src := range s.deps.Balances {
		balance, err := src.Source.Balance(ctx, address)
		if err == nil {
			return balance, nil
		}
		if errors.Is(err, context.Canceled) {
			return decimal.Zero, err
		}
		s.logger.Warn("balance source failed", zap.String("source", src.Name), zap.String("address", address), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", src.Name, err))
	}
	return decimal.Zero, errors.Join(errs...)
}

func (s *Service) contracts(ctx context.Context, w Watch) ([]model.Contract, error) {
	found, err := w.Discovery.Discover(ctx, w.Wallet)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	if len(found.Fundings) == 0 {
		return nil, nil
	}
	return s.deps.Contracts.Load(ctx, w.Wallet.PrivateKeyWIF, found.Fundings)
}

// newSettlements returns ledger rows for settlements not written by this process yet.
func (s *Service) newSettlements(a model.Account, contracts []model.Contract) []model.SettlementRow {
	if s.ledger == nil {
		return nil
	}
	_, settled := account.Split(contracts, a.OracleKey)
	var rows []model.SettlementRow
	for _, c := range settled {
		row, ok := newSettlementRow(a.Wallet.Currency, c, a.Metadata.Scaling())
		if !ok {
			continue
		}
		if _, loaded := s.recorded.LoadOrStore(row.SettlementTxID, struct{}{}); loaded {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// propose selects the best offer for the wallet balance and, when enabled, hands it to
// the settlement service. Without a known balance or premium surface there is nothing
// to propose.
func (s *Service) propose(ctx context.Context, a *model.Account, grid *gridFetch) error {
	if a.WalletBalanceBch == nil || !a.WalletBalanceBch.IsPositive() {
		return nil
	}
	surface, err := grid.wait()
	if err != nil {
		return nil
	}
	balance := *a.WalletBalanceBch

	offers, err := premium.Flatten(surface, a.OracleKey, s.cfg.CounterLeverage, s.cfg.MaxPremium)
	if err != nil {
		return fmt.Errorf("premium offers: %w", err)
	}
	offers = premium.ApplyPriceDrift(offers, a.CostBasis, a.LatestPrice)

	p := selector.Select(offers, balance, s.cfg.Policy)
	if p == nil {
		return nil
	}
	adjusted, err := selector.ApplyFeeOverhead(*p, balance, s.cfg.Policy)
	if err != nil {
		return err
	}
	a.Proposal = &adjusted

	return s.execute(ctx, *a)
}
