// Package contracts loads the hedge contracts behind a wallet's fundings. Settled
// contracts never change again and are served from a cache.
package contracts

import (
	"context"
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"go.uber.org/zap"
)

// Loader fetches contract states concurrently on a shared pool.
type Loader struct {
	status StatusSource
	cache  SettledCache
	pool   pond.Pool
	logger *zap.Logger
}

func NewLoader(status StatusSource, cache SettledCache, pool pond.Pool, logger *zap.Logger) *Loader {
	return &Loader{
		status: status,
		cache:  cache,
		pool:   pool,
		logger: logger.Named("contracts"),
	}
}

// Load returns the contracts of fundings in the same order. wif authorizes status
// requests for contracts that are not cached. Settled contracts fetched before a
// failure are cached all the same.
func (l *Loader) Load(ctx context.Context, wif string, fundings []model.ContractFunding) ([]model.Contract, error) {
	out := make([]model.Contract, len(fundings))
	errs := make([]error, len(fundings))
	fetched := make([]bool, len(fundings))

	group := l.pool.NewGroupContext(ctx)
	groupCtx := group.Context()
	for i, f := range fundings {
		if c, ok := l.cache.TryGet(f.TxID); ok {
			out[i] = c
			continue
		}
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				errs[i] = err
				return
			}
			c, err := l.status.Contract(groupCtx, f.Address(), wif)
			if err != nil {
				errs[i] = fmt.Errorf("contract %s: %w", f.Address(), err)
				return
			}
			out[i] = c
			fetched[i] = true
		})
	}
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		l.logger.Warn("contract status fan-out failed", zap.Error(err))
	}
	added := 0
	for i, c := range out {
		if fetched[i] && c.IsSettled() {
			if _, inserted := l.cache.Add(fundings[i].TxID, c); inserted {
				added++
			}
		}
	}
	if added > 0 {
		if err := l.cache.Save(); err != nil {
			l.logger.Error("save settled contract cache", zap.Error(err))
		}
		l.logger.Debug("settled contracts cached", zap.Int("added", added))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
