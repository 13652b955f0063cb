package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
)

const insertAccountSnapshotsQuery = `
INSERT INTO hedge_account_snapshots (
	currency,
	address,
	refreshed_at,
	latest_price,
	wallet_balance_bch,
	contracts_balance_bch,
	cost_basis,
	proposal_amount,
	proposal_duration,
	proposal_apy,
	error
) VALUES`

// InsertAccountSnapshots stores account snapshot rows in ClickHouse.
func (r *Repository) InsertAccountSnapshots(ctx context.Context, snapshots []model.AccountSnapshot) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_account_snapshots", firstCurrency(snapshots), err, start)
	}()

	if len(snapshots) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertAccountSnapshotsQuery)
	if err != nil {
		return fmt.Errorf("prepare account snapshots batch: %w", err)
	}

	for _, s := range snapshots {
		if err = batch.Append(
			string(s.Currency),
			s.Address,
			s.RefreshedAt,
			s.LatestPrice,
			s.WalletBalanceBch,
			s.ContractsBalanceBch,
			s.CostBasis,
			s.ProposalAmount,
			s.ProposalDuration,
			s.ProposalAPY,
			s.Error,
		); err != nil {
			return fmt.Errorf("append account snapshot: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert account snapshots: %w", err)
	}
	return nil
}

// firstCurrency labels a batch by its first row; mixed batches are labelled anyway.
func firstCurrency[T any](items []T) model.Currency {
	if len(items) == 0 {
		return ""
	}

	switch v := any(items[0]).(type) {
	case model.AccountSnapshot:
		return v.Currency
	case model.SettlementRow:
		return v.Currency
	default:
		return ""
	}
}
