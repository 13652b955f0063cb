package monitor

import (
	"context"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/clock"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/oracle"
	"github.com/goodnatureofminers/hedgewatch/pkg/batcher"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	ledgerBatchSize     = 100
	ledgerFlushInterval = 30 * time.Second
	ledgerFlushRPS      = 5
)

type ledgerWriter struct {
	repo        Ledger
	snapshots   *batcher.Batcher[model.AccountSnapshot]
	settlements *batcher.Batcher[model.SettlementRow]
}

func newLedgerWriter(repo Ledger, flushInterval time.Duration, logger *zap.Logger) *ledgerWriter {
	if flushInterval <= 0 {
		flushInterval = ledgerFlushInterval
	}
	w := &ledgerWriter{repo: repo}
	w.snapshots = batcher.New[model.AccountSnapshot](
		logger.Named("snapshotBatcher"),
		repo.InsertAccountSnapshots,
		ledgerBatchSize,
		flushInterval,
		ledgerFlushRPS,
	)
	w.settlements = batcher.New[model.SettlementRow](
		logger.Named("settlementBatcher"),
		repo.InsertSettlements,
		ledgerBatchSize,
		flushInterval,
		ledgerFlushRPS,
	)
	return w
}

func (w *ledgerWriter) Start(ctx context.Context) {
	w.snapshots.Start(ctx)
	w.settlements.Start(ctx)
}

// Stop flushes everything still queued.
func (w *ledgerWriter) Stop() {
	w.snapshots.Stop()
	w.settlements.Stop()
}

func (w *ledgerWriter) Write(ctx context.Context, snapshot model.AccountSnapshot, rows []model.SettlementRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.snapshots.Add(ctx, snapshot); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.settlements.Add(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// newSettlementRow flattens a settled contract. A settlement message that cannot be
// parsed leaves the sequence at zero; the row is still worth keeping.
func newSettlementRow(currency model.Currency, c model.Contract, scaling decimal.Decimal) (model.SettlementRow, bool) {
	s := c.Settlement()
	if s == nil {
		return model.SettlementRow{}, false
	}
	row := model.SettlementRow{
		Currency:          currency,
		ContractAddress:   c.Address,
		FundingTxID:       c.Fundings[0].FundingTransactionHash,
		SettlementTxID:    s.SettlementTransactionHash,
		SettlementType:    s.SettlementType,
		SettlementPrice:   decimal.NewFromInt(s.SettlementPrice.Int64()),
		ShortPayoutSats:   uint64(max(s.ShortPayoutInSatoshis.Int64(), 0)),
		LongPayoutSats:    uint64(max(s.LongPayoutInSatoshis.Int64(), 0)),
		NominalUnits:      c.Metadata.NominalUnits,
		MaturityTimestamp: clock.FromUnix(c.Parameters.MaturityTimestamp.Int64()),
	}
	if scaling.IsPositive() {
		row.SettlementPrice = row.SettlementPrice.Div(scaling)
		row.NominalUnits = row.NominalUnits.Div(scaling)
	}
	if msg, err := oracle.ParsePriceMessage(s.SettlementMessage); err == nil {
		row.MessageSequence = msg.MessageSequence
	}
	return row, true
}
