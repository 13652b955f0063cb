package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
)

const insertSettlementsQuery = `
INSERT INTO hedge_settlements (
	currency,
	contract_address,
	funding_txid,
	settlement_txid,
	settlement_type,
	settlement_price,
	message_sequence,
	short_payout_sats,
	long_payout_sats,
	nominal_units,
	maturity_timestamp
) VALUES`

// InsertSettlements stores settled contracts. Rows are deduplicated by the table engine,
// so the same settlement may be inserted on every refresh.
func (r *Repository) InsertSettlements(ctx context.Context, rows []model.SettlementRow) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_settlements", firstCurrency(rows), err, start)
	}()

	if len(rows) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertSettlementsQuery)
	if err != nil {
		return fmt.Errorf("prepare settlements batch: %w", err)
	}

	for _, row := range rows {
		if err = batch.Append(
			string(row.Currency),
			row.ContractAddress,
			row.FundingTxID,
			row.SettlementTxID,
			row.SettlementType,
			row.SettlementPrice,
			row.MessageSequence,
			row.ShortPayoutSats,
			row.LongPayoutSats,
			row.NominalUnits,
			row.MaturityTimestamp,
		); err != nil {
			return fmt.Errorf("append settlement: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert settlements: %w", err)
	}
	return nil
}
