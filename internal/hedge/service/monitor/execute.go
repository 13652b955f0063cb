package monitor

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/settlement"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/txlog"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/wallet"
	"go.uber.org/zap"
)

// execute proposes, and funds when configured to, the proposal of a. Watch-only wallets
// are never executed.
func (s *Service) execute(ctx context.Context, a model.Account) error {
	if s.cfg.Execution == ExecutionOff || a.Proposal == nil || !a.Wallet.HasKey() {
		return nil
	}
	payout, err := wallet.AddressFromWIF(a.Wallet.PrivateKeyWIF)
	if err != nil {
		return fmt.Errorf("payout address: %w", err)
	}

	p := a.Proposal
	req := settlement.ProposeRequest{
		PayoutAddress:   payout,
		WIF:             a.Wallet.PrivateKeyWIF,
		NominalUnits:    settlement.NominalUnits(p.Amount, a.LatestPrice, a.Metadata.AttestationScaling),
		OracleKey:       a.OracleKey,
		DurationSeconds: p.Offer.DurationSeconds,
	}
	logger := s.logger.With(zap.Stringer("wallet", a.Wallet), zap.String("amount", p.Amount.String()), zap.Int64("duration", p.Offer.DurationSeconds))

	pending, err := s.deps.Executor.Propose(ctx, req)
	if err != nil {
		return fmt.Errorf("propose contract: %w", err)
	}
	s.logTransaction(txlog.ActionPropose, a, pending.Contract.Address, "")
	if s.cfg.Execution != ExecutionFund {
		logger.Info("contract proposed", zap.String("contract", pending.Contract.Address))
		return nil
	}

	txid, err := s.deps.Executor.Fund(ctx, req, pending)
	if err != nil {
		return fmt.Errorf("fund contract %s: %w", pending.Contract.Address, err)
	}
	s.logTransaction(txlog.ActionFund, a, pending.Contract.Address, txid)
	logger.Info("contract funded", zap.String("contract", pending.Contract.Address), zap.String("txid", txid))
	return nil
}

func (s *Service) logTransaction(action txlog.Action, a model.Account, contract, txid string) {
	if s.deps.TxLog == nil {
		return
	}
	err := s.deps.TxLog.Append(txlog.Entry{
		Time:            s.now(),
		Action:          action,
		Currency:        a.Wallet.Currency,
		Amount:          a.Proposal.Amount,
		DurationSeconds: a.Proposal.Offer.DurationSeconds,
		APY:             a.Proposal.Offer.AdjustedAPY,
		ContractAddress: contract,
		TxID:            txid,
	})
	if err != nil {
		s.logger.Error("append transaction log", zap.String("action", string(action)), zap.Error(err))
	}
}
