package monitor

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/discovery"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/settlement"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/txlog"
	"github.com/shopspring/decimal"
)

type (
	BalanceSource interface {
		Balance(ctx context.Context, address string) (decimal.Decimal, error)
	}
	PriceSource interface {
		LatestPrice(ctx context.Context, oracleKey string) (model.PriceMessage, error)
		Metadata(ctx context.Context, oracleKey string) (model.OracleMetadata, error)
	}
	PremiumSource interface {
		Grid(ctx context.Context) (model.PremiumGrid, error)
	}
	Discoverer interface {
		Discover(ctx context.Context, w model.Wallet) (discovery.Result, error)
	}
	ContractLoader interface {
		Load(ctx context.Context, wif string, fundings []model.ContractFunding) ([]model.Contract, error)
	}
	Executor interface {
		Propose(ctx context.Context, req settlement.ProposeRequest) (settlement.Pending, error)
		Fund(ctx context.Context, req settlement.ProposeRequest, pending settlement.Pending) (string, error)
	}
	TransactionLog interface {
		Append(e txlog.Entry) error
	}
	Ledger interface {
		InsertAccountSnapshots(ctx context.Context, snapshots []model.AccountSnapshot) error
		InsertSettlements(ctx context.Context, rows []model.SettlementRow) error
	}
	HealthReporter interface {
		SetHealthy(healthy bool)
	}
	Metrics interface {
		ObserveCycle(err error, started time.Time)
		ObserveAccount(a model.Account)
	}
)
