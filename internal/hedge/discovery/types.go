package discovery

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
)

type (
	// HistorySource lists the transactions of an address.
	HistorySource interface {
		FetchHistory(ctx context.Context, address string) ([]string, error)
	}
	// DetailSource fetches full transaction records in batches.
	DetailSource interface {
		FetchTransactions(ctx context.Context, txids []string) ([]model.Transaction, error)
	}
	// FundingCache persists classified transactions by txid.
	FundingCache interface {
		TryGet(key string) (model.ContractFunding, bool)
		Add(key string, value model.ContractFunding) (model.ContractFunding, bool)
		Save() error
	}
	// Metrics records discovery outcomes.
	Metrics interface {
		ObserveHistory(source string, err error)
		ObserveBatch(err error, started time.Time)
		ObserveClassified(funding bool)
		ObserveCacheHits(n int)
	}
)
