package clickhouse

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
)

type (
	Metrics interface {
		Observe(operation string, currency model.Currency, err error, started time.Time)
	}
	// Batch is the part of a ClickHouse insert batch the repository uses.
	Batch interface {
		Append(v ...any) error
		Send() error
	}
	// Conn is the part of a ClickHouse connection the repository uses.
	Conn interface {
		PrepareBatch(ctx context.Context, query string) (Batch, error)
		Close() error
	}
)
