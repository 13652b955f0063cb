package contracts

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
)

type (
	// StatusSource reports the current state of a contract.
	StatusSource interface {
		Contract(ctx context.Context, address, wif string) (model.Contract, error)
	}
	// SettledCache keeps settled contracts by funding txid.
	SettledCache interface {
		TryGet(key string) (model.Contract, bool)
		Add(key string, value model.Contract) (model.Contract, bool)
		Save() error
	}
)
