package transport

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/service/monitor"
)

type (
	StatusSource interface {
		All() []monitor.View
		ByCurrency(currency model.Currency) []monitor.View
	}

	Refresher interface {
		Trigger() bool
	}
)
