package node

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/hedgewatch/pkg/safe"
)

// BchToSatoshis converts a BCH amount to satoshis with overflow checks.
func BchToSatoshis(value float64) (uint64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount: %d", amt)
	}
	return safe.Uint64(int64(amt))
}
