// Package txlog appends proposals and fundings to a tab-separated log next to the caches.
package txlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/shopspring/decimal"
)

// FileName is the log file created in the log directory.
const FileName = "_transaction_log.csv"

var header = []string{"time", "action", "currency", "amount_bch", "duration_days", "apy", "contract_address", "transaction"}

type Action string

const (
	ActionPropose Action = "propose"
	ActionFund    Action = "fund"
)

// Entry is one row of the log.
type Entry struct {
	Time            time.Time
	Action          Action
	Currency        model.Currency
	Amount          decimal.Decimal
	DurationSeconds int64
	APY             decimal.Decimal
	ContractAddress string
	TxID            string
}

func (e Entry) record() []string {
	return []string{
		e.Time.UTC().Format(time.RFC3339),
		string(e.Action),
		string(e.Currency),
		e.Amount.StringFixed(8),
		strconv.FormatFloat(float64(e.DurationSeconds)/86400, 'f', -1, 64),
		e.APY.StringFixed(2),
		e.ContractAddress,
		e.TxID,
	}
}

// Log is safe for concurrent use within one process.
type Log struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func New(dir string) *Log {
	return &Log{path: filepath.Join(dir, FileName), now: time.Now}
}

func (l *Log) Path() string {
	return l.path
}

// Append writes e, and the header first when the file is new or empty. A zero Time is
// replaced with the current time.
func (l *Log) Append(e Entry) (err error) {
	if e.Time.IsZero() {
		e.Time = l.now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open transaction log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close transaction log: %w", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat transaction log: %w", err)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(e.record()); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush transaction log: %w", err)
	}
	return nil
}
