// Package settlement drives the AnyHedge JavaScript helpers that talk to the settlement
// service and the liquidity provider.
package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const serviceName = "settlement"

var fundedTxPattern = regexp.MustCompile(`in transaction '([0-9a-fA-F]{64})'`)

// Config locates the helper scripts.
type Config struct {
	Dir     string
	Node    string
	Token   string
	Timeout time.Duration
}

// Runner executes a helper and returns its standard output.
type Runner interface {
	Run(ctx context.Context, dir, stdin, name string, args ...string) ([]byte, error)
}

// ExecRunner runs helpers as child processes.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, stdin, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin + "\n")
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", name, ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}

// Client wraps the status and liquidity-provider helpers.
type Client struct {
	cfg     Config
	runner  Runner
	metrics *metrics.Client
	logger  *zap.Logger
}

func NewClient(cfg Config, runner Runner, logger *zap.Logger) *Client {
	if cfg.Node == "" {
		cfg.Node = "node"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Client{
		cfg:     cfg,
		runner:  runner,
		metrics: metrics.NewClient(serviceName),
		logger:  logger.Named("settlement"),
	}
}

func (c *Client) run(ctx context.Context, operation, stdin string, args ...string) (out []byte, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe(operation, err, started)
	}()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	out, err = c.runner.Run(ctx, c.cfg.Dir, stdin, c.cfg.Node, args...)
	if err != nil {
		return nil, model.NewNetworkError(serviceName, fmt.Errorf("%s: %w", operation, err))
	}
	return out, nil
}

// Contract returns the current state of the contract at address. The key authorizes
// the status request.
func (c *Client) Contract(ctx context.Context, address, wif string) (model.Contract, error) {
	out, err := c.run(ctx, "contract_status", "", "status.mjs", c.cfg.Token, model.NormalizeAddress(address), wif)
	if err != nil {
		return model.Contract{}, err
	}
	contract, _, err := decodeContract(out)
	if err != nil {
		return model.Contract{}, fmt.Errorf("contract %s: %w", address, err)
	}
	return contract, nil
}

// ProposeRequest describes a contract to negotiate with the liquidity provider.
type ProposeRequest struct {
	PayoutAddress   string
	WIF             string
	NominalUnits    decimal.Decimal
	OracleKey       string
	DurationSeconds int64
}

// Pending is a contract the liquidity provider accepted but that is not funded yet.
type Pending struct {
	Contract model.Contract
	Raw      json.RawMessage
}

// NominalUnits converts an amount of BCH to oracle units at the scaled price.
func NominalUnits(amount, price decimal.Decimal, scaling int64) decimal.Decimal {
	return amount.Mul(price).Mul(decimal.NewFromInt(scaling)).Truncate(0)
}

// Propose registers the contract with the settlement service and returns it pending.
func (c *Client) Propose(ctx context.Context, req ProposeRequest) (Pending, error) {
	out, err := c.run(ctx, "propose", req.WIF,
		"liquidity-provider.mjs",
		c.cfg.Token,
		model.NormalizeAddress(req.PayoutAddress),
		req.NominalUnits.String(),
		req.OracleKey,
		strconv.FormatInt(req.DurationSeconds, 10),
		"{}",
		"propose",
	)
	if err != nil {
		return Pending{}, err
	}
	contract, raw, err := decodeContract(out)
	if err != nil {
		return Pending{}, fmt.Errorf("proposal: %w", err)
	}
	c.logger.Info("contract proposed", zap.String("address", contract.Address), zap.String("nominal_units", req.NominalUnits.String()))
	return Pending{Contract: contract, Raw: raw}, nil
}

// Fund funds a pending contract from the wallet and returns the funding transaction id.
func (c *Client) Fund(ctx context.Context, req ProposeRequest, pending Pending) (string, error) {
	marked, err := markBigInts(pending.Raw)
	if err != nil {
		return "", fmt.Errorf("pending contract: %w", err)
	}
	out, err := c.run(ctx, "fund", req.WIF,
		"liquidity-provider.mjs",
		c.cfg.Token,
		model.NormalizeAddress(req.PayoutAddress),
		req.NominalUnits.String(),
		req.OracleKey,
		strconv.FormatInt(req.DurationSeconds, 10),
		string(marked),
		"fund",
	)
	if err != nil {
		return "", err
	}
	m := fundedTxPattern.FindSubmatch(out)
	if m == nil {
		return "", model.NewDataIntegrityError(fmt.Sprintf("contract %s: helper did not report a funding transaction", pending.Contract.Address))
	}
	return string(m[1]), nil
}

// decodeContract reads the last JSON object the helper printed at the start of a line;
// anything before it is progress output.
func decodeContract(out []byte) (model.Contract, json.RawMessage, error) {
	var starts []int
	for i := range out {
		if out[i] == '{' && (i == 0 || out[i-1] == '\n') {
			starts = append(starts, i)
		}
	}
	var lastErr error
	for i := len(starts) - 1; i >= 0; i-- {
		var raw json.RawMessage
		if err := json.NewDecoder(bytes.NewReader(out[starts[i]:])).Decode(&raw); err != nil {
			lastErr = err
			continue
		}
		var contract model.Contract
		if err := json.Unmarshal(raw, &contract); err != nil {
			return model.Contract{}, nil, model.NewDataIntegrityError(fmt.Sprintf("decode contract: %v", err))
		}
		return contract, raw, nil
	}
	if lastErr != nil {
		return model.Contract{}, nil, model.NewDataIntegrityError(fmt.Sprintf("decode contract: %v", lastErr))
	}
	return model.Contract{}, nil, model.NewDataIntegrityError("helper printed no contract")
}

// bigIntFields are the contract fields the AnyHedge library holds as BigInt.
var bigIntFields = map[string]struct{}{
	"maturityTimestamp":                    {},
	"startTimestamp":                       {},
	"highLiquidationPrice":                 {},
	"lowLiquidationPrice":                  {},
	"payoutSats":                           {},
	"nominalUnitsXSatsPerBch":              {},
	"satsForNominalUnitsAtHighLiquidation": {},
	"enableMutualRedemption":               {},
	"durationInSeconds":                    {},
	"isSimpleHedge":                        {},
	"startPrice":                           {},
	"shortInputInSatoshis":                 {},
	"longInputInSatoshis":                  {},
	"minerCostInSatoshis":                  {},
	"fundingOutputIndex":                   {},
	"fundingSatoshis":                      {},
	"settlementPrice":                      {},
	"shortPayoutInSatoshis":                {},
	"longPayoutInSatoshis":                 {},
	"satoshis":                             {},
}

// markBigInts rewrites the integer values of bigIntFields as "<digits>n" strings, the
// form the funding helper revives as BigInt. Other values are left as they are.
func markBigInts(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty contract")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(mark(v))
}

func mark(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			if _, ok := bigIntFields[k]; ok {
				t[k] = markInt(e)
				continue
			}
			t[k] = mark(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = mark(e)
		}
		return t
	default:
		return v
	}
}

func markInt(v any) any {
	switch t := v.(type) {
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return t.String() + "n"
		}
		return t
	case string:
		if isDigits(t) {
			return t + "n"
		}
		return t
	default:
		return v
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
