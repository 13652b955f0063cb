// Package upstream is the shared HTTP client for the explorer, oracle and premium APIs:
// every request is paced by a rate limiter, guarded by a circuit breaker and observed.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/metrics"
	"github.com/goodnatureofminers/hedgewatch/pkg/circuitbreaker"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

const maxBodyBytes = 32 << 20

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Options configures a Client.
type Options struct {
	Timeout       time.Duration
	RPS           int
	UserAgent     string
	OnStateChange circuitbreaker.StateListener
}

// Client performs JSON GET requests against one upstream service.
type Client struct {
	service   string
	http      *http.Client
	limiter   ratelimit.Limiter
	breaker   *gobreaker.CircuitBreaker
	metrics   *metrics.Client
	userAgent string
}

// New returns a client for service.
func New(service string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	limiter := ratelimit.NewUnlimited()
	if opts.RPS > 0 {
		limiter = ratelimit.New(opts.RPS)
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "hedgewatch"
	}
	return &Client{
		service:   service,
		http:      &http.Client{Timeout: opts.Timeout},
		limiter:   limiter,
		breaker:   circuitbreaker.New(service, opts.OnStateChange),
		metrics:   metrics.NewClient(service),
		userAgent: opts.UserAgent,
	}
}

// Service returns the name the client reports errors and metrics under.
func (c *Client) Service() string {
	return c.service
}

// GetJSON fetches url and decodes the JSON body into out. Any failure is returned as a
// *model.NetworkError.
func (c *Client) GetJSON(ctx context.Context, operation, url string, out any) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe(operation, err, started)
	}()

	body, err := circuitbreaker.Execute(c.breaker, func() ([]byte, error) {
		return c.get(ctx, url)
	})
	if err != nil {
		return model.NewNetworkError(c.service, fmt.Errorf("%s: %w", operation, err))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return model.NewNetworkError(c.service, fmt.Errorf("%s: decode response: %w", operation, err))
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	c.limiter.Take()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: snippet}
	}
	return body, nil
}

// IsStatus reports whether err carries an upstream response with the given status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
