// Package httpx is the shared JSON-over-HTTP plumbing for upstream API
// clients: pacing, tracing, status checking and typed decoding.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 4 << 20

// StatusError is returned for any non-2xx upstream response.
type StatusError struct {
	Service    string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Service, e.Endpoint, e.StatusCode)
}

// CallObserver records the outcome of every upstream call. status is 0
// when no response was received.
type CallObserver interface {
	ObserveUpstreamCall(service, endpoint string, status int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveUpstreamCall(string, string, int, time.Duration) {}

// Config configures one upstream client.
type Config struct {
	Service           string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Headers           map[string]string
}

// Client performs JSON requests against one upstream.
type Client struct {
	service  string
	baseURL  string
	headers  map[string]string
	http     *http.Client
	limiter  *rate.Limiter
	observer CallObserver
	logger   *zap.Logger
}

// New creates an upstream client. A zero RequestsPerSecond disables pacing.
func New(cfg Config, observer CallObserver, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if observer == nil {
		observer = nopObserver{}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		service: cfg.Service,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: cfg.Headers,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter:  limiter,
		observer: observer,
		logger:   logger.Named(cfg.Service),
	}
}

// GetJSON issues a GET and decodes the response into out. endpoint is a
// low-cardinality name used for metrics and errors.
func (c *Client) GetJSON(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, path, query, nil, out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, endpoint, path string, query url.Values, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s %s: encode request: %w", c.service, endpoint, err)
	}
	return c.do(ctx, http.MethodPost, endpoint, path, query, payload, out)
}

func (c *Client) do(ctx context.Context, method, endpoint, path string, query url.Values, body []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s %s: rate limit wait: %w", c.service, endpoint, err)
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", c.service, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observer.ObserveUpstreamCall(c.service, endpoint, 0, time.Since(started))
		return fmt.Errorf("%s %s: %w", c.service, endpoint, err)
	}
	defer resp.Body.Close()
	c.observer.ObserveUpstreamCall(c.service, endpoint, resp.StatusCode, time.Since(started))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", c.service, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("Upstream returned error status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return &StatusError{Service: c.service, Endpoint: endpoint, StatusCode: resp.StatusCode, Body: truncate(string(raw), 256)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", c.service, endpoint, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
