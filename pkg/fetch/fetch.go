// Package fetch downloads workbook exports over HTTP with pacing and retries.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout for a single request
	DefaultTimeout = 30 * time.Second

	// DefaultBackoff is the first retry delay; later delays double
	DefaultBackoff = 500 * time.Millisecond

	// DefaultRetries after the first attempt
	DefaultRetries = 3

	// MaxBodyBytes caps the downloaded workbook size
	MaxBodyBytes = 32 << 20
)

var (
	ErrNotWorkbook      = errors.New("response is not a workbook")
	ErrEmptyBody        = errors.New("empty response body")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrTooLarge         = errors.New("workbook too large")
)

// Config tunes the client.
type Config struct {
	Timeout       time.Duration
	Backoff       time.Duration
	Retries       uint64
	RatePerSecond float64 // 0 disables pacing
	MaxBytes      int64   // 0 means MaxBodyBytes
}

// DefaultConfig returns the client defaults
func DefaultConfig() Config {
	return Config{
		Timeout: DefaultTimeout,
		Backoff: DefaultBackoff,
		Retries: DefaultRetries,
	}
}

// Client fetches workbook bytes
type Client struct {
	client    *http.Client
	cfg       Config
	limiter   *rate.Limiter
	logger    *slog.Logger
	onAttempt func(attempt int)
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.client = c }
}

// WithAttemptHook registers a callback invoked before every attempt
func WithAttemptHook(fn func(attempt int)) Option {
	return func(cl *Client) { cl.onAttempt = fn }
}

// NewClient creates a new fetch client
func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = MaxBodyBytes
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	c := &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads url and returns the workbook bytes. Network errors, 429 and
// 5xx responses are retried with exponential backoff; HTML pages and other
// client errors fail immediately.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	attempt := 0

	backoff := retry.WithMaxRetries(c.cfg.Retries, retry.NewExponential(c.cfg.Backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if c.onAttempt != nil {
			c.onAttempt(attempt)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		data, retryable, err := c.get(ctx, url)
		if err != nil {
			if retryable {
				c.logger.Warn("workbook fetch failed, retrying",
					slog.Int("attempt", attempt),
					slog.Any("error", err),
				)
				return retry.RetryableError(err)
			}
			return err
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workbook after %d attempt(s): %w", attempt, err)
	}

	c.logger.Debug("workbook fetched",
		slog.Int("attempts", attempt),
		slog.Int("bytes", len(body)),
	)
	return body, nil
}

// get performs one request and reports whether a failure is worth retrying
func (c *Client) get(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if isTextual(contentType) {
		return nil, false, fmt.Errorf("%w: content-type %q (sheet not shared or export URL wrong?)", ErrNotWorkbook, contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBytes+1))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) > c.cfg.MaxBytes {
		return nil, false, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.cfg.MaxBytes)
	}
	if len(data) == 0 {
		return nil, true, ErrEmptyBody
	}

	if detected := mimetype.Detect(data); detected.Is("text/html") {
		return nil, false, fmt.Errorf("%w: body looks like %s", ErrNotWorkbook, detected.String())
	}

	return data, false, nil
}

func isTextual(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/html", "text/plain", "application/xhtml+xml":
		return true
	}
	return false
}
