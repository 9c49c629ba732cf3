package webpage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/net/html/charset"

	"github.com/peekknuf/opendataqa/internal/config"
)

// StatusError is returned when a page responds with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Fetcher downloads dataset pages. Server errors and network failures are
// retried with exponential backoff; successful bodies are cached by URL.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	maxElapsed time.Duration
	maxBytes   int64
	cache      *ttlcache.Cache[string, string]
	newBackOff func() backoff.BackOff
	logger     *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger used to report retries.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithBackOff sets the retry schedule.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(f *Fetcher) {
		f.newBackOff = newBackOff
	}
}

// NewFetcher creates a new Fetcher from the fetch configuration.
func NewFetcher(cfg config.Fetch, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		maxElapsed: cfg.MaxElapsed,
		maxBytes:   cfg.MaxBytes,
		cache: ttlcache.New(
			ttlcache.WithTTL[string, string](cfg.CacheTTL),
		),
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Text fetches a page and returns its visible text.
func (f *Fetcher) Text(ctx context.Context, url string) (string, error) {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return ExtractText(body)
}

// Fetch returns the page body decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if item := f.cache.Get(url); item != nil {
		f.logger.Debug("page cache hit", "url", url)
		return item.Value(), nil
	}

	attempt := 0
	body, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		if attempt > 1 {
			f.logger.Warn("failed to fetch page, retrying", "url", url, "attempt", attempt)
		}
		return f.get(ctx, url)
	},
		backoff.WithBackOff(f.newBackOff()),
		backoff.WithMaxElapsedTime(f.maxElapsed),
	)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}

	f.cache.Set(url, body, ttlcache.DefaultTTL)
	f.logger.Debug("page fetched", "url", url, "bytes", len(body), "attempts", attempt)
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("invalid page request: %w", err))
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", backoff.Permanent(&StatusError{URL: url, StatusCode: resp.StatusCode})
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to detect page encoding: %w", err))
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}
	return string(data), nil
}
