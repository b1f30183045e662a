package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/chartsmith/pkg/dataset"
	apperr "github.com/matzehuels/chartsmith/pkg/errors"
	"github.com/matzehuels/chartsmith/pkg/httputil"
	"github.com/matzehuels/chartsmith/pkg/observability"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxBodySize        = 64 << 20
)

// HTTPOption configures an [HTTP] loader.
type HTTPOption func(*HTTP)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) HTTPOption { return func(h *HTTP) { h.client = c } }

// WithRetry retries transient failures (network errors, 429, 5xx) up to
// attempts times in total, doubling delay between attempts.
func WithRetry(attempts int, delay time.Duration) HTTPOption {
	return func(h *HTTP) { h.attempts, h.delay = attempts, delay }
}

// HTTP loads CSV documents over HTTP(S). By default a single attempt is made.
type HTTP struct {
	client   *http.Client
	attempts int
	delay    time.Duration
}

// NewHTTP returns an HTTP loader.
func NewHTTP(opts ...HTTPOption) *HTTP {
	h := &HTTP{
		client:   &http.Client{Timeout: defaultHTTPTimeout},
		attempts: 1,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Cacheable is true: remote documents are worth caching between runs.
func (h *HTTP) Cacheable() bool { return true }

// Load fetches uri and parses the body as CSV.
func (h *HTTP) Load(ctx context.Context, uri string) (*dataset.Table, error) {
	if err := apperr.ValidateURL(uri); err != nil {
		return nil, err
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidSource, err, "parse %s", uri)
	}

	var t *dataset.Table
	err = httputil.Retry(ctx, h.attempts, h.delay, func() error {
		var err error
		t, err = h.fetch(ctx, u)
		return err
	})
	if err != nil {
		return nil, classify(uri, err)
	}
	return t, nil
}

func (h *HTTP) fetch(ctx context.Context, u *url.URL) (*dataset.Table, error) {
	hooks := observability.HTTP()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return nil, &httputil.RetryableError{Err: &apperr.RateLimitedError{RetryAfter: retryAfter, Message: u.Host}}
	}
	if err := httputil.Classify(u.String(), resp.StatusCode); err != nil {
		return nil, err
	}

	t, err := dataset.ReadCSV(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}
	return t, nil
}

func classify(uri string, err error) error {
	var se *httputil.StatusError
	var rl *apperr.RateLimitedError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.ErrCodeTimeout, err, "fetch %s", uri)
	case errors.As(err, &se) && se.StatusCode == http.StatusNotFound:
		return apperr.Wrap(apperr.ErrCodeSourceNotFound, err, "fetch %s", uri)
	case errors.As(err, &rl):
		return apperr.Wrap(apperr.ErrCodeRateLimited, err, "fetch %s", uri)
	case errors.As(err, &se), httputil.IsRetryable(err):
		return apperr.Wrap(apperr.ErrCodeNetwork, err, "fetch %s", uri)
	}
	return apperr.Wrap(apperr.ErrCodeInvalidSource, err, "fetch %s", uri)
}
