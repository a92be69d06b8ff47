package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pagelens/pagelens/internal/model"
)

// Default fetch parameters.
// The enhanced tier is generous because JS rendering through a proxy is
// slow; the basic tier is tighter because it skips rendering entirely.
const (
	// DefaultEnhancedTimeout bounds the enhanced (JS-rendered) attempt.
	DefaultEnhancedTimeout = 45 * time.Second

	// DefaultBasicTimeout bounds the basic fallback attempt.
	DefaultBasicTimeout = 30 * time.Second

	// DefaultRenderWait is how long the proxy waits for JS rendering,
	// in milliseconds.
	DefaultRenderWait = 3000

	// DefaultCountryCode is the geo hint sent in enhanced mode.
	DefaultCountryCode = "us"

	// DefaultDeviceType is the device hint sent in enhanced mode.
	DefaultDeviceType = "desktop"

	// maxErrorBodySize bounds how much upstream error body is kept for
	// diagnostics.
	maxErrorBodySize = 4 * 1024
)

// Cache is an optional read-through cache for fetch results.
// Implementations must treat lookups as best-effort: a cache failure
// must never fail a fetch.
type Cache interface {
	// Get returns a cached result for the URL, or false when absent.
	Get(ctx context.Context, url string) (*model.FetchResult, bool)

	// Put stores a fetch result for the URL.
	Put(ctx context.Context, url string, result *model.FetchResult) error
}

// Client fetches rendered page HTML through a scraping proxy.
//
// Design decision: The two fetch tiers are sequential, not parallel,
// because the fallback is conditional on the primary outcome. This is a
// bounded-cost single pass: at most two upstream requests per call,
// never an open-ended retry loop.
type Client struct {
	// httpClient performs the proxy requests. Per-attempt deadlines come
	// from the context, so the client itself carries no timeout.
	httpClient *http.Client

	// endpoint is the proxy base URL.
	endpoint string

	// apiKey authenticates against the proxy.
	apiKey string

	// enhancedTimeout and basicTimeout bound the two tiers.
	enhancedTimeout time.Duration
	basicTimeout    time.Duration

	// countryCode and deviceType are the enhanced-mode hints.
	countryCode string
	deviceType  string

	// renderWait is how long the proxy waits for JS rendering, in
	// milliseconds.
	renderWait int

	// skipEnhanced goes straight to the basic tier. Set for static
	// sites where rendering wastes proxy credits.
	skipEnhanced bool

	// cache is the optional read-through fetch cache.
	cache Cache

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeouts sets the enhanced and basic tier timeouts.
func WithTimeouts(enhanced, basic time.Duration) Option {
	return func(c *Client) {
		c.enhancedTimeout = enhanced
		c.basicTimeout = basic
	}
}

// WithGeoHints sets the country code and device type sent in enhanced mode.
func WithGeoHints(countryCode, deviceType string) Option {
	return func(c *Client) {
		c.countryCode = countryCode
		c.deviceType = deviceType
	}
}

// WithRenderWait overrides the JS render wait in milliseconds.
func WithRenderWait(millis int) Option {
	return func(c *Client) {
		if millis > 0 {
			c.renderWait = millis
		}
	}
}

// WithSkipEnhanced makes Fetch go straight to the basic tier.
func WithSkipEnhanced() Option {
	return func(c *Client) {
		c.skipEnhanced = true
	}
}

// WithCache enables a read-through fetch cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a proxy fetch client.
// The endpoint is the proxy base URL; the API key authenticates requests.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:      &http.Client{},
		endpoint:        endpoint,
		apiKey:          apiKey,
		enhancedTimeout: DefaultEnhancedTimeout,
		basicTimeout:    DefaultBasicTimeout,
		countryCode:     DefaultCountryCode,
		deviceType:      DefaultDeviceType,
		renderWait:      DefaultRenderWait,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves rendered HTML for the URL.
// It validates the URL, consults the cache, then runs the enhanced
// attempt and, if that fails with a client error, the basic fallback.
func (c *Client) Fetch(ctx context.Context, target string) (*model.FetchResult, error) {
	if err := validateURL(target); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, target); ok {
			c.logger.Debug("fetch cache hit", "url", target)
			return cached, nil
		}
	}

	if c.skipEnhanced {
		html, err := c.attempt(ctx, target, false)
		if err != nil {
			if isTimeout(err) {
				return nil, &TimeoutError{URL: target, Err: err}
			}
			return nil, err
		}
		return c.finish(ctx, target, html, true)
	}

	html, err := c.attempt(ctx, target, true)
	switch {
	case err == nil:
		return c.finish(ctx, target, html, false)
	case isTimeout(err):
		return nil, &TimeoutError{URL: target, Err: err}
	case !retryable(err):
		return nil, err
	}

	c.logger.Debug("enhanced fetch failed, falling back to basic mode",
		"url", target,
		"error", err,
	)

	html, err = c.attempt(ctx, target, false)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{URL: target, Err: err}
		}
		return nil, err
	}
	return c.finish(ctx, target, html, true)
}

// finish builds the FetchResult, rejecting empty bodies and storing the
// result in the cache when one is configured.
func (c *Client) finish(ctx context.Context, target, html string, fallback bool) (*model.FetchResult, error) {
	if html == "" {
		return nil, ErrEmptyContent
	}

	result := &model.FetchResult{
		HTML:         html,
		UsedFallback: fallback,
		FetchedAt:    time.Now(),
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, target, result); err != nil {
			// Cache failures are never fetch failures.
			c.logger.Warn("fetch cache store failed", "url", target, "error", err)
		}
	}

	return result, nil
}

// attempt performs one proxy request in the given mode under that
// mode's timeout.
func (c *Client) attempt(ctx context.Context, target string, enhanced bool) (string, error) {
	timeout := c.basicTimeout
	if enhanced {
		timeout = c.enhancedTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.proxyURL(target, enhanced), nil)
	if err != nil {
		return "", fmt.Errorf("build proxy request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read proxy response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBodySize {
			body = body[:maxErrorBodySize]
		}
		return "", &UpstreamError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return string(body), nil
}

// proxyURL builds the proxy request URL for the given mode.
// Enhanced mode adds render, wait, geo, and device hints; basic mode
// passes only the target URL.
func (c *Client) proxyURL(target string, enhanced bool) string {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("url", target)
	if enhanced {
		params.Set("render", "true")
		params.Set("wait", strconv.Itoa(c.renderWait))
		params.Set("country_code", c.countryCode)
		params.Set("device_type", c.deviceType)
	}
	return c.endpoint + "?" + params.Encode()
}

// validateURL rejects anything that is not an absolute http(s) URL.
func validateURL(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL
	}
	if u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// retryable reports whether an enhanced-tier failure should trigger the
// basic fallback. Client-error statuses and transport errors qualify;
// upstream 5xx responses do not, because the proxy itself is failing.
func retryable(err error) bool {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode >= 400 && upstream.StatusCode < 500
	}
	// Non-status transport errors are worth one basic attempt.
	return true
}

// isTimeout reports whether the error is a deadline violation.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
