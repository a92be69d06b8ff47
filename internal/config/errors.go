package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to
// use errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoAPIKey is returned when no scraping proxy API key is
	// configured via flag, config file, or SCRAPER_API_KEY.
	ErrNoAPIKey = errors.New("no scraper API key configured: set --api-key or SCRAPER_API_KEY")

	// ErrNoTarget is returned when no target URL is specified.
	ErrNoTarget = errors.New("no target specified: provide at least one URL")

	// ErrInvalidTimeout is returned when a fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidCacheTTL is returned when the cache TTL is negative.
	// Use 0 to fall back to the default TTL.
	ErrInvalidCacheTTL = errors.New("invalid cache TTL: must be non-negative")
)
