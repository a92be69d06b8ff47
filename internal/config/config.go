package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Timeouts match the two fetch tiers: the enhanced tier renders
// JavaScript through the proxy and needs more headroom.
const (
	// DefaultProxyEndpoint is the scraping proxy API base URL.
	DefaultProxyEndpoint = "https://api.scraperapi.com"

	// DefaultEnhancedTimeout bounds the enhanced (JS-rendered) fetch tier.
	DefaultEnhancedTimeout = 45 * time.Second

	// DefaultBasicTimeout bounds the basic fallback fetch tier.
	DefaultBasicTimeout = 30 * time.Second

	// DefaultEnrichTimeout bounds the optional AI enrichment call.
	DefaultEnrichTimeout = 20 * time.Second

	// DefaultCountryCode is the geo hint sent in enhanced mode.
	DefaultCountryCode = "us"

	// DefaultDeviceType is the device hint sent in enhanced mode.
	DefaultDeviceType = "desktop"

	// DefaultBatchSize of 4 concurrent extractions stays under typical
	// scraping-proxy concurrent-session limits.
	DefaultBatchSize = 4

	// DefaultListenAddr is the HTTP server bind address.
	DefaultListenAddr = ":8080"

	// DefaultCacheTTL is how long cached fetches stay valid.
	DefaultCacheTTL = time.Hour

	// AppName is the application name used for XDG directory paths.
	AppName = "pagelens"

	// scraperKeyEnv and openaiKeyEnv are the environment variables
	// consulted when the config file carries no keys.
	scraperKeyEnv = "SCRAPER_API_KEY"
	openaiKeyEnv  = "OPENAI_API_KEY"
)

// Config holds all configuration options for pagelens.
// It is populated from defaults, the optional config file, environment
// variables, and CLI flags, then passed through the application via
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested
// structs. The number of options is manageable, and nesting would add
// complexity without significant benefit.
type Config struct {
	// ProxyEndpoint is the scraping proxy API base URL.
	ProxyEndpoint string

	// ProxyAPIKey authenticates against the scraping proxy.
	// Falls back to the SCRAPER_API_KEY environment variable.
	ProxyAPIKey string

	// OpenAIAPIKey enables AI enrichment when set.
	// Falls back to the OPENAI_API_KEY environment variable; empty
	// means enrichment is disabled.
	OpenAIAPIKey string

	// OpenAIModel is the chat model used for enrichment.
	OpenAIModel string

	// EnhancedTimeout and BasicTimeout bound the two fetch tiers.
	EnhancedTimeout time.Duration
	BasicTimeout    time.Duration

	// EnrichTimeout bounds the AI enrichment call.
	EnrichTimeout time.Duration

	// CountryCode and DeviceType are the enhanced-mode fetch hints.
	CountryCode string
	DeviceType  string

	// Format is the output format (json, text, csv, xml, markdown).
	Format string

	// OutputFile is the report destination. Empty means stdout.
	OutputFile string

	// Targets is the list of URLs to extract (CLI mode).
	Targets []string

	// BatchSize is the number of concurrent extractions when processing
	// multiple targets.
	BatchSize int

	// ListenAddr is the HTTP server bind address (serve mode).
	ListenAddr string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// CacheEnabled turns on the SQLite fetch cache.
	CacheEnabled bool

	// CacheTTL bounds how long cached fetches are served.
	CacheTTL time.Duration

	// DBDir is the directory for the SQLite database. Empty means the
	// XDG data directory.
	DBDir string

	// SaveReports stores completed reports in the database for history
	// queries. Requires the database to be open.
	SaveReports bool

	// ConfigFilePath is the path to the configuration file. Empty means
	// the standard search locations are tried.
	ConfigFilePath string

	// Sites holds per-domain fetch overrides loaded from the config file.
	Sites *File
}

// NewConfig creates a Config with default values. API keys are read
// from the environment so they never need to live in a file.
func NewConfig() *Config {
	return &Config{
		ProxyEndpoint:   DefaultProxyEndpoint,
		ProxyAPIKey:     os.Getenv(scraperKeyEnv),
		OpenAIAPIKey:    os.Getenv(openaiKeyEnv),
		EnhancedTimeout: DefaultEnhancedTimeout,
		BasicTimeout:    DefaultBasicTimeout,
		EnrichTimeout:   DefaultEnrichTimeout,
		CountryCode:     DefaultCountryCode,
		DeviceType:      DefaultDeviceType,
		Format:          "json",
		BatchSize:       DefaultBatchSize,
		ListenAddr:      DefaultListenAddr,
		CacheTTL:        DefaultCacheTTL,
	}
}

// XDGDataDir returns the XDG data directory for pagelens.
// On Linux: ~/.local/share/pagelens
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pagelens.
// On Linux: ~/.config/pagelens
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for pagelens.
// On Linux: ~/.cache/pagelens
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DatabaseDir returns the configured database directory, defaulting to
// the XDG data directory.
func (c *Config) DatabaseDir() string {
	if c.DBDir != "" {
		return c.DBDir
	}
	return XDGDataDir()
}

// Validate checks if the configuration is valid, returning a specific
// sentinel error for the first problem found. Called once after flag
// parsing, before any work begins.
func (c *Config) Validate() error {
	if c.ProxyAPIKey == "" {
		return ErrNoAPIKey
	}
	if c.EnhancedTimeout <= 0 || c.BasicTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.CacheTTL < 0 {
		return ErrInvalidCacheTTL
	}
	return nil
}

// ValidateTargets additionally requires at least one target URL.
// Used by the CLI extract path; the server has no static target list.
func (c *Config) ValidateTargets() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return nil
}
