package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/database"
	"github.com/pagelens/pagelens/internal/enrich"
	"github.com/pagelens/pagelens/internal/fetch"
	plog "github.com/pagelens/pagelens/internal/log"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/pipeline"
	"github.com/pagelens/pagelens/internal/render"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [url...]",
		Short: "Extract and analyze the content of one or more web pages",
		Long: `Extract fetches each URL through the scraping proxy, parses the page,
and runs the full analysis pipeline:
- Structured field extraction (SEO tags, contacts, links, media, business data)
- Scoring (SEO health, content blueprint, price tracking)
- Cross-cutting summary (richness, data quality, extraction difficulty)
- Optional AI enrichment when an OpenAI key is configured

Examples:
  # Extract a single page as JSON
  pagelens extract https://example.com

  # Human-readable report
  pagelens extract --format text https://example.com

  # Extract several pages concurrently, write Markdown files
  pagelens extract -f markdown -o reports/page.md https://a.com https://b.com

  # Cache fetches and keep report history in the local database
  pagelens extract --cache --save https://example.com

Configuration file (.pagelens) example:
  defaults:
    countryCode: us
  sites:
    example.de:
      countryCode: de
      renderWaitMillis: 5000
    static.example.com:
      skipEnhanced: true`,
		Args: cobra.ArbitraryArgs,
		RunE: runExtractCmd,
	}

	// Output flags
	cmd.Flags().StringP("format", "f", "json",
		"Output format: json, text, csv, xml, markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Credential flags
	cmd.Flags().String("api-key", "",
		"Scraping proxy API key (default: SCRAPER_API_KEY environment variable)")
	cmd.Flags().String("openai-key", "",
		"OpenAI API key enabling AI enrichment (default: OPENAI_API_KEY environment variable)")
	cmd.Flags().String("openai-model", "",
		"OpenAI chat model for enrichment")

	// Fetch behavior flags
	cmd.Flags().DurationP("enhanced-timeout", "T", config.DefaultEnhancedTimeout,
		"Timeout for the enhanced (JS-rendered) fetch attempt")
	cmd.Flags().DurationP("basic-timeout", "t", config.DefaultBasicTimeout,
		"Timeout for the basic fallback fetch attempt")
	cmd.Flags().String("country", config.DefaultCountryCode,
		"Geo hint sent to the proxy in enhanced mode")
	cmd.Flags().String("device", config.DefaultDeviceType,
		"Device hint sent to the proxy in enhanced mode (desktop or mobile)")

	// Batch extraction flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent extractions")

	// Storage flags
	cmd.Flags().Bool("cache", false,
		"Serve repeat fetches from the local SQLite cache")
	cmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL,
		"How long cached fetches stay valid")
	cmd.Flags().Bool("save", false,
		"Store completed reports in the local database for history queries")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pagelens in current or home directory)")

	return cmd
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.ValidateTargets(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	// Set up structured logging with credential masking
	logger := plog.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Handle interrupt signals for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return runExtract(ctx, cfg, format, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	apiKey, err := cmd.Flags().GetString("api-key")
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.ProxyAPIKey = apiKey
	}

	openaiKey, err := cmd.Flags().GetString("openai-key")
	if err != nil {
		return nil, err
	}
	if openaiKey != "" {
		cfg.OpenAIAPIKey = openaiKey
	}

	cfg.OpenAIModel, err = cmd.Flags().GetString("openai-model")
	if err != nil {
		return nil, err
	}

	cfg.EnhancedTimeout, err = cmd.Flags().GetDuration("enhanced-timeout")
	if err != nil {
		return nil, err
	}

	cfg.BasicTimeout, err = cmd.Flags().GetDuration("basic-timeout")
	if err != nil {
		return nil, err
	}

	cfg.CountryCode, err = cmd.Flags().GetString("country")
	if err != nil {
		return nil, err
	}

	cfg.DeviceType, err = cmd.Flags().GetString("device")
	if err != nil {
		return nil, err
	}

	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.CacheEnabled, err = cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, err
	}

	cfg.CacheTTL, err = cmd.Flags().GetDuration("cache-ttl")
	if err != nil {
		return nil, err
	}

	cfg.SaveReports, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-site fetch overrides from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Sites, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Sites = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	// Positional arguments are the target URLs. Bare hostnames get an
	// https scheme so users can paste domains directly.
	cfg.Targets = make([]string, len(args))
	for i, target := range args {
		cfg.Targets[i] = normalizeTarget(target)
	}

	return cfg, nil
}

// normalizeTarget adds an https scheme to schemeless targets.
func normalizeTarget(target string) string {
	if strings.Contains(target, "://") {
		return target
	}
	return "https://" + target
}

// runExtract executes the extraction.
func runExtract(ctx context.Context, cfg *config.Config, format render.Format, logger *slog.Logger) error {
	logger.Info("starting extraction",
		"targets", cfg.Targets,
		"format", format,
		"batchSize", cfg.BatchSize,
		"cache", cfg.CacheEnabled,
		"save", cfg.SaveReports,
	)

	// Open the database when the cache or report history needs it.
	var store *database.Store
	if cfg.CacheEnabled || cfg.SaveReports {
		opts := database.DefaultOptions()
		opts.CacheTTL = cfg.CacheTTL

		var err error
		store, err = database.Open(cfg.DatabaseDir(), opts)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
		logger.Info("database opened", "path", store.Path())
	}

	enricherOpts := []enrich.Option{
		enrich.WithModel(cfg.OpenAIModel),
		enrich.WithTimeout(cfg.EnrichTimeout),
		enrich.WithLogger(logger),
	}
	enricher := enrich.New(cfg.OpenAIAPIKey, enricherOpts...)

	// Use batch processor for parallel extraction if multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchExtract(ctx, cfg, format, store, enricher, logger)
	}

	return runSequentialExtract(ctx, cfg, format, store, enricher, logger)
}

// runSequentialExtract processes targets one at a time, applying
// per-site fetch overrides.
func runSequentialExtract(ctx context.Context, cfg *config.Config, format render.Format, store *database.Store, enricher *enrich.Enricher, logger *slog.Logger) error {
	for i, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		siteConfig := siteConfigFor(cfg, target)
		client := newFetchClient(cfg, siteConfig, store, logger)
		p := pipeline.NewDefault(client, enricher, logger)

		fmt.Printf("Extracting %s...\n", target)
		startTime := time.Now()

		run := pipeline.NewRun(target)
		if err := p.Execute(ctx, run); err != nil {
			logger.Error("extraction failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Extraction error for %s: %v\n", target, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Extraction completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := outputReport(cfg, format, run.Report, i); err != nil {
			logger.Error("report output failed", "target", target, "error", err)
		}

		if err := saveReport(ctx, store, cfg, run.Report, logger); err != nil {
			logger.Error("failed to save report", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchExtract processes multiple targets concurrently using
// BatchProcessor. Per-site overrides beyond the defaults are ignored in
// batch mode because one shared client serves every target.
func runBatchExtract(ctx context.Context, cfg *config.Config, format render.Format, store *database.Store, enricher *enrich.Enricher, logger *slog.Logger) error {
	fmt.Printf("Starting batch extraction of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	if cfg.Sites != nil && len(cfg.Sites.Sites) > 0 {
		logger.Warn("batch extraction uses default site config only; per-site overrides are ignored",
			"siteCount", len(cfg.Sites.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Site-specific configurations are ignored in batch mode. Use sequential mode (--batch 1) to apply per-site settings.\n\n")
	}

	var defaults config.SiteConfig
	if cfg.Sites != nil {
		defaults = cfg.Sites.Defaults
	}
	client := newFetchClient(cfg, defaults, store, logger)

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.NewDefault(client, enricher, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(report *model.ExtractionReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Extraction completed: %s\n", index+1, len(cfg.Targets), report.Page.URL)

		if err := outputReport(cfg, format, report, index); err != nil {
			logger.Error("report output failed", "target", report.Page.URL, "error", err)
		}

		if err := saveReport(ctx, store, cfg, report, logger); err != nil {
			logger.Error("failed to save report", "target", report.Page.URL, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch extraction completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// siteConfigFor returns the merged per-site overrides for a target URL.
func siteConfigFor(cfg *config.Config, target string) config.SiteConfig {
	if cfg.Sites == nil {
		return config.SiteConfig{}
	}

	u, err := url.Parse(target)
	if err != nil {
		return cfg.Sites.Defaults
	}
	return cfg.Sites.GetSiteConfig(u.Hostname())
}

// newFetchClient builds a proxy fetch client with global settings plus
// per-site overrides applied.
func newFetchClient(cfg *config.Config, site config.SiteConfig, store *database.Store, logger *slog.Logger) *fetch.Client {
	countryCode := cfg.CountryCode
	if site.CountryCode != "" {
		countryCode = site.CountryCode
	}
	deviceType := cfg.DeviceType
	if site.DeviceType != "" {
		deviceType = site.DeviceType
	}

	opts := []fetch.Option{
		fetch.WithTimeouts(cfg.EnhancedTimeout, cfg.BasicTimeout),
		fetch.WithGeoHints(countryCode, deviceType),
		fetch.WithLogger(logger),
	}

	if site.RenderWaitMillis > 0 {
		opts = append(opts, fetch.WithRenderWait(site.RenderWaitMillis))
	}
	if site.SkipEnhanced {
		opts = append(opts, fetch.WithSkipEnhanced())
	}
	if store != nil && cfg.CacheEnabled {
		opts = append(opts, fetch.WithCache(store))
	}

	return fetch.NewClient(cfg.ProxyEndpoint, cfg.ProxyAPIKey, opts...)
}

// outputReport renders the report in the requested format. Each target
// in a multi-target run gets its own numbered file when an output path
// is configured.
func outputReport(cfg *config.Config, format render.Format, report *model.ExtractionReport, index int) error {
	var output *os.File
	if cfg.OutputFile != "" {
		path := outputPath(cfg.OutputFile, index, len(cfg.Targets))

		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // Reports are not secret
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	writer, err := render.New(format, output)
	if err != nil {
		return err
	}
	_, err = writer.Write(report)
	return err
}

// outputPath derives the per-target output path. Single-target runs use
// the path as given; multi-target runs insert a 1-based index before
// the extension so reports don't overwrite each other.
func outputPath(base string, index, total int) string {
	if total <= 1 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), index+1, ext)
}

// saveReport stores the report in the history table when enabled.
// If the store is nil or saving is disabled, this is a no-op.
func saveReport(ctx context.Context, store *database.Store, cfg *config.Config, report *model.ExtractionReport, logger *slog.Logger) error {
	if store == nil || !cfg.SaveReports {
		return nil
	}

	id, err := store.SaveReport(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	logger.Info("report saved to database", "target", report.Page.URL, "id", id)
	return nil
}
