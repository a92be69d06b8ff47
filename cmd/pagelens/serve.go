package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/database"
	"github.com/pagelens/pagelens/internal/enrich"
	plog "github.com/pagelens/pagelens/internal/log"
	"github.com/pagelens/pagelens/internal/pipeline"
	"github.com/pagelens/pagelens/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction pipeline as an HTTP service",
		Long: `Serve starts an HTTP server exposing the extraction pipeline.

Endpoints:
  POST /api/v1/extract   {"url": "...", "format": "json"} runs one extraction
  GET  /api/v1/formats   lists supported output formats
  GET  /healthz          liveness and version

Examples:
  # Serve on the default address
  pagelens serve

  # Serve on a custom port with the fetch cache enabled
  pagelens serve --listen :9090 --cache`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", config.DefaultListenAddr,
		"HTTP listen address")
	cmd.Flags().String("api-key", "",
		"Scraping proxy API key (default: SCRAPER_API_KEY environment variable)")
	cmd.Flags().String("openai-key", "",
		"OpenAI API key enabling AI enrichment (default: OPENAI_API_KEY environment variable)")
	cmd.Flags().String("openai-model", "",
		"OpenAI chat model for enrichment")
	cmd.Flags().DurationP("enhanced-timeout", "T", config.DefaultEnhancedTimeout,
		"Timeout for the enhanced (JS-rendered) fetch attempt")
	cmd.Flags().DurationP("basic-timeout", "t", config.DefaultBasicTimeout,
		"Timeout for the basic fallback fetch attempt")
	cmd.Flags().Bool("cache", false,
		"Serve repeat fetches from the local SQLite cache")
	cmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL,
		"How long cached fetches stay valid")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := plog.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return runServe(ctx, cfg, logger)
}

// buildServeConfig creates a Config from serve command flags.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.ListenAddr, err = cmd.Flags().GetString("listen")
	if err != nil {
		return nil, err
	}

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

	cfg.CacheEnabled, err = cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, err
	}

	cfg.CacheTTL, err = cmd.Flags().GetDuration("cache-ttl")
	if err != nil {
		return nil, err
	}

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// runServe starts the HTTP server and blocks until shutdown.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var store *database.Store
	if cfg.CacheEnabled {
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

	client := newFetchClient(cfg, config.SiteConfig{}, store, logger)

	enricher := enrich.New(cfg.OpenAIAPIKey,
		enrich.WithModel(cfg.OpenAIModel),
		enrich.WithTimeout(cfg.EnrichTimeout),
		enrich.WithLogger(logger),
	)

	srv := server.New(cfg.ListenAddr,
		func() *pipeline.Pipeline {
			return pipeline.NewDefault(client, enricher, logger)
		},
		server.WithLogger(logger),
		server.WithVersion(getVersion()),
	)

	fmt.Printf("Serving on %s (enrichment %s)\n", cfg.ListenAddr, enabledLabel(enricher.Configured()))
	return srv.Run(ctx)
}

// enabledLabel renders a boolean as enabled/disabled for status lines.
func enabledLabel(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
