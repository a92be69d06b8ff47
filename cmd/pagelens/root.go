// Package main provides the entry point for the pagelens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pagelens.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagelens",
		Short: "Web-content extraction and analysis tool",
		Long: `Pagelens fetches web pages through a scraping proxy, extracts their
structured content (SEO signals, contact data, links, media, business
information, pricing), scores the page, and renders the result in JSON,
text, CSV, XML, or Markdown.

Fetching requires a scraping-proxy API key (SCRAPER_API_KEY or
--api-key). AI enrichment is optional and activates when an OpenAI key
is configured.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
