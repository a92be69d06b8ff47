package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "List extraction reports stored in the local database",
		Long: `History lists reports saved with --save, newest first.

With a URL argument it shows only the reports for that page, which is
useful for watching a score or price change over time.

Examples:
  # Show the ten most recent reports
  pagelens history

  # Show the score history of one page
  pagelens history https://example.com

  # Dump full stored reports as JSON
  pagelens history --json https://example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10, "Maximum number of reports to list")
	cmd.Flags().BoolP("json", "j", false, "Output full stored reports as JSON")
	cmd.Flags().String("db-dir", "", "Database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// History only reads; a missing database just means nothing saved yet.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	store, err := database.Open(dbDir, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "No report history found. Run extract with --save first.")
		return nil
	}
	defer store.Close()

	var records []*database.ReportRecord
	if len(args) > 0 {
		records, err = store.ReportsForURL(cmd.Context(), normalizeTarget(args[0]), limit)
	} else {
		records, err = store.RecentReports(cmd.Context(), limit)
	}
	if err != nil {
		return fmt.Errorf("failed to read report history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No stored reports.")
		return nil
	}

	if asJSON {
		reports := make([]any, 0, len(records))
		for _, rec := range records {
			reports = append(reports, rec.Report)
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(reports)
	}

	for _, rec := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  seo=%-3d content=%-3d  %s\n",
			rec.Timestamp.Format("2006-01-02 15:04"),
			rec.SEOScore,
			rec.ContentScore,
			rec.URL,
		)
	}
	return nil
}
