package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pagelens/pagelens/internal/aggregate"
	"github.com/pagelens/pagelens/internal/analyze"
	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/enrich"
	"github.com/pagelens/pagelens/internal/extract"
	"github.com/pagelens/pagelens/internal/fetch"
)

// FetchStep retrieves the page HTML through the scraping proxy.
// A fetch failure is terminal: nothing downstream can run without HTML.
type FetchStep struct {
	client *fetch.Client
}

// NewFetchStep creates a fetch step around the given client.
func NewFetchStep(client *fetch.Client) *FetchStep {
	return &FetchStep{client: client}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do fetches the page and records which tier produced it.
func (s *FetchStep) Do(ctx context.Context, run *Run) error {
	result, err := s.client.Fetch(ctx, run.RawURL)
	if err != nil {
		return err
	}

	run.Fetch = result
	run.Report.UsedFallback = result.UsedFallback
	return nil
}

// ParseStep turns the fetched HTML into the queryable document and the
// flat FieldSet every extractor and analyzer consumes. A parse failure
// is terminal.
type ParseStep struct{}

// NewParseStep creates a parse step.
func NewParseStep() *ParseStep {
	return &ParseStep{}
}

// Name returns the step name.
func (s *ParseStep) Name() string {
	return "parse"
}

// Do parses the HTML and builds the FieldSet.
func (s *ParseStep) Do(_ context.Context, run *Run) error {
	if run.Fetch == nil {
		return fmt.Errorf("parse step requires a fetched page")
	}

	doc, err := document.Parse(run.Fetch.HTML)
	if err != nil {
		return err
	}

	run.Doc = doc
	run.Fields = doc.FieldSet()
	return nil
}

// ExtractStep runs the field extractors. Individual extractor failures
// degrade to empty sub-reports, so this step never fails.
type ExtractStep struct {
	runner *extract.Runner
}

// NewExtractStep creates an extract step with all built-in extractors.
func NewExtractStep(logger *slog.Logger) *ExtractStep {
	return &ExtractStep{
		runner: extract.NewRunner(extract.WithLogger(logger)),
	}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do runs the extractor fan-out.
func (s *ExtractStep) Do(ctx context.Context, run *Run) error {
	if run.Doc == nil || run.Fields == nil {
		return fmt.Errorf("extract step requires a parsed document")
	}

	s.runner.Run(ctx, &extract.Input{
		Doc:     run.Doc,
		Fields:  run.Fields,
		PageURL: run.PageURL,
		Report:  run.Report,
	})
	return nil
}

// AnalyzeStep runs the scoring analyzers. Individual analyzer failures
// degrade to empty sub-reports, so this step never fails.
type AnalyzeStep struct {
	runner *analyze.Runner
}

// NewAnalyzeStep creates an analyze step with all built-in analyzers.
func NewAnalyzeStep(logger *slog.Logger) *AnalyzeStep {
	return &AnalyzeStep{
		runner: analyze.NewRunner(analyze.WithLogger(logger)),
	}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do runs the analyzers.
func (s *AnalyzeStep) Do(ctx context.Context, run *Run) error {
	if run.Doc == nil || run.Fields == nil {
		return fmt.Errorf("analyze step requires a parsed document")
	}

	s.runner.Run(ctx, &analyze.Input{
		Doc:     run.Doc,
		Fields:  run.Fields,
		PageURL: run.PageURL,
		Report:  run.Report,
	})
	return nil
}

// AggregateStep computes the cross-cutting summary metrics. It works on
// whatever the sub-reports hold, so it never fails.
type AggregateStep struct {
	aggregator *aggregate.Aggregator
}

// NewAggregateStep creates an aggregate step.
func NewAggregateStep() *AggregateStep {
	return &AggregateStep{
		aggregator: aggregate.NewAggregator(),
	}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do computes the summary block.
func (s *AggregateStep) Do(_ context.Context, run *Run) error {
	s.aggregator.Summarize(run.Report)
	return nil
}

// EnrichStep attaches optional AI insights. Enrichment is best-effort:
// an unconfigured or failing enricher leaves the report unchanged.
type EnrichStep struct {
	enricher *enrich.Enricher
}

// NewEnrichStep creates an enrich step around the given enricher.
func NewEnrichStep(enricher *enrich.Enricher) *EnrichStep {
	return &EnrichStep{enricher: enricher}
}

// Name returns the step name.
func (s *EnrichStep) Name() string {
	return "enrich"
}

// Do runs the enrichment call.
func (s *EnrichStep) Do(ctx context.Context, run *Run) error {
	s.enricher.Enrich(ctx, run.Report)
	return nil
}

// NewDefault assembles the standard six-step pipeline.
func NewDefault(client *fetch.Client, enricher *enrich.Enricher, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewFetchStep(client),
		NewParseStep(),
		NewExtractStep(logger),
		NewAnalyzeStep(logger),
		NewAggregateStep(),
		NewEnrichStep(enricher),
	)
	return p
}
