package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/model"
)

// Input carries everything a scoring analyzer may read. Analyzers
// consume only the document and the FieldSet — never another analyzer's
// sub-report — so they stay order-independent. Cross-report metrics
// belong to the aggregator.
type Input struct {
	// Doc is the read-only parsed document.
	Doc *document.Document

	// Fields is the shared flat fact set.
	Fields *model.FieldSet

	// PageURL is the parsed request URL.
	PageURL *url.URL

	// Report receives each analyzer's sub-report.
	Report *model.ExtractionReport
}

// Analyzer is one isolated scoring unit. The same attach-last contract
// as extract.Extractor applies: a failure before the final attachment
// leaves the documented empty value in the report.
type Analyzer interface {
	// Name returns the analyzer's name for logging.
	Name() string

	// Analyze computes scores and attaches one sub-report.
	Analyze(ctx context.Context, in *Input) error
}

// Runner executes all registered analyzers sequentially with
// per-analyzer failure isolation.
//
// Design decision: Unlike the extractor fan-out, analyzers run
// sequentially. There are only three and each is CPU-bound over
// already-extracted data, so goroutine overhead buys nothing.
type Runner struct {
	analyzers []Analyzer
	logger    *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets a custom logger for the runner.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner with all built-in analyzers registered.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		analyzers: make([]Analyzer, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	r.Register(NewSEOAnalyzer())
	r.Register(NewPriceAnalyzer())
	r.Register(NewBlueprintAnalyzer())

	return r
}

// Register adds an analyzer to the runner.
func (r *Runner) Register(a Analyzer) {
	r.analyzers = append(r.analyzers, a)
}

// Run executes every analyzer against the input. Failures are logged,
// marked as degraded, and replaced by the documented empty value.
// Run itself never fails.
func (r *Runner) Run(ctx context.Context, in *Input) {
	for _, a := range r.analyzers {
		if err := r.runIsolated(ctx, a, in); err != nil {
			r.logger.Warn("analyzer degraded to empty value",
				"analyzer", a.Name(),
				"url", in.Report.Page.URL,
				"error", err,
			)
			in.Report.MarkDegraded(a.Name())
		}
	}
}

// runIsolated invokes one analyzer, converting panics into errors.
func (r *Runner) runIsolated(ctx context.Context, a Analyzer, in *Input) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("analyzer %s panicked: %v", a.Name(), rec)
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return a.Analyze(ctx, in)
}
