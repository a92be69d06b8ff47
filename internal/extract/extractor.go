package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/model"
)

// Input carries everything an extractor may read.
//
// Design decision: We pass all data in a single struct rather than
// multiple parameters because not every extractor needs every input,
// and adding inputs later doesn't change extractor signatures.
type Input struct {
	// Doc is the read-only parsed document.
	Doc *document.Document

	// Fields is the shared flat fact set.
	Fields *model.FieldSet

	// PageURL is the parsed request URL, used for internal/external
	// link classification.
	PageURL *url.URL

	// Report receives each extractor's sub-report.
	Report *model.ExtractionReport
}

// Extractor is one isolated extraction unit.
//
// Contract: an extractor assembles its sub-report locally and attaches
// it to the report as its final step. A panic or error before that point
// leaves the report's documented empty value untouched, which is what
// makes degrade-and-continue safe.
type Extractor interface {
	// Name returns the extractor's name for logging and degradation
	// bookkeeping.
	Name() string

	// Extract reads the input and attaches one sub-report.
	Extract(ctx context.Context, in *Input) error
}

// Runner executes all registered extractors with per-extractor failure
// isolation.
//
// Design decision: Extractors only read the document and FieldSet and
// write disjoint report fields, so they run concurrently via errgroup.
// Correctness does not depend on the parallelism; ordering is irrelevant
// to the result.
type Runner struct {
	// extractors is the list of registered extractors.
	extractors []Extractor

	// logger for structured logging.
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets a custom logger for the runner.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner with all built-in extractors registered.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		extractors: make([]Extractor, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	r.Register(NewContentExtractor())
	r.Register(NewContactExtractor())
	r.Register(NewLinkExtractor())
	r.Register(NewMediaExtractor())
	r.Register(NewBusinessExtractor())
	r.Register(NewTechnicalExtractor())
	r.Register(NewPatternExtractor())

	return r
}

// Register adds an extractor to the runner.
func (r *Runner) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Extractors returns the names of all registered extractors.
func (r *Runner) Extractors() []string {
	names := make([]string, len(r.extractors))
	for i, e := range r.extractors {
		names[i] = e.Name()
	}
	return names
}

// Run executes every extractor against the input. Each extractor runs
// inside its own failure boundary: an error or panic is logged, the
// stage is marked degraded, and the sub-report keeps its documented
// empty value. Run itself never fails.
func (r *Runner) Run(ctx context.Context, in *Input) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	degraded := make([]string, 0)

	for _, e := range r.extractors {
		g.Go(func() error {
			if err := r.runIsolated(ctx, e, in); err != nil {
				r.logger.Warn("extractor degraded to empty value",
					"extractor", e.Name(),
					"url", in.Report.Page.URL,
					"error", err,
				)
				mu.Lock()
				degraded = append(degraded, e.Name())
				mu.Unlock()
			}
			return nil
		})
	}

	// Goroutines always return nil; errors degrade instead of propagate.
	_ = g.Wait()

	// Degradation bookkeeping happens after the fan-in so the report is
	// only touched from one goroutine.
	sort.Strings(degraded)
	for _, name := range degraded {
		in.Report.MarkDegraded(name)
	}
}

// runIsolated invokes one extractor, converting panics into errors.
func (r *Runner) runIsolated(ctx context.Context, e Extractor, in *Input) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("extractor %s panicked: %v", e.Name(), rec)
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return e.Extract(ctx, in)
}
