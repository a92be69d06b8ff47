package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pagelens/pagelens/internal/model"
)

// BatchProcessor extracts multiple URLs concurrently under a
// concurrency limit. Used by the CLI when given several targets.
//
// Design decision: Batch processing lives in a separate type rather
// than on Pipeline so the Pipeline stays focused on a single request
// and batch strategies (rate limiting, retries) can evolve on their own.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline per URL so no per-run
	// state leaks between extractions.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent extractions.
	concurrency int

	logger *slog.Logger

	results []*model.ExtractionReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent extractions.
// Default is 4; scraping proxies meter by concurrent session.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. The factory is called
// once per URL.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
		results:         make([]*model.ExtractionReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch extracts every URL concurrently and returns the reports
// in input order. Per-URL failures are recorded as degraded reports;
// the error return indicates cancellation only.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]*model.ExtractionReport, error) {
	bp.logger.Info("starting batch extraction",
		"total_urls", len(urls),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	bp.results = make([]*model.ExtractionReport, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			run := NewRun(target)
			err := bp.pipelineFactory().Execute(ctx, run)

			bp.mu.Lock()
			bp.results[i] = run.Report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("extraction failed",
					"url", target,
					"error", err,
				)
				run.Report.MarkDegraded("pipeline")
				// Keep processing the rest of the batch.
				return nil
			}

			bp.logger.Info("extraction completed", "url", target)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch extraction complete",
		"total_urls", len(urls),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback extracts every URL and invokes the callback
// as each finishes. The callback runs on the completing goroutine and
// must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	urls []string,
	callback func(report *model.ExtractionReport, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			run := NewRun(target)
			if err := bp.pipelineFactory().Execute(ctx, run); err != nil {
				run.Report.MarkDegraded("pipeline")
			}

			callback(run.Report, i)
			return nil
		})
	}

	return g.Wait()
}
