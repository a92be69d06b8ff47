package pipeline

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/model"
)

// Run carries the mutable state of one extraction request through the
// pipeline. Each step reads what earlier steps produced and attaches
// its own output. A Run is owned by a single goroutine.
type Run struct {
	// RawURL is the requested URL as given by the caller.
	RawURL string

	// PageURL is the parsed form of RawURL, nil when unparseable.
	PageURL *url.URL

	// Fetch holds the fetched page, set by the fetch step.
	Fetch *model.FetchResult

	// Doc is the parsed document, set by the parse step.
	Doc *document.Document

	// Fields is the flat fact set, set by the parse step.
	Fields *model.FieldSet

	// Report accumulates every stage's output.
	Report *model.ExtractionReport
}

// NewRun creates a Run for the given URL with an initialized report.
func NewRun(rawURL string) *Run {
	run := &Run{
		RawURL: rawURL,
		Report: model.NewExtractionReport(rawURL),
	}
	if u, err := url.Parse(rawURL); err == nil {
		run.PageURL = u
	}
	return run
}

// Step defines one stage of the extraction pipeline. Steps execute in
// sequence, each receiving the accumulated Run.
//
// Design decision: We use an interface rather than function types
// because steps carry configuration state (clients, runners) and a
// Name() method keeps logging uniform.
type Step interface {
	// Do executes the pipeline step. A returned error aborts the
	// request; stages that degrade-and-continue record the problem in
	// the report and return nil.
	Do(ctx context.Context, run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline. Steps are added with AddStep.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline. Steps execute in the order
// they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence. It checks cancellation between
// steps; steps handle their own timeouts internally. The first step
// error aborts the run and is returned to the caller, who maps it to a
// response status.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"url", run.RawURL,
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"url", run.RawURL,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", run.RawURL,
				"error", err,
			)
			return err
		}
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
