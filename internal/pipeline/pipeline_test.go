package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pagelens/pagelens/internal/enrich"
	"github.com/pagelens/pagelens/internal/fetch"
	"github.com/pagelens/pagelens/internal/model"
)

// recordingStep appends its name to a shared log when executed.
type recordingStep struct {
	name string
	err  error

	mu  *sync.Mutex
	log *[]string
}

func (s *recordingStep) Name() string { return s.name }

func (s *recordingStep) Do(_ context.Context, _ *Run) error {
	s.mu.Lock()
	*s.log = append(*s.log, s.name)
	s.mu.Unlock()
	return s.err
}

// newRecorder builds a step set sharing one execution log.
func newRecorder() (func(name string, err error) Step, *[]string) {
	var mu sync.Mutex
	log := make([]string, 0)
	return func(name string, err error) Step {
		return &recordingStep{name: name, err: err, mu: &mu, log: &log}
	}, &log
}

// TestPipeline_Execute tests in-order execution.
func TestPipeline_Execute(t *testing.T) {
	t.Parallel()

	step, log := newRecorder()
	p := New()
	p.AddSteps(step("one", nil), step("two", nil), step("three", nil))

	run := NewRun("https://example.com")
	if err := p.Execute(context.Background(), run); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []string{"one", "two", "three"}
	if len(*log) != len(want) {
		t.Fatalf("executed = %v, want %v", *log, want)
	}
	for i, name := range want {
		if (*log)[i] != name {
			t.Errorf("step %d = %q, want %q", i, (*log)[i], name)
		}
	}
}

// TestPipeline_Execute_AbortsOnError tests that the first step error
// stops the run and is returned unchanged.
func TestPipeline_Execute_AbortsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	step, log := newRecorder()
	p := New()
	p.AddSteps(step("one", nil), step("two", boom), step("three", nil))

	err := p.Execute(context.Background(), NewRun("https://example.com"))
	if !errors.Is(err, boom) {
		t.Fatalf("Execute() error = %v, want boom", err)
	}
	if len(*log) != 2 {
		t.Errorf("executed = %v, want execution to stop after the failure", *log)
	}
}

// TestPipeline_Execute_Cancellation tests the between-step cancel check.
func TestPipeline_Execute_Cancellation(t *testing.T) {
	t.Parallel()

	step, log := newRecorder()
	p := New()
	p.AddSteps(step("one", nil), step("two", nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Execute(ctx, NewRun("https://example.com"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if len(*log) != 0 {
		t.Errorf("executed = %v, want none on a cancelled context", *log)
	}
}

// TestNewRun tests report initialization and URL parsing.
func TestNewRun(t *testing.T) {
	t.Parallel()

	run := NewRun("https://example.com/page")
	if run.Report == nil {
		t.Fatal("report not initialized")
	}
	if run.PageURL == nil || run.PageURL.Hostname() != "example.com" {
		t.Errorf("page URL = %v", run.PageURL)
	}
}

// TestNewDefault tests the standard step assembly.
func TestNewDefault(t *testing.T) {
	t.Parallel()

	client := fetch.NewClient("https://proxy.example.com/scrape", "key")
	p := NewDefault(client, enrich.New(""), nil)

	if p.StepCount() != 6 {
		t.Fatalf("step count = %d, want 6", p.StepCount())
	}

	want := []string{"fetch", "parse", "extract", "analyze", "aggregate", "enrich"}
	got := p.StepNames()
	for i, name := range want {
		if got[i] != name {
			t.Errorf("step %d = %q, want %q", i, got[i], name)
		}
	}
}

// TestParseStep tests its ordering precondition and parse failure.
func TestParseStep(t *testing.T) {
	t.Parallel()

	t.Run("requires a fetched page", func(t *testing.T) {
		t.Parallel()

		run := NewRun("https://example.com")
		if err := NewParseStep().Do(context.Background(), run); err == nil {
			t.Error("Do() succeeded without a fetch result")
		}
	})

	t.Run("parses fetched HTML", func(t *testing.T) {
		t.Parallel()

		run := NewRun("https://example.com")
		run.Fetch = &model.FetchResult{HTML: "<html><head><title>Hi</title></head><body></body></html>"}

		if err := NewParseStep().Do(context.Background(), run); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if run.Doc == nil || run.Fields == nil {
			t.Error("document and fields not attached")
		}
		if run.Fields.Title != "Hi" {
			t.Errorf("title = %q, want Hi", run.Fields.Title)
		}
	})

	t.Run("rejects empty HTML", func(t *testing.T) {
		t.Parallel()

		run := NewRun("https://example.com")
		run.Fetch = &model.FetchResult{HTML: "   "}

		if err := NewParseStep().Do(context.Background(), run); err == nil {
			t.Error("Do() succeeded on empty HTML")
		}
	})
}

// failOnStep fails only for a specific URL, so batch tests can mix
// successes and failures.
type failOnStep struct {
	failURL string
}

func (s *failOnStep) Name() string { return "fail-on" }

func (s *failOnStep) Do(_ context.Context, run *Run) error {
	if run.RawURL == s.failURL {
		return errors.New("simulated failure")
	}
	run.Report.Content.Title = "ok"
	return nil
}

// TestBatchProcessor_OrderPreserved tests that results come back in
// input order regardless of completion order.
func TestBatchProcessor_OrderPreserved(t *testing.T) {
	t.Parallel()

	urls := []string{
		"https://a.example.com",
		"https://b.example.com",
		"https://c.example.com",
		"https://d.example.com",
	}

	factory := func() *Pipeline {
		p := New()
		p.AddStep(&failOnStep{})
		return p
	}

	bp := NewBatchProcessor(factory, WithConcurrency(2))
	reports, err := bp.ProcessBatch(context.Background(), urls)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}

	if len(reports) != len(urls) {
		t.Fatalf("reports = %d, want %d", len(reports), len(urls))
	}
	for i, report := range reports {
		if report.Page.URL != urls[i] {
			t.Errorf("report %d is for %q, want %q", i, report.Page.URL, urls[i])
		}
	}
}

// TestBatchProcessor_PerURLDegrade tests that one failing URL degrades
// its own report without failing the batch.
func TestBatchProcessor_PerURLDegrade(t *testing.T) {
	t.Parallel()

	urls := []string{"https://good.example.com", "https://bad.example.com"}

	factory := func() *Pipeline {
		p := New()
		p.AddStep(&failOnStep{failURL: "https://bad.example.com"})
		return p
	}

	reports, err := NewBatchProcessor(factory).ProcessBatch(context.Background(), urls)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}

	if len(reports[0].DegradedStages) != 0 || reports[0].Content.Title != "ok" {
		t.Errorf("good report degraded: %+v", reports[0].DegradedStages)
	}

	degraded := false
	for _, stage := range reports[1].DegradedStages {
		if stage == "pipeline" {
			degraded = true
		}
	}
	if !degraded {
		t.Errorf("bad report stages = %v, want pipeline marker", reports[1].DegradedStages)
	}
}

// TestBatchProcessor_Callback tests the streaming variant.
func TestBatchProcessor_Callback(t *testing.T) {
	t.Parallel()

	urls := []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"}

	factory := func() *Pipeline {
		p := New()
		p.AddStep(&failOnStep{})
		return p
	}

	var mu sync.Mutex
	seen := make(map[int]string)

	err := NewBatchProcessor(factory).ProcessBatchWithCallback(context.Background(), urls,
		func(report *model.ExtractionReport, index int) {
			mu.Lock()
			seen[index] = report.Page.URL
			mu.Unlock()
		})
	if err != nil {
		t.Fatalf("ProcessBatchWithCallback() error = %v", err)
	}

	if len(seen) != len(urls) {
		t.Fatalf("callbacks = %d, want %d", len(seen), len(urls))
	}
	for i, u := range urls {
		if seen[i] != u {
			t.Errorf("index %d saw %q, want %q", i, seen[i], u)
		}
	}
}
