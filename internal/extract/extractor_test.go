package extract

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/model"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Acme Plumbing</title>
	<meta name="description" content="Trusted plumbing services since 1990">
	<meta property="og:title" content="Acme Plumbing">
</head>
<body>
	<h1>Acme Plumbing Services</h1>
	<h2>How fast can you arrive?</h2>
	<p>We usually arrive within the hour.</p>
	<p>Call us at (555) 123-4567 or email info@acmeplumbing.com today.</p>
	<a href="mailto:sales@acmeplumbing.com">Email sales</a>
	<a href="tel:+15551234567">Call now</a>
	<a href="/services">Our services</a>
	<a href="https://facebook.com/acmeplumbing">Facebook</a>
	<a href="https://other.example.org/article">Industry news</a>
	<a href="/brochure.pdf">Download brochure</a>
	<button>Get started</button>
	<form action="/quote" method="post">
		<input name="email">
		<input name="zip">
	</form>
	<img src="/van.jpg" alt="Service van">
</body>
</html>`

// newTestInput parses the sample page into a ready extractor input.
func newTestInput(t *testing.T, rawHTML, pageURL string) *Input {
	t.Helper()

	doc, err := document.Parse(rawHTML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		t.Fatalf("url.Parse() error = %v", err)
	}

	return &Input{
		Doc:     doc,
		Fields:  doc.FieldSet(),
		PageURL: u,
		Report:  model.NewExtractionReport(pageURL),
	}
}

// TestRunner_Run tests the full extractor fan-out over a realistic page.
func TestRunner_Run(t *testing.T) {
	t.Parallel()

	in := newTestInput(t, samplePage, "https://acmeplumbing.com")
	runner := NewRunner()

	runner.Run(context.Background(), in)

	if len(in.Report.DegradedStages) != 0 {
		t.Errorf("expected no degraded stages, got %v", in.Report.DegradedStages)
	}

	if in.Report.Content.Title != "Acme Plumbing" {
		t.Errorf("content title = %q", in.Report.Content.Title)
	}
	if in.Report.Content.MetaDescription == "" {
		t.Error("expected meta description to be extracted")
	}
	if len(in.Report.Content.Forms) != 1 {
		t.Errorf("forms = %d, want 1", len(in.Report.Content.Forms))
	}

	if len(in.Report.Contact.Emails) == 0 {
		t.Error("expected emails to be extracted")
	}
	if len(in.Report.Contact.Phones) == 0 {
		t.Error("expected phones to be extracted")
	}

	if in.Report.Links.Total != 6 {
		t.Errorf("link total = %d, want 6", in.Report.Links.Total)
	}
	if len(in.Report.Media.Images) != 1 {
		t.Errorf("images = %d, want 1", len(in.Report.Media.Images))
	}
}

// failingExtractor always returns an error.
type failingExtractor struct{}

func (f *failingExtractor) Name() string { return "failing" }

func (f *failingExtractor) Extract(_ context.Context, _ *Input) error {
	return errors.New("boom")
}

// panickingExtractor always panics.
type panickingExtractor struct{}

func (p *panickingExtractor) Name() string { return "panicking" }

func (p *panickingExtractor) Extract(_ context.Context, _ *Input) error {
	panic("unexpected nil")
}

// TestRunner_Run_Isolation tests that a failing or panicking extractor
// degrades alone while the rest still attach their sub-reports.
func TestRunner_Run_Isolation(t *testing.T) {
	t.Parallel()

	in := newTestInput(t, samplePage, "https://acmeplumbing.com")
	runner := NewRunner()
	runner.Register(&failingExtractor{})
	runner.Register(&panickingExtractor{})

	runner.Run(context.Background(), in)

	if len(in.Report.DegradedStages) != 2 {
		t.Fatalf("degraded stages = %v, want failing and panicking", in.Report.DegradedStages)
	}
	// Degraded names are sorted for deterministic output.
	if in.Report.DegradedStages[0] != "failing" || in.Report.DegradedStages[1] != "panicking" {
		t.Errorf("unexpected degraded stages: %v", in.Report.DegradedStages)
	}

	// The healthy extractors still produced their sub-reports.
	if in.Report.Content.Title != "Acme Plumbing" {
		t.Error("expected content extraction to survive sibling failures")
	}
	if in.Report.Links.Total == 0 {
		t.Error("expected link extraction to survive sibling failures")
	}
}

// TestRunner_Extractors tests the built-in registration list.
func TestRunner_Extractors(t *testing.T) {
	t.Parallel()

	names := NewRunner().Extractors()
	want := map[string]bool{
		"content": true, "contact": true, "links": true, "media": true,
		"business": true, "technical": true, "patterns": true,
	}

	if len(names) != len(want) {
		t.Fatalf("extractors = %v, want %d entries", names, len(want))
	}
	for _, name := range names {
		if !want[name] {
			t.Errorf("unexpected extractor %q", name)
		}
	}
}
