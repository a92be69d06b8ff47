package analyze

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/pagelens/pagelens/internal/model"
)

// TestBlueprintAnalyzer_Volume tests reading time rounding and the
// word-count rating bands.
func TestBlueprintAnalyzer_Volume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		words       int
		wantMinutes int
		wantRating  string
	}{
		{words: 0, wantMinutes: 0, wantRating: "Short"},
		{words: 1, wantMinutes: 1, wantRating: "Short"},
		{words: 200, wantMinutes: 1, wantRating: "Short"},
		{words: 201, wantMinutes: 2, wantRating: "Short"},
		{words: 500, wantMinutes: 3, wantRating: "Medium"},
		{words: 1500, wantMinutes: 8, wantRating: "Long"},
		{words: 3000, wantMinutes: 15, wantRating: "Very Long"},
	}

	a := NewBlueprintAnalyzer()

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.words)+" words", func(t *testing.T) {
			t.Parallel()

			html := "<html><body><p>" + strings.Repeat("word ", tt.words) + "</p></body></html>"
			in := newTestInput(t, html, "https://example.com")

			v := a.volume(in)
			if v.Words != tt.words {
				t.Fatalf("words = %d, want %d", v.Words, tt.words)
			}
			if v.ReadingTimeMinutes != tt.wantMinutes {
				t.Errorf("reading time = %d, want %d", v.ReadingTimeMinutes, tt.wantMinutes)
			}
			if v.Rating != tt.wantRating {
				t.Errorf("rating = %q, want %q", v.Rating, tt.wantRating)
			}
		})
	}
}

// TestBlueprintAnalyzer_ReadabilityClamp tests that reading ease stays
// within [0, 100] at both extremes of the formula.
func TestBlueprintAnalyzer_ReadabilityClamp(t *testing.T) {
	t.Parallel()

	a := NewBlueprintAnalyzer()

	t.Run("trivial prose clamps to 100", func(t *testing.T) {
		t.Parallel()

		in := newTestInput(t, "<html><body><p>Go. Go. Go.</p></body></html>", "https://example.com")

		r := a.readability(in)
		if r.FleschReadingEase != 100 {
			t.Errorf("reading ease = %v, want 100", r.FleschReadingEase)
		}
		if r.Level != "Very Easy" {
			t.Errorf("level = %q, want Very Easy", r.Level)
		}
	})

	t.Run("dense prose clamps to 0", func(t *testing.T) {
		t.Parallel()

		html := "<html><body><p>" + strings.Repeat("unconstitutionally ", 20) + ".</p></body></html>"
		in := newTestInput(t, html, "https://example.com")

		r := a.readability(in)
		if r.FleschReadingEase != 0 {
			t.Errorf("reading ease = %v, want 0", r.FleschReadingEase)
		}
		if r.Level != "Very Difficult" {
			t.Errorf("level = %q, want Very Difficult", r.Level)
		}
		if r.FleschKincaidGrade <= 0 {
			t.Errorf("grade = %v, want positive", r.FleschKincaidGrade)
		}
	})

	t.Run("empty page reports zero values", func(t *testing.T) {
		t.Parallel()

		in := newTestInput(t, "<html><body></body></html>", "https://example.com")

		r := a.readability(in)
		if r.FleschReadingEase != 0 || r.FleschKincaidGrade != 0 {
			t.Errorf("empty page metrics = %+v, want zeros", r)
		}
		if r.Level != "Very Difficult" {
			t.Errorf("level = %q, want Very Difficult", r.Level)
		}
	})
}

// TestCountSyllables tests the vowel-group estimate with its silent-e
// adjustment.
func TestCountSyllables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		word string
		want int
	}{
		{word: "cat", want: 1},
		{word: "make", want: 1},
		{word: "table", want: 2},
		{word: "beautiful", want: 3},
		{word: "rhythm", want: 1},
		{word: "unconstitutionally", want: 7},
		{word: "", want: 1},
		{word: "12345", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			t.Parallel()

			if got := countSyllables(tt.word); got != tt.want {
				t.Errorf("countSyllables(%q) = %d, want %d", tt.word, got, tt.want)
			}
		})
	}
}

// TestBlueprintAnalyzer_Quality tests the additive quality score on a
// page that earns every award: sized paragraphs, heading hierarchy,
// lists, quotes, imagery, and links.
func TestBlueprintAnalyzer_Quality(t *testing.T) {
	t.Parallel()

	paragraph := "<p>" + strings.Repeat("We fix sinks. ", 12) + "</p>"
	html := `<html>
	<body>
		<h1>Sink Repair</h1>
		<h2>Pricing</h2>
		<h2>Coverage</h2>
		<img src="/sink.png" alt="A sink">
		<ul><li>Fast</li><li>Fair</li></ul>
		<blockquote>Best plumber in town.</blockquote>
		<a href="/services">Our services</a>
		` + strings.Repeat(paragraph, 4) + `
	</body>
	</html>`

	in := newTestInput(t, html, "https://example.com")
	a := NewBlueprintAnalyzer()

	if err := a.Analyze(context.Background(), in); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	q := in.Report.Blueprint.Quality
	if q.Score != 100 {
		t.Errorf("quality score = %d, want 100; signals: %v", q.Score, q.Signals)
	}
	if q.Band != model.BandExcellent {
		t.Errorf("band = %v, want Excellent", q.Band)
	}
	if len(q.Signals) != 7 {
		t.Errorf("signals = %v, want all 7 awards", q.Signals)
	}
}

// TestBlueprintAnalyzer_QualityWallOfText tests that one oversized
// paragraph misses the paragraph-fit award.
func TestBlueprintAnalyzer_QualityWallOfText(t *testing.T) {
	t.Parallel()

	html := "<html><body><p>" + strings.Repeat("word ", 400) + "</p></body></html>"
	in := newTestInput(t, html, "https://example.com")
	a := NewBlueprintAnalyzer()

	q := a.quality(in, a.volume(in))
	for _, s := range q.Signals {
		if strings.Contains(s, "paragraphs sized") {
			t.Errorf("400-word paragraph earned the fit award: %v", q.Signals)
		}
	}
}

// TestBlueprintAnalyzer_BarePage tests that a signal-free page scores
// zero quality and reports the conversion gaps.
func TestBlueprintAnalyzer_BarePage(t *testing.T) {
	t.Parallel()

	in := newTestInput(t, "<html><body></body></html>", "https://example.com")
	a := NewBlueprintAnalyzer()

	if err := a.Analyze(context.Background(), in); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	report := in.Report.Blueprint
	if report.Quality.Score != 0 || report.Quality.Band != model.BandPoor {
		t.Errorf("quality = %+v, want zero score in Poor", report.Quality)
	}
	if len(report.Gaps) != 3 {
		t.Errorf("gaps = %v, want testimonial, FAQ, and CTA flags", report.Gaps)
	}
	if report.LastAnalyzed.IsZero() {
		t.Error("LastAnalyzed not set")
	}
}

// TestBlueprintAnalyzer_Gaps tests the gap flags, including the table
// of contents rule that only applies to long content.
func TestBlueprintAnalyzer_Gaps(t *testing.T) {
	t.Parallel()

	a := NewBlueprintAnalyzer()

	t.Run("complete page has no gaps", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<h2>How fast do you respond?</h2>
			<blockquote>They fixed our boiler in an hour.</blockquote>
			<a href="/quote">Get started</a>
			<p>Short service page.</p>
		</body></html>`

		in := newTestInput(t, html, "https://example.com")
		if err := a.Analyze(context.Background(), in); err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if gaps := in.Report.Blueprint.Gaps; len(gaps) != 0 {
			t.Errorf("gaps = %v, want none", gaps)
		}
	})

	t.Run("long content without anchors flags a missing TOC", func(t *testing.T) {
		t.Parallel()

		html := "<html><body><p>" + strings.Repeat("word ", 1200) + "</p></body></html>"

		in := newTestInput(t, html, "https://example.com")
		if err := a.Analyze(context.Background(), in); err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}

		gaps := strings.Join(in.Report.Blueprint.Gaps, "\n")
		if !strings.Contains(gaps, "table of contents") {
			t.Errorf("expected a TOC gap on long content, got %q", gaps)
		}
	})

	t.Run("anchor links satisfy the TOC rule", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="#intro">Intro</a><p>` +
			strings.Repeat("word ", 1200) + "</p></body></html>"

		in := newTestInput(t, html, "https://example.com")
		if err := a.Analyze(context.Background(), in); err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}

		gaps := strings.Join(in.Report.Blueprint.Gaps, "\n")
		if strings.Contains(gaps, "table of contents") {
			t.Errorf("anchor-linked long content still flagged a TOC gap: %q", gaps)
		}
	})

	t.Run("review class counts as testimonials", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="customer-review">Five stars.</div></body></html>`

		in := newTestInput(t, html, "https://example.com")
		if err := a.Analyze(context.Background(), in); err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}

		gaps := strings.Join(in.Report.Blueprint.Gaps, "\n")
		if strings.Contains(gaps, "testimonials") {
			t.Errorf("review block still flagged a testimonial gap: %q", gaps)
		}
	})
}

// TestBlueprintAnalyzer_Engagement tests the weighted engagement score.
func TestBlueprintAnalyzer_Engagement(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<a href="/start">Get Started</a>
		<a href="/contact">Contact us</a>
		<a href="https://twitter.com/intent/tweet?url=x">Tweet</a>
		<form action="/subscribe" method="post"><input type="email" name="email"></form>
		<button>One</button>
		<button>Two</button>
	</body></html>`

	in := newTestInput(t, html, "https://example.com")
	a := NewBlueprintAnalyzer()

	m := a.engagement(in)
	if m.CTACount != 2 {
		t.Errorf("CTA count = %d, want 2", m.CTACount)
	}
	if m.FormCount != 1 {
		t.Errorf("form count = %d, want 1", m.FormCount)
	}
	if m.InteractiveCount != 3 {
		t.Errorf("interactive count = %d, want 3", m.InteractiveCount)
	}
	if m.ShareCount != 1 {
		t.Errorf("share count = %d, want 1", m.ShareCount)
	}

	// 2*10 + 1*15 + 3*2 + 1*5
	if m.Score != 46 {
		t.Errorf("engagement score = %d, want 46", m.Score)
	}
}

// TestBlueprintAnalyzer_Distribution tests element bucketing and the
// dominant-category pick.
func TestBlueprintAnalyzer_Distribution(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<div>
			<h1>Title</h1>
			<p>one</p><p>two</p><p>three</p>
			<img src="/a.png">
			<a href="/x">x</a><a href="/y">y</a>
			<button>go</button>
			<table><tr><td>cell</td></tr></table>
		</div>
	</body></html>`

	in := newTestInput(t, html, "https://example.com")
	a := NewBlueprintAnalyzer()

	d := a.distribution(in)
	if d.TotalElements != 10 {
		t.Fatalf("total elements = %d, want 10", d.TotalElements)
	}
	if d.PrimaryType != "textual" {
		t.Errorf("primary type = %q, want textual", d.PrimaryType)
	}
	if d.Textual.Count != 4 || d.Textual.Percent != 40 {
		t.Errorf("textual = %+v, want count 4 at 40%%", d.Textual)
	}
	if d.Media.Count != 1 || d.Specialized.Count != 1 {
		t.Errorf("media = %+v, specialized = %+v, want 1 each", d.Media, d.Specialized)
	}
}

// TestBlueprintAnalyzer_TopicClusters tests keyword ranking, the
// stopword filter, and heading pairing.
func TestBlueprintAnalyzer_TopicClusters(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<h2>Plumbing Services</h2>
		<p>The plumbing team handles plumbing jobs of all sizes. Our plumbing
		and heating experts cover heating repairs and heating installs for
		the whole region.</p>
	</body></html>`

	in := newTestInput(t, html, "https://example.com")
	a := NewBlueprintAnalyzer()

	clusters := a.topicClusters(in)
	if len(clusters) == 0 {
		t.Fatal("expected topic clusters")
	}
	if len(clusters) > 10 {
		t.Fatalf("clusters = %d, want at most 10", len(clusters))
	}

	top := clusters[0]
	if top.Topic != "Plumbing" {
		t.Errorf("top topic = %q, want Plumbing", top.Topic)
	}
	if top.Frequency < 3 {
		t.Errorf("top frequency = %d, want at least 3", top.Frequency)
	}
	if top.Heading != "Plumbing Services" {
		t.Errorf("top heading = %q, want the matching h2", top.Heading)
	}
	if clusters[1].Topic != "Heating" {
		t.Errorf("second topic = %q, want Heating", clusters[1].Topic)
	}

	for _, c := range clusters {
		if strings.EqualFold(c.Topic, "the") {
			t.Errorf("stopword leaked into clusters: %v", clusters)
		}
		if len(c.Topic) < 4 {
			t.Errorf("short token leaked into clusters: %q", c.Topic)
		}
	}
}

// TestBlueprintAnalyzer_Strategy tests the rule-based recommendations on
// a thin page.
func TestBlueprintAnalyzer_Strategy(t *testing.T) {
	t.Parallel()

	in := newTestInput(t, "<html><body><p>Short note.</p></body></html>", "https://example.com")
	a := NewBlueprintAnalyzer()

	if err := a.Analyze(context.Background(), in); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	strategy := strings.Join(in.Report.Blueprint.Strategy, "\n")
	if !strings.Contains(strategy, "Expand content depth") {
		t.Errorf("expected a depth recommendation, got %q", strategy)
	}
	if !strings.Contains(strategy, "call to action") {
		t.Errorf("expected a CTA recommendation, got %q", strategy)
	}
	if !strings.Contains(strategy, "images or video") {
		t.Errorf("expected a media recommendation, got %q", strategy)
	}
}
