package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/pagelens/pagelens/internal/model"
)

// Text layout constants. Lines wrap at wrapWidth so the boxed output
// stays stable regardless of input string lengths.
const (
	boxWidth  = 76
	wrapWidth = 72
)

// TextWriter outputs a fixed-width, boxed human-readable report.
//
// Design decision: We use plain ASCII formatting rather than ANSI
// colors because it works in all terminals and pipes cleanly to files.
// Sections are built as data first and rendered uniformly, so each
// section is testable on its own.
type TextWriter struct {
	baseWriter

	// showEmpty controls whether sections with no data are rendered.
	showEmpty bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithShowEmpty configures the writer to render empty sections.
func WithShowEmpty(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showEmpty = show
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Format returns FormatText.
func (w *TextWriter) Format() Format {
	return FormatText
}

// section is one titled block of report lines.
type section struct {
	title string
	lines []string
}

// empty reports whether the section carries no data lines.
func (s section) empty() bool {
	return len(s.lines) == 0
}

// Write outputs the report as boxed text.
func (w *TextWriter) Write(report *model.ExtractionReport) (int, error) {
	data := buildSafely(func() ([]byte, error) {
		return w.render(report), nil
	}, w.fallback(report))

	return w.output.Write(data)
}

// fallback is the minimal text document for an unrenderable report.
func (w *TextWriter) fallback(report *model.ExtractionReport) []byte {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", boxWidth) + "\n")
	sb.WriteString("PAGE EXTRACTION REPORT\n")
	sb.WriteString(fmt.Sprintf("URL: %s\n", report.Page.URL))
	sb.WriteString("(report rendering degraded)\n")
	sb.WriteString(strings.Repeat("=", boxWidth) + "\n")
	return []byte(sb.String())
}

// render builds the complete boxed document.
func (w *TextWriter) render(report *model.ExtractionReport) []byte {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	for _, s := range w.buildSections(report) {
		if s.empty() && !w.showEmpty {
			continue
		}
		w.writeSection(&sb, s)
	}
	w.writeFooter(&sb)

	return []byte(sb.String())
}

// writeHeader writes the boxed report header.
func (w *TextWriter) writeHeader(sb *strings.Builder, report *model.ExtractionReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", boxWidth) + "\n")
	sb.WriteString(center("PAGE EXTRACTION REPORT") + "\n")
	sb.WriteString(strings.Repeat("=", boxWidth) + "\n\n")

	sb.WriteString(fmt.Sprintf("URL:       %s\n", truncate(report.Page.URL, wrapWidth-11)))
	sb.WriteString(fmt.Sprintf("Domain:    %s\n", report.Page.Domain))
	sb.WriteString(fmt.Sprintf("Scanned:   %s\n", report.Page.Timestamp.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Fetch:     %s\n", report.ScraperUsed()))
	if len(report.DegradedStages) > 0 {
		sb.WriteString(fmt.Sprintf("Degraded:  %s\n", strings.Join(report.DegradedStages, ", ")))
	}
	sb.WriteString("\n")
}

// writeSection renders one titled section with wrapped lines.
func (w *TextWriter) writeSection(sb *strings.Builder, s section) {
	sb.WriteString(strings.Repeat("-", boxWidth) + "\n")
	sb.WriteString(s.title + "\n")
	sb.WriteString(strings.Repeat("-", boxWidth) + "\n\n")

	if s.empty() {
		sb.WriteString("  (none)\n")
	}
	for _, line := range s.lines {
		for _, wrapped := range wrap(line, wrapWidth) {
			sb.WriteString("  " + wrapped + "\n")
		}
	}
	sb.WriteString("\n")
}

// writeFooter closes the box.
func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", boxWidth) + "\n")
}

// buildSections assembles every section present in the report.
func (w *TextWriter) buildSections(report *model.ExtractionReport) []section {
	return []section{
		w.summarySection(report),
		w.seoSection(report),
		w.priceSection(report),
		w.blueprintSection(report),
		w.businessSection(report),
		w.technicalSection(report),
		w.contactSection(report),
		w.linkSection(report),
		w.mediaSection(report),
		w.aiSection(report),
	}
}

func (w *TextWriter) summarySection(report *model.ExtractionReport) section {
	s := report.Summary
	return section{
		title: "SUMMARY",
		lines: []string{
			fmt.Sprintf("Total elements:      %d", s.TotalElements),
			fmt.Sprintf("Content richness:    %s", s.ContentRichness),
			fmt.Sprintf("Data quality:        %d/100", s.DataQuality),
			fmt.Sprintf("Scraping difficulty: %s", s.ScrapingDifficulty),
			fmt.Sprintf("Content score:       %d/100", s.OverallContentScore),
			fmt.Sprintf("Price alerts:        %t", s.PriceAlertsActive),
			fmt.Sprintf("Commercial value:    %t", s.CommercialValue),
		},
	}
}

func (w *TextWriter) seoSection(report *model.ExtractionReport) section {
	seo := report.SEOHealth
	s := section{title: "SEO HEALTH"}
	s.lines = append(s.lines,
		fmt.Sprintf("Overall: %d/100 (%s)", seo.OverallScore, seo.Band),
		"",
	)
	for _, f := range seo.Factors {
		s.lines = append(s.lines, fmt.Sprintf("%-20s %d/%d", f.Name, f.Score, f.MaxScore))
	}
	if len(seo.Recommendations) > 0 {
		s.lines = append(s.lines, "", "Recommendations:")
		for _, r := range seo.Recommendations {
			s.lines = append(s.lines, "* "+r)
		}
	}
	return s
}

func (w *TextWriter) priceSection(report *model.ExtractionReport) section {
	pt := report.PriceTracking
	s := section{title: "PRICE TRACKING"}
	if pt.Stats.PriceCount == 0 && pt.Stats.DiscountCount == 0 && pt.Stats.OfferCount == 0 {
		return s
	}

	s.lines = append(s.lines,
		fmt.Sprintf("Prices: %d  Discounts: %d  Offers: %d",
			pt.Stats.PriceCount, pt.Stats.DiscountCount, pt.Stats.OfferCount),
	)
	if pt.Stats.PriceCount > 0 {
		s.lines = append(s.lines, fmt.Sprintf("Range: %.2f - %.2f (avg %.2f)",
			pt.Stats.MinPrice, pt.Stats.MaxPrice, pt.Stats.AveragePrice))
	}
	for _, a := range pt.AlertTriggers {
		s.lines = append(s.lines, fmt.Sprintf("[%s] %s: %s", a.Severity, a.Type, a.Detail))
	}
	return s
}

func (w *TextWriter) blueprintSection(report *model.ExtractionReport) section {
	bp := report.Blueprint
	s := section{title: "CONTENT BLUEPRINT"}
	if bp.Distribution.TotalElements == 0 && bp.Volume.Words == 0 {
		return s
	}

	s.lines = append(s.lines,
		fmt.Sprintf("Words: %d (%s, ~%d min read)",
			bp.Volume.Words, bp.Volume.Rating, bp.Volume.ReadingTimeMinutes),
		fmt.Sprintf("Quality: %d/100 (%s)", bp.Quality.Score, bp.Quality.Band),
		fmt.Sprintf("Readability: %.1f (%s), grade %.1f",
			bp.Readability.FleschReadingEase, bp.Readability.Level, bp.Readability.FleschKincaidGrade),
		fmt.Sprintf("Engagement: %d/100", bp.Engagement.Score),
	)
	if bp.Distribution.PrimaryType != "" {
		s.lines = append(s.lines, fmt.Sprintf("Primary content type: %s", bp.Distribution.PrimaryType))
	}
	for _, tc := range bp.TopicClusters {
		line := fmt.Sprintf("Topic: %s (x%d)", tc.Topic, tc.Frequency)
		if tc.Heading != "" {
			line += fmt.Sprintf(" under %q", truncate(tc.Heading, 40))
		}
		s.lines = append(s.lines, line)
	}
	for _, g := range bp.Gaps {
		s.lines = append(s.lines, "Gap: "+g)
	}
	return s
}

func (w *TextWriter) businessSection(report *model.ExtractionReport) section {
	b := report.Business
	s := section{title: "BUSINESS"}
	if b.CompanyName == "" && len(b.Hours) == 0 && len(b.PaymentMethods) == 0 &&
		len(b.Services) == 0 && len(b.Products) == 0 {
		return s
	}

	if b.CompanyName != "" {
		s.lines = append(s.lines, "Company: "+b.CompanyName)
	}
	if len(b.Hours) > 0 {
		s.lines = append(s.lines, "Hours: "+strings.Join(b.Hours, "; "))
	}
	if len(b.PaymentMethods) > 0 {
		s.lines = append(s.lines, "Payments: "+strings.Join(b.PaymentMethods, ", "))
	}
	if len(b.Services) > 0 {
		s.lines = append(s.lines, "Services: "+strings.Join(b.Services, ", "))
	}
	if len(b.Products) > 0 {
		s.lines = append(s.lines, "Products: "+strings.Join(b.Products, ", "))
	}
	return s
}

func (w *TextWriter) technicalSection(report *model.ExtractionReport) section {
	t := report.Technical
	s := section{title: "TECHNICAL"}
	if len(t.Frameworks) == 0 && len(t.AnalyticsIDs) == 0 && t.Generator == "" {
		return s
	}

	if len(t.Frameworks) > 0 {
		s.lines = append(s.lines, "Frameworks: "+strings.Join(t.Frameworks, ", "))
	}
	if t.Generator != "" {
		s.lines = append(s.lines, "Generator: "+t.Generator)
	}
	if len(t.AnalyticsIDs) > 0 {
		s.lines = append(s.lines, "Analytics: "+strings.Join(t.AnalyticsIDs, ", "))
	}
	s.lines = append(s.lines, fmt.Sprintf("Scripts: %d  Stylesheets: %d  Schema markup: %t",
		t.ScriptCount, t.StylesheetCount, t.HasSchemaMarkup))
	return s
}

func (w *TextWriter) contactSection(report *model.ExtractionReport) section {
	c := report.Contact
	s := section{title: "CONTACT"}
	if len(c.Emails) == 0 && len(c.Phones) == 0 && len(c.Addresses) == 0 {
		return s
	}

	for _, e := range c.Emails {
		s.lines = append(s.lines, "Email: "+e)
	}
	for _, p := range c.Phones {
		s.lines = append(s.lines, "Phone: "+p)
	}
	for _, a := range c.Addresses {
		s.lines = append(s.lines, "Address: "+a)
	}
	return s
}

func (w *TextWriter) linkSection(report *model.ExtractionReport) section {
	l := report.Links
	s := section{title: "LINKS"}
	if l.Total == 0 {
		return s
	}

	s.lines = append(s.lines, fmt.Sprintf("Total: %d", l.Total))
	categories := []struct {
		name  string
		count int
	}{
		{"internal", len(l.Internal)},
		{"external", len(l.External)},
		{"social", len(l.Social)},
		{"download", len(l.Download)},
		{"email", len(l.Email)},
		{"phone", len(l.Phone)},
	}
	for _, c := range categories {
		if c.count > 0 {
			s.lines = append(s.lines, fmt.Sprintf("%-10s %d", c.name+":", c.count))
		}
	}
	return s
}

func (w *TextWriter) mediaSection(report *model.ExtractionReport) section {
	m := report.Media
	s := section{title: "MEDIA"}
	if len(m.Images) == 0 && len(m.Videos) == 0 && len(m.Audio) == 0 {
		return s
	}

	s.lines = append(s.lines, fmt.Sprintf("Images: %d (%d with alt)  Videos: %d  Audio: %d",
		len(m.Images), m.ImagesWithAlt, len(m.Videos), len(m.Audio)))
	return s
}

func (w *TextWriter) aiSection(report *model.ExtractionReport) section {
	s := section{title: "AI INSIGHTS"}
	if report.AIInsights == nil {
		return s
	}

	ai := report.AIInsights
	if ai.BusinessInsights != "" {
		s.lines = append(s.lines, "Business: "+ai.BusinessInsights)
	}
	if ai.ContentAnalysis != "" {
		s.lines = append(s.lines, "Content: "+ai.ContentAnalysis)
	}
	if ai.TechnicalInsights != "" {
		s.lines = append(s.lines, "Technical: "+ai.TechnicalInsights)
	}
	for _, a := range ai.ActionableInsights {
		s.lines = append(s.lines, "* "+a)
	}
	return s
}

// center centers a title within the box width.
func center(s string) string {
	pad := (boxWidth - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// wrap splits a line into pieces no longer than width, breaking on
// spaces where possible.
func wrap(s string, width int) []string {
	if len(s) <= width {
		return []string{s}
	}

	out := make([]string, 0, len(s)/width+1)
	for len(s) > width {
		cut := strings.LastIndex(s[:width], " ")
		if cut <= 0 {
			cut = width
		}
		out = append(out, strings.TrimRight(s[:cut], " "))
		s = strings.TrimLeft(s[cut:], " ")
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// Ensure TextWriter implements Writer.
var _ Writer = (*TextWriter)(nil)
