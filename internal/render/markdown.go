package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/pagelens/pagelens/internal/model"
)

// MarkdownWriter outputs reports in Markdown, suitable for sharing and
// documentation.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation with tables and GitHub-flavored alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Format returns FormatMarkdown.
func (w *MarkdownWriter) Format() Format {
	return FormatMarkdown
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ExtractionReport) (int, error) {
	data := buildSafely(func() ([]byte, error) {
		return w.render(report)
	}, w.fallback(report))

	return w.output.Write(data)
}

// fallback is the minimal Markdown document for an unrenderable report.
func (w *MarkdownWriter) fallback(report *model.ExtractionReport) []byte {
	return fmt.Appendf(nil, "# Page Extraction Report\n\nURL: %s\n\n_Report rendering degraded._\n", report.Page.URL)
}

// render builds the complete Markdown document.
func (w *MarkdownWriter) render(report *model.ExtractionReport) ([]byte, error) {
	var sb strings.Builder
	md := markdown.NewMarkdown(&sb)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeSEO(md, report)
	w.writePriceTracking(md, report)
	w.writeBlueprint(md, report)
	w.writeAIInsights(md, report)

	if err := md.Build(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// writeHeader writes the title and the page info table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ExtractionReport) {
	md.H1("Page Extraction Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + report.Page.URL + "`"},
			{"Domain", report.Page.Domain},
			{"Scanned", report.Page.Timestamp.Format("2006-01-02 15:04:05 MST")},
			{"Fetch mode", report.ScraperUsed()},
			{"AI enhanced", strconv.FormatBool(report.AIInsights != nil)},
		},
	})
	md.PlainText("")

	if len(report.DegradedStages) > 0 {
		md.Warningf("Partial results: %s degraded to empty values.",
			strings.Join(report.DegradedStages, ", "))
		md.PlainText("")
	}
}

// writeSummary writes the cross-cutting summary table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ExtractionReport) {
	s := report.Summary
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total elements", strconv.Itoa(s.TotalElements)},
			{"Content richness", s.ContentRichness},
			{"Data quality", strconv.Itoa(s.DataQuality) + "/100"},
			{"Scraping difficulty", s.ScrapingDifficulty},
			{"Content score", strconv.Itoa(s.OverallContentScore) + "/100"},
			{"Price alerts", strconv.FormatBool(s.PriceAlertsActive)},
			{"Commercial value", strconv.FormatBool(s.CommercialValue)},
		},
	})
	md.PlainText("")
}

// writeSEO writes the SEO factor table and recommendations.
func (w *MarkdownWriter) writeSEO(md *markdown.Markdown, report *model.ExtractionReport) {
	seo := report.SEOHealth
	md.H2("SEO Health")
	md.PlainText("")
	md.PlainTextf("**Score: %d/100 (%s)**", seo.OverallScore, seo.Band)
	md.PlainText("")

	if len(seo.Factors) > 0 {
		rows := make([][]string, len(seo.Factors))
		for i, f := range seo.Factors {
			rows[i] = []string{f.Name, fmt.Sprintf("%d/%d", f.Score, f.MaxScore)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Factor", "Points"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(seo.Recommendations) > 0 {
		md.H3("Recommendations")
		md.BulletList(seo.Recommendations...)
		md.PlainText("")
	}
}

// writePriceTracking writes pricing signals when present.
func (w *MarkdownWriter) writePriceTracking(md *markdown.Markdown, report *model.ExtractionReport) {
	pt := report.PriceTracking
	if pt.Stats.PriceCount == 0 && pt.Stats.DiscountCount == 0 && pt.Stats.OfferCount == 0 {
		return
	}

	md.H2("Price Tracking")
	md.PlainText("")
	md.PlainTextf("Prices: %d, discounts: %d, offers: %d",
		pt.Stats.PriceCount, pt.Stats.DiscountCount, pt.Stats.OfferCount)
	md.PlainText("")

	if len(pt.AlertTriggers) > 0 {
		alerts := make([]string, len(pt.AlertTriggers))
		for i, a := range pt.AlertTriggers {
			alerts[i] = fmt.Sprintf("**%s** (%s): %s", a.Type, a.Severity, a.Detail)
		}
		md.BulletList(alerts...)
		md.PlainText("")
	}
}

// writeBlueprint writes the content blueprint metrics.
func (w *MarkdownWriter) writeBlueprint(md *markdown.Markdown, report *model.ExtractionReport) {
	bp := report.Blueprint
	md.H2("Content Blueprint")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Words", fmt.Sprintf("%d (%s)", bp.Volume.Words, bp.Volume.Rating)},
			{"Reading time", strconv.Itoa(bp.Volume.ReadingTimeMinutes) + " min"},
			{"Quality", fmt.Sprintf("%d/100 (%s)", bp.Quality.Score, bp.Quality.Band)},
			{"Reading ease", fmt.Sprintf("%.1f (%s)", bp.Readability.FleschReadingEase, bp.Readability.Level)},
			{"Engagement", strconv.Itoa(bp.Engagement.Score) + "/100"},
		},
	})
	md.PlainText("")

	if len(bp.Gaps) > 0 {
		md.H3("Content Gaps")
		md.BulletList(bp.Gaps...)
		md.PlainText("")
	}
	if len(bp.Strategy) > 0 {
		md.H3("Strategy")
		md.BulletList(bp.Strategy...)
		md.PlainText("")
	}
}

// writeAIInsights writes the optional enrichment block.
func (w *MarkdownWriter) writeAIInsights(md *markdown.Markdown, report *model.ExtractionReport) {
	if report.AIInsights == nil {
		return
	}

	ai := report.AIInsights
	md.H2("AI Insights")
	md.PlainText("")

	if ai.BusinessInsights != "" {
		md.PlainText(ai.BusinessInsights)
		md.PlainText("")
	}
	if ai.ContentAnalysis != "" {
		md.PlainText(ai.ContentAnalysis)
		md.PlainText("")
	}
	if len(ai.ActionableInsights) > 0 {
		md.H3("Actionable Insights")
		md.BulletList(ai.ActionableInsights...)
		md.PlainText("")
	}
}

// Ensure MarkdownWriter implements Writer.
var _ Writer = (*MarkdownWriter)(nil)
