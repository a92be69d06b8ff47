package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pagelens/pagelens/internal/model"
)

// csvHeader is the fixed column set. Every row is one atomic fact;
// columns that do not apply to a fact stay empty.
var csvHeader = []string{"Type", "Category", "Content", "URL", "Additional", "Score"}

// CSVWriter outputs the report as one row per atomic fact across the
// fixed columns (Type, Category, Content, URL, Additional, Score).
// encoding/csv doubles embedded quotes, so free text never breaks rows.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Format returns FormatCSV.
func (w *CSVWriter) Format() Format {
	return FormatCSV
}

// Write outputs the report as CSV with a header row.
func (w *CSVWriter) Write(report *model.ExtractionReport) (int, error) {
	data := buildSafely(func() ([]byte, error) {
		return w.render(report)
	}, w.fallback(report))

	return w.output.Write(data)
}

// fallback is the minimal CSV document for an unrenderable report.
func (w *CSVWriter) fallback(report *model.ExtractionReport) []byte {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	_ = cw.Write(csvHeader)
	_ = cw.Write([]string{"page", "info", "report could not be rendered", report.Page.URL, "", ""})
	cw.Flush()
	return buf.Bytes()
}

// render builds the full row set.
func (w *CSVWriter) render(report *model.ExtractionReport) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, row := range w.rows(report) {
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}

	cw.Flush()
	return buf.Bytes(), cw.Error()
}

// rows flattens the report into atomic facts.
func (w *CSVWriter) rows(report *model.ExtractionReport) [][]string {
	row := func(typ, category, content, url, additional, score string) []string {
		return []string{typ, category, content, url, additional, score}
	}

	rows := [][]string{
		row("page", "info", report.Content.Title, report.Page.URL, report.ScraperUsed(), ""),
		row("summary", "total_elements", "", "", "", strconv.Itoa(report.Summary.TotalElements)),
		row("summary", "content_richness", report.Summary.ContentRichness, "", "", ""),
		row("summary", "data_quality", "", "", "", strconv.Itoa(report.Summary.DataQuality)),
		row("summary", "scraping_difficulty", report.Summary.ScrapingDifficulty, "", "", ""),
		row("summary", "commercial_value", strconv.FormatBool(report.Summary.CommercialValue), "", "", ""),
		row("seo", "overall", report.SEOHealth.Band.String(), "", "", strconv.Itoa(report.SEOHealth.OverallScore)),
	}

	for _, f := range report.SEOHealth.Factors {
		rows = append(rows, row("seo", f.Name, strings.Join(f.Issues, "; "), "", "",
			fmt.Sprintf("%d/%d", f.Score, f.MaxScore)))
	}

	for _, p := range report.PriceTracking.Prices {
		rows = append(rows, row("price", "detected", p.Raw, "", p.Currency,
			strconv.FormatFloat(p.Value, 'f', -1, 64)))
	}
	for _, d := range report.PriceTracking.Discounts {
		rows = append(rows, row("price", "discount", d.Raw, "", "",
			strconv.FormatFloat(d.Percentage, 'f', -1, 64)))
	}
	for _, o := range report.PriceTracking.Offers {
		rows = append(rows, row("price", string(o.Category), o.Text, "", string(o.Urgency), ""))
	}
	for _, alert := range report.PriceTracking.AlertTriggers {
		rows = append(rows, row("price_alert", string(alert.Type), alert.Detail, "", string(alert.Severity), ""))
	}

	bp := report.Blueprint
	rows = append(rows,
		row("content", "volume", bp.Volume.Rating, "",
			strconv.Itoa(bp.Volume.ReadingTimeMinutes)+" min read", strconv.Itoa(bp.Volume.Words)),
		row("content", "quality", bp.Quality.Band.String(), "",
			strings.Join(bp.Quality.Signals, "; "), strconv.Itoa(bp.Quality.Score)),
		row("content", "readability", bp.Readability.Level, "", "",
			strconv.FormatFloat(bp.Readability.FleschReadingEase, 'f', 1, 64)),
		row("content", "engagement", "", "", "", strconv.Itoa(bp.Engagement.Score)),
	)
	for _, c := range bp.TopicClusters {
		rows = append(rows, row("content", "topic", c.Topic, "", c.Heading, strconv.Itoa(c.Frequency)))
	}

	for _, e := range report.Contact.Emails {
		rows = append(rows, row("contact", "email", e, "", "", ""))
	}
	for _, p := range report.Contact.Phones {
		rows = append(rows, row("contact", "phone", p, "", "", ""))
	}
	for _, addr := range report.Contact.Addresses {
		rows = append(rows, row("contact", "address", addr, "", "", ""))
	}
	for _, sp := range report.Contact.SocialProfiles {
		rows = append(rows, row("contact", "social_profile", "", sp, "", ""))
	}

	if report.Business.CompanyName != "" {
		rows = append(rows, row("business", "company_name", report.Business.CompanyName, "", "", ""))
	}
	for _, h := range report.Business.Hours {
		rows = append(rows, row("business", "hours", h, "", "", ""))
	}
	for _, p := range report.Business.PaymentMethods {
		rows = append(rows, row("business", "payment_method", p, "", "", ""))
	}
	for _, c := range report.Business.Certifications {
		rows = append(rows, row("business", "certification", c, "", "", ""))
	}

	if report.Technical.Generator != "" {
		rows = append(rows, row("technical", "generator", report.Technical.Generator, "", "", ""))
	}
	for _, f := range report.Technical.Frameworks {
		rows = append(rows, row("technical", "framework", f, "", "", ""))
	}
	for _, id := range report.Technical.AnalyticsIDs {
		rows = append(rows, row("technical", "analytics_id", id, "", "", ""))
	}

	linkGroups := []struct {
		category string
		links    []model.CategorizedLink
	}{
		{"email", report.Links.Email},
		{"phone", report.Links.Phone},
		{"download", report.Links.Download},
		{"social", report.Links.Social},
		{"internal", report.Links.Internal},
		{"external", report.Links.External},
	}
	for _, group := range linkGroups {
		for _, l := range group.links {
			rows = append(rows, row("link", group.category, l.Text, l.URL, "", ""))
		}
	}

	for _, img := range report.Media.Images {
		rows = append(rows, row("media", "image", img.Alt, img.Src, img.Title, ""))
	}
	for _, v := range report.Media.Videos {
		rows = append(rows, row("media", "video", "", v, "", ""))
	}
	for _, src := range report.Media.Audio {
		rows = append(rows, row("media", "audio", "", src, "", ""))
	}

	patternGroups := []struct {
		category string
		values   []string
	}{
		{"coordinate", report.Patterns.Coordinates},
		{"ip_address", report.Patterns.IPAddresses},
		{"domain", report.Patterns.Domains},
		{"license_number", report.Patterns.LicenseNumbers},
		{"version", report.Patterns.Versions},
		{"api_path", report.Patterns.APIPaths},
		{"product_code", report.Patterns.ProductCodes},
	}
	for _, group := range patternGroups {
		for _, v := range group.values {
			rows = append(rows, row("pattern", group.category, v, "", "", ""))
		}
	}

	if ai := report.AIInsights; ai != nil {
		rows = append(rows,
			row("ai", "business_insights", ai.BusinessInsights, "", "", ""),
			row("ai", "content_analysis", ai.ContentAnalysis, "", "", ""),
			row("ai", "technical_insights", ai.TechnicalInsights, "", "", ""),
		)
		for _, s := range ai.ActionableInsights {
			rows = append(rows, row("ai", "actionable_insight", s, "", "", ""))
		}
	}

	return rows
}

// Ensure CSVWriter implements Writer.
var _ Writer = (*CSVWriter)(nil)
