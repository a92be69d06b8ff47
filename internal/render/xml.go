package render

import (
	"io"
	"strconv"

	"github.com/beevik/etree"

	"github.com/pagelens/pagelens/internal/model"
)

// XMLWriter outputs reports as an XML document built with etree.
//
// Design decision: We build the tree explicitly rather than relying on
// encoding/xml struct tags because the report model is tuned for JSON;
// explicit construction keeps the XML shape stable even when the model
// grows JSON-only fields.
type XMLWriter struct {
	baseWriter
}

// NewXMLWriter creates an XMLWriter that outputs to the given writer.
func NewXMLWriter(output io.Writer) *XMLWriter {
	return &XMLWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Format returns FormatXML.
func (w *XMLWriter) Format() Format {
	return FormatXML
}

// Write outputs the report as indented XML.
func (w *XMLWriter) Write(report *model.ExtractionReport) (int, error) {
	data := buildSafely(func() ([]byte, error) {
		return w.render(report)
	}, w.fallback(report))

	return w.output.Write(data)
}

// fallback is the minimal XML document for an unrenderable report.
func (w *XMLWriter) fallback(report *model.ExtractionReport) []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("extraction_report")
	root.CreateElement("url").SetText(report.Page.URL)
	root.CreateElement("error").SetText("serialization degraded")
	doc.Indent(2)

	data, err := doc.WriteToBytes()
	if err != nil {
		return []byte(`<?xml version="1.0" encoding="UTF-8"?><extraction_report/>`)
	}
	return data
}

// render builds the full XML document.
func (w *XMLWriter) render(report *model.ExtractionReport) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("extraction_report")

	w.addPage(root, report)
	w.addSummary(root, report)
	w.addSEO(root, report)
	w.addPriceTracking(root, report)
	w.addBlueprint(root, report)
	w.addContact(root, report)
	w.addBusiness(root, report)
	w.addTechnical(root, report)
	w.addLinks(root, report)
	w.addMedia(root, report)
	w.addAIInsights(root, report)

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (w *XMLWriter) addPage(root *etree.Element, report *model.ExtractionReport) {
	page := root.CreateElement("page")
	page.CreateElement("url").SetText(report.Page.URL)
	page.CreateElement("domain").SetText(report.Page.Domain)
	page.CreateElement("timestamp").SetText(report.Page.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	page.CreateElement("scraper_used").SetText(report.ScraperUsed())
}

func (w *XMLWriter) addSummary(root *etree.Element, report *model.ExtractionReport) {
	s := report.Summary
	sum := root.CreateElement("summary")
	sum.CreateElement("total_elements").SetText(strconv.Itoa(s.TotalElements))
	sum.CreateElement("content_richness").SetText(s.ContentRichness)
	sum.CreateElement("data_quality").SetText(strconv.Itoa(s.DataQuality))
	sum.CreateElement("scraping_difficulty").SetText(s.ScrapingDifficulty)
	sum.CreateElement("overall_content_score").SetText(strconv.Itoa(s.OverallContentScore))
	sum.CreateElement("price_alerts_active").SetText(strconv.FormatBool(s.PriceAlertsActive))
	sum.CreateElement("commercial_value").SetText(strconv.FormatBool(s.CommercialValue))
}

func (w *XMLWriter) addSEO(root *etree.Element, report *model.ExtractionReport) {
	seo := root.CreateElement("seo_health")
	seo.CreateAttr("score", strconv.Itoa(report.SEOHealth.OverallScore))
	seo.CreateAttr("band", report.SEOHealth.Band.String())

	for _, f := range report.SEOHealth.Factors {
		fe := seo.CreateElement("factor")
		fe.CreateAttr("name", f.Name)
		fe.CreateAttr("score", strconv.Itoa(f.Score))
		fe.CreateAttr("max", strconv.Itoa(f.MaxScore))
	}
	for _, r := range report.SEOHealth.Recommendations {
		seo.CreateElement("recommendation").SetText(r)
	}
}

func (w *XMLWriter) addPriceTracking(root *etree.Element, report *model.ExtractionReport) {
	pt := root.CreateElement("price_tracking")
	for _, p := range report.PriceTracking.Prices {
		pe := pt.CreateElement("price")
		pe.CreateAttr("value", strconv.FormatFloat(p.Value, 'f', 2, 64))
		pe.CreateAttr("currency", p.Currency)
		pe.SetText(p.Raw)
	}
	for _, d := range report.PriceTracking.Discounts {
		pt.CreateElement("discount").SetText(d.Raw)
	}
	for _, a := range report.PriceTracking.AlertTriggers {
		ae := pt.CreateElement("alert")
		ae.CreateAttr("type", string(a.Type))
		ae.CreateAttr("severity", string(a.Severity))
		ae.SetText(a.Detail)
	}
}

func (w *XMLWriter) addBlueprint(root *etree.Element, report *model.ExtractionReport) {
	bp := report.Blueprint
	be := root.CreateElement("content_blueprint")
	be.CreateElement("words").SetText(strconv.Itoa(bp.Volume.Words))
	be.CreateElement("reading_time_minutes").SetText(strconv.Itoa(bp.Volume.ReadingTimeMinutes))
	be.CreateElement("quality_score").SetText(strconv.Itoa(bp.Quality.Score))
	be.CreateElement("flesch_reading_ease").SetText(strconv.FormatFloat(bp.Readability.FleschReadingEase, 'f', 1, 64))
	be.CreateElement("readability_level").SetText(bp.Readability.Level)
	be.CreateElement("engagement_score").SetText(strconv.Itoa(bp.Engagement.Score))

	for _, tc := range bp.TopicClusters {
		te := be.CreateElement("topic")
		te.CreateAttr("frequency", strconv.Itoa(tc.Frequency))
		te.SetText(tc.Topic)
	}
}

func (w *XMLWriter) addContact(root *etree.Element, report *model.ExtractionReport) {
	c := root.CreateElement("contact")
	for _, e := range report.Contact.Emails {
		c.CreateElement("email").SetText(e)
	}
	for _, p := range report.Contact.Phones {
		c.CreateElement("phone").SetText(p)
	}
	for _, a := range report.Contact.Addresses {
		c.CreateElement("address").SetText(a)
	}
}

func (w *XMLWriter) addBusiness(root *etree.Element, report *model.ExtractionReport) {
	b := root.CreateElement("business")
	if report.Business.CompanyName != "" {
		b.CreateElement("company_name").SetText(report.Business.CompanyName)
	}
	for _, p := range report.Business.PaymentMethods {
		b.CreateElement("payment_method").SetText(p)
	}
	for _, s := range report.Business.Services {
		b.CreateElement("service").SetText(s)
	}
	for _, p := range report.Business.Products {
		b.CreateElement("product").SetText(p)
	}
}

func (w *XMLWriter) addTechnical(root *etree.Element, report *model.ExtractionReport) {
	t := root.CreateElement("technical")
	for _, f := range report.Technical.Frameworks {
		t.CreateElement("framework").SetText(f)
	}
	for _, id := range report.Technical.AnalyticsIDs {
		t.CreateElement("analytics_id").SetText(id)
	}
	t.CreateElement("script_count").SetText(strconv.Itoa(report.Technical.ScriptCount))
	t.CreateElement("stylesheet_count").SetText(strconv.Itoa(report.Technical.StylesheetCount))
}

func (w *XMLWriter) addLinks(root *etree.Element, report *model.ExtractionReport) {
	l := root.CreateElement("links")
	l.CreateAttr("total", strconv.Itoa(report.Links.Total))
	l.CreateElement("internal").SetText(strconv.Itoa(len(report.Links.Internal)))
	l.CreateElement("external").SetText(strconv.Itoa(len(report.Links.External)))
	l.CreateElement("social").SetText(strconv.Itoa(len(report.Links.Social)))
	l.CreateElement("download").SetText(strconv.Itoa(len(report.Links.Download)))
}

func (w *XMLWriter) addMedia(root *etree.Element, report *model.ExtractionReport) {
	m := root.CreateElement("media")
	m.CreateElement("image_count").SetText(strconv.Itoa(len(report.Media.Images)))
	m.CreateElement("video_count").SetText(strconv.Itoa(len(report.Media.Videos)))
	m.CreateElement("audio_count").SetText(strconv.Itoa(len(report.Media.Audio)))
	m.CreateElement("images_with_alt").SetText(strconv.Itoa(report.Media.ImagesWithAlt))
}

func (w *XMLWriter) addAIInsights(root *etree.Element, report *model.ExtractionReport) {
	if report.AIInsights == nil {
		return
	}

	ai := root.CreateElement("ai_insights")
	ai.CreateElement("business_insights").SetText(report.AIInsights.BusinessInsights)
	ai.CreateElement("content_analysis").SetText(report.AIInsights.ContentAnalysis)
	ai.CreateElement("technical_insights").SetText(report.AIInsights.TechnicalInsights)
	for _, a := range report.AIInsights.ActionableInsights {
		ai.CreateElement("actionable_insight").SetText(a)
	}
}

// Ensure XMLWriter implements Writer.
var _ Writer = (*XMLWriter)(nil)
