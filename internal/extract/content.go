package extract

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagelens/pagelens/internal/model"
)

// ContentExtractor collects page metadata and content widgets: title,
// meta tags, headings, forms, tables, FAQ blocks, testimonials, and
// calls to action.
type ContentExtractor struct {
	// ctaKeywords are phrases that mark a link or button as a CTA.
	ctaKeywords []string

	// testimonialSelectors match common review/testimonial containers.
	testimonialSelectors string
}

// NewContentExtractor creates a ContentExtractor.
func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{
		ctaKeywords: []string{
			"buy now", "sign up", "get started", "subscribe", "contact us",
			"learn more", "try free", "free trial", "download", "book now",
			"add to cart", "request a quote", "join now", "shop now",
		},
		testimonialSelectors: ".testimonial, .review, .quote, blockquote, [class*=testimonial], [class*=review]",
	}
}

// Name returns the extractor name.
func (e *ContentExtractor) Name() string {
	return "content"
}

// Extract builds the content sub-report.
func (e *ContentExtractor) Extract(_ context.Context, in *Input) error {
	report := model.NewContentReport()

	report.Title = in.Fields.Title
	report.MetaDescription = in.Fields.Meta("description")
	report.Robots = in.Fields.Meta("robots")
	report.Headings = in.Fields.Headings
	report.WordCount = len(strings.Fields(in.Fields.BodyText))
	report.ParagraphCount = in.Doc.Count("p")

	if href, ok := in.Doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		report.Canonical = strings.TrimSpace(href)
	}

	for name, content := range in.Fields.MetaTags {
		switch {
		case strings.HasPrefix(name, "og:"):
			report.OpenGraph[name] = content
		case strings.HasPrefix(name, "twitter:"):
			report.TwitterCard[name] = content
		}
	}

	report.Forms = e.extractForms(in)
	report.Tables = e.extractTables(in)
	report.FAQs = e.extractFAQs(in)
	report.Testimonials = e.extractTestimonials(in)
	report.CTAs = e.extractCTAs(in)
	report.LastScanned = time.Now()

	in.Report.Content = report
	return nil
}

// extractForms collects form actions, methods, and field names.
func (e *ContentExtractor) extractForms(in *Input) []model.FormInfo {
	forms := make([]model.FormInfo, 0)
	in.Doc.Find("form").Each(func(_ int, s *goquery.Selection) {
		action, _ := s.Attr("action")
		method, _ := s.Attr("method")
		if method == "" {
			method = "GET"
		}

		fields := make([]string, 0)
		s.Find("input, select, textarea").Each(func(_ int, f *goquery.Selection) {
			if name, ok := f.Attr("name"); ok && name != "" {
				fields = append(fields, name)
			}
		})

		forms = append(forms, model.FormInfo{
			Action: action,
			Method: strings.ToUpper(method),
			Fields: fields,
		})
	})
	return forms
}

// extractTables collects table dimensions.
func (e *ContentExtractor) extractTables(in *Input) []model.TableInfo {
	tables := make([]model.TableInfo, 0)
	in.Doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		rows := s.Find("tr").Length()
		cols := s.Find("tr").First().Find("td, th").Length()
		tables = append(tables, model.TableInfo{Rows: rows, Columns: cols})
	})
	return tables
}

// extractFAQs pairs question-shaped headings with the text that follows.
// A heading counts as a question when it ends with "?" or starts with a
// question word.
func (e *ContentExtractor) extractFAQs(in *Input) []model.FAQItem {
	faqs := make([]model.FAQItem, 0)
	in.Doc.Find("h2, h3, h4, dt, summary").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if !isQuestion(text) {
			return
		}

		answer := ""
		if next := s.Next(); next.Length() > 0 {
			answer = strings.TrimSpace(next.Text())
			if len(answer) > 300 {
				answer = answer[:300]
			}
		}
		faqs = append(faqs, model.FAQItem{Question: text, Answer: answer})
	})
	return faqs
}

// isQuestion reports whether heading text looks like an FAQ question.
func isQuestion(text string) bool {
	if text == "" {
		return false
	}
	if strings.HasSuffix(text, "?") {
		return true
	}
	lower := strings.ToLower(text)
	for _, prefix := range []string{"how ", "what ", "why ", "when ", "where ", "can ", "do ", "does ", "is "} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// extractTestimonials collects short snippets from review-like containers.
func (e *ContentExtractor) extractTestimonials(in *Input) []string {
	testimonials := make([]string, 0)
	seen := make(map[string]bool)
	in.Doc.Find(e.testimonialSelectors).Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if len(text) < 20 {
			return
		}
		if len(text) > 200 {
			text = text[:200]
		}
		if !seen[text] {
			seen[text] = true
			testimonials = append(testimonials, text)
		}
	})
	return testimonials
}

// extractCTAs collects call-to-action texts from buttons and links.
func (e *ContentExtractor) extractCTAs(in *Input) []string {
	ctas := make([]string, 0)
	seen := make(map[string]bool)
	in.Doc.Find(`a, button, input[type="submit"], input[type="button"]`).Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			if v, ok := s.Attr("value"); ok {
				text = strings.TrimSpace(v)
			}
		}
		lower := strings.ToLower(text)
		for _, kw := range e.ctaKeywords {
			if strings.Contains(lower, kw) {
				if !seen[lower] {
					seen[lower] = true
					ctas = append(ctas, text)
				}
				break
			}
		}
	})
	return ctas
}

// Ensure ContentExtractor implements Extractor.
var _ Extractor = (*ContentExtractor)(nil)
