package extract

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/model"
)

// BusinessExtractor derives business-intelligence facts from page text:
// the organization name, opening hours, payment methods, certifications,
// and service/product keywords.
type BusinessExtractor struct {
	hoursRegex *regexp.Regexp

	paymentKeywords       []string
	certificationKeywords []string
	serviceKeywords       []string
	productKeywords       []string
}

// NewBusinessExtractor creates a BusinessExtractor.
func NewBusinessExtractor() *BusinessExtractor {
	return &BusinessExtractor{
		hoursRegex: regexp.MustCompile(
			`(?i)(?:mon|tue|wed|thu|fri|sat|sun)[a-z]*\.?\s*(?:-|–|to|through)?\s*(?:mon|tue|wed|thu|fri|sat|sun)?[a-z]*\.?:?\s*\d{1,2}(?::\d{2})?\s*(?:am|pm)?\s*(?:-|–|to)\s*\d{1,2}(?::\d{2})?\s*(?:am|pm)`),
		paymentKeywords: []string{
			"visa", "mastercard", "american express", "amex", "paypal",
			"apple pay", "google pay", "stripe", "bitcoin", "klarna",
			"afterpay", "venmo",
		},
		certificationKeywords: []string{
			"iso 9001", "iso 27001", "bbb accredited", "certified",
			"licensed", "insured", "pci compliant", "hipaa", "soc 2",
		},
		serviceKeywords: []string{
			"consulting", "installation", "repair", "maintenance",
			"support", "training", "delivery", "design", "development",
			"cleaning", "landscaping",
		},
		productKeywords: []string{
			"shop", "store", "product", "catalog", "inventory",
			"in stock", "out of stock", "add to cart", "checkout",
		},
	}
}

// Name returns the extractor name.
func (e *BusinessExtractor) Name() string {
	return "business"
}

// Extract builds the business sub-report.
func (e *BusinessExtractor) Extract(_ context.Context, in *Input) error {
	report := model.NewBusinessReport()
	text := in.Fields.BodyText
	lower := strings.ToLower(text)

	report.CompanyName = e.companyName(in)
	report.Hours = e.hoursRegex.FindAllString(text, -1)
	if report.Hours == nil {
		report.Hours = make([]string, 0)
	}
	report.PaymentMethods = matchKeywords(lower, e.paymentKeywords)
	report.Certifications = matchKeywords(lower, e.certificationKeywords)
	report.Services = matchKeywords(lower, e.serviceKeywords)
	report.Products = matchKeywords(lower, e.productKeywords)
	report.LastScanned = time.Now()

	in.Report.Business = report
	return nil
}

// companyName guesses the organization name from structured metadata
// first, falling back to the title tag's first segment.
func (e *BusinessExtractor) companyName(in *Input) string {
	if name := in.Fields.Meta("og:site_name"); name != "" {
		return name
	}
	if name := in.Fields.Meta("application-name"); name != "" {
		return name
	}

	// "Acme Corp | Widgets" and "Acme Corp - Widgets" both lead with
	// the organization name more often than not.
	title := in.Fields.Title
	for _, sep := range []string{" | ", " - ", " — ", " :: "} {
		if head, _, found := strings.Cut(title, sep); found {
			return strings.TrimSpace(head)
		}
	}
	return ""
}

// matchKeywords returns the keywords present in the text, deduplicated,
// in keyword-list order.
func matchKeywords(lowerText string, keywords []string) []string {
	found := make([]string, 0)
	for _, kw := range keywords {
		if strings.Contains(lowerText, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// Ensure BusinessExtractor implements Extractor.
var _ Extractor = (*BusinessExtractor)(nil)
