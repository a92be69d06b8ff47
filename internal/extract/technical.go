package extract

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagelens/pagelens/internal/model"
)

// TechnicalExtractor fingerprints the page's technology stack: generator
// meta, frontend frameworks, analytics identifiers, schema markup, and
// rough page-weight proxies.
type TechnicalExtractor struct {
	// frameworkSignatures maps display names to markup substrings that
	// betray the framework's presence.
	frameworkSignatures map[string][]string

	// analyticsRegexes detect tracking identifiers in script content.
	analyticsRegexes []*regexp.Regexp
}

// NewTechnicalExtractor creates a TechnicalExtractor.
func NewTechnicalExtractor() *TechnicalExtractor {
	return &TechnicalExtractor{
		frameworkSignatures: map[string][]string{
			"React":     {"data-reactroot", "react-dom", "__NEXT_DATA__", "_react"},
			"Vue":       {"data-v-", "vue.js", "vue.min.js", "__vue__"},
			"Angular":   {"ng-version", "ng-app", "angular.js", "angular.min.js"},
			"jQuery":    {"jquery.js", "jquery.min.js"},
			"WordPress": {"wp-content", "wp-includes"},
			"Shopify":   {"cdn.shopify.com", "shopify"},
			"Bootstrap": {"bootstrap.css", "bootstrap.min.css", "bootstrap.js"},
			"Tailwind":  {"tailwind.css", "tailwindcss"},
			"Svelte":    {"svelte-"},
			"Next.js":   {"__NEXT_DATA__", "_next/static"},
			"Gatsby":    {"___gatsby"},
			"Drupal":    {"drupal.js", "sites/default/files"},
		},
		analyticsRegexes: []*regexp.Regexp{
			regexp.MustCompile(`G-[A-Z0-9]{8,12}`),       // GA4
			regexp.MustCompile(`UA-\d{4,10}-\d{1,4}`),    // Universal Analytics
			regexp.MustCompile(`GTM-[A-Z0-9]{4,10}`),     // Tag Manager
			regexp.MustCompile(`fbq\('init',\s*'(\d+)'`), // Meta Pixel
		},
	}
}

// Name returns the extractor name.
func (e *TechnicalExtractor) Name() string {
	return "technical"
}

// Extract builds the technical sub-report.
func (e *TechnicalExtractor) Extract(_ context.Context, in *Input) error {
	report := model.NewTechnicalReport()

	report.Generator = in.Fields.Meta("generator")
	report.Viewport = in.Fields.Meta("viewport")
	report.Charset = e.charset(in)
	report.StylesheetCount = in.Doc.Count(`link[rel="stylesheet"]`)
	report.ScriptCount = in.Doc.Count("script")
	report.HasSchemaMarkup = in.Doc.Count(`script[type="application/ld+json"]`) > 0 ||
		in.Doc.Count("[itemscope]") > 0

	// Fingerprint from the whole markup: scripts, links, and attributes.
	var markup strings.Builder
	in.Doc.Find("script, link").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			markup.WriteString(src)
			markup.WriteString(" ")
		}
		if href, ok := s.Attr("href"); ok {
			markup.WriteString(href)
			markup.WriteString(" ")
		}
		markup.WriteString(s.Text())
		markup.WriteString(" ")
	})
	if htmlStr, err := in.Doc.Find("html").Html(); err == nil {
		// Attribute-level signatures (data-reactroot, ng-version, data-v-)
		// only appear in raw markup.
		markup.WriteString(htmlStr[:min(len(htmlStr), 64*1024)])
	}
	body := markup.String()

	report.Frameworks = e.detectFrameworks(body)
	report.AnalyticsIDs = e.detectAnalytics(body)
	report.LastScanned = time.Now()

	in.Report.Technical = report
	return nil
}

// charset returns the declared character set from either meta form.
func (e *TechnicalExtractor) charset(in *Input) string {
	if cs, ok := in.Doc.Find("meta[charset]").First().Attr("charset"); ok {
		return cs
	}
	if ct := in.Fields.Meta("content-type"); ct != "" {
		if _, cs, found := strings.Cut(strings.ToLower(ct), "charset="); found {
			return strings.TrimSpace(cs)
		}
	}
	return ""
}

// detectFrameworks returns framework names whose signatures appear in
// the markup, in stable order.
func (e *TechnicalExtractor) detectFrameworks(markup string) []string {
	lower := strings.ToLower(markup)
	found := make([]string, 0)

	// Stable iteration order for deterministic reports.
	names := []string{
		"React", "Next.js", "Vue", "Angular", "Svelte", "Gatsby",
		"jQuery", "Bootstrap", "Tailwind", "WordPress", "Shopify", "Drupal",
	}
	for _, name := range names {
		for _, sig := range e.frameworkSignatures[name] {
			if strings.Contains(lower, strings.ToLower(sig)) {
				found = append(found, name)
				break
			}
		}
	}
	return found
}

// detectAnalytics returns deduplicated tracking identifiers.
func (e *TechnicalExtractor) detectAnalytics(markup string) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, re := range e.analyticsRegexes {
		for _, m := range re.FindAllString(markup, -1) {
			if !seen[m] {
				seen[m] = true
				ids = append(ids, m)
			}
		}
	}
	return ids
}

// Ensure TechnicalExtractor implements Extractor.
var _ Extractor = (*TechnicalExtractor)(nil)
