package analyze

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/model"
)

// SEO factor point budgets. The ten budgets sum to exactly 100 so the
// overall score needs no normalization.
const (
	seoTitlePoints     = 15
	seoMetaDescPoints  = 15
	seoHeadingsPoints  = 15
	seoImageAltPoints  = 10
	seoInternalPoints  = 10
	seoSpeedPoints     = 10
	seoViewportPoints  = 10
	seoSchemaPoints    = 5
	seoSocialPoints    = 5
	seoCanonicalPoints = 5
)

// Ideal ranges for text-length factors.
const (
	titleMinLen    = 30
	titleMaxLen    = 60
	metaDescMinLen = 120
	metaDescMaxLen = 160
)

// SEOAnalyzer computes the SEO health score: a state-free weighted
// rubric of ten independently-scored factors. Each factor has a fixed
// point budget and emits issue strings when it falls short of its ideal
// range. The factor sum is clamped to [0, 100].
type SEOAnalyzer struct{}

// NewSEOAnalyzer creates a SEOAnalyzer.
func NewSEOAnalyzer() *SEOAnalyzer {
	return &SEOAnalyzer{}
}

// Name returns the analyzer name.
func (a *SEOAnalyzer) Name() string {
	return "seo_health"
}

// Analyze builds the SEO health sub-report.
func (a *SEOAnalyzer) Analyze(_ context.Context, in *Input) error {
	report := model.NewSEOHealthReport()

	factors := []model.SEOFactor{
		a.scoreTitle(in),
		a.scoreMetaDescription(in),
		a.scoreHeadings(in),
		a.scoreImageAlt(in),
		a.scoreInternalLinks(in),
		a.scoreSpeedProxies(in),
		a.scoreViewport(in),
		a.scoreSchema(in),
		a.scoreSocialTags(in),
		a.scoreCanonicalRobots(in),
	}

	total := 0
	recommendations := make([]string, 0)
	for _, f := range factors {
		total += f.Score
		recommendations = append(recommendations, f.Issues...)
	}

	report.Factors = factors
	report.OverallScore = model.ClampScore(total)
	report.Band = model.BandForScore(report.OverallScore)
	report.Recommendations = model.CapStrings(recommendations, model.MaxRecommendations)
	report.LastAnalyzed = time.Now()

	in.Report.SEOHealth = report
	return nil
}

// scoreTitle awards full points for a title in the 30-60 character
// ideal range, partial points outside it, zero when missing.
func (a *SEOAnalyzer) scoreTitle(in *Input) model.SEOFactor {
	f := model.SEOFactor{Name: "title_tag", MaxScore: seoTitlePoints}
	title := strings.TrimSpace(in.Fields.Title)

	switch {
	case title == "":
		f.Issues = append(f.Issues, "Missing title tag")
	case len(title) < titleMinLen:
		f.Score = seoTitlePoints / 2
		f.Issues = append(f.Issues, fmt.Sprintf("Title too short (%d chars, ideal %d-%d)", len(title), titleMinLen, titleMaxLen))
	case len(title) > titleMaxLen:
		f.Score = seoTitlePoints / 2
		f.Issues = append(f.Issues, fmt.Sprintf("Title too long (%d chars, ideal %d-%d)", len(title), titleMinLen, titleMaxLen))
	default:
		f.Score = seoTitlePoints
	}
	return f
}

// scoreMetaDescription mirrors the title scoring with a 120-160 ideal.
func (a *SEOAnalyzer) scoreMetaDescription(in *Input) model.SEOFactor {
	f := model.SEOFactor{Name: "meta_description", MaxScore: seoMetaDescPoints}
	desc := strings.TrimSpace(in.Fields.Meta("description"))

	switch {
	case desc == "":
		f.Issues = append(f.Issues, "Missing meta description")
	case len(desc) < metaDescMinLen:
		f.Score = seoMetaDescPoints / 2
		f.Issues = append(f.Issues, fmt.Sprintf("Meta description too short (%d chars, ideal %d-%d)", len(desc), metaDescMinLen, metaDescMaxLen))
	case len(desc) > metaDescMaxLen:
		f.Score = seoMetaDescPoints / 2
		f.Issues = append(f.Issues, fmt.Sprintf("Meta description too long (%d chars, ideal %d-%d)", len(desc), metaDescMinLen, metaDescMaxLen))
	default:
		f.Score = seoMetaDescPoints
	}
	return f
}

// scoreHeadings wants exactly one h1 plus supporting h2 structure.
func (a *SEOAnalyzer) scoreHeadings(in *Input) model.SEOFactor {
	f := model.SEOFactor{Name: "heading_structure", MaxScore: seoHeadingsPoints}
	h1s := len(in.Fields.Headings["h1"])
	h2s := len(in.Fields.Headings["h2"])

	switch {
	case h1s == 1:
		f.Score += 8
	case h1s == 0:
		f.Issues = append(f.Issues, "Missing h1 heading")
	default:
		f.Score += 4
		f.Issues = append(f.Issues, fmt.Sprintf("Multiple h1 headings (%d); use exactly one", h1s))
	}

	if h2s > 0 {
		f.Score += 7
	} else {
		f.Issues = append(f.Issues, "No h2 headings; add section structure")
	}
	return f
}

// scoreImageAlt scores alt-text coverage proportionally.
func (a *SEOAnalyzer) scoreImageAlt(in *Input) model.SEOFactor {
	f := model.SEOFactor{Name: "image_alt_coverage", MaxScore: seoImageAltPoints}
	total := len(in.Fields.Images)
	if total == 0 {
		// No images, nothing to penalize.
		f.Score = seoImageAltPoints
		return f
	}

	withAlt := 0
	for _, img := range in.Fields.Images {
		if strings.TrimSpace(img.Alt) != "" {
			withAlt++
		}
	}

	f.Score = seoImageAltPoints * withAlt / total
	if withAlt < total {
		f.Issues = append(f.Issues, fmt.Sprintf("%d of %d images missing alt text", total-withAlt, total))
	}
	return f
}

// scoreInternalLinks rewards a healthy internal linking density.
func (a *SEOAnalyzer) scoreInternalLinks(in *Input) model.SEOFactor {
	f := model.SEOFactor{Name: "internal_linking", MaxScore: seoInternalPoints}

	internal := 0
	for _, l := range in.Fields.Links {
		if isInternalHref(l.Href, in.PageURL) {
			internal++
		}
	}

	switch {
	case internal >= 5:
		f.Score = seoInternalPoints
	case internal > 0:
		f.Score = seoInternalPoints * internal / 5
		f.Issues = append(f.Issues, fmt.Sprintf("Only %d internal links; aim for at least 5", internal))
	default:
		f.Issues = append(f.Issues, "No internal links found")
	}
	return f
}

// scoreSpeedProxies penalizes heavy script/stylesheet counts, which
// stand in for page speed without a real measurement.
func (a *SEOAnalyzer) scoreSpeedProxies(in *Input) model.SEOFactor {
	f := model.SEOFactor{Name: "page_speed_proxies", MaxScore: seoSpeedPoints}
	scripts := in.Doc.Count("script")
	styles := in.Doc.Count(`link[rel="stylesheet"]`)

	f.Score = seoSpeedPoints
	if scripts > 15 {
		f.Score -= 5
		f.Issues = append(f.Issues, fmt.Sprintf("High script count (%d); consider bundling", scripts))
	}
	if styles > 5 {
		f.Score -= 3
		f.Issues = append(f.Issues, fmt.Sprintf("High stylesheet count (%d); consider consolidation", styles))
	}
	if f.Score < 0 {
		f.Score = 0
	}
	return f
}

// scoreViewport checks for a mobile viewport meta tag.
func (a *SEOAnalyzer) scoreViewport(in *Input) model.SEOFactor {
	f := model.SEOFactor{Name: "mobile_viewport", MaxScore: seoViewportPoints}
	if in.Fields.Meta("viewport") != "" {
		f.Score = seoViewportPoints
	} else {
		f.Issues = append(f.Issues, "Missing viewport meta tag for mobile")
	}
	return f
}

// scoreSchema checks for JSON-LD or microdata markup.
func (a *SEOAnalyzer) scoreSchema(in *Input) model.SEOFactor {
	f := model.SEOFactor{Name: "schema_markup", MaxScore: seoSchemaPoints}
	if in.Doc.Count(`script[type="application/ld+json"]`) > 0 || in.Doc.Count("[itemscope]") > 0 {
		f.Score = seoSchemaPoints
	} else {
		f.Issues = append(f.Issues, "No schema.org structured data found")
	}
	return f
}

// scoreSocialTags checks Open Graph and Twitter card coverage.
func (a *SEOAnalyzer) scoreSocialTags(in *Input) model.SEOFactor {
	f := model.SEOFactor{Name: "social_tags", MaxScore: seoSocialPoints}

	hasOG := false
	hasTwitter := false
	for name := range in.Fields.MetaTags {
		if strings.HasPrefix(name, "og:") {
			hasOG = true
		}
		if strings.HasPrefix(name, "twitter:") {
			hasTwitter = true
		}
	}

	switch {
	case hasOG && hasTwitter:
		f.Score = seoSocialPoints
	case hasOG || hasTwitter:
		f.Score = seoSocialPoints - 2
		f.Issues = append(f.Issues, "Partial social tag coverage; add both Open Graph and Twitter cards")
	default:
		f.Issues = append(f.Issues, "No Open Graph or Twitter card tags")
	}
	return f
}

// scoreCanonicalRobots checks for a canonical link and robots directives
// that do not block indexing.
func (a *SEOAnalyzer) scoreCanonicalRobots(in *Input) model.SEOFactor {
	f := model.SEOFactor{Name: "canonical_robots", MaxScore: seoCanonicalPoints}

	hasCanonical := in.Doc.Count(`link[rel="canonical"]`) > 0
	robots := strings.ToLower(in.Fields.Meta("robots"))

	if hasCanonical {
		f.Score += 3
	} else {
		f.Issues = append(f.Issues, "Missing canonical link")
	}

	if strings.Contains(robots, "noindex") {
		f.Issues = append(f.Issues, "Robots meta blocks indexing (noindex)")
	} else {
		f.Score += 2
	}
	return f
}

// isInternalHref reports whether a raw href stays on the page's host.
func isInternalHref(href string, pageURL *url.URL) bool {
	href = strings.TrimSpace(href)
	if href == "" {
		return false
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "javascript:") {
		return false
	}

	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Host == "" {
		// Relative paths and fragments stay on the page.
		return true
	}
	if pageURL == nil {
		return false
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.") ==
		strings.TrimPrefix(strings.ToLower(pageURL.Hostname()), "www.")
}

// Ensure SEOAnalyzer implements Analyzer.
var _ Analyzer = (*SEOAnalyzer)(nil)
