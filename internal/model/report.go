package model

import (
	"net/url"
	"time"
)

// FetchResult is the outcome of a successful page fetch.
// It is produced once per request and immutable after creation.
type FetchResult struct {
	// HTML is the raw page markup returned by the fetch proxy.
	HTML string `json:"-"`

	// UsedFallback is true when the enhanced fetch attempt failed and
	// the basic fallback tier produced this result.
	UsedFallback bool `json:"used_fallback"`

	// FetchedAt is when the fetch completed.
	FetchedAt time.Time `json:"fetched_at"`
}

// ScraperMode reports which fetch tier produced the page.
func (f *FetchResult) ScraperMode() string {
	if f.UsedFallback {
		return "basic"
	}
	return "enhanced"
}

// PageInfo identifies the analyzed page.
type PageInfo struct {
	// URL is the requested URL.
	URL string `json:"url"`

	// Domain is the URL's host.
	Domain string `json:"domain"`

	// Protocol is the URL scheme (http or https).
	Protocol string `json:"protocol"`

	// Timestamp is when the report was created.
	Timestamp time.Time `json:"timestamp"`
}

// Summary holds cross-cutting metrics derived by the aggregator.
// Only the aggregator reads across sub-reports; no analyzer may depend
// on another analyzer's output.
type Summary struct {
	// TotalElements is the page's element count from the blueprint
	// distribution.
	TotalElements int `json:"total_elements"`

	// ContentRichness bands the structural element count: Low, Medium, High.
	ContentRichness string `json:"content_richness"`

	// DataQuality is a weighted rubric over title/meta/heading/paragraph
	// presence, capped at 100.
	DataQuality int `json:"data_quality"`

	// ScrapingDifficulty is an Easy/Medium/Hard heuristic over external
	// link volume, image volume, and SPA framework keywords.
	ScrapingDifficulty string `json:"scraping_difficulty"`

	// OverallContentScore mirrors the blueprint quality score.
	OverallContentScore int `json:"overall_content_score"`

	// PriceAlertsActive is true when the price analyzer derived alerts.
	PriceAlertsActive bool `json:"price_alerts_active"`

	// CommercialValue is true when pricing or business signals indicate
	// a commercial page.
	CommercialValue bool `json:"commercial_value"`

	// BusinessIntelligence is a short label derived from AI enrichment,
	// empty when enrichment did not run.
	BusinessIntelligence string `json:"business_intelligence,omitempty"`

	// ContentQualityLabel is a short label derived from AI enrichment.
	ContentQualityLabel string `json:"content_quality_label,omitempty"`
}

// AIInsights is the structured insight block parsed from the enrichment
// model's fenced JSON response. Absent when enrichment is unconfigured
// or failed; enrichment failure never fails the pipeline.
type AIInsights struct {
	BusinessInsights      string   `json:"businessInsights"`      //nolint:tagliatelle // upstream schema
	ContentAnalysis       string   `json:"contentAnalysis"`       //nolint:tagliatelle // upstream schema
	TechnicalInsights     string   `json:"technicalInsights"`     //nolint:tagliatelle // upstream schema
	DataExtractionSummary string   `json:"dataExtractionSummary"` //nolint:tagliatelle // upstream schema
	ActionableInsights    []string `json:"actionableInsights"`    //nolint:tagliatelle // upstream schema
}

// Metadata is the boundary metadata returned alongside a serialized report.
type Metadata struct {
	URL           string    `json:"url"`
	Timestamp     time.Time `json:"timestamp"`
	Format        string    `json:"format"`
	ElementsFound int       `json:"elements_found"`
	ScraperUsed   string    `json:"scraper_used"`
	AIEnhanced    bool      `json:"ai_enhanced"`
}

// ExtractionReport is the canonical aggregate report for one request.
// It is created once per request and immutable after the pipeline
// completes. The core never persists it; storage belongs to callers.
//
// Design decision: every sub-report pointer is initialized by
// NewExtractionReport so a failed analyzer degrades to its documented
// empty value instead of a nil field. Consumers never nil-check.
type ExtractionReport struct {
	// Page identifies the analyzed page.
	Page PageInfo `json:"page"`

	// === Sub-reports ===

	SEOHealth     *SEOHealthReport        `json:"seo_health"`
	PriceTracking *PriceTrackingReport    `json:"price_tracking"`
	Blueprint     *ContentBlueprintReport `json:"content_blueprint"`
	Business      *BusinessReport         `json:"business"`
	Technical     *TechnicalReport        `json:"technical"`
	Content       *ContentReport          `json:"content"`
	Patterns      *PatternReport          `json:"patterns"`
	Contact       *ContactReport          `json:"contact"`
	Links         *LinkReport             `json:"links"`
	Media         *MediaReport            `json:"media"`

	// Summary holds cross-cutting derived metrics.
	Summary Summary `json:"summary"`

	// AIInsights is the optional enrichment block.
	AIInsights *AIInsights `json:"ai_insights,omitempty"`

	// UsedFallback records which fetch tier produced the page.
	UsedFallback bool `json:"used_fallback"`

	// DegradedStages lists analyzers that failed and were replaced by
	// their empty values. Informational only; the report is still valid.
	DegradedStages []string `json:"degraded_stages,omitempty"`
}

// NewExtractionReport creates a report for the given URL with every
// sub-report at its documented empty value.
func NewExtractionReport(rawURL string) *ExtractionReport {
	page := PageInfo{URL: rawURL, Timestamp: time.Now()}
	if u, err := url.Parse(rawURL); err == nil {
		page.Domain = u.Hostname()
		page.Protocol = u.Scheme
	}

	return &ExtractionReport{
		Page:          page,
		SEOHealth:     NewSEOHealthReport(),
		PriceTracking: NewPriceTrackingReport(),
		Blueprint:     NewContentBlueprintReport(),
		Business:      NewBusinessReport(),
		Technical:     NewTechnicalReport(),
		Content:       NewContentReport(),
		Patterns:      NewPatternReport(),
		Contact:       NewContactReport(),
		Links:         NewLinkReport(),
		Media:         NewMediaReport(),
	}
}

// MarkDegraded records that the named stage failed and degraded to its
// empty value.
func (r *ExtractionReport) MarkDegraded(stage string) {
	for _, s := range r.DegradedStages {
		if s == stage {
			return
		}
	}
	r.DegradedStages = append(r.DegradedStages, stage)
}

// ElementsFound is the element count surfaced in boundary metadata.
func (r *ExtractionReport) ElementsFound() int {
	return r.Summary.TotalElements
}

// ScraperUsed reports which fetch tier produced the page.
func (r *ExtractionReport) ScraperUsed() string {
	if r.UsedFallback {
		return "basic"
	}
	return "enhanced"
}

// Meta builds the boundary metadata for this report.
func (r *ExtractionReport) Meta(format string) Metadata {
	return Metadata{
		URL:           r.Page.URL,
		Timestamp:     r.Page.Timestamp,
		Format:        format,
		ElementsFound: r.ElementsFound(),
		ScraperUsed:   r.ScraperUsed(),
		AIEnhanced:    r.AIInsights != nil,
	}
}
