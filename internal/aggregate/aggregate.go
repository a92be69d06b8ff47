package aggregate

import (
	"strings"

	"github.com/pagelens/pagelens/internal/model"
)

// Content richness bands by total element count.
const (
	richnessMediumFloor = 50
	richnessHighFloor   = 200
)

// Data quality rubric weights. Title and meta description dominate so a
// page missing both cannot score above 40.
const (
	qualityTitlePoints     = 30
	qualityMetaDescPoints  = 30
	qualityHeadingPoints   = 20
	qualityParagraphPoints = 20
)

// Scraping difficulty signal thresholds.
const (
	difficultyExternalLinks = 40
	difficultyImages        = 30
)

// spaFrameworks are frameworks whose presence implies client-side
// rendering, raising the scraping difficulty.
var spaFrameworks = []string{"react", "vue", "angular", "next.js", "svelte", "gatsby"}

// Aggregator derives the Summary block from a report's sub-reports.
// It mutates only report.Summary; every sub-report is read-only here.
type Aggregator struct{}

// NewAggregator creates an Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Summarize computes the cross-cutting summary metrics and attaches them
// to the report. It tolerates empty sub-reports: a fully-degraded report
// summarizes to zero values rather than failing.
func (a *Aggregator) Summarize(report *model.ExtractionReport) {
	s := model.Summary{
		TotalElements:       report.Blueprint.Distribution.TotalElements,
		OverallContentScore: report.Blueprint.Quality.Score,
		PriceAlertsActive:   len(report.PriceTracking.AlertTriggers) > 0,
	}

	s.ContentRichness = richness(s.TotalElements)
	s.DataQuality = dataQuality(report.Content)
	s.ScrapingDifficulty = difficulty(report)
	s.CommercialValue = commercialValue(report)

	report.Summary = s
}

// richness bands the total element count.
func richness(total int) string {
	switch {
	case total >= richnessHighFloor:
		return "High"
	case total >= richnessMediumFloor:
		return "Medium"
	default:
		return "Low"
	}
}

// dataQuality scores the presence of the basic content fields.
func dataQuality(content *model.ContentReport) int {
	score := 0
	if strings.TrimSpace(content.Title) != "" {
		score += qualityTitlePoints
	}
	if strings.TrimSpace(content.MetaDescription) != "" {
		score += qualityMetaDescPoints
	}
	if len(content.Headings) > 0 {
		score += qualityHeadingPoints
	}
	if content.ParagraphCount > 0 {
		score += qualityParagraphPoints
	}
	return model.ClampScore(score)
}

// difficulty estimates how hard the page is to scrape. SPA frameworks
// weigh double because they usually require JS rendering.
func difficulty(report *model.ExtractionReport) string {
	points := 0

	for _, fw := range report.Technical.Frameworks {
		lower := strings.ToLower(fw)
		for _, spa := range spaFrameworks {
			if lower == spa {
				points += 2
				break
			}
		}
	}

	if len(report.Links.External) > difficultyExternalLinks {
		points++
	}
	if len(report.Media.Images) > difficultyImages {
		points++
	}

	switch {
	case points >= 3:
		return "Hard"
	case points >= 1:
		return "Medium"
	default:
		return "Easy"
	}
}

// commercialValue is true when pricing or business signals indicate the
// page sells something.
func commercialValue(report *model.ExtractionReport) bool {
	if len(report.PriceTracking.Prices) > 0 || len(report.PriceTracking.Discounts) > 0 {
		return true
	}
	if len(report.Business.PaymentMethods) > 0 || len(report.Business.Products) > 0 {
		return true
	}
	return false
}
