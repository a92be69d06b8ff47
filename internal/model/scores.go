package model

import "time"

// Scoring sub-reports produced by internal/analyze.

// SEOFactor is one independently-scored factor of the SEO health rubric.
type SEOFactor struct {
	// Name identifies the factor (e.g. "title_tag").
	Name string `json:"name"`

	// Score is the points awarded, in [0, MaxScore].
	Score int `json:"score"`

	// MaxScore is the factor's fixed point budget.
	MaxScore int `json:"max_score"`

	// Issues contains human-readable problems when the factor falls
	// short of its ideal range.
	Issues []string `json:"issues,omitempty"`
}

// SEOHealthReport is the weighted SEO rubric result.
type SEOHealthReport struct {
	// OverallScore is the factor sum, clamped to [0, 100].
	OverallScore int `json:"overall_score"`

	// Band is the health band for OverallScore.
	Band Band `json:"band"`

	// Factors lists the per-factor breakdown in rubric order.
	Factors []SEOFactor `json:"factors"`

	// Recommendations is the concatenation of all factor issues,
	// truncated to MaxRecommendations entries.
	Recommendations []string `json:"recommendations"`

	// LastAnalyzed is when this sub-report was produced.
	LastAnalyzed time.Time `json:"last_analyzed"`
}

// NewSEOHealthReport returns the documented empty SEOHealthReport.
// A zero-signal page scores 0 and bands Poor.
func NewSEOHealthReport() *SEOHealthReport {
	return &SEOHealthReport{
		Band:            BandPoor,
		Factors:         make([]SEOFactor, 0),
		Recommendations: make([]string, 0),
		LastAnalyzed:    time.Now(),
	}
}

// Price is one detected price, deduplicated by (Value, Currency).
type Price struct {
	// Raw is the matched text.
	Raw string `json:"raw"`

	// Value is the parsed numeric value.
	Value float64 `json:"value"`

	// Currency is the guessed ISO-ish currency code (USD, EUR, GBP...).
	Currency string `json:"currency"`

	// SaleContext is true when the match appeared near sale wording.
	SaleContext bool `json:"sale_context"`
}

// Discount is one detected discount, deduplicated by raw text.
type Discount struct {
	// Raw is the matched text.
	Raw string `json:"raw"`

	// Percentage is the discount percentage, 0 when unknown.
	Percentage float64 `json:"percentage"`

	// Amount is the absolute discount amount, 0 when unknown.
	Amount float64 `json:"amount"`
}

// OfferCategory classifies a sale/offer mention.
type OfferCategory string

// Offer categories recognized by the price analyzer.
const (
	OfferFreeShipping OfferCategory = "free_shipping"
	OfferBOGO         OfferCategory = "bogo"
	OfferClearance    OfferCategory = "clearance"
	OfferLimitedTime  OfferCategory = "limited_time"
	OfferCoupon       OfferCategory = "coupon"
	OfferGeneral      OfferCategory = "general_offer"
)

// Urgency is the urgency tier assigned to an offer.
type Urgency string

// Urgency tiers. High is assigned for flash/limited-time wording,
// medium for generic sale words, low otherwise.
const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Offer is one detected sale/offer mention, deduplicated by text.
type Offer struct {
	Text     string        `json:"text"`
	Category OfferCategory `json:"category"`
	Urgency  Urgency       `json:"urgency"`
}

// AlertType identifies the kind of price alert derived from the page.
type AlertType string

// Alert types derived from price and discount co-occurrence.
const (
	AlertPriceDrop        AlertType = "price_drop"
	AlertHighDiscount     AlertType = "high_discount"
	AlertModerateDiscount AlertType = "moderate_discount"
)

// AlertSeverity grades an alert.
type AlertSeverity string

// Alert severities.
const (
	AlertSeverityHigh   AlertSeverity = "high"
	AlertSeverityMedium AlertSeverity = "medium"
)

// Alert is a derived pricing signal worth surfacing to the caller.
type Alert struct {
	Type     AlertType     `json:"type"`
	Severity AlertSeverity `json:"severity"`
	Detail   string        `json:"detail"`
}

// PriceStats summarizes the deduplicated price/discount/offer sets.
type PriceStats struct {
	PriceCount    int     `json:"price_count"`
	DiscountCount int     `json:"discount_count"`
	OfferCount    int     `json:"offer_count"`
	UrgentOffers  int     `json:"urgent_offers"`
	AveragePrice  float64 `json:"average_price"`
	MinPrice      float64 `json:"min_price"`
	MaxPrice      float64 `json:"max_price"`
}

// PriceTrackingReport is the pricing-signal analysis result.
type PriceTrackingReport struct {
	Prices    []Price    `json:"prices"`
	Discounts []Discount `json:"discounts"`
	Offers    []Offer    `json:"offers"`

	// AlertTriggers contains alerts derived from prices and discounts.
	AlertTriggers []Alert `json:"alert_triggers"`

	// Stats summarizes the deduplicated sets.
	Stats PriceStats `json:"stats"`

	// LastAnalyzed is when this sub-report was produced.
	LastAnalyzed time.Time `json:"last_analyzed"`
}

// NewPriceTrackingReport returns the documented empty PriceTrackingReport.
func NewPriceTrackingReport() *PriceTrackingReport {
	return &PriceTrackingReport{
		Prices:        make([]Price, 0),
		Discounts:     make([]Discount, 0),
		Offers:        make([]Offer, 0),
		AlertTriggers: make([]Alert, 0),
		LastAnalyzed:  time.Now(),
	}
}

// CategoryShare is one content-type category's share of page elements.
type CategoryShare struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// ContentDistribution buckets DOM elements into five categories.
type ContentDistribution struct {
	Textual     CategoryShare `json:"textual"`
	Media       CategoryShare `json:"media"`
	Interactive CategoryShare `json:"interactive"`
	Structural  CategoryShare `json:"structural"`
	Specialized CategoryShare `json:"specialized"`

	// PrimaryType is the category with the highest percentage.
	PrimaryType string `json:"primary_type"`

	// TotalElements is the count across all five categories.
	TotalElements int `json:"total_elements"`
}

// VolumeMetrics holds word/sentence/paragraph counts and derivatives.
type VolumeMetrics struct {
	Words               int     `json:"words"`
	Sentences           int     `json:"sentences"`
	Paragraphs          int     `json:"paragraphs"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`

	// ReadingTimeMinutes is ceil(words / 200).
	ReadingTimeMinutes int `json:"reading_time_minutes"`

	// Rating bands by word count: <300 Short, <1000 Medium,
	// <2500 Long, else Very Long.
	Rating string `json:"rating"`
}

// QualityMetrics is the additive content-quality score.
type QualityMetrics struct {
	Score   int      `json:"score"`
	Band    Band     `json:"band"`
	Signals []string `json:"signals,omitempty"`
}

// ReadabilityMetrics holds the Flesch formula results.
type ReadabilityMetrics struct {
	// FleschReadingEase is clamped to [0, 100].
	FleschReadingEase float64 `json:"flesch_reading_ease"`

	// FleschKincaidGrade is the US grade-level estimate.
	FleschKincaidGrade float64 `json:"flesch_kincaid_grade"`

	// Level is one of the seven standard readability levels.
	Level string `json:"level"`
}

// EngagementMetrics is the weighted, capped engagement score.
type EngagementMetrics struct {
	Score            int `json:"score"`
	CTACount         int `json:"cta_count"`
	FormCount        int `json:"form_count"`
	InteractiveCount int `json:"interactive_count"`
	ShareCount       int `json:"share_count"`
}

// TopicCluster pairs a frequent keyword with a heading that mentions it.
type TopicCluster struct {
	Topic     string `json:"topic"`
	Heading   string `json:"heading"`
	Frequency int    `json:"frequency"`
}

// ContentBlueprintReport is the composite content-quality model.
type ContentBlueprintReport struct {
	Distribution ContentDistribution `json:"distribution"`
	Volume       VolumeMetrics       `json:"volume"`
	Quality      QualityMetrics      `json:"quality"`
	Readability  ReadabilityMetrics  `json:"readability"`
	Engagement   EngagementMetrics   `json:"engagement"`

	// TopicClusters contains up to ten heading/topic pairs.
	TopicClusters []TopicCluster `json:"topic_clusters"`

	// Strategy contains rule-based content recommendations.
	Strategy []string `json:"strategy"`

	// Gaps flags missing content elements (FAQs, CTAs, testimonials...).
	Gaps []string `json:"gaps"`

	// LastAnalyzed is when this sub-report was produced.
	LastAnalyzed time.Time `json:"last_analyzed"`
}

// NewContentBlueprintReport returns the documented empty blueprint report.
func NewContentBlueprintReport() *ContentBlueprintReport {
	return &ContentBlueprintReport{
		Quality:       QualityMetrics{Band: BandPoor},
		Volume:        VolumeMetrics{Rating: "Short"},
		TopicClusters: make([]TopicCluster, 0),
		Strategy:      make([]string, 0),
		Gaps:          make([]string, 0),
		LastAnalyzed:  time.Now(),
	}
}
