package model

import (
	"encoding/json"
	"testing"
)

// TestNewExtractionReport tests that every sub-report starts at its
// documented empty value.
func TestNewExtractionReport(t *testing.T) {
	t.Parallel()

	report := NewExtractionReport("https://example.com/products?page=2")

	if report.Page.URL != "https://example.com/products?page=2" {
		t.Errorf("unexpected URL: %s", report.Page.URL)
	}
	if report.Page.Domain != "example.com" {
		t.Errorf("unexpected domain: %s", report.Page.Domain)
	}
	if report.Page.Protocol != "https" {
		t.Errorf("unexpected protocol: %s", report.Page.Protocol)
	}
	if report.Page.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	// Consumers never nil-check sub-reports.
	if report.SEOHealth == nil || report.PriceTracking == nil || report.Blueprint == nil {
		t.Fatal("expected scoring sub-reports to be initialized")
	}
	if report.Business == nil || report.Technical == nil || report.Content == nil ||
		report.Patterns == nil || report.Contact == nil || report.Links == nil || report.Media == nil {
		t.Fatal("expected extraction sub-reports to be initialized")
	}

	if report.SEOHealth.Band != BandPoor {
		t.Errorf("empty SEO report band = %v, want Poor", report.SEOHealth.Band)
	}
	if report.AIInsights != nil {
		t.Error("expected no AI insights on a fresh report")
	}
}

// TestExtractionReport_JSONRoundTrip tests that a full report survives
// marshal and unmarshal, band fields included. Stored report history
// depends on this.
func TestExtractionReport_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	report := NewExtractionReport("https://example.com/pricing")
	report.Content.Title = "Pricing"
	report.SEOHealth.OverallScore = 85
	report.SEOHealth.Band = BandExcellent
	report.Blueprint.Quality.Score = 55
	report.Blueprint.Quality.Band = BandFair
	report.Summary.DataQuality = 70

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded ExtractionReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded.Content.Title != "Pricing" {
		t.Errorf("title = %q, want Pricing", decoded.Content.Title)
	}
	if decoded.SEOHealth.OverallScore != 85 || decoded.SEOHealth.Band != BandExcellent {
		t.Errorf("seo health = %d/%v, want 85/Excellent",
			decoded.SEOHealth.OverallScore, decoded.SEOHealth.Band)
	}
	if decoded.Blueprint.Quality.Band != BandFair {
		t.Errorf("quality band = %v, want Fair", decoded.Blueprint.Quality.Band)
	}
	if decoded.Summary.DataQuality != 70 {
		t.Errorf("data quality = %d, want 70", decoded.Summary.DataQuality)
	}
}

// TestExtractionReport_MarkDegraded tests degraded-stage bookkeeping.
func TestExtractionReport_MarkDegraded(t *testing.T) {
	t.Parallel()

	report := NewExtractionReport("https://example.com")

	report.MarkDegraded("seo_health")
	report.MarkDegraded("price_tracking")
	report.MarkDegraded("seo_health") // duplicate is ignored

	if len(report.DegradedStages) != 2 {
		t.Fatalf("expected 2 degraded stages, got %d: %v", len(report.DegradedStages), report.DegradedStages)
	}
	if report.DegradedStages[0] != "seo_health" || report.DegradedStages[1] != "price_tracking" {
		t.Errorf("unexpected degraded stages: %v", report.DegradedStages)
	}
}

// TestExtractionReport_Meta tests the boundary metadata block.
func TestExtractionReport_Meta(t *testing.T) {
	t.Parallel()

	report := NewExtractionReport("https://example.com")
	report.Summary.TotalElements = 42
	report.UsedFallback = true

	meta := report.Meta("csv")

	if meta.URL != "https://example.com" {
		t.Errorf("unexpected metadata URL: %s", meta.URL)
	}
	if meta.Format != "csv" {
		t.Errorf("unexpected metadata format: %s", meta.Format)
	}
	if meta.ElementsFound != 42 {
		t.Errorf("unexpected elements found: %d", meta.ElementsFound)
	}
	if meta.ScraperUsed != "basic" {
		t.Errorf("scraperUsed = %s, want basic after fallback", meta.ScraperUsed)
	}
	if meta.AIEnhanced {
		t.Error("expected aiEnhanced false without insights")
	}

	report.UsedFallback = false
	report.AIInsights = &AIInsights{BusinessInsights: "b2b retail"}

	meta = report.Meta("json")
	if meta.ScraperUsed != "enhanced" {
		t.Errorf("scraperUsed = %s, want enhanced", meta.ScraperUsed)
	}
	if !meta.AIEnhanced {
		t.Error("expected aiEnhanced true with insights attached")
	}
}

// TestFetchResult_ScraperMode tests the fetch-tier label.
func TestFetchResult_ScraperMode(t *testing.T) {
	t.Parallel()

	enhanced := &FetchResult{UsedFallback: false}
	if enhanced.ScraperMode() != "enhanced" {
		t.Errorf("ScraperMode() = %s, want enhanced", enhanced.ScraperMode())
	}

	basic := &FetchResult{UsedFallback: true}
	if basic.ScraperMode() != "basic" {
		t.Errorf("ScraperMode() = %s, want basic", basic.ScraperMode())
	}
}

// TestLinkReport_Add tests category partitioning and the total invariant.
func TestLinkReport_Add(t *testing.T) {
	t.Parallel()

	report := NewLinkReport()
	report.Add(LinkEmail, CategorizedLink{URL: "mailto:a@example.com"})
	report.Add(LinkInternal, CategorizedLink{URL: "/about"})
	report.Add(LinkInternal, CategorizedLink{URL: "/contact"})
	report.Add(LinkExternal, CategorizedLink{URL: "https://other.com"})
	report.Add(LinkCategory("bogus"), CategorizedLink{URL: "https://fallback.com"})

	if report.Total != 5 {
		t.Errorf("Total = %d, want 5", report.Total)
	}

	counts := report.CategoryCounts()
	if counts[LinkEmail] != 1 || counts[LinkInternal] != 2 {
		t.Errorf("unexpected category counts: %v", counts)
	}
	// Unknown categories land in external.
	if counts[LinkExternal] != 2 {
		t.Errorf("external count = %d, want 2", counts[LinkExternal])
	}

	sum := 0
	for _, n := range counts {
		sum += n
	}
	if sum != report.Total {
		t.Errorf("category sum %d != total %d", sum, report.Total)
	}
}
