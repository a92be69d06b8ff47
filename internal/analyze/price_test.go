package analyze

import (
	"context"
	"testing"

	"github.com/pagelens/pagelens/internal/model"
)

// TestPriceAnalyzer_SaleScenario tests the canonical sale page: a
// was/now price pair plus a percentage discount must trigger both a
// price drop and a high discount alert.
func TestPriceAnalyzer_SaleScenario(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<h1>Weekend Sale</h1>
		<p>Deluxe widget was $100 now $50. That is 50% off while stock lasts.</p>
	</body></html>`

	in := newTestInput(t, html, "https://shop.example.com")
	a := NewPriceAnalyzer()

	if err := a.Analyze(context.Background(), in); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	report := in.Report.PriceTracking
	if len(report.Prices) < 2 {
		t.Fatalf("prices = %v, want at least the was/now pair", report.Prices)
	}
	if len(report.Discounts) == 0 {
		t.Fatal("expected discounts to be detected")
	}

	types := make(map[model.AlertType]model.AlertSeverity)
	for _, alert := range report.AlertTriggers {
		types[alert.Type] = alert.Severity
	}

	if _, ok := types[model.AlertPriceDrop]; !ok {
		t.Errorf("expected a price_drop alert, got %v", report.AlertTriggers)
	}
	if sev, ok := types[model.AlertHighDiscount]; !ok || sev != model.AlertSeverityHigh {
		t.Errorf("expected a high-severity high_discount alert, got %v", report.AlertTriggers)
	}
}

// TestPriceAnalyzer_ModerateDiscount tests the 25 percent threshold.
func TestPriceAnalyzer_ModerateDiscount(t *testing.T) {
	t.Parallel()

	html := `<html><body><p>Spring sale: everything 30% off this week.</p></body></html>`

	in := newTestInput(t, html, "https://shop.example.com")
	a := NewPriceAnalyzer()

	if err := a.Analyze(context.Background(), in); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	report := in.Report.PriceTracking
	if len(report.Discounts) != 1 || report.Discounts[0].Percentage != 30 {
		t.Fatalf("discounts = %v, want the 30%% entry", report.Discounts)
	}

	var found bool
	for _, alert := range report.AlertTriggers {
		if alert.Type == model.AlertModerateDiscount && alert.Severity == model.AlertSeverityMedium {
			found = true
		}
		if alert.Type == model.AlertHighDiscount {
			t.Errorf("30%% must not trigger a high discount alert: %v", alert)
		}
	}
	if !found {
		t.Errorf("expected a moderate_discount alert, got %v", report.AlertTriggers)
	}
}

// TestPriceAnalyzer_FullDiscount tests that a three-digit percentage
// discount is detected and raises a high discount alert.
func TestPriceAnalyzer_FullDiscount(t *testing.T) {
	t.Parallel()

	html := `<html><body><p>Final day of clearance: accessories are 100% off with any purchase.</p></body></html>`

	in := newTestInput(t, html, "https://shop.example.com")
	a := NewPriceAnalyzer()

	if err := a.Analyze(context.Background(), in); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	report := in.Report.PriceTracking
	if len(report.Discounts) != 1 || report.Discounts[0].Percentage != 100 {
		t.Fatalf("discounts = %v, want the 100%% entry", report.Discounts)
	}

	var found bool
	for _, alert := range report.AlertTriggers {
		if alert.Type == model.AlertHighDiscount && alert.Severity == model.AlertSeverityHigh {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a high_discount alert, got %v", report.AlertTriggers)
	}
}

// TestPriceAnalyzer_Dedup tests price dedup by (value, currency) and
// offer dedup by text.
func TestPriceAnalyzer_Dedup(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<p>Widget A costs $19.99.</p>
		<p>Widget B costs $19.99.</p>
		<p>Widget C costs €19.99.</p>
	</body></html>`

	in := newTestInput(t, html, "https://shop.example.com")
	a := NewPriceAnalyzer()

	if err := a.Analyze(context.Background(), in); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	prices := in.Report.PriceTracking.Prices
	if len(prices) != 2 {
		t.Fatalf("prices = %v, want 2 (same value in two currencies)", prices)
	}

	currencies := map[string]bool{}
	for _, p := range prices {
		if p.Value != 19.99 {
			t.Errorf("price value = %v, want 19.99", p.Value)
		}
		currencies[p.Currency] = true
	}
	if !currencies["USD"] || !currencies["EUR"] {
		t.Errorf("currencies = %v, want USD and EUR", currencies)
	}
}

// TestPriceAnalyzer_NoSignals tests the empty result on price-free text.
func TestPriceAnalyzer_NoSignals(t *testing.T) {
	t.Parallel()

	html := `<html><body><p>We write about gardening and composting techniques.</p></body></html>`

	in := newTestInput(t, html, "https://blog.example.com")
	a := NewPriceAnalyzer()

	if err := a.Analyze(context.Background(), in); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	report := in.Report.PriceTracking
	if len(report.Prices) != 0 || len(report.Discounts) != 0 || len(report.AlertTriggers) != 0 {
		t.Errorf("expected empty price report, got %+v", report)
	}
	if report.Stats.PriceCount != 0 || report.Stats.AveragePrice != 0 {
		t.Errorf("expected zero stats, got %+v", report.Stats)
	}
}

// TestPriceAnalyzer_Stats tests min/max/average over the deduplicated set.
func TestPriceAnalyzer_Stats(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<p>Basic plan $10. Pro plan $20. Enterprise plan $60.</p>
	</body></html>`

	in := newTestInput(t, html, "https://shop.example.com")
	a := NewPriceAnalyzer()

	if err := a.Analyze(context.Background(), in); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	stats := in.Report.PriceTracking.Stats
	if stats.PriceCount != 3 {
		t.Fatalf("price count = %d, want 3", stats.PriceCount)
	}
	if stats.MinPrice != 10 || stats.MaxPrice != 60 {
		t.Errorf("range = [%v, %v], want [10, 60]", stats.MinPrice, stats.MaxPrice)
	}
	if stats.AveragePrice != 30 {
		t.Errorf("average = %v, want 30", stats.AveragePrice)
	}
}

// TestClassifyOffer tests offer categorization precedence.
func TestClassifyOffer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want model.OfferCategory
	}{
		{"Free shipping on all orders", model.OfferFreeShipping},
		{"Buy one get one half price", model.OfferBOGO},
		{"Clearance items up to 70% off", model.OfferClearance},
		{"Limited time deal", model.OfferLimitedTime},
		{"Use promo code SAVE10", model.OfferCoupon},
		{"Big summer sale", model.OfferGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			if got := classifyOffer(tt.text); got != tt.want {
				t.Errorf("classifyOffer(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// TestClassifyUrgency tests the urgency tiers.
func TestClassifyUrgency(t *testing.T) {
	t.Parallel()

	a := NewPriceAnalyzer()

	tests := []struct {
		text string
		want model.Urgency
	}{
		{"Flash sale ends tonight", model.UrgencyHigh},
		{"Limited time offer", model.UrgencyHigh},
		{"Save big this weekend", model.UrgencyMedium},
		{"Our summer discount", model.UrgencyMedium},
		{"Free shipping available", model.UrgencyLow},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			if got := a.classifyUrgency(tt.text); got != tt.want {
				t.Errorf("classifyUrgency(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// TestParsePrice tests currency guessing and range lower bounds.
func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw          string
		wantValue    float64
		wantCurrency string
		wantOK       bool
	}{
		{"$19.99", 19.99, "USD", true},
		{"€1,299.00", 1299, "EUR", true},
		{"£5", 5, "GBP", true},
		{"19.99 USD", 19.99, "USD", true},
		{"1299 EUR", 1299, "EUR", true},
		{"$2500", 2500, "USD", true},
		{"$10 - $20", 10, "USD", true},
		{"no digits", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			value, currency, ok := parsePrice(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("parsePrice(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if value != tt.wantValue || currency != tt.wantCurrency {
				t.Errorf("parsePrice(%q) = (%v, %s), want (%v, %s)",
					tt.raw, value, currency, tt.wantValue, tt.wantCurrency)
			}
		})
	}
}
