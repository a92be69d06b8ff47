package analyze

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/model"
)

// Discount thresholds for alert derivation.
const (
	highDiscountPercent     = 50
	moderateDiscountPercent = 25
)

// saleContextWindow is how many characters around a price match are
// inspected for sale wording.
const saleContextWindow = 60

// PriceAnalyzer detects pricing signals: prices, discounts, and offers,
// then derives alerts and summary statistics from the deduplicated sets.
//
// Design decision: Prices are deduplicated by (value, currency) while
// discounts and offers are deduplicated by full text, because the same
// numeric price repeated across a page is noise but differently-worded
// offers are distinct signals.
type PriceAnalyzer struct {
	// priceRegexes run in order: currency-prefixed, currency-suffixed,
	// labeled, ranged, "starting from".
	priceRegexes []*regexp.Regexp

	// discountRegexes detect percentage and absolute discounts.
	percentOffRegex *regexp.Regexp
	saveAmountRegex *regexp.Regexp
	wasNowRegex     *regexp.Regexp

	// offerRegex matches sale/offer wording for classification.
	offerRegex *regexp.Regexp

	highUrgencyWords   []string
	mediumUrgencyWords []string
}

// NewPriceAnalyzer creates a PriceAnalyzer.
func NewPriceAnalyzer() *PriceAnalyzer {
	return &PriceAnalyzer{
		priceRegexes: []*regexp.Regexp{
			// Currency-prefixed: $19.99, €1,299.00, £5, $2500
			regexp.MustCompile(`[$€£¥]\s?\d+(?:,\d{3})*(?:\.\d{2})?`),
			// Currency-suffixed: 19.99 USD, 1299 EUR
			regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d{2})?\s?(?:USD|EUR|GBP|JPY|CAD|AUD)`),
			// Labeled: Price: 19.99
			regexp.MustCompile(`(?i)price:?\s*[$€£¥]?\s?\d+(?:,\d{3})*(?:\.\d{2})?`),
			// Ranged: $10 - $20
			regexp.MustCompile(`[$€£¥]\s?\d+(?:\.\d{2})?\s*(?:-|–|to)\s*[$€£¥]\s?\d+(?:\.\d{2})?`),
			// Starting from: from $9.99
			regexp.MustCompile(`(?i)(?:starting (?:at|from)|from)\s+[$€£¥]\s?\d+(?:\.\d{2})?`),
		},
		percentOffRegex:    regexp.MustCompile(`(?i)(\d{1,3})\s?%\s?off`),
		saveAmountRegex:    regexp.MustCompile(`(?i)save\s+[$€£¥]\s?(\d+(?:\.\d{2})?)`),
		wasNowRegex:        regexp.MustCompile(`(?i)was\s+[$€£¥]\s?(\d+(?:\.\d{2})?)\s+now\s+[$€£¥]\s?(\d+(?:\.\d{2})?)`),
		offerRegex:         regexp.MustCompile(`(?i)[^.!?]*\b(?:free shipping|buy one get one|bogo|clearance|flash sale|limited time|coupon|promo code|sale|discount|% off|expires?)\b[^.!?]*`),
		highUrgencyWords:   []string{"flash", "limited time", "today only", "ends tonight", "last chance", "hurry"},
		mediumUrgencyWords: []string{"sale", "discount", "offer", "deal", "save"},
	}
}

// Name returns the analyzer name.
func (a *PriceAnalyzer) Name() string {
	return "price_tracking"
}

// Analyze builds the price tracking sub-report.
func (a *PriceAnalyzer) Analyze(_ context.Context, in *Input) error {
	report := model.NewPriceTrackingReport()
	text := in.Fields.BodyText

	report.Prices = a.extractPrices(text)
	report.Discounts = a.extractDiscounts(text)
	report.Offers = a.extractOffers(text)
	report.AlertTriggers = a.deriveAlerts(report.Prices, report.Discounts)
	report.Stats = a.summarize(report)
	report.LastAnalyzed = time.Now()

	in.Report.PriceTracking = report
	return nil
}

// extractPrices runs the ordered price regexes and deduplicates matches
// by (value, currency).
func (a *PriceAnalyzer) extractPrices(text string) []model.Price {
	type key struct {
		value    float64
		currency string
	}
	seen := make(map[key]bool)
	prices := make([]model.Price, 0)

	for _, re := range a.priceRegexes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			raw := text[loc[0]:loc[1]]
			value, currency, ok := parsePrice(raw)
			if !ok {
				continue
			}

			k := key{value: value, currency: currency}
			if seen[k] {
				continue
			}
			seen[k] = true

			prices = append(prices, model.Price{
				Raw:         strings.TrimSpace(raw),
				Value:       value,
				Currency:    currency,
				SaleContext: a.hasSaleContext(text, loc[0], loc[1]),
			})
		}
	}
	return prices
}

// hasSaleContext checks the text around a match for sale wording.
func (a *PriceAnalyzer) hasSaleContext(text string, start, end int) bool {
	lo := max(0, start-saleContextWindow)
	hi := min(len(text), end+saleContextWindow)
	window := strings.ToLower(text[lo:hi])
	for _, word := range []string{"sale", "was", "now", "discount", "off", "deal", "save"} {
		if strings.Contains(window, word) {
			return true
		}
	}
	return false
}

// extractDiscounts runs the discount regexes independently of prices
// and deduplicates by full matched text.
func (a *PriceAnalyzer) extractDiscounts(text string) []model.Discount {
	seen := make(map[string]bool)
	discounts := make([]model.Discount, 0)

	add := func(d model.Discount) {
		if seen[d.Raw] {
			return
		}
		seen[d.Raw] = true
		discounts = append(discounts, d)
	}

	for _, m := range a.percentOffRegex.FindAllStringSubmatch(text, -1) {
		pct, err := strconv.ParseFloat(m[1], 64)
		if err != nil || pct > 100 {
			continue
		}
		add(model.Discount{Raw: strings.TrimSpace(m[0]), Percentage: pct})
	}

	for _, m := range a.saveAmountRegex.FindAllStringSubmatch(text, -1) {
		amount, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		add(model.Discount{Raw: strings.TrimSpace(m[0]), Amount: amount})
	}

	for _, m := range a.wasNowRegex.FindAllStringSubmatch(text, -1) {
		was, err1 := strconv.ParseFloat(m[1], 64)
		now, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil || was <= 0 || now >= was {
			continue
		}
		add(model.Discount{
			Raw:        strings.TrimSpace(m[0]),
			Percentage: (was - now) / was * 100,
			Amount:     was - now,
		})
	}

	return discounts
}

// extractOffers classifies sale/offer mentions by category and urgency,
// deduplicated by text.
func (a *PriceAnalyzer) extractOffers(text string) []model.Offer {
	seen := make(map[string]bool)
	offers := make([]model.Offer, 0)

	for _, m := range a.offerRegex.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true

		offers = append(offers, model.Offer{
			Text:     m,
			Category: classifyOffer(m),
			Urgency:  a.classifyUrgency(m),
		})
	}
	return offers
}

// classifyOffer assigns one offer category by first matching keyword.
func classifyOffer(text string) model.OfferCategory {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "free shipping"):
		return model.OfferFreeShipping
	case strings.Contains(lower, "buy one get one"), strings.Contains(lower, "bogo"):
		return model.OfferBOGO
	case strings.Contains(lower, "clearance"):
		return model.OfferClearance
	case strings.Contains(lower, "limited time"), strings.Contains(lower, "flash"),
		strings.Contains(lower, "expires"), strings.Contains(lower, "expire"):
		return model.OfferLimitedTime
	case strings.Contains(lower, "coupon"), strings.Contains(lower, "promo code"):
		return model.OfferCoupon
	default:
		return model.OfferGeneral
	}
}

// classifyUrgency assigns the urgency tier by keyword lists.
func (a *PriceAnalyzer) classifyUrgency(text string) model.Urgency {
	lower := strings.ToLower(text)
	for _, word := range a.highUrgencyWords {
		if strings.Contains(lower, word) {
			return model.UrgencyHigh
		}
	}
	for _, word := range a.mediumUrgencyWords {
		if strings.Contains(lower, word) {
			return model.UrgencyMedium
		}
	}
	return model.UrgencyLow
}

// deriveAlerts produces alert triggers from the deduplicated sets:
// a sale-context price with any discount is a price drop; a percentage
// discount at or above 50 is a high discount, at or above 25 moderate.
func (a *PriceAnalyzer) deriveAlerts(prices []model.Price, discounts []model.Discount) []model.Alert {
	alerts := make([]model.Alert, 0)

	if len(discounts) > 0 {
		for _, p := range prices {
			if p.SaleContext {
				alerts = append(alerts, model.Alert{
					Type:     model.AlertPriceDrop,
					Severity: model.AlertSeverityMedium,
					Detail:   fmt.Sprintf("Price %s appears in sale context alongside %d discount(s)", p.Raw, len(discounts)),
				})
				break
			}
		}
	}

	for _, d := range discounts {
		switch {
		case d.Percentage >= highDiscountPercent:
			alerts = append(alerts, model.Alert{
				Type:     model.AlertHighDiscount,
				Severity: model.AlertSeverityHigh,
				Detail:   fmt.Sprintf("High discount detected: %s", d.Raw),
			})
		case d.Percentage >= moderateDiscountPercent:
			alerts = append(alerts, model.Alert{
				Type:     model.AlertModerateDiscount,
				Severity: model.AlertSeverityMedium,
				Detail:   fmt.Sprintf("Moderate discount detected: %s", d.Raw),
			})
		}
	}

	return alerts
}

// summarize computes counts and price range statistics.
func (a *PriceAnalyzer) summarize(report *model.PriceTrackingReport) model.PriceStats {
	stats := model.PriceStats{
		PriceCount:    len(report.Prices),
		DiscountCount: len(report.Discounts),
		OfferCount:    len(report.Offers),
	}

	for _, o := range report.Offers {
		if o.Urgency == model.UrgencyHigh {
			stats.UrgentOffers++
		}
	}

	if len(report.Prices) == 0 {
		return stats
	}

	sum := 0.0
	stats.MinPrice = report.Prices[0].Value
	stats.MaxPrice = report.Prices[0].Value
	for _, p := range report.Prices {
		sum += p.Value
		if p.Value < stats.MinPrice {
			stats.MinPrice = p.Value
		}
		if p.Value > stats.MaxPrice {
			stats.MaxPrice = p.Value
		}
	}
	stats.AveragePrice = sum / float64(len(report.Prices))
	return stats
}

// parsePrice extracts the numeric value and currency guess from matched
// price text. Ranged matches use the lower bound.
func parsePrice(raw string) (float64, string, bool) {
	currency := "USD"
	switch {
	case strings.Contains(raw, "€"), strings.Contains(raw, "EUR"):
		currency = "EUR"
	case strings.Contains(raw, "£"), strings.Contains(raw, "GBP"):
		currency = "GBP"
	case strings.Contains(raw, "¥"), strings.Contains(raw, "JPY"):
		currency = "JPY"
	case strings.Contains(raw, "CAD"):
		currency = "CAD"
	case strings.Contains(raw, "AUD"):
		currency = "AUD"
	}

	numRe := regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d{1,2})?`)
	m := numRe.FindString(raw)
	if m == "" {
		return 0, "", false
	}
	m = strings.ReplaceAll(m, ",", "")
	value, err := strconv.ParseFloat(m, 64)
	if err != nil || value <= 0 {
		return 0, "", false
	}
	return value, currency, true
}

// Ensure PriceAnalyzer implements Analyzer.
var _ Analyzer = (*PriceAnalyzer)(nil)
