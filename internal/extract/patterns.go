package extract

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/model"
)

// Per-list caps for pattern extraction. Each list is bounded so a single
// generated page cannot blow up the report size.
const (
	maxCoordinates    = 10
	maxIPAddresses    = 15
	maxDomains        = 20
	maxLicenseNumbers = 10
	maxVersions       = 15
	maxAPIPaths       = 20
	maxProductCodes   = 20
)

// PatternExtractor detects structured tokens in page text: geographic
// coordinates, IP addresses, bare domains, license numbers, version
// strings, API paths, and product codes. Every list uses set semantics
// and a fixed cap.
type PatternExtractor struct {
	coordRegex   *regexp.Regexp
	ipRegex      *regexp.Regexp
	domainRegex  *regexp.Regexp
	licenseRegex *regexp.Regexp
	versionRegex *regexp.Regexp
	apiPathRegex *regexp.Regexp
	productRegex *regexp.Regexp
}

// NewPatternExtractor creates a PatternExtractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{
		coordRegex:   regexp.MustCompile(`-?\d{1,3}\.\d{4,8},\s*-?\d{1,3}\.\d{4,8}`),
		ipRegex:      regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
		domainRegex:  regexp.MustCompile(`\b[a-z0-9][a-z0-9\-]{1,62}\.(?:com|org|net|io|dev|co|app|edu|gov)\b`),
		licenseRegex: regexp.MustCompile(`(?i)(?:license|lic|cert|certificate|permit)\s*#?\s*:?\s*([A-Z0-9][A-Z0-9\-]{4,20})`),
		versionRegex: regexp.MustCompile(`\bv?\d+\.\d+(?:\.\d+)?(?:-[a-z0-9.]+)?\b`),
		apiPathRegex: regexp.MustCompile(`/api/v?\d*[a-zA-Z0-9/_\-{}]*`),
		productRegex: regexp.MustCompile(`\b(?:SKU|ISBN|UPC|EAN|MPN)[\s:#\-]*([A-Z0-9\-]{6,20})\b`),
	}
}

// Name returns the extractor name.
func (e *PatternExtractor) Name() string {
	return "patterns"
}

// Extract builds the pattern sub-report.
func (e *PatternExtractor) Extract(_ context.Context, in *Input) error {
	report := model.NewPatternReport()
	text := in.Fields.BodyText

	report.Coordinates = dedupeAndCap(e.coordRegex.FindAllString(text, -1), maxCoordinates)
	report.IPAddresses = dedupeAndCap(e.validIPs(text), maxIPAddresses)
	report.Domains = dedupeAndCap(e.domainRegex.FindAllString(strings.ToLower(text), -1), maxDomains)
	report.LicenseNumbers = dedupeAndCap(e.captureGroups(e.licenseRegex, text), maxLicenseNumbers)
	report.Versions = dedupeAndCap(e.versionRegex.FindAllString(text, -1), maxVersions)
	report.APIPaths = dedupeAndCap(e.apiPathRegex.FindAllString(text, -1), maxAPIPaths)
	report.ProductCodes = dedupeAndCap(e.captureGroups(e.productRegex, text), maxProductCodes)
	report.LastScanned = time.Now()

	in.Report.Patterns = report
	return nil
}

// validIPs returns IPv4 matches whose octets are all in range.
func (e *PatternExtractor) validIPs(text string) []string {
	out := make([]string, 0)
	for _, m := range e.ipRegex.FindAllString(text, -1) {
		valid := true
		for _, part := range strings.Split(m, ".") {
			// Octets are at most three digits, so a cheap check suffices.
			if len(part) == 3 && part > "255" {
				valid = false
				break
			}
		}
		if valid {
			out = append(out, m)
		}
	}
	return out
}

// captureGroups returns the first capture group of every match.
func (e *PatternExtractor) captureGroups(re *regexp.Regexp, text string) []string {
	out := make([]string, 0)
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if len(m) > 1 && m[1] != "" {
			out = append(out, m[1])
		}
	}
	return out
}

// dedupeAndCap applies set semantics preserving first-seen order, then
// truncates to the cap.
func dedupeAndCap(matches []string, limit int) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Ensure PatternExtractor implements Extractor.
var _ Extractor = (*PatternExtractor)(nil)
