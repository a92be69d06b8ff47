package extract

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/model"
)

// minPhoneDigits filters out short numeric fragments that match the
// phone regex but are not dialable numbers.
const minPhoneDigits = 10

// ContactExtractor detects contact information in page text and links:
// email addresses, phone numbers, street addresses, and social profiles.
//
// Design decision: Addresses are capped at model.MaxAddresses because
// street-address regexes are the noisiest of the three; phone numbers
// are filtered to at least ten digits for the same reason.
type ContactExtractor struct {
	emailRegex   *regexp.Regexp
	phoneRegex   *regexp.Regexp
	addressRegex *regexp.Regexp

	// socialDomains identifies profile links worth keeping.
	socialDomains []string
}

// NewContactExtractor creates a ContactExtractor.
func NewContactExtractor() *ContactExtractor {
	return &ContactExtractor{
		emailRegex: regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
		phoneRegex: regexp.MustCompile(`\+?\d[\d\s().\-]{8,}\d`),
		addressRegex: regexp.MustCompile(
			`\d{1,5}\s+[A-Za-z0-9.\s]{2,40}\s(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Court|Ct|Way|Place|Pl)\.?(?:,?\s+[A-Za-z\s]{2,30},?\s+[A-Z]{2}\s+\d{5})?`),
		socialDomains: []string{
			"facebook.com", "twitter.com", "x.com", "instagram.com",
			"linkedin.com", "youtube.com", "tiktok.com", "pinterest.com",
			"t.me", "github.com",
		},
	}
}

// Name returns the extractor name.
func (e *ContactExtractor) Name() string {
	return "contact"
}

// Extract builds the contact sub-report.
func (e *ContactExtractor) Extract(_ context.Context, in *Input) error {
	report := model.NewContactReport()
	text := in.Fields.BodyText

	report.Emails = e.extractEmails(text, in.Fields.Links)
	report.Phones = e.extractPhones(text, in.Fields.Links)
	report.Addresses = e.extractAddresses(text)
	report.SocialProfiles = e.extractSocialProfiles(in.Fields.Links)
	report.LastScanned = time.Now()

	in.Report.Contact = report
	return nil
}

// extractEmails collects lowercased, deduplicated addresses from page
// text and mailto links.
func (e *ContactExtractor) extractEmails(text string, links []model.RawLink) []string {
	seen := make(map[string]bool)
	emails := make([]string, 0)

	add := func(email string) {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" && !seen[email] {
			seen[email] = true
			emails = append(emails, email)
		}
	}

	for _, m := range e.emailRegex.FindAllString(text, -1) {
		add(m)
	}
	for _, l := range links {
		if addr, ok := strings.CutPrefix(l.Href, "mailto:"); ok {
			addr, _, _ = strings.Cut(addr, "?")
			add(addr)
		}
	}
	return emails
}

// extractPhones collects numbers with at least minPhoneDigits digits
// from page text and tel links.
func (e *ContactExtractor) extractPhones(text string, links []model.RawLink) []string {
	seen := make(map[string]bool)
	phones := make([]string, 0)

	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if digitCount(raw) < minPhoneDigits {
			return
		}
		key := digitsOnly(raw)
		if !seen[key] {
			seen[key] = true
			phones = append(phones, raw)
		}
	}

	for _, m := range e.phoneRegex.FindAllString(text, -1) {
		add(m)
	}
	for _, l := range links {
		if num, ok := strings.CutPrefix(l.Href, "tel:"); ok {
			add(num)
		}
	}
	return phones
}

// extractAddresses collects up to model.MaxAddresses street addresses.
func (e *ContactExtractor) extractAddresses(text string) []string {
	seen := make(map[string]bool)
	addresses := make([]string, 0, model.MaxAddresses)
	for _, m := range e.addressRegex.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if seen[m] {
			continue
		}
		seen[m] = true
		addresses = append(addresses, m)
		if len(addresses) >= model.MaxAddresses {
			break
		}
	}
	return addresses
}

// extractSocialProfiles collects deduplicated links to known platforms.
func (e *ContactExtractor) extractSocialProfiles(links []model.RawLink) []string {
	seen := make(map[string]bool)
	profiles := make([]string, 0)
	for _, l := range links {
		lower := strings.ToLower(l.Href)
		for _, domain := range e.socialDomains {
			if strings.Contains(lower, domain) && !seen[lower] {
				seen[lower] = true
				profiles = append(profiles, l.Href)
				break
			}
		}
	}
	return profiles
}

// digitCount returns the number of decimal digits in s.
func digitCount(s string) int {
	count := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}

// digitsOnly strips everything but decimal digits, for deduplication.
func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Ensure ContactExtractor implements Extractor.
var _ Extractor = (*ContactExtractor)(nil)
