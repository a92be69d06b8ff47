package extract

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/model"
)

// LinkExtractor classifies every href into exactly one category using
// ordered precedence: scheme prefix, downloadable extension, known
// social domain, then a same-host heuristic. Unmatched links default to
// external, so the category lists always partition the input.
type LinkExtractor struct {
	// downloadExtensions mark direct-download targets.
	downloadExtensions []string

	// socialDomains identify social platform hosts.
	socialDomains []string
}

// NewLinkExtractor creates a LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{
		downloadExtensions: []string{
			".pdf", ".zip", ".tar.gz", ".rar", ".7z", ".doc", ".docx",
			".xls", ".xlsx", ".ppt", ".pptx", ".csv", ".dmg", ".exe",
			".apk", ".mp3", ".mp4", ".avi",
		},
		socialDomains: []string{
			"facebook.com", "fb.com", "twitter.com", "x.com",
			"instagram.com", "linkedin.com", "youtube.com", "youtu.be",
			"tiktok.com", "pinterest.com", "reddit.com", "t.me",
			"telegram.me", "discord.gg", "github.com", "medium.com",
			"whatsapp.com", "wa.me",
		},
	}
}

// Name returns the extractor name.
func (e *LinkExtractor) Name() string {
	return "links"
}

// Extract builds the link sub-report.
func (e *LinkExtractor) Extract(_ context.Context, in *Input) error {
	report := model.NewLinkReport()

	for _, raw := range in.Fields.Links {
		cat := e.Categorize(raw.Href, in.PageURL)
		report.Add(cat, model.CategorizedLink{URL: raw.Href, Text: raw.Text})
	}
	report.LastScanned = time.Now()

	in.Report.Links = report
	return nil
}

// Categorize assigns exactly one category to an href.
func (e *LinkExtractor) Categorize(href string, pageURL *url.URL) model.LinkCategory {
	lower := strings.ToLower(strings.TrimSpace(href))

	// 1. Scheme prefixes.
	switch {
	case strings.HasPrefix(lower, "mailto:"):
		return model.LinkEmail
	case strings.HasPrefix(lower, "tel:"), strings.HasPrefix(lower, "sms:"):
		return model.LinkPhone
	}

	// 2. Downloadable extensions, ignoring any query string.
	path := lower
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, ext := range e.downloadExtensions {
		if strings.HasSuffix(path, ext) {
			return model.LinkDownload
		}
	}

	// 3. Known social domains.
	if u, err := url.Parse(href); err == nil && u.Host != "" {
		host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
		for _, domain := range e.socialDomains {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return model.LinkSocial
			}
		}

		// 4. Same-host links are internal; everything else external.
		if pageURL != nil && host == strings.TrimPrefix(strings.ToLower(pageURL.Hostname()), "www.") {
			return model.LinkInternal
		}
		return model.LinkExternal
	}

	// Relative paths and fragments stay on the page's host.
	if strings.HasPrefix(lower, "/") || strings.HasPrefix(lower, "#") ||
		strings.HasPrefix(lower, "./") || strings.HasPrefix(lower, "../") ||
		!strings.Contains(lower, "://") {
		return model.LinkInternal
	}

	return model.LinkExternal
}

// Ensure LinkExtractor implements Extractor.
var _ Extractor = (*LinkExtractor)(nil)
