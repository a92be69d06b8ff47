package extract

import (
	"net/url"
	"testing"

	"github.com/pagelens/pagelens/internal/model"
)

// TestLinkExtractor_Categorize tests the ordered category precedence.
func TestLinkExtractor_Categorize(t *testing.T) {
	t.Parallel()

	pageURL, err := url.Parse("https://www.example.com/products")
	if err != nil {
		t.Fatalf("url.Parse() error = %v", err)
	}

	e := NewLinkExtractor()

	tests := []struct {
		name string
		href string
		want model.LinkCategory
	}{
		{name: "mailto is email", href: "mailto:info@example.com", want: model.LinkEmail},
		{name: "tel is phone", href: "tel:+15551234567", want: model.LinkPhone},
		{name: "sms is phone", href: "sms:+15551234567", want: model.LinkPhone},
		{name: "pdf is download", href: "/docs/catalog.pdf", want: model.LinkDownload},
		{name: "pdf with query is download", href: "/docs/catalog.pdf?v=2", want: model.LinkDownload},
		{name: "zip is download", href: "https://cdn.example.com/tool.zip", want: model.LinkDownload},
		{name: "facebook is social", href: "https://facebook.com/acme", want: model.LinkSocial},
		{name: "www facebook is social", href: "https://www.facebook.com/acme", want: model.LinkSocial},
		{name: "youtube subdomain is social", href: "https://music.youtube.com/watch", want: model.LinkSocial},
		{name: "same host is internal", href: "https://example.com/about", want: model.LinkInternal},
		{name: "www same host is internal", href: "https://www.example.com/about", want: model.LinkInternal},
		{name: "relative path is internal", href: "/contact", want: model.LinkInternal},
		{name: "fragment is internal", href: "#top", want: model.LinkInternal},
		{name: "dot relative is internal", href: "./next", want: model.LinkInternal},
		{name: "other host is external", href: "https://other.org/page", want: model.LinkExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := e.Categorize(tt.href, pageURL); got != tt.want {
				t.Errorf("Categorize(%q) = %v, want %v", tt.href, got, tt.want)
			}
		})
	}
}

// TestLinkExtractor_Partition tests that categories partition the input.
func TestLinkExtractor_Partition(t *testing.T) {
	t.Parallel()

	in := newTestInput(t, samplePage, "https://acmeplumbing.com")
	e := NewLinkExtractor()

	if err := e.Extract(t.Context(), in); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	report := in.Report.Links
	sum := 0
	for _, n := range report.CategoryCounts() {
		sum += n
	}
	if sum != report.Total {
		t.Errorf("category sum %d != total %d", sum, report.Total)
	}
	if len(report.Email) != 1 || len(report.Phone) != 1 || len(report.Download) != 1 {
		t.Errorf("unexpected partition: %+v", report.CategoryCounts())
	}
}
