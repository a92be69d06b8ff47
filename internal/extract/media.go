package extract

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagelens/pagelens/internal/model"
)

// MediaExtractor collects images, video, and audio references, along
// with alt-text coverage counts used by the SEO analyzer's rubric.
type MediaExtractor struct{}

// NewMediaExtractor creates a MediaExtractor.
func NewMediaExtractor() *MediaExtractor {
	return &MediaExtractor{}
}

// Name returns the extractor name.
func (e *MediaExtractor) Name() string {
	return "media"
}

// Extract builds the media sub-report.
func (e *MediaExtractor) Extract(_ context.Context, in *Input) error {
	report := model.NewMediaReport()

	for _, img := range in.Fields.Images {
		report.Images = append(report.Images, model.ImageInfo{
			Src:   img.Src,
			Alt:   img.Alt,
			Title: img.Title,
		})
		if strings.TrimSpace(img.Alt) != "" {
			report.ImagesWithAlt++
		} else {
			report.ImagesWithoutAlt++
		}
	}

	report.Videos = e.sources(in, "video, video source, iframe[src*=youtube], iframe[src*=vimeo]")
	report.Audio = e.sources(in, "audio, audio source")
	report.LastScanned = time.Now()

	in.Report.Media = report
	return nil
}

// sources collects deduplicated src attributes for the selector.
func (e *MediaExtractor) sources(in *Input, selector string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	in.Doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			return
		}
		if !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	})
	return out
}

// Ensure MediaExtractor implements Extractor.
var _ Extractor = (*MediaExtractor)(nil)
