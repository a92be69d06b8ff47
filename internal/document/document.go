package document

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pagelens/pagelens/internal/model"
)

// ParseError indicates the HTML byte stream could not be parsed.
// This is fatal for the request: nothing downstream can run without a tree.
type ParseError struct {
	// Err is the underlying parser error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse HTML: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Document is an opaque, query-only view over parsed HTML.
// It is owned by a single pipeline invocation and never persisted.
//
// Design decision: We wrap goquery rather than exposing it directly so
// analyzers depend on a small read-only surface. goquery selections do
// not mutate the underlying tree, so a single Document is safe to share
// across concurrently running extractors.
type Document struct {
	doc *goquery.Document
}

// Parse parses raw HTML into a Document.
// A malformed byte stream yields a *ParseError; empty input is rejected
// the same way because an empty tree carries no signal.
func Parse(rawHTML string) (*Document, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, &ParseError{Err: fmt.Errorf("empty document")}
	}

	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	return &Document{doc: goquery.NewDocumentFromNode(root)}, nil
}

// Find returns the selection matching the given CSS selector.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Count returns the number of elements matching the selector.
func (d *Document) Count(selector string) int {
	return d.doc.Find(selector).Length()
}

// SelectTexts returns the normalized text of up to limit elements
// matching the selector (no limit when limit is zero or negative).
// Selectors arrive from API callers, so an invalid selector yields no
// matches instead of failing the request.
func (d *Document) SelectTexts(selector string, limit int) (texts []string) {
	defer func() {
		if recover() != nil {
			texts = []string{}
		}
	}()

	texts = make([]string, 0)
	d.doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := normalizeSpace(s.Text()); text != "" {
			texts = append(texts, text)
		}
		return limit <= 0 || len(texts) < limit
	})
	return texts
}

// Title returns the trimmed text of the <title> tag.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// MetaTags returns meta name/property keys mapped to their content.
// When both name and property are present, name wins.
func (d *Document) MetaTags() map[string]string {
	tags := make(map[string]string)
	d.doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		if name, ok := s.Attr("name"); ok && name != "" {
			tags[strings.ToLower(name)] = content
			return
		}
		if prop, ok := s.Attr("property"); ok && prop != "" {
			tags[strings.ToLower(prop)] = content
		}
	})
	return tags
}

// Headings returns heading text grouped by level ("h1".."h6") in
// document order. Empty headings are skipped.
func (d *Document) Headings() map[string][]string {
	headings := make(map[string][]string)
	for _, level := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		d.doc.Find(level).Each(func(_ int, s *goquery.Selection) {
			if text := normalizeSpace(s.Text()); text != "" {
				headings[level] = append(headings[level], text)
			}
		})
	}
	return headings
}

// Links returns every anchor carrying an href attribute.
func (d *Document) Links() []model.RawLink {
	links := make([]model.RawLink, 0)
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		rel, _ := s.Attr("rel")
		links = append(links, model.RawLink{
			Href: strings.TrimSpace(href),
			Text: normalizeSpace(s.Text()),
			Rel:  rel,
		})
	})
	return links
}

// Images returns every <img> element with its src/alt/title attributes.
func (d *Document) Images() []model.RawImage {
	images := make([]model.RawImage, 0)
	d.doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		title, _ := s.Attr("title")
		images = append(images, model.RawImage{
			Src:   strings.TrimSpace(src),
			Alt:   strings.TrimSpace(alt),
			Title: strings.TrimSpace(title),
		})
	})
	return images
}

// Text returns the whitespace-normalized visible text of the body,
// excluding script and style content.
func (d *Document) Text() string {
	body := d.doc.Find("body")
	if body.Length() == 0 {
		return normalizeSpace(d.doc.Text())
	}

	// Clone-free extraction: walk text nodes, skipping script/style.
	var sb strings.Builder
	body.Each(func(_ int, s *goquery.Selection) {
		collectText(s.Nodes[0], &sb)
	})
	return normalizeSpace(sb.String())
}

// FieldSet extracts the flat primitive facts shared by all analyzers.
func (d *Document) FieldSet() *model.FieldSet {
	fs := model.NewFieldSet()
	fs.Title = d.Title()
	fs.MetaTags = d.MetaTags()
	fs.Headings = d.Headings()
	fs.Links = d.Links()
	fs.Images = d.Images()
	fs.BodyText = d.Text()
	return fs
}

// collectText appends text node content under n, skipping script,
// style, and noscript subtrees.
func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
