package model

// FieldSet is the flat collection of primitive facts extracted from a
// parsed page. It is produced once per request and shared read-only
// across all analyzers, which keeps the analyzers order-independent.
//
// Design decision: We keep raw links and images uncollapsed because the
// same href appearing twice is meaningful (navigation plus footer, for
// example). Derived values where duplicates are noise (detected prices,
// emails, patterns) are deduplicated by the analyzers that produce them.
type FieldSet struct {
	// Title is the text content of the <title> tag.
	Title string `json:"title"`

	// MetaTags maps meta tag names (or properties) to their content.
	MetaTags map[string]string `json:"meta_tags"`

	// Headings maps heading levels ("h1".."h6") to their text content
	// in document order.
	Headings map[string][]string `json:"headings"`

	// Links contains every anchor with an href attribute, in document order.
	Links []RawLink `json:"links"`

	// Images contains every <img> element, in document order.
	Images []RawImage `json:"images"`

	// BodyText is the whitespace-normalized visible text of the page.
	BodyText string `json:"-"`
}

// RawLink is an anchor element before categorization.
type RawLink struct {
	// Href is the raw href attribute value.
	Href string `json:"href"`

	// Text is the anchor's trimmed inner text.
	Text string `json:"text,omitempty"`

	// Rel is the rel attribute, if present.
	Rel string `json:"rel,omitempty"`
}

// RawImage is an image element before media analysis.
type RawImage struct {
	// Src is the raw src attribute value.
	Src string `json:"src"`

	// Alt is the alt attribute, empty when missing.
	Alt string `json:"alt,omitempty"`

	// Title is the title attribute, if present.
	Title string `json:"title,omitempty"`
}

// NewFieldSet returns a FieldSet with all collection fields initialized
// so extractors never need nil checks before appending.
func NewFieldSet() *FieldSet {
	return &FieldSet{
		MetaTags: make(map[string]string),
		Headings: make(map[string][]string),
		Links:    make([]RawLink, 0),
		Images:   make([]RawImage, 0),
	}
}

// Meta returns the content of the named meta tag, or empty string.
func (f *FieldSet) Meta(name string) string {
	return f.MetaTags[name]
}

// HeadingCount returns the total number of headings across all levels.
func (f *FieldSet) HeadingCount() int {
	total := 0
	for _, hs := range f.Headings {
		total += len(hs)
	}
	return total
}

// AllHeadingText returns every heading's text across levels h1..h6 in
// level order. Used by topic clustering and FAQ detection.
func (f *FieldSet) AllHeadingText() []string {
	levels := []string{"h1", "h2", "h3", "h4", "h5", "h6"}
	out := make([]string, 0, f.HeadingCount())
	for _, level := range levels {
		out = append(out, f.Headings[level]...)
	}
	return out
}
