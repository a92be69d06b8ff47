package model

import "time"

// Sub-report types. Each sub-report is independently constructible from
// the FieldSet/document, carries its own timestamp, and has a documented
// empty value (the result of its New* constructor). The aggregator can
// therefore assume every key exists even when an analyzer failed.

// ContactReport holds contact information detected on the page.
type ContactReport struct {
	// Emails contains deduplicated, lowercased email addresses.
	Emails []string `json:"emails"`

	// Phones contains phone numbers with at least ten digits.
	Phones []string `json:"phones"`

	// Addresses contains street addresses, capped at MaxAddresses to
	// bound false-positive noise.
	Addresses []string `json:"addresses"`

	// SocialProfiles contains links to known social platforms.
	SocialProfiles []string `json:"social_profiles"`

	// LastScanned is when this sub-report was produced.
	LastScanned time.Time `json:"last_scanned"`
}

// MaxAddresses bounds address extraction; street-address regexes are
// noisy, so only the first few matches are kept.
const MaxAddresses = 5

// NewContactReport returns the documented empty ContactReport.
func NewContactReport() *ContactReport {
	return &ContactReport{
		Emails:         make([]string, 0),
		Phones:         make([]string, 0),
		Addresses:      make([]string, 0),
		SocialProfiles: make([]string, 0),
		LastScanned:    time.Now(),
	}
}

// LinkCategory is the category assigned to a link by the categorizer.
type LinkCategory string

// Link categories. Every href is assigned exactly one category using
// ordered precedence: scheme prefix, downloadable extension, known social
// domain, same-host heuristic. Unmatched links default to external.
const (
	LinkEmail    LinkCategory = "email"
	LinkPhone    LinkCategory = "phone"
	LinkDownload LinkCategory = "download"
	LinkSocial   LinkCategory = "social"
	LinkInternal LinkCategory = "internal"
	LinkExternal LinkCategory = "external"
)

// CategorizedLink is a link with its assigned category.
type CategorizedLink struct {
	// URL is the raw href value.
	URL string `json:"url"`

	// Text is the anchor text, if any.
	Text string `json:"text,omitempty"`
}

// LinkReport holds links partitioned by category.
// Invariant: the union of all category lists equals the input link list.
type LinkReport struct {
	Email    []CategorizedLink `json:"email"`
	Phone    []CategorizedLink `json:"phone"`
	Download []CategorizedLink `json:"download"`
	Social   []CategorizedLink `json:"social"`
	Internal []CategorizedLink `json:"internal"`
	External []CategorizedLink `json:"external"`

	// Total is the number of input links, equal to the sum of all
	// category list lengths.
	Total int `json:"total"`

	// LastScanned is when this sub-report was produced.
	LastScanned time.Time `json:"last_scanned"`
}

// NewLinkReport returns the documented empty LinkReport.
func NewLinkReport() *LinkReport {
	return &LinkReport{
		Email:       make([]CategorizedLink, 0),
		Phone:       make([]CategorizedLink, 0),
		Download:    make([]CategorizedLink, 0),
		Social:      make([]CategorizedLink, 0),
		Internal:    make([]CategorizedLink, 0),
		External:    make([]CategorizedLink, 0),
		LastScanned: time.Now(),
	}
}

// Add appends a link to the list for its category and bumps the total.
func (r *LinkReport) Add(cat LinkCategory, link CategorizedLink) {
	switch cat {
	case LinkEmail:
		r.Email = append(r.Email, link)
	case LinkPhone:
		r.Phone = append(r.Phone, link)
	case LinkDownload:
		r.Download = append(r.Download, link)
	case LinkSocial:
		r.Social = append(r.Social, link)
	case LinkInternal:
		r.Internal = append(r.Internal, link)
	default:
		r.External = append(r.External, link)
	}
	r.Total++
}

// CategoryCounts returns the per-category sizes keyed by category name.
func (r *LinkReport) CategoryCounts() map[LinkCategory]int {
	return map[LinkCategory]int{
		LinkEmail:    len(r.Email),
		LinkPhone:    len(r.Phone),
		LinkDownload: len(r.Download),
		LinkSocial:   len(r.Social),
		LinkInternal: len(r.Internal),
		LinkExternal: len(r.External),
	}
}

// ImageInfo describes a page image for the media sub-report.
type ImageInfo struct {
	Src   string `json:"src"`
	Alt   string `json:"alt,omitempty"`
	Title string `json:"title,omitempty"`
}

// MediaReport holds media elements found on the page.
type MediaReport struct {
	// Images contains every image with its alt/title attributes.
	Images []ImageInfo `json:"images"`

	// Videos contains video sources, including embedded players.
	Videos []string `json:"videos"`

	// Audio contains audio sources.
	Audio []string `json:"audio"`

	// ImagesWithAlt counts images carrying non-empty alt text.
	ImagesWithAlt int `json:"images_with_alt"`

	// ImagesWithoutAlt counts images missing alt text.
	ImagesWithoutAlt int `json:"images_without_alt"`

	// LastScanned is when this sub-report was produced.
	LastScanned time.Time `json:"last_scanned"`
}

// NewMediaReport returns the documented empty MediaReport.
func NewMediaReport() *MediaReport {
	return &MediaReport{
		Images:      make([]ImageInfo, 0),
		Videos:      make([]string, 0),
		Audio:       make([]string, 0),
		LastScanned: time.Now(),
	}
}

// BusinessReport holds business-intelligence facts detected on the page.
type BusinessReport struct {
	// CompanyName is the best-effort detected organization name.
	CompanyName string `json:"company_name,omitempty"`

	// Hours contains opening-hours strings.
	Hours []string `json:"hours"`

	// PaymentMethods contains detected payment options (visa, paypal...).
	PaymentMethods []string `json:"payment_methods"`

	// Certifications contains detected certification mentions (ISO, BBB...).
	Certifications []string `json:"certifications"`

	// Services contains detected service keywords.
	Services []string `json:"services"`

	// Products contains detected product keywords.
	Products []string `json:"products"`

	// LastScanned is when this sub-report was produced.
	LastScanned time.Time `json:"last_scanned"`
}

// NewBusinessReport returns the documented empty BusinessReport.
func NewBusinessReport() *BusinessReport {
	return &BusinessReport{
		Hours:          make([]string, 0),
		PaymentMethods: make([]string, 0),
		Certifications: make([]string, 0),
		Services:       make([]string, 0),
		Products:       make([]string, 0),
		LastScanned:    time.Now(),
	}
}

// TechnicalReport holds the technical fingerprint of the page.
type TechnicalReport struct {
	// Generator is the content of the generator meta tag, if present.
	Generator string `json:"generator,omitempty"`

	// Frameworks contains detected frontend frameworks and platforms.
	Frameworks []string `json:"frameworks"`

	// AnalyticsIDs contains detected analytics/tracking identifiers.
	AnalyticsIDs []string `json:"analytics_ids"`

	// Charset is the declared character set.
	Charset string `json:"charset,omitempty"`

	// Viewport is the viewport meta content, empty when missing.
	Viewport string `json:"viewport,omitempty"`

	// HasSchemaMarkup is true when JSON-LD or microdata was found.
	HasSchemaMarkup bool `json:"has_schema_markup"`

	// StylesheetCount and ScriptCount are rough page-weight proxies.
	StylesheetCount int `json:"stylesheet_count"`
	ScriptCount     int `json:"script_count"`

	// LastScanned is when this sub-report was produced.
	LastScanned time.Time `json:"last_scanned"`
}

// NewTechnicalReport returns the documented empty TechnicalReport.
func NewTechnicalReport() *TechnicalReport {
	return &TechnicalReport{
		Frameworks:   make([]string, 0),
		AnalyticsIDs: make([]string, 0),
		LastScanned:  time.Now(),
	}
}

// FormInfo describes an HTML form.
type FormInfo struct {
	Action string   `json:"action"`
	Method string   `json:"method"`
	Fields []string `json:"fields,omitempty"`
}

// TableInfo describes an HTML table's dimensions.
type TableInfo struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// FAQItem is a detected question/answer pair.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

// ContentReport holds page metadata and content widgets: forms, tables,
// FAQ blocks, testimonials, and calls to action.
type ContentReport struct {
	// Title is the page title.
	Title string `json:"title"`

	// MetaDescription is the meta description content.
	MetaDescription string `json:"meta_description,omitempty"`

	// Canonical is the canonical link href, if declared.
	Canonical string `json:"canonical,omitempty"`

	// Robots is the robots meta content, if declared.
	Robots string `json:"robots,omitempty"`

	// Headings maps heading levels to their text.
	Headings map[string][]string `json:"headings"`

	// OpenGraph contains og:* meta properties.
	OpenGraph map[string]string `json:"open_graph"`

	// TwitterCard contains twitter:* meta properties.
	TwitterCard map[string]string `json:"twitter_card"`

	// Forms contains detected forms.
	Forms []FormInfo `json:"forms"`

	// Tables contains detected table dimensions.
	Tables []TableInfo `json:"tables"`

	// FAQs contains detected question/answer pairs.
	FAQs []FAQItem `json:"faqs"`

	// Testimonials contains detected testimonial/review snippets.
	Testimonials []string `json:"testimonials"`

	// CTAs contains detected call-to-action texts.
	CTAs []string `json:"ctas"`

	// ParagraphCount is the number of <p> elements.
	ParagraphCount int `json:"paragraph_count"`

	// WordCount is the visible-text word count.
	WordCount int `json:"word_count"`

	// LastScanned is when this sub-report was produced.
	LastScanned time.Time `json:"last_scanned"`
}

// NewContentReport returns the documented empty ContentReport.
func NewContentReport() *ContentReport {
	return &ContentReport{
		Headings:     make(map[string][]string),
		OpenGraph:    make(map[string]string),
		TwitterCard:  make(map[string]string),
		Forms:        make([]FormInfo, 0),
		Tables:       make([]TableInfo, 0),
		FAQs:         make([]FAQItem, 0),
		Testimonials: make([]string, 0),
		CTAs:         make([]string, 0),
		LastScanned:  time.Now(),
	}
}

// PatternReport holds advanced pattern matches found in page text.
// Each list is set-deduplicated and capped to bound output size.
type PatternReport struct {
	// Coordinates contains geographic coordinate pairs.
	Coordinates []string `json:"coordinates"`

	// IPAddresses contains IPv4 addresses.
	IPAddresses []string `json:"ip_addresses"`

	// Domains contains bare domain names outside of anchors.
	Domains []string `json:"domains"`

	// LicenseNumbers contains license/certification numbers.
	LicenseNumbers []string `json:"license_numbers"`

	// Versions contains software version strings.
	Versions []string `json:"versions"`

	// APIPaths contains REST-style API paths.
	APIPaths []string `json:"api_paths"`

	// ProductCodes contains SKU/ISBN-like product codes.
	ProductCodes []string `json:"product_codes"`

	// LastScanned is when this sub-report was produced.
	LastScanned time.Time `json:"last_scanned"`
}

// NewPatternReport returns the documented empty PatternReport.
func NewPatternReport() *PatternReport {
	return &PatternReport{
		Coordinates:    make([]string, 0),
		IPAddresses:    make([]string, 0),
		Domains:        make([]string, 0),
		LicenseNumbers: make([]string, 0),
		Versions:       make([]string, 0),
		APIPaths:       make([]string, 0),
		ProductCodes:   make([]string, 0),
		LastScanned:    time.Now(),
	}
}
