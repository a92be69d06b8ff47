package analyze

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pagelens/pagelens/internal/model"
)

// Word-count bands for the volume rating.
const (
	shortWordLimit  = 300
	mediumWordLimit = 1000
	longWordLimit   = 2500
)

// wordsPerMinute is the assumed reading speed for the reading time
// estimate (reading time is rounded up to whole minutes).
const wordsPerMinute = 200

// topicCandidates is how many ranked keywords are considered for
// heading pairing; maxTopicClusters bounds the returned list.
const (
	topicCandidates  = 20
	maxTopicClusters = 10
)

// Quality rubric thresholds: the paragraph-fit window in average words
// per paragraph, and how many paragraphs one image is expected to cover.
const (
	paragraphFitMin    = 20
	paragraphFitMax    = 150
	paragraphsPerImage = 10
)

// BlueprintAnalyzer builds the content blueprint: element distribution,
// volume, quality, readability, engagement, topic clusters, and
// rule-based strategy/gap recommendations. It reads only the document
// and the FieldSet so it stays independent of the field extractors'
// sub-reports.
type BlueprintAnalyzer struct {
	sentenceRegex *regexp.Regexp
	wordRegex     *regexp.Regexp
	titleCaser    cases.Caser
	stopwords     map[string]bool
}

// NewBlueprintAnalyzer creates a BlueprintAnalyzer.
func NewBlueprintAnalyzer() *BlueprintAnalyzer {
	stopwords := map[string]bool{}
	for _, w := range []string{
		"with", "this", "that", "from", "they", "have", "more",
		"will", "your", "about", "which", "when", "there", "their",
		"what", "would", "make", "like", "time", "just", "know", "into",
		"than", "them", "some", "could", "other", "only", "then", "also",
		"after", "most", "over", "such", "very", "been", "were", "where",
		"each", "much", "many", "these", "those", "here", "while",
	} {
		stopwords[w] = true
	}

	return &BlueprintAnalyzer{
		sentenceRegex: regexp.MustCompile(`[.!?]+(?:\s|$)`),
		wordRegex:     regexp.MustCompile(`[a-zA-Z]{4,}`),
		titleCaser:    cases.Title(language.English),
		stopwords:     stopwords,
	}
}

// Name returns the analyzer name.
func (a *BlueprintAnalyzer) Name() string {
	return "content_blueprint"
}

// Analyze builds the content blueprint sub-report.
func (a *BlueprintAnalyzer) Analyze(_ context.Context, in *Input) error {
	report := model.NewContentBlueprintReport()

	report.Distribution = a.distribution(in)
	report.Volume = a.volume(in)
	report.Readability = a.readability(in)
	report.Engagement = a.engagement(in)
	report.Quality = a.quality(in, report.Volume)
	report.TopicClusters = a.topicClusters(in)
	report.Strategy = a.strategy(report)
	report.Gaps = a.gaps(in, report)
	report.LastAnalyzed = time.Now()

	in.Report.Blueprint = report
	return nil
}

// distribution buckets DOM elements into five content-type categories
// and names the dominant one.
func (a *BlueprintAnalyzer) distribution(in *Input) model.ContentDistribution {
	textual := in.Doc.Count("p") + in.Doc.Count("h1, h2, h3, h4, h5, h6") +
		in.Doc.Count("li") + in.Doc.Count("blockquote")
	media := in.Doc.Count("img") + in.Doc.Count("video") +
		in.Doc.Count("audio") + in.Doc.Count("picture") + in.Doc.Count("svg")
	interactive := in.Doc.Count("a") + in.Doc.Count("button") +
		in.Doc.Count("input") + in.Doc.Count("select") + in.Doc.Count("textarea")
	structural := in.Doc.Count("div") + in.Doc.Count("section") +
		in.Doc.Count("article") + in.Doc.Count("nav") +
		in.Doc.Count("header") + in.Doc.Count("footer") + in.Doc.Count("aside")
	specialized := in.Doc.Count("table") + in.Doc.Count("form") +
		in.Doc.Count("iframe") + in.Doc.Count("canvas") + in.Doc.Count("code") +
		in.Doc.Count("pre")

	total := textual + media + interactive + structural + specialized

	dist := model.ContentDistribution{
		Textual:       share(textual, total),
		Media:         share(media, total),
		Interactive:   share(interactive, total),
		Structural:    share(structural, total),
		Specialized:   share(specialized, total),
		TotalElements: total,
	}

	// Pick the dominant category. Ties resolve to the first in this
	// fixed order so repeated runs agree.
	names := []string{"textual", "media", "interactive", "structural", "specialized"}
	counts := []int{textual, media, interactive, structural, specialized}
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	if total > 0 {
		dist.PrimaryType = names[best]
	}
	return dist
}

// share computes one category's count and percentage.
func share(count, total int) model.CategoryShare {
	s := model.CategoryShare{Count: count}
	if total > 0 {
		s.Percent = math.Round(float64(count)/float64(total)*1000) / 10
	}
	return s
}

// volume computes word/sentence/paragraph counts, the reading time
// estimate, and the length rating.
func (a *BlueprintAnalyzer) volume(in *Input) model.VolumeMetrics {
	text := in.Fields.BodyText
	words := len(strings.Fields(text))
	sentences := len(a.sentenceRegex.FindAllString(text, -1))
	if sentences == 0 && words > 0 {
		sentences = 1
	}
	paragraphs := in.Doc.Count("p")

	v := model.VolumeMetrics{
		Words:      words,
		Sentences:  sentences,
		Paragraphs: paragraphs,
	}
	if sentences > 0 {
		v.AvgWordsPerSentence = math.Round(float64(words)/float64(sentences)*10) / 10
	}
	if words > 0 {
		v.ReadingTimeMinutes = (words + wordsPerMinute - 1) / wordsPerMinute
	}

	switch {
	case words < shortWordLimit:
		v.Rating = "Short"
	case words < mediumWordLimit:
		v.Rating = "Medium"
	case words < longWordLimit:
		v.Rating = "Long"
	default:
		v.Rating = "Very Long"
	}
	return v
}

// readability computes the Flesch reading ease and Flesch-Kincaid grade
// from word, sentence, and syllable counts. Reading ease is clamped to
// [0, 100]; an empty page reports zero values and the lowest level.
func (a *BlueprintAnalyzer) readability(in *Input) model.ReadabilityMetrics {
	text := in.Fields.BodyText
	words := strings.Fields(text)
	sentences := len(a.sentenceRegex.FindAllString(text, -1))
	if sentences == 0 && len(words) > 0 {
		sentences = 1
	}

	if len(words) == 0 || sentences == 0 {
		return model.ReadabilityMetrics{Level: "Very Difficult"}
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))

	ease := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	ease = math.Max(0, math.Min(100, ease))

	grade := 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59
	if grade < 0 {
		grade = 0
	}

	return model.ReadabilityMetrics{
		FleschReadingEase:  math.Round(ease*10) / 10,
		FleschKincaidGrade: math.Round(grade*10) / 10,
		Level:              readabilityLevel(ease),
	}
}

// readabilityLevel maps a reading ease score to the standard seven-band
// scale.
func readabilityLevel(ease float64) string {
	switch {
	case ease >= 90:
		return "Very Easy"
	case ease >= 80:
		return "Easy"
	case ease >= 70:
		return "Fairly Easy"
	case ease >= 60:
		return "Standard"
	case ease >= 50:
		return "Fairly Difficult"
	case ease >= 30:
		return "Difficult"
	default:
		return "Very Difficult"
	}
}

// countSyllables estimates syllables by counting vowel groups, with the
// usual silent-e adjustment. Every word counts at least one.
func countSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return r < 'a' || r > 'z'
	}))
	if word == "" {
		return 1
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}

	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

// engagement scores interaction affordances with fixed per-signal
// weights, capped at 100.
func (a *BlueprintAnalyzer) engagement(in *Input) model.EngagementMetrics {
	m := model.EngagementMetrics{
		FormCount:        in.Doc.Count("form"),
		InteractiveCount: in.Doc.Count("button") + in.Doc.Count("input") + in.Doc.Count("select"),
	}

	ctaWords := []string{"buy", "shop", "subscribe", "sign up", "signup", "register",
		"download", "get started", "learn more", "contact", "try", "order", "book"}
	for _, l := range in.Fields.Links {
		lower := strings.ToLower(l.Text)
		for _, w := range ctaWords {
			if strings.Contains(lower, w) {
				m.CTACount++
				break
			}
		}
	}

	shareHosts := []string{"facebook.com/share", "twitter.com/intent", "x.com/intent",
		"linkedin.com/share", "pinterest.com/pin", "wa.me", "t.me/share"}
	for _, l := range in.Fields.Links {
		lower := strings.ToLower(l.Href)
		for _, h := range shareHosts {
			if strings.Contains(lower, h) {
				m.ShareCount++
				break
			}
		}
	}

	score := m.CTACount*10 + m.FormCount*15 + m.InteractiveCount*2 + m.ShareCount*5
	m.Score = model.ClampScore(score)
	return m
}

// quality is an additive score over the structural shape of the prose:
// paragraph sizing, heading hierarchy, lists and quotes, imagery
// relative to text volume, and linking.
func (a *BlueprintAnalyzer) quality(in *Input, vol model.VolumeMetrics) model.QualityMetrics {
	q := model.QualityMetrics{Signals: make([]string, 0)}
	score := 0

	award := func(points int, signal string) {
		score += points
		q.Signals = append(q.Signals, signal)
	}

	if vol.Paragraphs > 0 {
		avg := float64(vol.Words) / float64(vol.Paragraphs)
		if avg >= paragraphFitMin && avg <= paragraphFitMax {
			award(25, "paragraphs sized for reading")
		}
	}
	if len(in.Fields.Headings["h1"]) > 0 {
		award(15, "h1 present")
	}
	if len(in.Fields.Headings["h2"]) >= 2 {
		award(10, "multi-section structure")
	}
	if in.Doc.Count("ul, ol") > 0 {
		award(10, "lists used for scanability")
	}
	if in.Doc.Count("blockquote") > 0 {
		award(10, "quotes break up the prose")
	}
	if vol.Paragraphs > 0 && len(in.Fields.Images)*paragraphsPerImage >= vol.Paragraphs {
		award(15, "imagery supports the text")
	}
	if len(in.Fields.Links) > 0 {
		award(15, "links connect related content")
	}

	q.Score = model.ClampScore(score)
	q.Band = model.BandForScore(q.Score)
	return q
}

// topicClusters ranks non-stopword keywords of four or more letters by
// frequency and pairs the top candidates with headings that mention
// them.
func (a *BlueprintAnalyzer) topicClusters(in *Input) []model.TopicCluster {
	freq := make(map[string]int)
	for _, m := range a.wordRegex.FindAllString(strings.ToLower(in.Fields.BodyText), -1) {
		if a.stopwords[m] {
			continue
		}
		freq[m]++
	}

	type kf struct {
		word  string
		count int
	}
	ranked := make([]kf, 0, len(freq))
	for w, c := range freq {
		ranked = append(ranked, kf{word: w, count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})
	if len(ranked) > topicCandidates {
		ranked = ranked[:topicCandidates]
	}

	headings := in.Fields.AllHeadingText()
	clusters := make([]model.TopicCluster, 0, maxTopicClusters)
	for _, r := range ranked {
		if len(clusters) >= maxTopicClusters {
			break
		}
		cluster := model.TopicCluster{
			Topic:     a.titleCaser.String(r.word),
			Frequency: r.count,
		}
		for _, h := range headings {
			if strings.Contains(strings.ToLower(h), r.word) {
				cluster.Heading = h
				break
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// strategy emits rule-based recommendations from the computed metrics.
func (a *BlueprintAnalyzer) strategy(report *model.ContentBlueprintReport) []string {
	out := make([]string, 0)

	if report.Volume.Words < shortWordLimit {
		out = append(out, "Expand content depth; pages under 300 words rarely rank or convert")
	}
	if report.Readability.FleschReadingEase < 50 && report.Volume.Words > 0 {
		out = append(out, "Simplify sentence structure to improve readability")
	}
	if report.Engagement.CTACount == 0 {
		out = append(out, "Add a clear call to action")
	}
	if report.Distribution.Media.Count == 0 && report.Distribution.TotalElements > 0 {
		out = append(out, "Add images or video to break up text")
	}
	if report.Volume.AvgWordsPerSentence > 25 {
		out = append(out, "Shorten sentences; average length exceeds 25 words")
	}
	if len(report.TopicClusters) > 0 && report.TopicClusters[0].Heading == "" {
		out = append(out, "Surface the dominant topic in a heading")
	}
	return out
}

// gaps flags missing conversion and navigation elements: testimonials,
// FAQ content, calls to action, and a table of contents on long pages.
func (a *BlueprintAnalyzer) gaps(in *Input, report *model.ContentBlueprintReport) []string {
	out := make([]string, 0)

	hasTestimonials := in.Doc.Count("blockquote") > 0 ||
		in.Doc.Count(`[class*="testimonial"], [class*="review"]`) > 0
	if !hasTestimonials {
		out = append(out, "No testimonials or reviews for social proof")
	}

	hasFAQ := in.Doc.Count(`[class*="faq"]`) > 0
	for _, hs := range in.Fields.Headings {
		for _, h := range hs {
			if strings.HasSuffix(strings.TrimSpace(h), "?") {
				hasFAQ = true
			}
		}
	}
	if !hasFAQ {
		out = append(out, "No FAQ content")
	}

	if report.Engagement.CTACount == 0 {
		out = append(out, "No calls to action")
	}

	if report.Volume.Words >= mediumWordLimit && in.Doc.Count(`a[href^="#"]`) == 0 {
		out = append(out, "No table of contents for long content")
	}
	return out
}

// Ensure BlueprintAnalyzer implements Analyzer.
var _ Analyzer = (*BlueprintAnalyzer)(nil)
