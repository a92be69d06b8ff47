package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
	openai "github.com/sashabaranov/go-openai"

	"github.com/pagelens/pagelens/internal/model"
)

// DefaultTimeout bounds the enrichment call so a slow upstream cannot
// hold the whole request hostage.
const DefaultTimeout = 20 * time.Second

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// maxLabelLen truncates the derived summary labels.
const maxLabelLen = 80

const systemPrompt = `You are a web-content analyst. Given a JSON summary of an analyzed web page, respond with exactly one fenced JSON code block (no prose outside it) of this shape:
{"businessInsights": string, "contentAnalysis": string, "technicalInsights": string, "dataExtractionSummary": string, "actionableInsights": [string]}`

// ChatClient is the subset of the OpenAI client the enricher needs.
// Tests substitute a canned implementation.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Enricher performs the best-effort insight call.
type Enricher struct {
	client  ChatClient
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithClient substitutes the chat client. Passing nil leaves the
// enricher unconfigured.
func WithClient(c ChatClient) Option {
	return func(e *Enricher) {
		e.client = c
	}
}

// WithModel overrides the chat model name.
func WithModel(m string) Option {
	return func(e *Enricher) {
		if m != "" {
			e.model = m
		}
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Enricher) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		e.logger = logger
	}
}

// New creates an Enricher. An empty apiKey yields an unconfigured
// enricher whose Enrich is a no-op.
func New(apiKey string, opts ...Option) *Enricher {
	e := &Enricher{
		model:   DefaultModel,
		timeout: DefaultTimeout,
	}
	if apiKey != "" {
		e.client = openai.NewClient(apiKey)
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Configured reports whether the enricher has a usable client.
func (e *Enricher) Configured() bool {
	return e.client != nil
}

// Enrich attaches AI insights to the report. Unconfigured or failing
// enrichment leaves the report unchanged; Enrich never returns an error
// because enrichment failure is not a pipeline failure.
func (e *Enricher) Enrich(ctx context.Context, report *model.ExtractionReport) {
	if !e.Configured() {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	summary, err := e.pageSummary(report)
	if err != nil {
		e.logger.Warn("enrichment skipped: summary build failed", "error", err)
		return
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: summary},
		},
	})
	if err != nil {
		e.logger.Warn("enrichment skipped: completion failed",
			"url", report.Page.URL,
			"error", err,
		)
		return
	}
	if len(resp.Choices) == 0 {
		e.logger.Warn("enrichment skipped: empty response", "url", report.Page.URL)
		return
	}

	insights, err := parseInsights(resp.Choices[0].Message.Content)
	if err != nil {
		e.logger.Warn("enrichment skipped: unparseable response",
			"url", report.Page.URL,
			"error", err,
		)
		return
	}

	report.AIInsights = insights
	report.Summary.BusinessIntelligence = truncateLabel(insights.BusinessInsights)
	report.Summary.ContentQualityLabel = truncateLabel(insights.ContentAnalysis)
}

// pageSummary builds the compact JSON blob sent as user content.
func (e *Enricher) pageSummary(report *model.ExtractionReport) (string, error) {
	payload := map[string]any{
		"url":              report.Page.URL,
		"title":            report.Content.Title,
		"meta_description": report.Content.MetaDescription,
		"word_count":       report.Content.WordCount,
		"seo_score":        report.SEOHealth.OverallScore,
		"content_score":    report.Blueprint.Quality.Score,
		"readability":      report.Blueprint.Readability.Level,
		"prices_found":     len(report.PriceTracking.Prices),
		"frameworks":       report.Technical.Frameworks,
		"company":          report.Business.CompanyName,
		"link_total":       report.Links.Total,
		"image_total":      len(report.Media.Images),
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal page summary: %w", err)
	}
	return string(b), nil
}

// parseInsights extracts the fenced JSON block and unmarshals it,
// repairing malformed JSON as a fallback.
func parseInsights(content string) (*model.AIInsights, error) {
	block := extractFencedJSON(content)
	if block == "" {
		return nil, fmt.Errorf("no JSON block in response")
	}

	var insights model.AIInsights
	if err := json.Unmarshal([]byte(block), &insights); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(block)
		if repairErr != nil {
			return nil, fmt.Errorf("unmarshal insights: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &insights); err != nil {
			return nil, fmt.Errorf("unmarshal repaired insights: %w", err)
		}
	}

	if insights.ActionableInsights == nil {
		insights.ActionableInsights = make([]string, 0)
	}
	return &insights, nil
}

// extractFencedJSON returns the content of the first fenced code block,
// or the whole trimmed input when it already looks like a JSON object.
func extractFencedJSON(content string) string {
	if idx := strings.Index(content, "```"); idx >= 0 {
		rest := content[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		rest = strings.TrimPrefix(rest, "\n")
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		return trimmed
	}
	return ""
}

// truncateLabel shortens an insight string into a summary label.
func truncateLabel(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLabelLen {
		return s
	}
	cut := s[:maxLabelLen]
	if idx := strings.LastIndex(cut, " "); idx > maxLabelLen/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
