// Package enrich attaches optional AI-generated insights to an
// ExtractionReport via an OpenAI-compatible chat completion call.
// Enrichment is strictly best-effort: when unconfigured it is a no-op,
// and any upstream failure leaves the report unchanged.
package enrich
