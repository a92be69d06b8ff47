// Package pipeline orchestrates the per-request extraction flow:
// fetch, parse, extract, analyze, aggregate, enrich. Steps execute in
// sequence over a shared Run; fetch and parse failures abort the
// request, while later stages degrade and continue.
package pipeline
