// Package model defines the core data structures shared across the
// extraction pipeline: the canonical ExtractionReport, the per-analyzer
// sub-reports it aggregates, the FieldSet of primitive page facts, and
// the bounded Score/Band types used by the scoring analyzers.
package model
