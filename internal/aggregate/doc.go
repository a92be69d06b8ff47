// Package aggregate composes the sub-reports of an ExtractionReport into
// cross-cutting summary metrics. It is the only place allowed to read
// across sub-reports; analyzers stay independent of each other.
package aggregate
