// Package analyze contains the scoring analyzers: algorithms that
// consume the extracted FieldSet and compute derived, bounded scores.
// The SEO health rubric, price tracking, and the content blueprint all
// run under the same failure isolation as the field extractors.
package analyze
