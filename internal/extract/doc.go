// Package extract contains the field extractors: stateless units that
// read the parsed document and the shared FieldSet and produce one
// sub-report each. A Runner executes them concurrently, isolating every
// failure so one brittle selector or regex never aborts the report.
package extract
