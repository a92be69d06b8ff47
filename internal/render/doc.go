// Package render serializes an ExtractionReport into the supported
// output encodings: JSON, boxed text, CSV, XML, and Markdown. Every
// writer is total: serialization never panics the request, degrading to
// a minimal valid document of its kind instead.
package render
