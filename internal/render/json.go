package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pagelens/pagelens/internal/model"
)

// JSONWriter outputs reports in JSON format. This is the canonical
// encoding: the report structure maps to JSON without any transform.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool

	// indentPrefix and indentString configure indented output.
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output with the given prefix
// and per-level indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Format returns FormatJSON.
func (w *JSONWriter) Format() Format {
	return FormatJSON
}

// Write outputs the report as JSON with a trailing newline.
func (w *JSONWriter) Write(report *model.ExtractionReport) (int, error) {
	data := buildSafely(func() ([]byte, error) {
		if w.indent {
			return json.MarshalIndent(report, w.indentPrefix, w.indentString)
		}
		return json.Marshal(report)
	}, w.fallback(report))

	data = append(data, '\n')
	return w.output.Write(data)
}

// fallback is the minimal valid JSON document for a report that could
// not be marshaled.
func (w *JSONWriter) fallback(report *model.ExtractionReport) []byte {
	return fmt.Appendf(nil, `{"page":{"url":%q},"error":"serialization degraded"}`, report.Page.URL)
}

// Ensure JSONWriter implements Writer.
var _ Writer = (*JSONWriter)(nil)
