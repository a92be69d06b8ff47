package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/pagelens/pagelens/internal/model"
)

// Format identifies an output encoding.
type Format string

// Supported output formats. JSON is the canonical form; the rest are
// derived views of the same report.
const (
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatXML      Format = "xml"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format in documentation order.
func Formats() []Format {
	return []Format{FormatJSON, FormatText, FormatCSV, FormatXML, FormatMarkdown}
}

// ParseFormat validates a raw format string. The empty string defaults
// to JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatJSON):
		return FormatJSON, nil
	case string(FormatText):
		return FormatText, nil
	case string(FormatCSV):
		return FormatCSV, nil
	case string(FormatXML):
		return FormatXML, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: json, text, csv, xml, markdown)", s)
	}
}

// Writer outputs a report in one encoding.
//
// Design decision: We use an interface rather than format switch
// statements so destinations (files, stdout, HTTP responses) and
// encodings compose freely, and MultiWriter can fan one report out to
// several encodings at once.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ExtractionReport) (int, error)

	// Format returns the encoding this writer produces.
	Format() Format
}

// New creates a Writer for the given format writing to output.
func New(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatText:
		return NewTextWriter(output), nil
	case FormatCSV:
		return NewCSVWriter(output), nil
	case FormatXML:
		return NewXMLWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// MultiWriter writes one report to multiple Writers.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface takes reports, not
// raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers. Returns the total
// bytes written; stops on the first error.
func (m *MultiWriter) Write(report *model.ExtractionReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Format returns the first writer's format, or JSON when empty.
func (m *MultiWriter) Format() Format {
	if len(m.writers) > 0 {
		return m.writers[0].Format()
	}
	return FormatJSON
}

// baseWriter provides the shared output destination for writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// buildSafely runs one encoder, converting panics and build errors into
// the encoder's fallback document. This is what makes every writer
// total over arbitrary report values.
func buildSafely(build func() ([]byte, error), fallback []byte) (data []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			data = fallback
		}
	}()

	d, err := build()
	if err != nil {
		return fallback
	}
	return d
}

// truncate shortens a string to maxLen characters with ellipsis.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// Ensure MultiWriter implements Writer.
var _ Writer = (*MultiWriter)(nil)
