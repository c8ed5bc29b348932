package report

import (
	"fmt"
	"io"

	"github.com/nao1215/i18nscan/internal/config"
	"github.com/nao1215/i18nscan/internal/model"
)

// Writer defines the interface for find report output.
// Implementations write scan results in various formats.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.RunReport) (int, error)
}

// SummaryWriter renders the result of an exchange or auto run.
type SummaryWriter interface {
	WriteSummary(result *model.AutoResult) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.RunReport) (int, error) {
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

// Options holds the settings shared by the format factories.
type Options struct {
	// Structured selects per-finding detail over the plain string list.
	Structured bool

	// Verbose adds context lines to text output.
	Verbose bool

	// Version is the tool version recorded in SARIF output.
	Version string
}

// New returns the Writer for format.
func New(format string, output io.Writer, opts Options) (Writer, error) {
	switch format {
	case config.FormatText, "":
		return NewSimpleWriter(output,
			WithStructured(opts.Structured),
			WithVerbose(opts.Verbose),
		), nil
	case config.FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case config.FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case config.FormatSARIF:
		return NewSARIFWriter(output, opts.Version), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownReportFormat, format)
	}
}

// NewSummary returns the SummaryWriter for format. Only text and JSON are
// meaningful for rewrite results; every other format falls back to text.
func NewSummary(format string, output io.Writer) SummaryWriter {
	if format == config.FormatJSON {
		return NewJSONWriter(output, WithPrettyPrint())
	}
	return NewSimpleWriter(output)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
