package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/i18nscan/internal/model"
)

const bannerWidth = 70

// SimpleWriter outputs human-readable text reports.
// Plain text with ASCII banners works in every terminal and pipes cleanly
// into files or other tools.
type SimpleWriter struct {
	baseWriter

	// structured shows kind, source and line for every finding.
	// When false only the deduplicated strings are listed.
	structured bool

	// showEmpty lists files that produced no findings.
	showEmpty bool

	// verbose prints the original context of each finding.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithStructured selects the per-finding view.
func WithStructured(structured bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.structured = structured
	}
}

// WithShowEmpty configures the writer to show files without findings.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the find report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "HARDCODED TEXT REPORT")
	fmt.Fprintf(&sb, "Root:          %s\n", report.Root)
	fmt.Fprintf(&sb, "Scan Date:     %s\n", report.DateScanned.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Files Scanned: %d\n", len(report.Files))
	fmt.Fprintf(&sb, "Findings:      %d\n\n", report.TotalFindings())

	w.writeKindSummary(&sb, report)
	w.writeFiles(&sb, report)
	w.writeFailures(&sb, report)

	sb.WriteString(strings.Repeat("=", bannerWidth))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writeKindSummary writes the count of findings per kind.
func (w *SimpleWriter) writeKindSummary(sb *strings.Builder, report *model.RunReport) {
	if !report.HasFindings() {
		sb.WriteString("No hardcoded text found.\n\n")
		return
	}

	sb.WriteString("FINDINGS BY KIND\n")
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")
	counts := report.CountByKind()
	for _, kind := range model.AllKinds() {
		if counts[kind] == 0 {
			continue
		}
		fmt.Fprintf(sb, "  %-26s %d\n", kind.Label()+":", counts[kind])
	}
	sb.WriteString("\n")
}

// writeFiles writes the findings of each file.
func (w *SimpleWriter) writeFiles(sb *strings.Builder, report *model.RunReport) {
	for _, file := range report.Files {
		if file.Error != "" {
			continue
		}
		if len(file.Findings) == 0 && !w.showEmpty {
			continue
		}

		fmt.Fprintf(sb, "%s (%d)\n", file.Path, len(file.Findings))
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")

		if !w.structured {
			for _, text := range file.Texts() {
				fmt.Fprintf(sb, "  %s\n", text)
			}
			sb.WriteString("\n")
			continue
		}

		for _, f := range file.Findings {
			line := "?"
			if f.HasLine() {
				line = fmt.Sprintf("%d", *f.Line)
			}
			fmt.Fprintf(sb, "  %5s  [%s] %s\n", line, f.Source, f.Text)
			if w.verbose && f.Context != f.Text {
				fmt.Fprintf(sb, "         Context: %q\n", f.Context)
			}
		}
		sb.WriteString("\n")
	}
}

// writeFailures lists files that could not be scanned.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, report *model.RunReport) {
	failed := report.FailedFiles()
	if len(failed) == 0 {
		return
	}

	sb.WriteString("ERRORS\n")
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")
	for _, f := range failed {
		fmt.Fprintf(sb, "  %s: %s\n", f.Path, f.Error)
	}
	sb.WriteString("\n")
}

// WriteSummary outputs the result of an exchange or auto run.
func (w *SimpleWriter) WriteSummary(result *model.AutoResult) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "EXCHANGE SUMMARY")
	fmt.Fprintf(&sb, "Files Processed: %d\n", result.FilesProcessed)
	fmt.Fprintf(&sb, "Replaced:        %d\n", result.TotalReplaced)
	fmt.Fprintf(&sb, "Keys Added:      %d\n", result.TotalKeys)
	if dryRun(result) {
		sb.WriteString("Mode:            dry run (no files written)\n")
	}
	sb.WriteString("\n")

	for _, detail := range result.Details {
		fmt.Fprintf(&sb, "%s: %d replaced, %d keys\n", detail.Path, detail.ReplacedCount, detail.AddedKeyCount)
		if detail.BackupPath != "" {
			fmt.Fprintf(&sb, "  backup: %s\n", detail.BackupPath)
		}
		for _, kv := range detail.Keys {
			fmt.Fprintf(&sb, "  %s: %q\n", kv.Key, kv.Value)
		}
		for _, miss := range detail.Missed() {
			fmt.Fprintf(&sb, "  skipped (%s): %q\n", miss.Reason, miss.Text)
		}
	}

	sb.WriteString(strings.Repeat("=", bannerWidth))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writeBanner writes a centered title between two rules.
func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", bannerWidth))
	sb.WriteString("\n")
	pad := (bannerWidth - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", bannerWidth))
	sb.WriteString("\n\n")
}

// dryRun reports whether every detail of result was a dry run.
func dryRun(result *model.AutoResult) bool {
	if len(result.Details) == 0 {
		return false
	}
	for _, d := range result.Details {
		if !d.DryRun {
			return false
		}
	}
	return true
}
