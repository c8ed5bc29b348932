package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/i18nscan/internal/model"
)

// maxCellLength bounds the text shown in a table cell.
const maxCellLength = 60

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for pull request comments and documentation.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the find report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeFiles(md, report)
	w.writeFailures(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("i18nscan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root", "`" + report.Root + "`"},
			{"Scan Date", report.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Files Scanned", strconv.Itoa(len(report.Files))},
			{"Findings", strconv.Itoa(report.TotalFindings())},
		},
	})
	md.PlainText("")
}

// writeSummary writes the per-kind summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Summary")
	md.PlainText("")

	counts := report.CountByKind()
	rows := make([][]string, 0, len(model.AllKinds())+1)
	for _, kind := range model.AllKinds() {
		rows = append(rows, []string{kind.Label(), strconv.Itoa(counts[kind])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(report.TotalFindings()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.HasFindings() {
		w.writePieChart(md, counts)
		md.Warningf("%d hardcoded string(s) should be moved into the locale file.", report.TotalFindings())
	} else {
		md.Tip("No hardcoded text found.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart for the kind distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts map[model.Kind]int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Findings by Kind"),
		piechart.WithShowData(true),
	)

	for _, kind := range model.AllKinds() {
		if counts[kind] > 0 {
			chart.LabelAndIntValue(kind.Label(), uint64(counts[kind]))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFiles writes one table per file with findings.
func (w *MarkdownWriter) writeFiles(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Findings")
	md.PlainText("")

	if !report.HasFindings() {
		md.PlainText("No hardcoded text found.")
		md.PlainText("")
		return
	}

	for _, file := range report.Files {
		if len(file.Findings) == 0 {
			continue
		}

		md.PlainText("### `" + file.Path + "`")
		md.PlainText("")

		rows := make([][]string, len(file.Findings))
		for i, f := range file.Findings {
			line := "-"
			if f.HasLine() {
				line = strconv.Itoa(*f.Line)
			}
			rows[i] = []string{
				line,
				f.Kind.Label(),
				"`" + f.Source + "`",
				escapeCell(truncateString(f.Text, maxCellLength)),
			}
		}

		md.Table(markdown.TableSet{
			Header: []string{"Line", "Kind", "Source", "Text"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeFailures lists files that could not be scanned.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.RunReport) {
	failed := report.FailedFiles()
	if len(failed) == 0 {
		return
	}

	md.Cautionf("%d file(s) could not be scanned.", len(failed))
	md.PlainText("")

	items := make([]string, len(failed))
	for i, f := range failed {
		items[i] = fmt.Sprintf("`%s`: %s", f.Path, f.Error)
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [i18nscan](https://github.com/nao1215/i18nscan)*")
}

// escapeCell keeps table cells on one row.
func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
