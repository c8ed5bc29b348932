package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/nao1215/i18nscan/internal/model"
)

const (
	toolName           = "i18nscan"
	toolInformationURI = "https://github.com/nao1215/i18nscan"
)

// ruleDescriptions explains each kind in SARIF rule metadata.
var ruleDescriptions = map[model.Kind]string{
	model.KindScriptLiteral:         "Hardcoded string literal inside template scripting code.",
	model.KindTextNode:              "Hardcoded visible text between markup elements.",
	model.KindAttribute:             "Hardcoded human-facing attribute value.",
	model.KindScriptTemplateLiteral: "Hardcoded template literal inside an embedded script.",
	model.KindDataAttributeString:   "Hardcoded string inside JSON carried by a data attribute.",
}

// SARIFWriter outputs find reports as SARIF 2.1.0 logs.
// Each kind becomes a rule and each finding a result located at its file and line.
type SARIFWriter struct {
	baseWriter

	version string
}

// NewSARIFWriter creates a SARIFWriter. version is recorded as the driver version when set.
func NewSARIFWriter(output io.Writer, version string) *SARIFWriter {
	return &SARIFWriter{
		baseWriter: newBaseWriter(output),
		version:    version,
	}
}

// Write outputs the find report in SARIF format.
func (w *SARIFWriter) Write(report *model.RunReport) (int, error) {
	log, err := w.build(report)
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w.output}
	if err := log.PrettyWrite(cw); err != nil {
		return cw.n, fmt.Errorf("failed to write SARIF report: %w", err)
	}
	return cw.n, nil
}

// build converts the report into a SARIF log.
func (w *SARIFWriter) build(report *model.RunReport) (*sarif.Report, error) {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolInformationURI)
	if w.version != "" {
		run.Tool.Driver.Version = &w.version
	}

	for _, file := range report.Files {
		for _, f := range file.Findings {
			rule := run.AddRule(f.Kind.String()).
				WithDescription(ruleDescriptions[f.Kind])

			region := sarif.NewRegion()
			if f.HasLine() {
				region = region.WithStartLine(*f.Line)
			}
			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(file.Path)).
					WithRegion(region),
			)

			result := sarif.NewRuleResult(rule.ID).
				WithMessage(sarif.NewTextMessage(fmt.Sprintf("Hardcoded text in %s: %q", f.Source, f.Text))).
				WithLevel(level(f.Kind)).
				WithLocations([]*sarif.Location{location})
			run.AddResult(result)
		}
	}

	log.AddRun(run)
	return log, nil
}

// level maps a kind to a SARIF level. Kinds that exchange cannot rewrite are notes.
func level(kind model.Kind) string {
	if kind.Replaceable() {
		return "warning"
	}
	return "note"
}

// countingWriter counts bytes passed to an io.Writer.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
