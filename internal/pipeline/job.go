package pipeline

import (
	"github.com/nao1215/i18nscan/internal/extract"
	"github.com/nao1215/i18nscan/internal/model"
)

// Job is the unit of work for one template file.
type Job struct {
	// Path is the template file.
	Path string

	// Options configures extraction for this file.
	Options extract.Options

	// Namespace prefixes generated keys.
	Namespace string

	// Content is the file content as read.
	Content string

	// Hash is the SHA3-256 digest of Content.
	Hash string

	// Findings are the deduplicated findings of Content.
	Findings []model.Finding

	// Rewritten is Content with replacements applied.
	Rewritten string

	// Result describes the exchange, when one ran.
	Result *model.ExchangeResult

	// PerformedSteps lists the steps that completed, in order.
	PerformedSteps []string

	// Err is the error that stopped the pipeline, if any.
	Err error
}

// NewJob creates a job for path.
func NewJob(path string, opts extract.Options, namespace string) *Job {
	return &Job{
		Path:      path,
		Options:   opts,
		Namespace: namespace,
	}
}

// FileReport converts the job into a report entry.
func (j *Job) FileReport() *model.FileReport {
	fr := &model.FileReport{
		Path:     j.Path,
		Hash:     j.Hash,
		Findings: j.Findings,
	}
	if fr.Findings == nil {
		fr.Findings = []model.Finding{}
	}
	if j.Err != nil {
		fr.Error = j.Err.Error()
	}
	return fr
}
