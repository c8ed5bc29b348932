package model

import (
	"sort"
	"time"
)

// FileReport holds everything found in a single template file.
type FileReport struct {
	// Path is the scanned file path as given by the caller.
	Path string `json:"path"`

	// Hash is the hex SHA3-256 digest of the file content at scan time.
	Hash string `json:"hash,omitempty"`

	// Findings contains the deduplicated findings in first-seen order.
	Findings []Finding `json:"findings"`

	// Error contains the error message if the file could not be scanned.
	Error string `json:"error,omitempty"`
}

// CountByKind returns the number of findings for each kind.
func (r *FileReport) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, f := range r.Findings {
		counts[f.Kind]++
	}
	return counts
}

// Texts returns the Text of every finding, deduplicated by text alone.
// This is the plain (non-structured) view of a file's findings.
func (r *FileReport) Texts() []string {
	seen := make(map[string]bool, len(r.Findings))
	texts := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		if seen[f.Text] {
			continue
		}
		seen[f.Text] = true
		texts = append(texts, f.Text)
	}
	return texts
}

// RunReport aggregates the file reports of one find run.
type RunReport struct {
	// ID is the unique run identifier.
	ID string `json:"id"`

	// Root is the file or directory the run was started on.
	Root string `json:"root"`

	// DateScanned is when the run started.
	DateScanned time.Time `json:"date_scanned"`

	// Files contains one report per scanned file, sorted by path.
	Files []*FileReport `json:"files"`
}

// NewRunReport creates an empty run report for root.
func NewRunReport(id, root string) *RunReport {
	return &RunReport{
		ID:          id,
		Root:        root,
		DateScanned: time.Now(),
		Files:       make([]*FileReport, 0),
	}
}

// AddFile appends a file report.
func (r *RunReport) AddFile(fr *FileReport) {
	r.Files = append(r.Files, fr)
}

// SortFiles orders file reports by path so output is stable regardless of scan order.
func (r *RunReport) SortFiles() {
	sort.SliceStable(r.Files, func(i, j int) bool {
		return r.Files[i].Path < r.Files[j].Path
	})
}

// TotalFindings returns the number of findings across all files.
func (r *RunReport) TotalFindings() int {
	total := 0
	for _, f := range r.Files {
		total += len(f.Findings)
	}
	return total
}

// HasFindings reports whether any file produced a finding.
func (r *RunReport) HasFindings() bool {
	return r.TotalFindings() > 0
}

// CountByKind returns the number of findings for each kind across all files.
func (r *RunReport) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, f := range r.Files {
		for kind, n := range f.CountByKind() {
			counts[kind] += n
		}
	}
	return counts
}

// FailedFiles returns the file reports that carry an error.
func (r *RunReport) FailedFiles() []*FileReport {
	var failed []*FileReport
	for _, f := range r.Files {
		if f.Error != "" {
			failed = append(failed, f)
		}
	}
	return failed
}
