package database

import (
	"errors"
	"sort"

	"github.com/nao1215/i18nscan/internal/model"
)

// ErrNotEnoughRuns is returned when a comparison needs two runs and fewer exist.
var ErrNotEnoughRuns = errors.New("not enough runs to compare")

// DiffEntry is a finding located in a file.
type DiffEntry struct {
	Path    string        `json:"path"`
	Finding model.Finding `json:"finding"`
}

// Diff describes how the findings changed between two find runs.
// Findings are matched by (path, text, kind); line moves are not changes.
type Diff struct {
	// OldRunID and NewRunID identify the compared runs.
	OldRunID string `json:"old_run_id"`
	NewRunID string `json:"new_run_id"`

	// New holds findings present only in the newer run.
	New []DiffEntry `json:"new"`

	// Resolved holds findings present only in the older run.
	Resolved []DiffEntry `json:"resolved"`

	// Unchanged counts findings present in both runs.
	Unchanged int `json:"unchanged"`

	// ChangedFiles lists paths whose content hash differs between the runs.
	ChangedFiles []string `json:"changed_files"`
}

// HasChanges reports whether any finding appeared or disappeared.
func (d *Diff) HasChanges() bool {
	return len(d.New) > 0 || len(d.Resolved) > 0
}

type entryKey struct {
	path string
	key  model.FindingKey
}

// Compare computes the finding diff from older to newer.
func Compare(older, newer *model.RunReport) *Diff {
	diff := &Diff{
		OldRunID:     older.ID,
		NewRunID:     newer.ID,
		New:          []DiffEntry{},
		Resolved:     []DiffEntry{},
		ChangedFiles: []string{},
	}

	oldEntries := index(older)
	newEntries := index(newer)

	for _, e := range entries(newer) {
		if _, ok := oldEntries[entryKey{path: e.Path, key: e.Finding.Key()}]; ok {
			diff.Unchanged++
			continue
		}
		diff.New = append(diff.New, e)
	}
	for _, e := range entries(older) {
		if _, ok := newEntries[entryKey{path: e.Path, key: e.Finding.Key()}]; !ok {
			diff.Resolved = append(diff.Resolved, e)
		}
	}

	oldHashes := make(map[string]string, len(older.Files))
	for _, f := range older.Files {
		oldHashes[f.Path] = f.Hash
	}
	for _, f := range newer.Files {
		if prev, ok := oldHashes[f.Path]; !ok || prev != f.Hash {
			diff.ChangedFiles = append(diff.ChangedFiles, f.Path)
		}
		delete(oldHashes, f.Path)
	}
	for path := range oldHashes {
		diff.ChangedFiles = append(diff.ChangedFiles, path)
	}
	sort.Strings(diff.ChangedFiles)

	return diff
}

func index(report *model.RunReport) map[entryKey]struct{} {
	set := make(map[entryKey]struct{})
	for _, f := range report.Files {
		for _, finding := range f.Findings {
			set[entryKey{path: f.Path, key: finding.Key()}] = struct{}{}
		}
	}
	return set
}

func entries(report *model.RunReport) []DiffEntry {
	var out []DiffEntry
	for _, f := range report.Files {
		for _, finding := range f.Findings {
			out = append(out, DiffEntry{Path: f.Path, Finding: finding})
		}
	}
	return out
}
