package model

// Replacement records what happened to one finding during an exchange.
type Replacement struct {
	// Key is the generated translation key.
	Key string `json:"key"`

	// Text is the finding's normalized text, stored as the locale value.
	Text string `json:"text"`

	// Kind is the finding's classification.
	Kind Kind `json:"kind"`

	// Source is the finding's provenance.
	Source string `json:"source"`

	// Line is the finding's best-effort line number.
	Line *int `json:"line,omitempty"`

	// Replaced is true when the text was located and rewritten.
	Replaced bool `json:"replaced"`

	// Reason explains why Replaced is false.
	Reason string `json:"reason,omitempty"`
}

// ExchangeResult is the outcome of exchanging hardcoded text for translation lookups in one file.
type ExchangeResult struct {
	// Path is the rewritten file.
	Path string `json:"path"`

	// ReplacedCount is the number of findings rewritten in the file content.
	ReplacedCount int `json:"replaced_count"`

	// AddedKeyCount is the number of distinct keys staged into the locale tree.
	AddedKeyCount int `json:"added_key_count"`

	// Keys maps each staged key to its locale value, in staging order.
	Keys []KeyValue `json:"keys"`

	// Replacements contains one entry per finding, in finding order.
	Replacements []Replacement `json:"replacements"`

	// DryRun is true when nothing was written to disk.
	DryRun bool `json:"dry_run"`

	// BackupPath is the backup file created before rewriting, if any.
	BackupPath string `json:"backup_path,omitempty"`
}

// KeyValue is one staged locale entry.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Missed returns the replacements that could not be applied.
func (r *ExchangeResult) Missed() []Replacement {
	var missed []Replacement
	for _, rep := range r.Replacements {
		if !rep.Replaced {
			missed = append(missed, rep)
		}
	}
	return missed
}

// AutoResult aggregates exchange results over a file or directory.
type AutoResult struct {
	// FilesProcessed is the number of files an exchange ran on.
	FilesProcessed int `json:"files_processed"`

	// TotalReplaced is the sum of ReplacedCount over all files.
	TotalReplaced int `json:"total_replaced"`

	// TotalKeys is the sum of AddedKeyCount over all files.
	TotalKeys int `json:"total_keys"`

	// Details holds the per-file results in processing order.
	Details []*ExchangeResult `json:"details"`
}

// Add folds a per-file result into the aggregate.
func (a *AutoResult) Add(r *ExchangeResult) {
	a.FilesProcessed++
	a.TotalReplaced += r.ReplacedCount
	a.TotalKeys += r.AddedKeyCount
	a.Details = append(a.Details, r)
}
