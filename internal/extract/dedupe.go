package extract

import "github.com/nao1215/i18nscan/internal/model"

// Dedupe collapses findings with the same (text, kind), keeping the first
// occurrence and the order of first occurrences.
func Dedupe(findings []model.Finding) []model.Finding {
	seen := make(map[model.FindingKey]bool, len(findings))
	out := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		key := f.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}
