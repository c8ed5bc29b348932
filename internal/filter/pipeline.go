package filter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/i18nscan/internal/linemap"
	"github.com/nao1215/i18nscan/internal/model"
)

// DefaultMinLength is the shortest normalized text that can be admitted.
const DefaultMinLength = 2

// Options governs admission.
type Options struct {
	// MinLength is the minimum rune count of the normalized text.
	// Values below 1 are treated as 1.
	MinLength int

	// IgnorePatterns reject any normalized text they match.
	IgnorePatterns []*regexp.Regexp
}

// Candidate is a raw string submitted for admission.
type Candidate struct {
	// Raw is the candidate exactly as collected.
	Raw string

	// Kind is the origin classification.
	Kind model.Kind

	// Source is the human-readable provenance.
	Source string

	// Offset is the byte offset of the candidate in the raw file,
	// or linemap.NoOffset when unknown.
	Offset int
}

// Pipeline admits or rejects candidates for one file.
type Pipeline struct {
	opts  Options
	lines *linemap.Map
}

// New creates a Pipeline. lines resolves candidate offsets to line numbers
// and may be nil, in which case findings carry no line.
func New(opts Options, lines *linemap.Map) *Pipeline {
	if opts.MinLength < 1 {
		opts.MinLength = 1
	}
	return &Pipeline{opts: opts, lines: lines}
}

// Check runs the rejection rules on raw and returns the normalized text and
// the first rule that fired, or Admitted.
func (p *Pipeline) Check(raw string) (string, Reason) {
	normalized := Normalize(raw)
	if normalized == "" {
		return normalized, RejectEmpty
	}
	if utf8.RuneCountInString(normalized) < p.opts.MinLength {
		return normalized, RejectTooShort
	}
	if model.ContainsPlaceholder(normalized) {
		return normalized, RejectPlaceholder
	}
	for _, re := range p.opts.IgnorePatterns {
		if re.MatchString(normalized) {
			return normalized, RejectIgnored
		}
	}
	if !hasLetterOrDigit(normalized) {
		return normalized, RejectPunctuation
	}
	if looksInterpolated(normalized) {
		return normalized, RejectInterpolation
	}
	if looksTemplated(normalized) {
		return normalized, RejectBraces
	}
	if looksLikePath(normalized) {
		return normalized, RejectPath
	}
	if looksLikeCode(normalized) {
		return normalized, RejectCode
	}
	return normalized, Admitted
}

// Admit builds a Finding from c when every rule passes.
// The second return value is false when the candidate was rejected.
func (p *Pipeline) Admit(c Candidate) (model.Finding, bool) {
	normalized, reason := p.Check(c.Raw)
	if reason != Admitted {
		return model.Finding{}, false
	}

	f := model.Finding{
		Text:    NormalizeQuotes(normalized),
		Kind:    c.Kind,
		Source:  c.Source,
		Context: strings.TrimSpace(c.Raw),
	}
	if p.lines != nil {
		f.Line = p.lines.Resolve(c.Offset)
	}
	return f, true
}

// CompilePatterns compiles user-supplied ignore patterns.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
