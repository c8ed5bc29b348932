package model

// Provenance labels used for Finding.Source when the origin is not an attribute.
const (
	// SourceScripting marks literals pulled out of template directives (<% ... %>).
	SourceScripting = "scripting block"

	// SourceScript marks literals pulled out of embedded <script> elements.
	SourceScript = "script block"

	// SourceText marks visible text nodes.
	SourceText = "text"
)

// Finding is one candidate hardcoded, human-visible string.
//
// A Finding is created by the filter pipeline when a candidate is admitted and
// is never modified afterwards. Text is always non-blank and never contains an
// internal placeholder token.
type Finding struct {
	// Text is the normalized content: whitespace collapsed, quotes straightened.
	Text string `json:"text"`

	// Kind is the origin classification.
	Kind Kind `json:"kind"`

	// Source is human-readable provenance, e.g. "img[alt]" or "script block".
	Source string `json:"source"`

	// Line is the best-effort 1-based line number, nil when unknown.
	// Positions come from the first textual occurrence in the file, so
	// duplicate strings all report the line of the first copy.
	Line *int `json:"line,omitempty"`

	// Context is the original text before normalization, used for exact-match replacement.
	Context string `json:"context"`
}

// HasLine reports whether a line number was recovered.
func (f Finding) HasLine() bool {
	return f.Line != nil
}

// LineOr returns the line number or def when it is unknown.
func (f Finding) LineOr(def int) int {
	if f.Line == nil {
		return def
	}
	return *f.Line
}

// Key returns the deduplication identity of the finding: (text, kind).
func (f Finding) Key() FindingKey {
	return FindingKey{Text: f.Text, Kind: f.Kind}
}

// FindingKey is the structural identity used to collapse duplicate findings.
type FindingKey struct {
	Text string
	Kind Kind
}

// IntPtr returns a pointer to n. It is a convenience for building findings with a line.
func IntPtr(n int) *int {
	return &n
}
