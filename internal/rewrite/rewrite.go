package rewrite

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nao1215/i18nscan/internal/model"
	"github.com/nao1215/i18nscan/internal/rawtext"
)

var (
	// ErrReplacementMiss means the finding's text could not be located, or
	// every occurrence was already claimed by an earlier replacement.
	ErrReplacementMiss = errors.New("text could not be located")

	// ErrUnsupportedKind means findings of this kind are never rewritten.
	ErrUnsupportedKind = errors.New("replacement is not supported for this kind")
)

// Edit replaces content[Start:End] with Text.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Outcome is the result of replacing one finding.
type Outcome struct {
	// Occurrences is the number of spans rewritten.
	Occurrences int

	// Err is ErrReplacementMiss or ErrUnsupportedKind when nothing was rewritten.
	Err error
}

// Replaced reports whether at least one occurrence was rewritten.
func (o Outcome) Replaced() bool {
	return o.Err == nil && o.Occurrences > 0
}

// Rewriter stages edits against one file's original content.
type Rewriter struct {
	layout *layout
	edits  []Edit
}

// New creates a Rewriter for content.
func New(content string) *Rewriter {
	return &Rewriter{layout: scanLayout(content)}
}

// Replace stages the rewrite of every unclaimed occurrence of f with a
// lookup of key.
func (r *Rewriter) Replace(f model.Finding, key string) Outcome {
	if !f.Kind.Replaceable() {
		return Outcome{Err: ErrUnsupportedKind}
	}

	content := r.layout.content
	var n int
	switch f.Kind {
	case model.KindTextNode:
		n = r.replaceAll(r.decoded(f.Context), func(start, end int) (Edit, bool) {
			return Edit{Start: start, End: end, Text: outputTag(key)}, r.layout.isolatedText(start, end)
		})
	case model.KindAttribute:
		n = r.replaceAttribute(f, key)
	case model.KindScriptLiteral:
		inside := regionScript
		if f.Source == model.SourceScripting {
			inside = regionDirective
		}
		for _, needle := range quotedNeedles(f.Context, `"`, `'`) {
			n += r.replaceAll(r.literal(needle), func(start, end int) (Edit, bool) {
				text := scriptLookup(content[start:start+1], key)
				if inside == regionDirective {
					text = lookup(key)
				}
				return Edit{Start: start, End: end, Text: text}, r.layout.within(start, end, inside)
			})
		}
	case model.KindScriptTemplateLiteral:
		for _, needle := range quotedNeedles(f.Context, "`") {
			n += r.replaceAll(r.literal(needle), func(start, end int) (Edit, bool) {
				return Edit{Start: start, End: end, Text: scriptLookup("`", key)}, r.layout.within(start, end, regionScript)
			})
		}
	default:
		return Outcome{Err: ErrUnsupportedKind}
	}

	if n == 0 {
		return Outcome{Err: ErrReplacementMiss}
	}
	return Outcome{Occurrences: n}
}

// replaceAttribute locates the quoted value and widens the edit back over
// the attribute name, which must be spelled name= after whitespace.
func (r *Rewriter) replaceAttribute(f model.Finding, key string) int {
	attr := attributeName(f.Source)
	if attr == "" || f.Context == "" {
		return 0
	}

	content := r.layout.content
	n := 0
	for _, quote := range []string{`"`, `'`} {
		n += r.replaceAll(r.decoded(quote+f.Context+quote), func(start, end int) (Edit, bool) {
			head := start - len(attr) - 1
			if head < 1 || content[start-1] != '=' || !isSpace(content[head-1]) {
				return Edit{}, false
			}
			name := content[head : start-1]
			if !strings.EqualFold(name, attr) || !r.layout.within(head, end, regionTag) {
				return Edit{}, false
			}
			return Edit{Start: head, End: end, Text: name + "=" + quote + outputTag(key) + quote}, true
		})
	}
	return n
}

// finder returns the next span at or after from.
type finder func(from int) (start, end int, ok bool)

// decoded finds text as an HTML parser would have produced it, with
// character references decoded and line endings folded to "\n".
func (r *Rewriter) decoded(text string) finder {
	return func(from int) (int, int, bool) {
		return rawtext.IndexDecoded(r.layout.content, text, from)
	}
}

// literal finds text spelled verbatim apart from line endings.
func (r *Rewriter) literal(text string) finder {
	return func(from int) (int, int, bool) {
		return rawtext.Index(r.layout.content, text, from)
	}
}

// replaceAll stages the edit built for every span find reports, when stage
// accepts it and no earlier edit has claimed that region.
func (r *Rewriter) replaceAll(find finder, stage func(start, end int) (Edit, bool)) int {
	n := 0
	for from := 0; from < len(r.layout.content); {
		start, end, ok := find(from)
		if !ok {
			break
		}
		if e, ok := stage(start, end); ok && !r.claimed(e.Start, e.End) {
			r.edits = append(r.edits, e)
			n++
			from = end
			continue
		}
		from = start + 1
	}
	return n
}

func (r *Rewriter) claimed(start, end int) bool {
	for _, e := range r.edits {
		if start < e.End && e.Start < end {
			return true
		}
	}
	return false
}

// Edits returns the staged edits in staging order.
func (r *Rewriter) Edits() []Edit {
	return append([]Edit(nil), r.edits...)
}

// Content returns the original content with every staged edit applied.
func (r *Rewriter) Content() string {
	return Apply(r.layout.content, r.edits)
}

// Apply applies non-overlapping edits to content in descending offset order.
func Apply(content string, edits []Edit) string {
	sorted := append([]Edit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})
	for _, e := range sorted {
		content = content[:e.Start] + e.Text + content[e.End:]
	}
	return content
}

func quotedNeedles(s string, quotes ...string) []string {
	if s == "" {
		return nil
	}
	needles := make([]string, 0, len(quotes))
	for _, q := range quotes {
		if strings.Contains(s, q) {
			continue
		}
		needles = append(needles, q+s+q)
	}
	return needles
}

// attributeName extracts "alt" from a source such as "img[alt]".
func attributeName(source string) string {
	open := strings.IndexByte(source, '[')
	if open < 0 || !strings.HasSuffix(source, "]") {
		return ""
	}
	return source[open+1 : len(source)-1]
}

func lookup(key string) string {
	return fmt.Sprintf("t(%q)", key)
}

func outputTag(key string) string {
	return "<%= " + lookup(key) + " %>"
}

func scriptLookup(quote, key string) string {
	return quote + "<%= j " + lookup(key) + " %>" + quote
}

// Reason returns a short explanation of err for reports.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedKind):
		return "unsupported"
	case errors.Is(err, ErrReplacementMiss):
		return "not found"
	default:
		return err.Error()
	}
}
