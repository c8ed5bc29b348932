package directive

import (
	"regexp"
	"strings"

	"github.com/nao1215/i18nscan/internal/filter"
	"github.com/nao1215/i18nscan/internal/model"
)

var (
	// commentPattern matches directive comments.
	commentPattern = regexp.MustCompile(`(?s)<%#.*?%>`)

	// directivePattern matches output and statement directives, capturing the code.
	// Trim markers (<%- and -%>) and raw output (<%==) are accepted.
	directivePattern = regexp.MustCompile(`(?s)<%(?:==|=|-)?(.*?)-?%>`)

	// markupCommentPattern matches HTML comments.
	markupCommentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

	// translationCallPattern matches code that is, as a whole, a translation call:
	// t("x"), t 'x', t(:x), I18n.t(...), I18n.translate(...).
	translationCallPattern = regexp.MustCompile(`^\s*(?:[A-Za-z_][\w:]*\.)?(?:t|translate)\s*(?:\(|["':@])`)

	// containsTranslationCallPattern matches a translation call anywhere in the code.
	containsTranslationCallPattern = regexp.MustCompile(`(?:^|\W)(?:t|translate)(?:\s*\(|\s+["':@])`)

	// literalPattern matches double- or single-quoted literals with backslash escapes.
	literalPattern = regexp.MustCompile(`(?s)"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)'`)
)

// Admitter decides whether a candidate becomes a finding.
// *filter.Pipeline implements it.
type Admitter interface {
	Admit(c filter.Candidate) (model.Finding, bool)
}

// Result is the output of Process.
type Result struct {
	// Markup is the raw text with every directive and markup comment elided.
	Markup string

	// Findings holds the literals extracted from directive code, in source order.
	Findings []model.Finding

	// Directives is the number of non-comment directives seen in the raw text.
	Directives int
}

// Process runs the lexical pre-processing passes over raw.
// When extractLiterals is false the literal extraction pass is skipped and
// admit may be nil.
func Process(raw string, admit Admitter, extractLiterals bool) Result {
	var result Result

	if extractLiterals && admit != nil {
		result.Findings = ExtractLiterals(raw, admit)
	}

	markup := commentPattern.ReplaceAllLiteralString(raw, model.PlaceholderComment)
	markup = directivePattern.ReplaceAllStringFunc(markup, func(region string) string {
		result.Directives++
		code := directivePattern.FindStringSubmatch(region)[1]
		if IsTranslationCall(code) {
			return model.PlaceholderTranslated
		}
		return model.PlaceholderDirective
	})
	result.Markup = markupCommentPattern.ReplaceAllLiteralString(markup, " ")

	return result
}

// ExtractLiterals submits every quoted literal found in directive code to
// admit. Directives whose code calls the translation function anywhere, and
// directive comments, are skipped. All literals share one approximate
// position: the first directive marker in raw.
func ExtractLiterals(raw string, admit Admitter) []model.Finding {
	matches := directivePattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}

	offset := strings.Index(raw, "<%")
	var findings []model.Finding
	for _, m := range matches {
		code := m[1]
		if strings.HasPrefix(code, "#") || ContainsTranslationCall(code) {
			continue
		}
		for _, literal := range QuotedLiterals(code) {
			f, ok := admit.Admit(filter.Candidate{
				Raw:    literal,
				Kind:   model.KindScriptLiteral,
				Source: model.SourceScripting,
				Offset: offset,
			})
			if ok {
				findings = append(findings, f)
			}
		}
	}
	return findings
}

// IsTranslationCall reports whether code, as a whole, is a translation call.
func IsTranslationCall(code string) bool {
	return translationCallPattern.MatchString(code)
}

// ContainsTranslationCall reports whether code calls the translation function anywhere.
func ContainsTranslationCall(code string) bool {
	return containsTranslationCallPattern.MatchString(code)
}

// QuotedLiterals returns the unescaped bodies of the double- and
// single-quoted literals in code, in source order.
func QuotedLiterals(code string) []string {
	matches := literalPattern.FindAllStringSubmatchIndex(code, -1)
	literals := make([]string, 0, len(matches))
	for _, m := range matches {
		var body string
		switch {
		case m[2] >= 0:
			body = code[m[2]:m[3]]
		case m[4] >= 0:
			body = code[m[4]:m[5]]
		default:
			continue
		}
		literals = append(literals, Unescape(body))
	}
	return literals
}

// Unescape resolves backslash escapes: \n, \t and \r become their control
// characters and any other escaped character stands for itself.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
