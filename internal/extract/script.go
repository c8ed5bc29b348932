package extract

import (
	"strings"

	"github.com/nao1215/i18nscan/internal/directive"
)

// ScriptLiteral is a string literal found in embedded script code.
type ScriptLiteral struct {
	// Text is the literal body. Quoted literals are unescaped; template
	// literals are kept verbatim.
	Text string

	// Template reports whether the literal was backtick-delimited.
	Template bool
}

// ScriptLiterals scans script code for double-quoted, single-quoted and
// backtick literals in source order. Line and block comments are skipped.
// Quoted literals end at an unescaped newline; unterminated literals are dropped.
func ScriptLiterals(code string) []ScriptLiteral {
	var out []ScriptLiteral
	for i := 0; i < len(code); i++ {
		switch c := code[i]; {
		case c == '/' && i+1 < len(code) && code[i+1] == '/':
			end := strings.IndexByte(code[i:], '\n')
			if end < 0 {
				return out
			}
			i += end
		case c == '/' && i+1 < len(code) && code[i+1] == '*':
			end := strings.Index(code[i+2:], "*/")
			if end < 0 {
				return out
			}
			i += end + 3
		case c == '"' || c == '\'' || c == '`':
			end, ok := closingQuote(code, i+1, c)
			if ok {
				body := code[i+1 : end]
				if c == '`' {
					out = append(out, ScriptLiteral{Text: body, Template: true})
				} else {
					out = append(out, ScriptLiteral{Text: directive.Unescape(body)})
				}
			}
			i = end
		}
	}
	return out
}

// closingQuote returns the index of the quote closing a literal that starts at
// start. The second value is false when the literal is unterminated; the index
// is then where scanning should resume.
func closingQuote(code string, start int, quote byte) (int, bool) {
	for j := start; j < len(code); j++ {
		switch code[j] {
		case '\\':
			j++
		case quote:
			return j, true
		case '\n':
			if quote != '`' {
				return j, false
			}
		}
	}
	return len(code), false
}
