package filter

import (
	"regexp"
	"strings"
	"unicode"
)

// Reason identifies the rule that rejected a candidate.
type Reason int

const (
	// Admitted means no rule rejected the candidate.
	Admitted Reason = iota
	// RejectEmpty means nothing was left after whitespace normalization.
	RejectEmpty
	// RejectTooShort means the normalized text is shorter than the minimum length.
	RejectTooShort
	// RejectPlaceholder means a placeholder token leaked into the candidate.
	RejectPlaceholder
	// RejectIgnored means a user-supplied ignore pattern matched.
	RejectIgnored
	// RejectPunctuation means the candidate has no letters or digits.
	RejectPunctuation
	// RejectInterpolation means the candidate contains #{, %{ or ${.
	RejectInterpolation
	// RejectBraces means the candidate looks like templated or structured content.
	RejectBraces
	// RejectPath means the candidate looks like a file path.
	RejectPath
	// RejectCode means the candidate looks like source code.
	RejectCode
)

// String returns a short name for the reason, used in debug logs.
func (r Reason) String() string {
	switch r {
	case Admitted:
		return "admitted"
	case RejectEmpty:
		return "empty"
	case RejectTooShort:
		return "too_short"
	case RejectPlaceholder:
		return "placeholder"
	case RejectIgnored:
		return "ignored"
	case RejectPunctuation:
		return "punctuation"
	case RejectInterpolation:
		return "interpolation"
	case RejectBraces:
		return "braces"
	case RejectPath:
		return "path"
	case RejectCode:
		return "code"
	default:
		return "unknown"
	}
}

var (
	// pathPattern matches "./a/b", "/a/b", "a/b-c" and "/a": word or hyphen
	// segments joined by slashes.
	pathPattern = regexp.MustCompile(`^(?:\./|/)?[\w-]+(?:/[\w-]+)*/?$`)

	// operatorPattern matches two-character operator clusters.
	operatorPattern = regexp.MustCompile(`==|!=|=>|<=|>=|&&|\|\||->|\+\+|\+=|-=|::`)

	// functionPattern matches function declarations in JavaScript and Ruby.
	functionPattern = regexp.MustCompile(`\bfunction\b\s*[\w$]*\s*\(|\bdef\s+[A-Za-z_]\w*|\([^()]*\)\s*\{`)

	// declarationPattern matches a declaration keyword, an identifier and an
	// assignment or terminator. Prose such as "let us know" has no such tail.
	declarationPattern = regexp.MustCompile(`\b(?:var|let|const)\s+[A-Za-z_$][\w$]*\s*(?:=[^=]|=$|;|:)`)
)

// hasLetterOrDigit reports whether s contains at least one letter or digit.
func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// looksInterpolated reports whether s contains embedded-expression markers.
func looksInterpolated(s string) bool {
	return strings.Contains(s, "#{") || strings.Contains(s, "%{") || strings.Contains(s, "${")
}

// looksTemplated reports whether s contains at least two opening and two closing braces.
func looksTemplated(s string) bool {
	return strings.Count(s, "{") >= 2 && strings.Count(s, "}") >= 2
}

// looksLikePath reports whether s has a file-path shape with at least one separator.
func looksLikePath(s string) bool {
	return strings.Contains(s, "/") && pathPattern.MatchString(s)
}

// looksLikeCode reports whether s contains operator clusters or declaration shapes.
func looksLikeCode(s string) bool {
	return operatorPattern.MatchString(s) ||
		functionPattern.MatchString(s) ||
		declarationPattern.MatchString(s)
}
