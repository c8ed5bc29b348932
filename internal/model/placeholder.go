package model

import "strings"

// Reserved glyph sequences that delimit placeholder tokens. They use
// mathematical white square brackets doubled up, which do not occur in
// ordinary template text.
const (
	PlaceholderOpen  = "⟦⟦"
	PlaceholderClose = "⟧⟧"
)

// Placeholder tokens substituted for elided template regions before the
// markup is parsed. Each token is distinct so that leaked fragments can be
// traced back to the elision that produced them.
var (
	// PlaceholderComment replaces template comments (<%# ... %>).
	PlaceholderComment = PlaceholderOpen + "i18n:comment" + PlaceholderClose

	// PlaceholderTranslated replaces directives that already call the translation function.
	PlaceholderTranslated = PlaceholderOpen + "i18n:translated" + PlaceholderClose

	// PlaceholderDirective replaces every other directive.
	PlaceholderDirective = PlaceholderOpen + "i18n:directive" + PlaceholderClose
)

// ContainsPlaceholder reports whether s contains either reserved glyph sequence.
func ContainsPlaceholder(s string) bool {
	return strings.Contains(s, PlaceholderOpen) || strings.Contains(s, PlaceholderClose)
}
