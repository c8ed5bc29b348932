package filter

import "strings"

// quoteReplacer straightens typographic quotes.
var quoteReplacer = strings.NewReplacer(
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"‚", "'", // single low-9 quotation mark
	"‛", "'", // single high-reversed-9 quotation mark
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"„", `"`, // double low-9 quotation mark
	"‟", `"`, // double high-reversed-9 quotation mark
)

// Normalize collapses every whitespace run to a single space and trims the
// ends. It is idempotent.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeQuotes replaces curly quotes with their straight equivalents.
func NormalizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}
