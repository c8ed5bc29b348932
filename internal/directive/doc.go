// Package directive neutralizes template directives before markup parsing.
//
// Template directives (<% ... %>, <%= ... %>, <%# ... %>) are not valid
// markup. Process runs on the raw file text and, in order:
//
//  1. optionally extracts string literals from directive code that does not
//     already call the translation function,
//  2. replaces directive comments with model.PlaceholderComment,
//  3. replaces directives that are translation calls with model.PlaceholderTranslated,
//  4. replaces every remaining directive with model.PlaceholderDirective,
//  5. blanks out markup comments (<!-- ... -->).
//
// The placeholders keep neighbouring tokens separated, so the visible text
// around a directive keeps its whitespace, and the filter pipeline rejects
// any candidate that still contains a placeholder fragment.
package directive
