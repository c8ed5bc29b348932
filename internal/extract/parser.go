package extract

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoParser is returned when no structural parser was supplied.
var ErrNoParser = errors.New("structural markup parser is not available")

// Parser turns markup into a traversable node tree.
type Parser interface {
	Parse(markup string) (*html.Node, error)
}

// HTMLParser parses markup with golang.org/x/net/html.
//
// Scripting is disabled so that <noscript> content is parsed as markup
// rather than as a single raw text node.
type HTMLParser struct{}

// NewHTMLParser returns the default parser.
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

// Parse implements Parser.
func (p *HTMLParser) Parse(markup string) (*html.Node, error) {
	return html.ParseWithOptions(strings.NewReader(markup), html.ParseOptionEnableScripting(false))
}

// getAttr returns the value of the named attribute, or empty string.
func getAttr(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// hasAttr reports whether the node carries the named attribute, with any value.
func hasAttr(n *html.Node, name string) bool {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return true
		}
	}
	return false
}

// textContent concatenates the direct text children of n.
func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
