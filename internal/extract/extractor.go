package extract

import (
	"fmt"
	"log/slog"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/nao1215/i18nscan/internal/directive"
	"github.com/nao1215/i18nscan/internal/filter"
	"github.com/nao1215/i18nscan/internal/linemap"
	"github.com/nao1215/i18nscan/internal/model"
	"github.com/nao1215/i18nscan/internal/rawtext"
)

// DefaultStructuredDataPrefix is the attribute prefix decoded as JSON on
// elements that carry a structured data marker.
const DefaultStructuredDataPrefix = "data-"

// StandardAttributes are the human-facing attributes always extracted.
var StandardAttributes = []string{
	"alt",
	"title",
	"placeholder",
	"aria-label",
	"aria-placeholder",
	"aria-description",
	"label",
}

// valueAttribute is extracted in addition to the standard set. Values shorter
// than minValueLength are ignored so single-character form values do not surface.
const (
	valueAttribute = "value"
	minValueLength = 2
)

// structuredDataMarkers flag elements whose data attributes carry JSON, as
// rendered by component helpers such as react_component or Stimulus values.
var structuredDataMarkers = []string{
	"data-props",
	"data-react-props",
	"data-vue-props",
	"data-component",
	"data-controller",
	"data-json",
}

// containerElements hide their text from the visible-text walk.
var containerElements = map[string]bool{
	"script":   true,
	"style":    true,
	"template": true,
}

// nonScriptTypes are <script> types holding data rather than code.
var nonScriptTypes = map[string]bool{
	"application/json":    true,
	"application/ld+json": true,
	"importmap":           true,
}

// Options configures an Extractor.
type Options struct {
	// Filter governs candidate admission.
	Filter filter.Options

	// ExtraAttrs are extracted in addition to the standard attributes.
	ExtraAttrs []string

	// ScanScriptCode extracts quoted literals from template directive code.
	ScanScriptCode bool

	// ScanEmbeddedScripts extracts literals from <script> elements.
	ScanEmbeddedScripts bool

	// StructuredDataPrefix selects the attributes decoded as JSON on marked
	// elements. Empty means DefaultStructuredDataPrefix.
	StructuredDataPrefix string
}

// Option configures optional Extractor behavior.
type Option func(*Extractor)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// Extractor collects findings from template files.
type Extractor struct {
	parser Parser
	opts   Options
	attrs  []string
	logger *slog.Logger
}

// New creates an Extractor. It fails with ErrNoParser when parser is nil.
func New(parser Parser, opts Options, options ...Option) (*Extractor, error) {
	if parser == nil {
		return nil, ErrNoParser
	}
	if opts.StructuredDataPrefix == "" {
		opts.StructuredDataPrefix = DefaultStructuredDataPrefix
	}

	e := &Extractor{
		parser: parser,
		opts:   opts,
		attrs:  AttributeSet(opts.ExtraAttrs),
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e, nil
}

// AttributeSet returns the standard attributes, value, and extras, lowercased
// and deduplicated in that order.
func AttributeSet(extras []string) []string {
	seen := make(map[string]bool)
	set := make([]string, 0, len(StandardAttributes)+1+len(extras))
	add := func(name string) {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		set = append(set, name)
	}
	for _, name := range StandardAttributes {
		add(name)
	}
	add(valueAttribute)
	for _, name := range extras {
		add(name)
	}
	return set
}

// Attributes returns the attribute names this extractor collects.
func (e *Extractor) Attributes() []string {
	return append([]string(nil), e.attrs...)
}

// Extract returns the deduplicated findings of one file's raw content.
// Malformed markup never fails extraction; only a parser error is returned.
func (e *Extractor) Extract(raw string) ([]model.Finding, error) {
	lines := linemap.Build(raw)
	admitter := filter.New(e.opts.Filter, lines)

	pre := directive.Process(raw, admitter, e.opts.ScanScriptCode)

	doc, err := e.parser.Parse(pre.Markup)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	c := &collector{
		raw:      raw,
		admitter: admitter,
		findings: pre.Findings,
	}

	var texts, elements []*xhtml.Node
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		switch n.Type {
		case xhtml.TextNode:
			texts = append(texts, n)
		case xhtml.ElementNode:
			elements = append(elements, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	for _, n := range texts {
		e.visitText(c, n)
	}
	for _, n := range elements {
		e.visitAttributes(c, n)
	}
	if e.opts.ScanEmbeddedScripts {
		for _, n := range elements {
			e.visitScript(c, n)
		}
	}
	for _, n := range elements {
		e.visitStructuredData(c, n)
	}

	findings := Dedupe(c.findings)
	e.logger.Debug("extracted findings",
		"candidates", c.submitted,
		"findings", len(findings),
		"directives", pre.Directives)
	return findings, nil
}

// collector accumulates admitted findings for one file.
type collector struct {
	raw       string
	admitter  *filter.Pipeline
	findings  []model.Finding
	submitted int
}

func (c *collector) submit(raw string, kind model.Kind, source string, offset int) {
	c.submitted++
	if f, ok := c.admitter.Admit(filter.Candidate{
		Raw:    raw,
		Kind:   kind,
		Source: source,
		Offset: offset,
	}); ok {
		c.findings = append(c.findings, f)
	}
}

// locate returns the offset of the first occurrence of the trimmed s in the
// raw content, or linemap.NoOffset.
//
// Design decision: s comes out of the parser with character references
// decoded and CRLF folded to LF, so it is matched through rawtext rather
// than strings.Index. A plain search misses every text node that spans
// lines in a CRLF file, and such a node would get no line number.
func (c *collector) locate(s string) int {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return linemap.NoOffset
	}
	if start, _, ok := rawtext.IndexDecoded(c.raw, trimmed, 0); ok {
		return start
	}
	return linemap.NoOffset
}

func (e *Extractor) visitText(c *collector, n *xhtml.Node) {
	if strings.TrimSpace(n.Data) == "" {
		return
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == xhtml.ElementNode && containerElements[p.Data] {
			return
		}
	}
	if parent := n.Parent; parent != nil && skipMarked(parent) {
		return
	}
	c.submit(n.Data, model.KindTextNode, model.SourceText, c.locate(n.Data))
}

// skipMarked reports whether the element opts its text out of extraction.
func skipMarked(n *xhtml.Node) bool {
	return hasAttr(n, "hidden") ||
		hasAttr(n, "data-i18n-skip") ||
		strings.EqualFold(getAttr(n, "translate"), "no")
}

func (e *Extractor) visitAttributes(c *collector, n *xhtml.Node) {
	for _, name := range e.attrs {
		if !hasAttr(n, name) {
			continue
		}
		value := getAttr(n, name)
		if name == valueAttribute && len([]rune(strings.TrimSpace(value))) < minValueLength {
			continue
		}
		c.submit(value, model.KindAttribute, attributeSource(n, name), c.locate(value))
	}
}

func attributeSource(n *xhtml.Node, attr string) string {
	return n.Data + "[" + attr + "]"
}

func (e *Extractor) visitScript(c *collector, n *xhtml.Node) {
	if n.Data != "script" {
		return
	}
	if nonScriptTypes[strings.ToLower(strings.TrimSpace(getAttr(n, "type")))] {
		return
	}
	for _, lit := range ScriptLiterals(textContent(n)) {
		kind := model.KindScriptLiteral
		if lit.Template {
			kind = model.KindScriptTemplateLiteral
		}
		c.submit(lit.Text, kind, model.SourceScript, linemap.NoOffset)
	}
}

func (e *Extractor) visitStructuredData(c *collector, n *xhtml.Node) {
	marked := false
	for _, marker := range structuredDataMarkers {
		if hasAttr(n, marker) {
			marked = true
			break
		}
	}
	if !marked {
		return
	}

	for _, attr := range n.Attr {
		if !strings.HasPrefix(attr.Key, e.opts.StructuredDataPrefix) {
			continue
		}
		values, err := CollectStrings(attr.Val)
		if err != nil {
			e.logger.Debug("skipping undecodable data attribute",
				"element", n.Data, "attribute", attr.Key, "error", err)
			continue
		}
		source := attributeSource(n, attr.Key)
		for _, v := range values {
			c.submit(v, model.KindDataAttributeString, source, linemap.NoOffset)
		}
	}
}
