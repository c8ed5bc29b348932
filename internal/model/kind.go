package model

import (
	"fmt"
	"strings"
)

// Kind classifies where a Finding came from.
// The replacement stage picks its rewriting strategy from the Kind.
type Kind int

const (
	// KindScriptLiteral is a quoted string literal inside scripting code,
	// either a template directive (<% %>) or an embedded <script> block.
	KindScriptLiteral Kind = iota

	// KindTextNode is visible text between markup elements.
	KindTextNode

	// KindAttribute is the value of a human-facing attribute such as alt or title.
	KindAttribute

	// KindScriptTemplateLiteral is a backtick-delimited literal in an embedded script.
	KindScriptTemplateLiteral

	// KindDataAttributeString is a string value found inside JSON carried by a data-* attribute.
	KindDataAttributeString
)

// kindNames maps each Kind to its stable wire name.
// The names appear in JSON reports and in the history database, so they must not change.
var kindNames = map[Kind]string{
	KindScriptLiteral:         "script_literal",
	KindTextNode:              "text_node",
	KindAttribute:             "attribute",
	KindScriptTemplateLiteral: "script_template_literal",
	KindDataAttributeString:   "data_attribute_string",
}

// AllKinds returns every Kind in declaration order.
func AllKinds() []Kind {
	return []Kind{
		KindScriptLiteral,
		KindTextNode,
		KindAttribute,
		KindScriptTemplateLiteral,
		KindDataAttributeString,
	}
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Label returns a human-readable label, e.g. "Text node".
func (k Kind) Label() string {
	name := strings.ReplaceAll(k.String(), "_", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Replaceable reports whether findings of this kind can be rewritten in place.
// Strings nested inside data-attribute JSON are reported but never rewritten.
func (k Kind) Replaceable() bool {
	return k != KindDataAttributeString
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown finding kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind converts a wire name back to a Kind.
func ParseKind(s string) (Kind, error) {
	for kind, name := range kindNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown finding kind %q", s)
}
