package locale

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrKeyConflict is returned when a key would replace a mapping, or when a
// non-mapping value sits where the key needs an intermediate mapping.
var ErrKeyConflict = errors.New("key conflicts with an existing entry")

// Tree is a nested locale mapping.
//
// Leaves written by i18nscan are strings. Values loaded from an existing
// locale file that are not strings or mappings (numbers, booleans, nulls,
// sequences) are kept as *yaml.Node and written back unchanged, so Rails
// formats such as number.format.precision or date.abbr_day_names survive
// a rewrite.
type Tree map[string]any

// SetNestedKey stores value at the dotted key under tree[locale], creating
// intermediate mappings as needed. An existing leaf at the exact path is
// overwritten (last write wins). Existing mappings are never replaced: a key
// that lands on a mapping, or that needs a mapping where a value already
// sits, fails with ErrKeyConflict and leaves the tree untouched. A null
// value counts as absent.
func SetNestedKey(tree Tree, key, value, locale string) error {
	if !CanSet(tree, key, locale) {
		return ErrKeyConflict
	}
	node := child(tree, locale)
	segments := splitKey(key)
	for _, segment := range segments[:len(segments)-1] {
		node = child(node, segment)
	}
	node[segments[len(segments)-1]] = value
	return nil
}

// CanSet reports whether SetNestedKey would accept key.
func CanSet(tree Tree, key, locale string) bool {
	segments := splitKey(key)
	node, ok := tree[locale].(Tree)
	if !ok {
		return isEmpty(tree[locale])
	}
	for _, segment := range segments[:len(segments)-1] {
		next, ok := node[segment].(Tree)
		if !ok {
			return isEmpty(node[segment])
		}
		node = next
	}
	_, mapping := node[segments[len(segments)-1]].(Tree)
	return !mapping
}

// Lookup returns the string leaf stored at the dotted key under tree[locale].
func Lookup(tree Tree, key, locale string) (string, bool) {
	node, ok := tree[locale].(Tree)
	if !ok {
		return "", false
	}
	segments := splitKey(key)
	for _, segment := range segments[:len(segments)-1] {
		if node, ok = node[segment].(Tree); !ok {
			return "", false
		}
	}
	value, ok := node[segments[len(segments)-1]].(string)
	return value, ok
}

// child returns the mapping stored under name, creating it when the slot is
// absent or null. Callers check CanSet first.
func child(node Tree, name string) Tree {
	if existing, ok := node[name].(Tree); ok {
		return existing
	}
	created := make(Tree)
	node[name] = created
	return created
}

// isEmpty reports whether v is absent or a YAML null, such as the value of
// "posts:" with nothing after it.
func isEmpty(v any) bool {
	switch typed := v.(type) {
	case nil:
		return true
	case *yaml.Node:
		return typed.Kind == yaml.ScalarNode && typed.Tag == "!!null"
	default:
		return false
	}
}

func splitKey(key string) []string {
	return strings.Split(key, ".")
}

// fromNode converts a decoded YAML node into a Tree value. Mappings become
// Trees and string scalars become strings. Every other node is detached from
// its document and kept as is. Aliases are expanded and merge keys ("<<")
// are folded into the mapping that carries them.
func fromNode(n *yaml.Node) any {
	switch n.Kind {
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.MappingNode:
		return fromMapping(n)
	case yaml.ScalarNode:
		if n.Tag == "!!str" {
			return n.Value
		}
	}
	return detach(n)
}

func fromMapping(n *yaml.Node) Tree {
	out := make(Tree, len(n.Content)/2)
	var merged []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Tag == "!!merge" {
			merged = append(merged, v)
			continue
		}
		out[k.Value] = fromNode(v)
	}

	// Explicit keys win over merged ones wherever they appear.
	for _, m := range merged {
		for _, src := range mergeSources(m) {
			for k, v := range fromMapping(src) {
				if _, ok := out[k]; !ok {
					out[k] = v
				}
			}
		}
	}
	return out
}

func mergeSources(n *yaml.Node) []*yaml.Node {
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{n}
	case yaml.SequenceNode:
		var sources []*yaml.Node
		for _, item := range n.Content {
			sources = append(sources, mergeSources(item)...)
		}
		return sources
	default:
		return nil
	}
}

// detach deep-copies n with aliases expanded and anchors and positions
// cleared, so it can be encoded outside its original document.
func detach(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	out := &yaml.Node{
		Kind:  n.Kind,
		Style: n.Style,
		Tag:   n.Tag,
		Value: n.Value,
	}
	if len(n.Content) > 0 {
		out.Content = make([]*yaml.Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = detach(c)
		}
	}
	return out
}
