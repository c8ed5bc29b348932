package locale

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// ErrNotMapping is returned for a locale file whose top level is not a mapping.
var ErrNotMapping = errors.New("locale file must contain a mapping")

// Store is a locale file loaded into memory.
//
// Design decision: the file is decoded through yaml.Node rather than into
// map[string]any so that non-string values keep their YAML type and text.
// Decoding into plain Go values and re-encoding would turn "precision: 3"
// into whatever the Go value prints as. Comments are not preserved.
type Store struct {
	path string
	tree Tree
}

// Load reads the locale file at path. A missing file yields an empty store
// that will be created on Save.
func Load(path string) (*Store, error) {
	s := &Store{path: path, tree: make(Tree)}

	data, err := os.ReadFile(path) //nolint:gosec // locale path is chosen by the user
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read locale file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse locale file %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return s, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s", ErrNotMapping, path)
	}
	s.tree = fromMapping(root)
	return s, nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Tree returns the in-memory tree.
func (s *Store) Tree() Tree {
	return s.tree
}

// Set stores value at the dotted key for locale. It fails with
// ErrKeyConflict instead of replacing an existing mapping.
func (s *Store) Set(locale, key, value string) error {
	return SetNestedKey(s.tree, key, value, locale)
}

// CanSet reports whether Set would accept key for locale.
func (s *Store) CanSet(locale, key string) bool {
	return CanSet(s.tree, key, locale)
}

// Lookup returns the value at the dotted key for locale.
func (s *Store) Lookup(locale, key string) (string, bool) {
	return Lookup(s.tree, key, locale)
}

// Marshal encodes the tree as YAML with two-space indentation and sorted keys.
func (s *Store) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any(s.tree)); err != nil {
		return nil, fmt.Errorf("failed to encode locale file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode locale file: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the tree to the store path, creating parent directories.
func (s *Store) Save() error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("failed to create locale directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, filePerm); err != nil { //nolint:gosec // locale files are committed to the project
		return fmt.Errorf("failed to write locale file: %w", err)
	}
	return nil
}

// NamespaceFromPath derives a key namespace from a template path relative to
// base: directory segments plus the file name without any extension, joined
// with dots. Leading underscores of partial names are dropped, so
// "app/views/posts/_form.html.erb" relative to "app" gives "views.posts.form".
func NamespaceFromPath(path, base string) string {
	rel := path
	if base != "" {
		if r, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = filepath.ToSlash(filepath.Clean(rel))

	var segments []string
	parts := strings.Split(rel, "/")
	for i, part := range parts {
		if i == len(parts)-1 {
			if dot := strings.IndexByte(part, '.'); dot > 0 {
				part = part[:dot]
			}
		}
		part = BaseKey(strings.TrimLeft(part, "_"))
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}
	return strings.Join(segments, ".")
}
