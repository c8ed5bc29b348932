package config

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// PathConfig holds settings for templates matching a path pattern.
// Unset fields leave the inherited value in place.
type PathConfig struct {
	// Namespace prefixes keys generated for matching templates.
	Namespace string `yaml:"namespace,omitempty"`

	// MinLength overrides the minimum text length.
	MinLength int `yaml:"minLength,omitempty"`

	// IgnorePatterns replace the inherited ignore patterns.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// ExtraAttrs are added to the inherited extra attributes.
	ExtraAttrs []string `yaml:"extraAttrs,omitempty"`

	// ScanScriptCode overrides directive literal extraction.
	ScanScriptCode *bool `yaml:"scanScriptCode,omitempty"`

	// ScanEmbeddedScripts overrides <script> literal extraction.
	ScanEmbeddedScripts *bool `yaml:"scanEmbeddedScripts,omitempty"`
}

// File represents the structure of the .i18nscan configuration file.
type File struct {
	// Defaults apply to every template.
	Defaults PathConfig `yaml:"defaults,omitempty"`

	// Paths maps glob patterns (doublestar syntax, slash separated) to
	// overrides for templates whose path matches.
	Paths map[string]PathConfig `yaml:"paths,omitempty"`
}

// Validate checks every path pattern and ignore pattern in the file.
func (cf *File) Validate() error {
	if err := validatePatterns(cf.Defaults.IgnorePatterns); err != nil {
		return err
	}
	for pattern, pc := range cf.Paths {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %q", ErrInvalidPathPattern, pattern)
		}
		if err := validatePatterns(pc.IgnorePatterns); err != nil {
			return err
		}
	}
	return nil
}

// GetPathConfig returns the merged configuration for a template path.
// Defaults come first, then every matching pattern from the least to the
// most specific (shorter patterns first, ties broken lexically).
func (cf *File) GetPathConfig(path string) PathConfig {
	result := cf.Defaults
	for _, pattern := range cf.matching(path) {
		result = result.merge(cf.Paths[pattern])
	}
	return result
}

func (cf *File) matching(path string) []string {
	slashed := filepath.ToSlash(filepath.Clean(path))
	var patterns []string
	for pattern := range cf.Paths {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			patterns = append(patterns, pattern)
		}
	}
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) < len(patterns[j])
		}
		return patterns[i] < patterns[j]
	})
	return patterns
}

// merge returns pc overridden by every field set in o.
func (pc PathConfig) merge(o PathConfig) PathConfig {
	if o.Namespace != "" {
		pc.Namespace = o.Namespace
	}
	if o.MinLength != 0 {
		pc.MinLength = o.MinLength
	}
	if len(o.IgnorePatterns) > 0 {
		pc.IgnorePatterns = o.IgnorePatterns
	}
	if len(o.ExtraAttrs) > 0 {
		pc.ExtraAttrs = append(append([]string(nil), pc.ExtraAttrs...), o.ExtraAttrs...)
	}
	if o.ScanScriptCode != nil {
		pc.ScanScriptCode = o.ScanScriptCode
	}
	if o.ScanEmbeddedScripts != nil {
		pc.ScanEmbeddedScripts = o.ScanEmbeddedScripts
	}
	return pc
}

// apply overlays the set fields onto s.
func (pc PathConfig) apply(s *Settings) {
	if pc.Namespace != "" {
		s.Namespace = pc.Namespace
	}
	if pc.MinLength != 0 {
		s.MinLength = pc.MinLength
	}
	if len(pc.IgnorePatterns) > 0 {
		s.IgnorePatterns = pc.IgnorePatterns
	}
	if len(pc.ExtraAttrs) > 0 {
		s.ExtraAttrs = append(append([]string(nil), s.ExtraAttrs...), pc.ExtraAttrs...)
	}
	if pc.ScanScriptCode != nil {
		s.ScanScriptCode = *pc.ScanScriptCode
	}
	if pc.ScanEmbeddedScripts != nil {
		s.ScanEmbeddedScripts = *pc.ScanEmbeddedScripts
	}
}
