package config

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/adrg/xdg"
	"github.com/bmatcuk/doublestar/v4"
)

// Default configuration values.
const (
	// DefaultMinLength is the shortest normalized text reported.
	// Two runes keeps short labels such as "OK" while dropping stray letters.
	DefaultMinLength = 2

	// DefaultLocalePath is where generated keys are written.
	DefaultLocalePath = "config/locales/en.yml"

	// DefaultLocale is the locale code at the root of the locale file.
	DefaultLocale = "en"

	// DefaultFilePattern selects the templates processed in a directory.
	DefaultFilePattern = "*.{erb,html,htm}"

	// DefaultStructuredDataPrefix selects the attributes decoded as JSON on
	// elements that carry component props.
	DefaultStructuredDataPrefix = "data-"

	// DefaultBatchSize is the number of files scanned concurrently by find.
	// Exchanges always run one file at a time.
	//
	// Design decision: We default to one file at a time rather than
	// runtime.NumCPU() because:
	// 1. Parsing a template is fast next to reading it, so most runs are I/O bound
	// 2. Debug logs and failures then appear in file order
	// 3. Large trees can opt in with --batch without surprising small ones
	DefaultBatchSize = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "i18nscan"
)

// Report formats accepted by Format.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatSARIF    = "sarif"
)

// Formats lists the accepted report formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatMarkdown, FormatSARIF}
}

// Config holds all configuration options for i18nscan.
// It is populated from CLI flags and the configuration file and passed
// through the application rather than kept in global state.
type Config struct {
	// Structured reports full findings. When false only the deduplicated
	// texts are reported.
	Structured bool

	// MinLength is the minimum rune length of reported text.
	MinLength int

	// IgnorePatterns are regular expressions; matching text is never reported.
	IgnorePatterns []string

	// ExtraAttrs are attribute names extracted in addition to the standard set.
	ExtraAttrs []string

	// ScanScriptCode extracts string literals from template directives.
	ScanScriptCode bool

	// ScanEmbeddedScripts extracts string literals from <script> elements.
	ScanEmbeddedScripts bool

	// StructuredDataPrefix selects data attributes decoded as JSON.
	StructuredDataPrefix string

	// LocalePath is the YAML locale file updated by exchanges.
	LocalePath string

	// Locale is the locale code keys are written under.
	Locale string

	// Namespace prefixes every generated key.
	Namespace string

	// NamespaceFromPath derives the namespace from each template's path
	// relative to NamespaceBase. It takes precedence over Namespace.
	NamespaceFromPath bool

	// NamespaceBase is the directory namespaces are derived relative to.
	NamespaceBase string

	// DryRun computes replacements without writing anything.
	DryRun bool

	// Backup copies each template to a .bak file before rewriting it.
	Backup bool

	// Recursive descends into subdirectories.
	Recursive bool

	// FilePattern selects the templates processed in a directory.
	FilePattern string

	// BatchSize is the number of files find scans concurrently.
	BatchSize int

	// Verbose enables debug logging.
	Verbose bool

	// Format is the report format: text, json, markdown or sarif.
	Format string

	// ReportFile is written instead of stdout when set.
	ReportFile string

	// ConfigFilePath is an explicit configuration file. When empty, the
	// tool searches for .i18nscan in the current and home directories.
	ConfigFilePath string

	// PathConfigs holds the settings loaded from the configuration file.
	PathConfigs *File

	// DBDir is the directory holding the history database.
	DBDir string

	// SaveToDB stores every run in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Structured:           true,
		MinLength:            DefaultMinLength,
		ScanScriptCode:       true,
		StructuredDataPrefix: DefaultStructuredDataPrefix,
		LocalePath:           DefaultLocalePath,
		Locale:               DefaultLocale,
		Backup:               true,
		FilePattern:          DefaultFilePattern,
		BatchSize:            DefaultBatchSize,
		Format:               FormatText,
		DBDir:                XDGDataDir(),
		SaveToDB:             true,
	}
}

// XDGDataDir returns the XDG data directory for i18nscan.
// On Linux: ~/.local/share/i18nscan
// On macOS: ~/Library/Application Support/i18nscan
// On Windows: %LOCALAPPDATA%\i18nscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.MinLength < 1 {
		return ErrInvalidMinLength
	}
	if c.Locale == "" {
		return ErrEmptyLocale
	}
	if c.LocalePath == "" {
		return ErrEmptyLocalePath
	}
	if err := validatePatterns(c.IgnorePatterns); err != nil {
		return err
	}
	if c.FilePattern != "" && !doublestar.ValidatePattern(c.FilePattern) {
		return fmt.Errorf("%w: %q", ErrInvalidFilePattern, c.FilePattern)
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if !validFormat(c.Format) {
		return fmt.Errorf("%w: %q", ErrUnknownReportFormat, c.Format)
	}
	if c.PathConfigs != nil {
		if err := c.PathConfigs.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidIgnorePattern, p, err)
		}
	}
	return nil
}

func validFormat(format string) bool {
	for _, f := range Formats() {
		if f == format {
			return true
		}
	}
	return false
}

// Settings are the extraction settings in effect for one template.
type Settings struct {
	MinLength            int
	IgnorePatterns       []string
	ExtraAttrs           []string
	ScanScriptCode       bool
	ScanEmbeddedScripts  bool
	StructuredDataPrefix string
	Namespace            string
}

// SettingsFor returns the settings for the template at path: the global
// options, then every matching path override from the configuration file.
func (c *Config) SettingsFor(path string) Settings {
	s := Settings{
		MinLength:            c.MinLength,
		IgnorePatterns:       c.IgnorePatterns,
		ExtraAttrs:           c.ExtraAttrs,
		ScanScriptCode:       c.ScanScriptCode,
		ScanEmbeddedScripts:  c.ScanEmbeddedScripts,
		StructuredDataPrefix: c.StructuredDataPrefix,
		Namespace:            c.Namespace,
	}
	if c.PathConfigs != nil {
		c.PathConfigs.GetPathConfig(path).apply(&s)
	}
	return s
}

// Explicit marks the Config fields that were set on the command line.
// File defaults never override an explicit field.
type Explicit struct {
	Namespace           bool
	MinLength           bool
	IgnorePatterns      bool
	ExtraAttrs          bool
	ScanScriptCode      bool
	ScanEmbeddedScripts bool
}

// ApplyFile merges the defaults of cf into c for every field not set
// explicitly and keeps the path overrides of cf for SettingsFor. Path
// overrides still win over explicit values for the templates they match.
//
// Design decision: We apply the layers as built-in defaults, then file
// defaults, then flags, then path overrides because:
// 1. A flag is a one-off choice and should beat a project-wide default
// 2. A path override names specific templates and is more specific than any flag
// 3. ExtraAttrs is additive so a file cannot silently drop the standard attributes
func (c *Config) ApplyFile(cf *File, explicit Explicit) {
	if cf == nil {
		return
	}

	d := cf.Defaults
	if !explicit.Namespace && d.Namespace != "" {
		c.Namespace = d.Namespace
	}
	if !explicit.MinLength && d.MinLength != 0 {
		c.MinLength = d.MinLength
	}
	if !explicit.IgnorePatterns && len(d.IgnorePatterns) > 0 {
		c.IgnorePatterns = d.IgnorePatterns
	}
	if !explicit.ExtraAttrs && len(d.ExtraAttrs) > 0 {
		c.ExtraAttrs = append(append([]string(nil), c.ExtraAttrs...), d.ExtraAttrs...)
	}
	if !explicit.ScanScriptCode && d.ScanScriptCode != nil {
		c.ScanScriptCode = *d.ScanScriptCode
	}
	if !explicit.ScanEmbeddedScripts && d.ScanEmbeddedScripts != nil {
		c.ScanEmbeddedScripts = *d.ScanEmbeddedScripts
	}

	c.PathConfigs = &File{Paths: cf.Paths}
}
