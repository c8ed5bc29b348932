package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults must be intentional, so each one is pinned here.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default MinLength is 2", func(t *testing.T) {
		t.Parallel()
		if cfg.MinLength != 2 {
			t.Errorf("expected MinLength to be 2, got %d", cfg.MinLength)
		}
	})

	t.Run("structured output and directive literals are on", func(t *testing.T) {
		t.Parallel()
		if !cfg.Structured || !cfg.ScanScriptCode {
			t.Errorf("expected Structured and ScanScriptCode, got %v and %v", cfg.Structured, cfg.ScanScriptCode)
		}
	})

	t.Run("embedded scripts are off", func(t *testing.T) {
		t.Parallel()
		if cfg.ScanEmbeddedScripts {
			t.Error("expected ScanEmbeddedScripts to be false")
		}
	})

	t.Run("locale defaults", func(t *testing.T) {
		t.Parallel()
		if cfg.LocalePath != "config/locales/en.yml" || cfg.Locale != "en" {
			t.Errorf("unexpected locale defaults %q, %q", cfg.LocalePath, cfg.Locale)
		}
	})

	t.Run("files are backed up and not searched recursively", func(t *testing.T) {
		t.Parallel()
		if !cfg.Backup || cfg.Recursive || cfg.DryRun {
			t.Errorf("unexpected Backup=%v Recursive=%v DryRun=%v", cfg.Backup, cfg.Recursive, cfg.DryRun)
		}
	})

	t.Run("default FilePattern", func(t *testing.T) {
		t.Parallel()
		if cfg.FilePattern != "*.{erb,html,htm}" {
			t.Errorf("expected FilePattern '*.{erb,html,htm}', got %q", cfg.FilePattern)
		}
	})

	t.Run("default BatchSize is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 1 {
			t.Errorf("expected BatchSize to be 1, got %d", cfg.BatchSize)
		}
	})

	t.Run("history is saved under the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB || cfg.DBDir != XDGDataDir() {
			t.Errorf("unexpected SaveToDB=%v DBDir=%q", cfg.SaveToDB, cfg.DBDir)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each case breaks exactly one rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "zero min length", modify: func(c *Config) { c.MinLength = 0 }, want: ErrInvalidMinLength},
		{name: "empty locale", modify: func(c *Config) { c.Locale = "" }, want: ErrEmptyLocale},
		{name: "empty locale path", modify: func(c *Config) { c.LocalePath = "" }, want: ErrEmptyLocalePath},
		{name: "bad ignore pattern", modify: func(c *Config) { c.IgnorePatterns = []string{"(unclosed"} }, want: ErrInvalidIgnorePattern},
		{name: "bad file pattern", modify: func(c *Config) { c.FilePattern = "[" }, want: ErrInvalidFilePattern},
		{name: "zero batch size", modify: func(c *Config) { c.BatchSize = 0 }, want: ErrInvalidBatchSize},
		{name: "unknown format", modify: func(c *Config) { c.Format = "xml" }, want: ErrUnknownReportFormat},
		{name: "sarif format", modify: func(c *Config) { c.Format = FormatSARIF }},
		{
			name: "bad path pattern in file",
			modify: func(c *Config) {
				c.PathConfigs = &File{Paths: map[string]PathConfig{"app/[": {}}}
			},
			want: ErrInvalidPathPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// TestFileGetPathConfig tests merging of defaults and path overrides.
func TestFileGetPathConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: PathConfig{
			MinLength:      3,
			IgnorePatterns: []string{"^TODO"},
			ExtraAttrs:     []string{"data-tooltip"},
		},
		Paths: map[string]PathConfig{
			"app/views/**": {
				Namespace:           "views",
				ScanEmbeddedScripts: boolPtr(true),
			},
			"app/views/admin/**": {
				Namespace:      "admin",
				MinLength:      5,
				ExtraAttrs:     []string{"data-hint"},
				ScanScriptCode: boolPtr(false),
			},
		},
	}

	t.Run("returns defaults when nothing matches", func(t *testing.T) {
		t.Parallel()
		got := cf.GetPathConfig("lib/mailers/welcome.html.erb")
		if diff := cmp.Diff(cf.Defaults, got); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("applies a single match", func(t *testing.T) {
		t.Parallel()
		got := cf.GetPathConfig("app/views/posts/index.html.erb")
		want := PathConfig{
			Namespace:           "views",
			MinLength:           3,
			IgnorePatterns:      []string{"^TODO"},
			ExtraAttrs:          []string{"data-tooltip"},
			ScanEmbeddedScripts: boolPtr(true),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("more specific patterns win", func(t *testing.T) {
		t.Parallel()
		got := cf.GetPathConfig("app/views/admin/users/edit.html.erb")
		want := PathConfig{
			Namespace:           "admin",
			MinLength:           5,
			IgnorePatterns:      []string{"^TODO"},
			ExtraAttrs:          []string{"data-tooltip", "data-hint"},
			ScanScriptCode:      boolPtr(false),
			ScanEmbeddedScripts: boolPtr(true),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestConfigSettingsFor tests that file settings overlay the global options.
func TestConfigSettingsFor(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.Namespace = "global"
	cfg.ExtraAttrs = []string{"data-label"}

	t.Run("without a config file", func(t *testing.T) {
		t.Parallel()
		got := cfg.SettingsFor("app/views/a.erb")
		want := Settings{
			MinLength:            DefaultMinLength,
			ExtraAttrs:           []string{"data-label"},
			ScanScriptCode:       true,
			StructuredDataPrefix: DefaultStructuredDataPrefix,
			Namespace:            "global",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("settings mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("with a matching override", func(t *testing.T) {
		t.Parallel()
		withFile := *cfg
		withFile.PathConfigs = &File{
			Paths: map[string]PathConfig{
				"**/*.erb": {Namespace: "erb", ScanScriptCode: boolPtr(false), ExtraAttrs: []string{"data-hint"}},
			},
		}
		got := withFile.SettingsFor("app/views/a.erb")
		want := Settings{
			MinLength:            DefaultMinLength,
			ExtraAttrs:           []string{"data-label", "data-hint"},
			StructuredDataPrefix: DefaultStructuredDataPrefix,
			Namespace:            "erb",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("settings mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestLoadConfigFile tests loading configuration files.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()
		content := `defaults:
  minLength: 3
  ignorePatterns:
    - "^\\d+$"
paths:
  "app/views/**":
    namespace: views
    scanEmbeddedScripts: true
    extraAttrs: [data-tooltip]
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := &File{
			Defaults: PathConfig{MinLength: 3, IgnorePatterns: []string{`^\d+$`}},
			Paths: map[string]PathConfig{
				"app/views/**": {
					Namespace:           "views",
					ScanEmbeddedScripts: boolPtr(true),
					ExtraAttrs:          []string{"data-tooltip"},
				},
			},
		}
		if diff := cmp.Diff(want, cf); diff != "" {
			t.Errorf("file mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("invalid: yaml: content: [}"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid ignore pattern", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("defaults:\n  ignorePatterns: ['(']\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); !errors.Is(err, ErrInvalidIgnorePattern) {
			t.Errorf("expected ErrInvalidIgnorePattern, got %v", err)
		}
	})

	t.Run("initializes nil Paths map", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "empty.yaml")
		if err := os.WriteFile(path, []byte("defaults:\n  minLength: 4\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Paths == nil {
			t.Error("expected Paths to be initialized")
		}
	})
}

// TestFindConfigFile tests configuration file discovery.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("defaults: {}\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

// TestXDGDataDir tests the XDG data directory.
func TestXDGDataDir(t *testing.T) {
	t.Parallel()

	dir := XDGDataDir()
	if !strings.HasSuffix(dir, AppName) {
		t.Errorf("expected path ending in %q, got %q", AppName, dir)
	}
}

func TestConfigApplyFile(t *testing.T) {
	t.Parallel()

	yes := true
	file := &File{
		Defaults: PathConfig{
			Namespace:           "site",
			MinLength:           4,
			IgnorePatterns:      []string{"^TODO"},
			ExtraAttrs:          []string{"data-tooltip"},
			ScanEmbeddedScripts: &yes,
		},
		Paths: map[string]PathConfig{
			"admin/**": {MinLength: 6},
		},
	}

	t.Run("fills fields not set explicitly", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ExtraAttrs = []string{"aria-label"}
		cfg.ApplyFile(file, Explicit{})

		if cfg.Namespace != "site" || cfg.MinLength != 4 || !cfg.ScanEmbeddedScripts {
			t.Errorf("defaults not applied: %+v", cfg)
		}
		if diff := cmp.Diff([]string{"^TODO"}, cfg.IgnorePatterns); diff != "" {
			t.Errorf("IgnorePatterns mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"aria-label", "data-tooltip"}, cfg.ExtraAttrs); diff != "" {
			t.Errorf("ExtraAttrs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("explicit fields win", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.MinLength = 3
		cfg.Namespace = "cli"
		cfg.ApplyFile(file, Explicit{MinLength: true, Namespace: true, ScanEmbeddedScripts: true})

		if cfg.MinLength != 3 || cfg.Namespace != "cli" || cfg.ScanEmbeddedScripts {
			t.Errorf("explicit values overridden: %+v", cfg)
		}
	})

	t.Run("path overrides are kept and defaults consumed", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.MinLength = 3
		cfg.ApplyFile(file, Explicit{MinLength: true})

		if got := cfg.SettingsFor("admin/index.html.erb").MinLength; got != 6 {
			t.Errorf("path override MinLength = %d, want 6", got)
		}
		if got := cfg.SettingsFor("public/index.html.erb").MinLength; got != 3 {
			t.Errorf("explicit MinLength = %d, want 3", got)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(nil, Explicit{})
		if cfg.PathConfigs != nil {
			t.Error("expected PathConfigs to stay nil")
		}
	})
}
