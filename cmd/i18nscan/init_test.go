package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nao1215/i18nscan/internal/config"
)

func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	output := cmd.Flags().Lookup("output")
	if output == nil {
		t.Fatal("expected output flag")
	}
	if output.Shorthand != "o" || output.DefValue != config.DefaultConfigFile {
		t.Errorf("unexpected output flag: -%s default %q", output.Shorthand, output.DefValue)
	}

	force := cmd.Flags().Lookup("force")
	if force == nil {
		t.Fatal("expected force flag")
	}
	if force.Shorthand != "f" || force.DefValue != "false" {
		t.Errorf("unexpected force flag: -%s default %q", force.Shorthand, force.DefValue)
	}
}

func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates a loadable config file", func(t *testing.T) {
		t.Parallel()
		outputPath := filepath.Join(t.TempDir(), config.DefaultConfigFile)

		out, err := execute(t, "init", "-o", outputPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, outputPath) {
			t.Errorf("expected output to mention %s, got %q", outputPath, out)
		}

		cf, err := config.LoadConfigFile(outputPath)
		if err != nil {
			t.Fatalf("generated file does not load: %v", err)
		}
		if cf.Defaults.MinLength != config.DefaultMinLength {
			t.Errorf("Defaults.MinLength = %d, want %d", cf.Defaults.MinLength, config.DefaultMinLength)
		}
		if len(cf.Paths) != 0 {
			t.Errorf("expected only commented path examples, got %v", cf.Paths)
		}
	})

	t.Run("fails if file exists without force", func(t *testing.T) {
		t.Parallel()
		outputPath := writeTemplate(t, filepath.Join(t.TempDir(), config.DefaultConfigFile), "existing")

		_, err := execute(t, "init", "-o", outputPath)
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Fatalf("expected 'already exists' error, got %v", err)
		}
		if got := readTemplate(t, outputPath); got != "existing" {
			t.Errorf("file was modified: %q", got)
		}
	})

	t.Run("overwrites file with force flag", func(t *testing.T) {
		t.Parallel()
		outputPath := writeTemplate(t, filepath.Join(t.TempDir(), config.DefaultConfigFile), "existing")

		if _, err := execute(t, "init", "-o", outputPath, "-f"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := readTemplate(t, outputPath); got == "existing" {
			t.Error("expected file to be overwritten")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()
		outputPath := filepath.Join(t.TempDir(), "config", "nested", "i18nscan.yaml")

		if _, err := execute(t, "init", "-o", outputPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(outputPath); err != nil {
			t.Errorf("expected config file to be created: %v", err)
		}
	})

	t.Run("file has correct permissions", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("skipping permission test on Windows")
		}
		outputPath := filepath.Join(t.TempDir(), config.DefaultConfigFile)

		if _, err := execute(t, "init", "-o", outputPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		info, err := os.Stat(outputPath)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected permissions 0600, got %o", perm)
		}
	})
}

func TestConfigTemplate(t *testing.T) {
	t.Parallel()

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		t.Fatalf("failed to read template: %v", err)
	}
	for _, want := range []string{"defaults:", "paths:", "minLength:", "scanScriptCode:", "#"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("expected template to contain %q", want)
		}
	}
}
