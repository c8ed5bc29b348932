package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/nao1215/i18nscan/internal/locale"
	"github.com/nao1215/i18nscan/internal/model"
)

func TestNewExchangeAndAutoCmd(t *testing.T) {
	t.Parallel()

	for _, cmd := range []*cobra.Command{NewExchangeCmd(), NewAutoCmd()} {
		for _, name := range []string{"locale-path", "locale", "dry-run", "no-backup", "format", "namespace-from-path"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("%s: expected %s flag", cmd.Name(), name)
			}
		}
		if cmd.Flags().Lookup("batch") != nil {
			t.Errorf("%s: must not register find flags", cmd.Name())
		}
	}
}

func TestRunExchangeCmd(t *testing.T) {
	t.Parallel()

	t.Run("rewrites template and writes locale file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeTemplate(t, filepath.Join(dir, "index.html.erb"), sampleTemplate)
		localePath := filepath.Join(dir, "config", "locales", "en.yml")

		out, err := execute(t, "exchange", "--db-dir", filepath.Join(dir, "db"), "-l", localePath, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"EXCHANGE SUMMARY", "Replaced:        2", "Keys Added:      2"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}

		want := "<h1><%= t(\"welcome\") %></h1>\n<p><%= t(\"sign_in\") %></p>\n"
		if got := readTemplate(t, path); got != want {
			t.Errorf("rewritten template = %q, want %q", got, want)
		}
		if got := readTemplate(t, path+".bak"); got != sampleTemplate {
			t.Errorf("backup = %q, want original content", got)
		}

		store, err := locale.Load(localePath)
		if err != nil {
			t.Fatal(err)
		}
		if v, ok := store.Lookup("en", "sign_in"); !ok || v != "Sign in" {
			t.Errorf("Lookup(sign_in) = %q, %v", v, ok)
		}
	})

	t.Run("dry run touches nothing", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeTemplate(t, filepath.Join(dir, "index.html.erb"), sampleTemplate)
		localePath := filepath.Join(dir, "en.yml")

		out, err := execute(t, "exchange", "--no-history", "-d", "-f", "json", "-l", localePath, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var result model.AutoResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if result.TotalReplaced != 2 || len(result.Details) != 1 || !result.Details[0].DryRun {
			t.Errorf("unexpected dry run result: %+v", result)
		}

		if got := readTemplate(t, path); got != sampleTemplate {
			t.Errorf("template modified in dry run: %q", got)
		}
		for _, p := range []string{localePath, path + ".bak"} {
			if _, err := os.Stat(p); !os.IsNotExist(err) {
				t.Errorf("expected %s not to exist, got %v", p, err)
			}
		}
	})

	t.Run("no backup", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeTemplate(t, filepath.Join(dir, "index.html.erb"), sampleTemplate)

		if _, err := execute(t, "exchange", "--no-history", "--no-backup", "-l", filepath.Join(dir, "en.yml"), path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
			t.Errorf("expected no backup, got %v", err)
		}
	})

	t.Run("directory is rejected", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		if _, err := execute(t, "exchange", "--no-history", "-l", filepath.Join(dir, "en.yml"), dir); err == nil {
			t.Error("expected error for a directory")
		}
	})
}

func TestRunAutoCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	views := filepath.Join(dir, "app", "views")
	writeTemplate(t, filepath.Join(views, "posts", "index.html.erb"), "<h2>Latest posts</h2>")
	writeTemplate(t, filepath.Join(views, "users", "show.html.erb"), "<p>Profile</p>")
	localePath := filepath.Join(dir, "en.yml")

	out, err := execute(t, "auto", "--no-history", "-r", "-f", "json",
		"--namespace-from-path", "--namespace-base", filepath.Join(dir, "app"),
		"-l", localePath, views)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result model.AutoResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if result.FilesProcessed != 2 || result.TotalReplaced != 2 || result.TotalKeys != 2 {
		t.Errorf("unexpected totals: %+v", result)
	}

	store, err := locale.Load(localePath)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := store.Lookup("en", "views.posts.index.latest_posts"); !ok || v != "Latest posts" {
		t.Errorf("Lookup(views.posts.index.latest_posts) = %q, %v", v, ok)
	}
	if v, ok := store.Lookup("en", "views.users.show.profile"); !ok || v != "Profile" {
		t.Errorf("Lookup(views.users.show.profile) = %q, %v", v, ok)
	}
}
