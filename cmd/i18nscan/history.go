package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/i18nscan/internal/database"
	"github.com/nao1215/i18nscan/internal/model"
)

// defaultHistoryLimit is the number of runs listed when --limit is not given.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command lists recorded runs and compares find runs over the same root.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [file-or-directory]",
		Short: "List recorded runs and compare find results",
		Long: `History lists the runs recorded in the history database, newest first.

With --compare it compares the latest two find runs over the same root
and shows which hardcoded strings are new and which were resolved.
Strings are matched by file, text and kind, so moving a line is not a
change.

Examples:
  # List every recorded run
  i18nscan history

  # List the runs over one directory
  i18nscan history app/views

  # Compare the latest two find runs for a directory
  i18nscan history --compare app/views

  # Output the comparison in JSON format
  i18nscan history --compare --json app/views`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("compare", "C", false,
		"Compare the latest two find runs for the given root")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs listed (0 for all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	compare, err := cmd.Flags().GetBool("compare")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir := getDBDir(cmd)

	// Validate arguments before opening the database.
	var root string
	if len(args) == 1 {
		if root, err = cleanRoot(args[0]); err != nil {
			return err
		}
	}
	if compare && root == "" {
		return errors.New("a root is required with --compare (use 'i18nscan history' to list runs)")
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if compare {
		diff, err := db.CompareLatest(ctx, root)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, diff)
		}
		writeDiff(out, root, diff)
		return nil
	}

	runs, err := db.ListRuns(ctx, root, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if jsonOutput {
		return writeJSON(out, runs)
	}
	writeRuns(out, root, runs)
	return nil
}

// writeRuns prints the run list as a table.
func writeRuns(out io.Writer, root string, runs []database.RunRecord) {
	if len(runs) == 0 {
		if root != "" {
			fmt.Fprintf(out, "No runs recorded for %s\n", root)
		} else {
			fmt.Fprintln(out, "No runs recorded.")
		}
		fmt.Fprintln(out, "\nUse 'i18nscan find <dir>' to scan templates.")
		return
	}

	fmt.Fprintf(out, "Recorded runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-36s  %-8s  %-19s  %6s  %8s  %s\n", "ID", "Command", "Date", "Files", "Strings", "Root")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 100))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-36s  %-8s  %-19s  %6d  %8d  %s\n",
			run.ID,
			run.Command,
			run.ScannedAt.Local().Format("2006-01-02 15:04:05"),
			run.FileCount,
			run.FindingCount,
			run.Root,
		)
	}

	fmt.Fprintln(out, "\nUse 'i18nscan history --compare <root>' to compare the latest two find runs.")
}

// writeDiff prints a comparison in human-readable form.
func writeDiff(out io.Writer, root string, diff *database.Diff) {
	fmt.Fprintf(out, "Comparing find runs for %s\n", root)
	fmt.Fprintf(out, "  previous: %s\n", diff.OldRunID)
	fmt.Fprintf(out, "  latest:   %s\n\n", diff.NewRunID)

	if !diff.HasChanges() {
		fmt.Fprintf(out, "No changes (%d unchanged).\n", diff.Unchanged)
		return
	}

	fmt.Fprintf(out, "New (%d):\n", len(diff.New))
	for _, e := range diff.New {
		fmt.Fprintf(out, "  + %s\n", formatEntry(e))
	}
	fmt.Fprintf(out, "\nResolved (%d):\n", len(diff.Resolved))
	for _, e := range diff.Resolved {
		fmt.Fprintf(out, "  - %s\n", formatEntry(e))
	}
	fmt.Fprintf(out, "\nUnchanged: %d\n", diff.Unchanged)
	if len(diff.ChangedFiles) > 0 {
		fmt.Fprintf(out, "Changed files: %s\n", strings.Join(diff.ChangedFiles, ", "))
	}
}

// formatEntry renders a diff entry as path:line [source] "text".
func formatEntry(e database.DiffEntry) string {
	location := e.Path
	if e.Finding.HasLine() {
		location = fmt.Sprintf("%s:%d", e.Path, *e.Finding.Line)
	}
	return fmt.Sprintf("%s [%s] %q", location, sourceOf(e.Finding), e.Finding.Text)
}

func sourceOf(f model.Finding) string {
	if f.Source != "" {
		return f.Source
	}
	return f.Kind.String()
}

// writeJSON writes v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
