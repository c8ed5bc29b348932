package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/i18nscan/internal/config"
	"github.com/nao1215/i18nscan/internal/model"
	"github.com/nao1215/i18nscan/internal/report"
	"github.com/nao1215/i18nscan/internal/scan"
)

// errFindingsPresent is returned by find --fail-on-findings when text was found.
var errFindingsPresent = errors.New("hardcoded text found")

// NewFindCmd creates the find command.
func NewFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find [file-or-directory]",
		Short: "Report hardcoded text in templates",
		Long: `Find scans a template, or every matching template in a directory, and
reports the hardcoded, human-visible text it contains. Nothing is modified.

Examples:
  # Scan the templates of a directory
  i18nscan find app/views

  # Scan recursively and write a SARIF report for code scanning
  i18nscan find -r -f sarif -o i18n.sarif app/views

  # Write a JSON report and still see the findings in the terminal
  i18nscan find -f json -o i18n.json --tee app/views

  # Scan four files at a time and fail when anything is found
  i18nscan find -r -b 4 --fail-on-findings app/views

  # List only the distinct strings
  i18nscan find --plain app/views/posts/index.html.erb`,
		Args: cobra.ExactArgs(1),
		RunE: runFindCmd,
	}

	addExtractionFlags(cmd)

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of files scanned concurrently")
	cmd.Flags().StringP("format", "f", config.FormatText,
		"Report format: "+strings.Join(config.Formats(), ", "))
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("tee", false,
		"With --output, also print a text report to stdout")
	cmd.Flags().Bool("plain", false,
		"List distinct strings only instead of kind, source and line")
	cmd.Flags().Bool("fail-on-findings", false,
		"Exit with an error when any hardcoded text is found")

	return cmd
}

// runFindCmd executes the find command.
func runFindCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	root, err := cleanRoot(args[0])
	if err != nil {
		return err
	}
	failOnFindings, err := cmd.Flags().GetBool("fail-on-findings")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	runReport, err := runFind(ctx, cmd, cfg, root, logger)
	if err != nil {
		return err
	}
	if failOnFindings && runReport.HasFindings() {
		return fmt.Errorf("%w: %d string(s)", errFindingsPresent, runReport.TotalFindings())
	}
	return nil
}

// runFind scans root, writes the report and records the run.
func runFind(ctx context.Context, cmd *cobra.Command, cfg *config.Config, root string, logger *slog.Logger) (*model.RunReport, error) {
	logger.Info("starting find",
		"root", root,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	runReport, scanErr := scan.New(cfg, scan.WithLogger(logger)).Find(ctx, root)
	if runReport == nil {
		return nil, scanErr
	}

	if err := outputReport(cmd, cfg, runReport); err != nil {
		return nil, err
	}

	// A cancelled run is incomplete and would show false resolutions in history.
	if scanErr != nil {
		return nil, scanErr
	}

	db, err := openHistory(cfg, logger)
	if err != nil {
		return nil, err
	}
	if db != nil {
		defer db.Close()
		if err := db.SaveRun(ctx, runReport); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
		logger.Info("run saved to database", "id", runReport.ID)
	}

	for _, f := range runReport.FailedFiles() {
		logger.Warn("file could not be scanned", "path", f.Path, "error", f.Error)
	}
	return runReport, nil
}

// outputReport writes the report in the configured format to stdout or the
// report file. With --tee a text report also goes to stdout.
func outputReport(cmd *cobra.Command, cfg *config.Config, runReport *model.RunReport) error {
	tee, err := cmd.Flags().GetBool("tee")
	if err != nil {
		return err
	}

	opts := report.Options{
		Structured: cfg.Structured,
		Verbose:    cfg.Verbose,
		Version:    getVersion(),
	}
	if cfg.ReportFile == "" {
		writer, err := report.New(cfg.Format, cmd.OutOrStdout(), opts)
		if err != nil {
			return err
		}
		_, err = writer.Write(runReport)
		return err
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // report path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	writer, err := report.New(cfg.Format, f, opts)
	if err != nil {
		return err
	}
	if tee {
		terminal, err := report.New(config.FormatText, cmd.OutOrStdout(), opts)
		if err != nil {
			return err
		}
		writer = report.NewMultiWriter(writer, terminal)
	}
	_, err = writer.Write(runReport)
	return err
}
