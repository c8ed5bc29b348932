package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/i18nscan/internal/config"
	"github.com/nao1215/i18nscan/internal/database"
	"github.com/nao1215/i18nscan/internal/model"
	"github.com/nao1215/i18nscan/internal/report"
	"github.com/nao1215/i18nscan/internal/scan"
)

// NewExchangeCmd creates the exchange command.
func NewExchangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exchange [file]",
		Short: "Replace hardcoded text in one template with translation lookups",
		Long: `Exchange finds the hardcoded text of a single template, generates a
translation key for each string, writes the strings into the locale file
and rewrites the template to look them up:

  text node            Welcome         -> <%= t("welcome") %>
  attribute            alt="Close"     -> alt="<%= t("close") %>"
  directive literal    "Sign out"      -> t("sign_out")
  script string        "Saved"         -> "<%= j t("saved") %>"

Strings inside data attribute JSON are reported but never rewritten.
The template is copied to a .bak file first unless --no-backup is given.

Examples:
  # Exchange text and namespace keys by hand
  i18nscan exchange --namespace posts.index app/views/posts/index.html.erb

  # Preview without touching any file
  i18nscan exchange --dry-run app/views/posts/index.html.erb`,
		Args: cobra.ExactArgs(1),
		RunE: runExchangeCmd,
	}

	addExtractionFlags(cmd)
	addRewriteFlags(cmd)

	return cmd
}

// NewAutoCmd creates the auto command.
func NewAutoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auto [file-or-directory]",
		Short: "Exchange hardcoded text in every matching template",
		Long: `Auto runs exchange on a template, or on every template in a directory
that matches --pattern, one file at a time. Keys are namespaced by each
template path when --namespace-from-path is given.

Examples:
  # Internationalize a whole view tree
  i18nscan auto -r --namespace-from-path --namespace-base app app/views

  # Preview the summary as JSON
  i18nscan auto -r --dry-run -f json app/views`,
		Args: cobra.ExactArgs(1),
		RunE: runAutoCmd,
	}

	addExtractionFlags(cmd)
	addRewriteFlags(cmd)

	return cmd
}

// runExchangeCmd executes the exchange command.
func runExchangeCmd(cmd *cobra.Command, args []string) error {
	return runRewrite(cmd, args[0], database.CommandExchange,
		func(ctx context.Context, s *scan.Scanner, path string) (*model.AutoResult, error) {
			r, err := s.Exchange(ctx, path)
			if err != nil {
				return nil, err
			}
			result := &model.AutoResult{}
			result.Add(r)
			return result, nil
		})
}

// runAutoCmd executes the auto command.
func runAutoCmd(cmd *cobra.Command, args []string) error {
	return runRewrite(cmd, args[0], database.CommandAuto,
		func(ctx context.Context, s *scan.Scanner, root string) (*model.AutoResult, error) {
			return s.Auto(ctx, root)
		})
}

// rewriteFunc runs one rewrite operation.
type rewriteFunc func(ctx context.Context, s *scan.Scanner, path string) (*model.AutoResult, error)

// runRewrite builds the configuration, runs op, prints the summary and records the run.
func runRewrite(cmd *cobra.Command, arg, command string, op rewriteFunc) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	root, err := cleanRoot(arg)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	logger.Info("starting "+command,
		"root", root,
		"localePath", cfg.LocalePath,
		"dryRun", cfg.DryRun,
	)

	result, opErr := op(ctx, scan.New(cfg, scan.WithLogger(logger)), root)
	if result == nil {
		return opErr
	}

	if _, err := report.NewSummary(cfg.Format, cmd.OutOrStdout()).WriteSummary(result); err != nil {
		return err
	}

	if err := recordRewrite(ctx, cfg, command, root, result, logger); err != nil {
		return err
	}
	return opErr
}

// recordRewrite stores a rewrite run unless history is disabled or nothing was written.
func recordRewrite(ctx context.Context, cfg *config.Config, command, root string, result *model.AutoResult, logger *slog.Logger) error {
	if cfg.DryRun || result.FilesProcessed == 0 {
		return nil
	}

	db, err := openHistory(cfg, logger)
	if err != nil || db == nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveExchange(context.WithoutCancel(ctx), command, root, result)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	logger.Info("run saved to database", "id", id)
	return nil
}
