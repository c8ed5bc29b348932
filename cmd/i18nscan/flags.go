package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/i18nscan/internal/config"
	"github.com/nao1215/i18nscan/internal/database"
	ilog "github.com/nao1215/i18nscan/internal/log"
)

// addExtractionFlags registers the flags shared by find, exchange and auto.
func addExtractionFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("min-length", "m", config.DefaultMinLength,
		"Minimum length of reported text")
	cmd.Flags().StringSliceP("ignore", "i", nil,
		"Regular expression for text that is never reported (repeatable)")
	cmd.Flags().StringSlice("extra-attrs", nil,
		"Additional attribute names to extract (repeatable)")
	cmd.Flags().Bool("scan-script-code", true,
		"Extract string literals from template directives")
	cmd.Flags().Bool("scan-embedded-scripts", false,
		"Extract string literals from <script> elements")
	cmd.Flags().String("data-prefix", config.DefaultStructuredDataPrefix,
		"Prefix of data attributes decoded as JSON")
	cmd.Flags().BoolP("recursive", "r", false,
		"Descend into subdirectories")
	cmd.Flags().StringP("pattern", "p", config.DefaultFilePattern,
		"Glob selecting the templates processed in a directory")
	cmd.Flags().String("namespace", "",
		"Prefix for every generated key")
	cmd.Flags().Bool("namespace-from-path", false,
		"Derive the key namespace from each template path")
	cmd.Flags().String("namespace-base", "",
		"Directory namespaces are derived relative to")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .i18nscan in current or home directory)")
}

// addRewriteFlags registers the flags shared by exchange and auto.
func addRewriteFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("locale-path", "l", config.DefaultLocalePath,
		"YAML locale file receiving the generated keys")
	cmd.Flags().String("locale", config.DefaultLocale,
		"Locale code the keys are written under")
	cmd.Flags().BoolP("dry-run", "d", false,
		"Compute replacements without writing any file")
	cmd.Flags().Bool("no-backup", false,
		"Do not copy templates to .bak files before rewriting them")
	cmd.Flags().StringP("format", "f", config.FormatText,
		"Summary format: text or json")
}

// buildConfig creates a Config from the flags registered on cmd and the
// configuration file. File defaults only fill flags left at their default.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()
	var err error

	if cfg.MinLength, err = flags.GetInt("min-length"); err != nil {
		return nil, err
	}
	if cfg.IgnorePatterns, err = flags.GetStringSlice("ignore"); err != nil {
		return nil, err
	}
	if cfg.ExtraAttrs, err = flags.GetStringSlice("extra-attrs"); err != nil {
		return nil, err
	}
	if cfg.ScanScriptCode, err = flags.GetBool("scan-script-code"); err != nil {
		return nil, err
	}
	if cfg.ScanEmbeddedScripts, err = flags.GetBool("scan-embedded-scripts"); err != nil {
		return nil, err
	}
	if cfg.StructuredDataPrefix, err = flags.GetString("data-prefix"); err != nil {
		return nil, err
	}
	if cfg.Recursive, err = flags.GetBool("recursive"); err != nil {
		return nil, err
	}
	if cfg.FilePattern, err = flags.GetString("pattern"); err != nil {
		return nil, err
	}
	if cfg.Namespace, err = flags.GetString("namespace"); err != nil {
		return nil, err
	}
	if cfg.NamespaceFromPath, err = flags.GetBool("namespace-from-path"); err != nil {
		return nil, err
	}
	if cfg.NamespaceBase, err = flags.GetString("namespace-base"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	if flags.Lookup("locale-path") != nil {
		if err := readRewriteFlags(cmd, cfg); err != nil {
			return nil, err
		}
	}
	if flags.Lookup("batch") != nil {
		if err := readReportFlags(cmd, cfg); err != nil {
			return nil, err
		}
	} else if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}

	cfg.DBDir = getDBDir(cmd)
	cfg.SaveToDB = !getNoHistoryFlag(cmd)
	cfg.Verbose = getVerboseFlag(cmd)

	if err := loadConfigFile(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// readRewriteFlags reads the exchange and auto flags.
func readRewriteFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if cfg.LocalePath, err = flags.GetString("locale-path"); err != nil {
		return err
	}
	if cfg.Locale, err = flags.GetString("locale"); err != nil {
		return err
	}
	if cfg.DryRun, err = flags.GetBool("dry-run"); err != nil {
		return err
	}
	noBackup, err := flags.GetBool("no-backup")
	if err != nil {
		return err
	}
	cfg.Backup = !noBackup
	return nil
}

// readReportFlags reads the find flags.
func readReportFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return err
	}
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return err
	}
	plain, err := flags.GetBool("plain")
	if err != nil {
		return err
	}
	cfg.Structured = !plain
	return nil
}

// loadConfigFile merges the configuration file into cfg.
// If the user explicitly specified a config file path, a missing file is an
// error. Otherwise a missing file is silently ignored.
func loadConfigFile(cmd *cobra.Command, cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath == "" {
		if explicitConfigPath {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	changed := cmd.Flags().Changed
	cfg.ApplyFile(file, config.Explicit{
		Namespace:           changed("namespace"),
		MinLength:           changed("min-length"),
		IgnorePatterns:      changed("ignore"),
		ExtraAttrs:          changed("extra-attrs"),
		ScanScriptCode:      changed("scan-script-code"),
		ScanEmbeddedScripts: changed("scan-embedded-scripts"),
	})
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getDBDir returns the database directory from the command or its parent,
// falling back to the XDG data directory.
func getDBDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		dir, err = cmd.Root().PersistentFlags().GetString("db-dir")
		if err != nil {
			return config.XDGDataDir()
		}
	}
	return dir
}

// getNoHistoryFlag retrieves the no-history flag from the command or its parent.
func getNoHistoryFlag(cmd *cobra.Command) bool {
	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		noHistory, err = cmd.Root().PersistentFlags().GetBool("no-history")
		if err != nil {
			return false
		}
	}
	return noHistory
}

// setupLogger creates the redacting logger and makes it the default.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	newLogger := ilog.NewLogger
	if jsonLogs, err := cmd.Flags().GetBool("log-json"); err == nil && jsonLogs {
		newLogger = ilog.NewJSONLogger
	}
	logger := newLogger(cmd.ErrOrStderr(), verbose)
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, stopping after the current file")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// openHistory opens the history database, or returns nil when history is disabled.
func openHistory(cfg *config.Config, logger *slog.Logger) (*database.HistoryDB, error) {
	if !cfg.SaveToDB {
		return nil, nil
	}
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("database opened", "dir", cfg.DBDir)
	return db, nil
}

// cleanRoot normalizes the root argument so history lookups match.
func cleanRoot(root string) (string, error) {
	if root == "" {
		return "", errors.New("a template file or directory is required")
	}
	return filepath.Clean(root), nil
}
