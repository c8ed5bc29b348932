package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/i18nscan/internal/config"
)

// NewRootCmd creates the root command for i18nscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "i18nscan",
		Short: "Find and internationalize hardcoded text in templates",
		Long: `i18nscan scans ERB/HTML templates for hardcoded, human-visible text:
visible text nodes, translatable attributes such as alt and title, string
literals inside template directives and embedded scripts, and strings
inside JSON carried by data attributes.

It can then exchange that text for translation lookups, writing the
original strings into a YAML locale file under generated keys.

Every run is recorded in a local history database so that consecutive
find runs over the same directory can be compared.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("no-history", false, "Do not record this run in the history database")
	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(), "Directory holding the history database")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")

	cmd.AddCommand(NewFindCmd())
	cmd.AddCommand(NewExchangeCmd())
	cmd.AddCommand(NewAutoCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
