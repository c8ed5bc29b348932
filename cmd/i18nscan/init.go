package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/i18nscan/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/i18nscan.yaml
var configTemplate embed.FS

const templatePath = "templates/i18nscan.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an i18nscan configuration file",
		Long: `Init writes a commented .i18nscan configuration file.

The generated file contains the default extraction settings and
examples of per-path overrides for namespaces, minimum length and
extra attributes.

Examples:
  # Create .i18nscan in the current directory
  i18nscan init

  # Write the file somewhere else
  i18nscan init -o config/i18nscan.yaml

  # Overwrite an existing file
  i18nscan init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to tune extraction per directory:")
	fmt.Fprintln(out, "  - Locale key namespaces")
	fmt.Fprintln(out, "  - Minimum text length and ignore patterns")
	fmt.Fprintln(out, "  - Extra attributes and script scanning")
	return nil
}
