// ABOUTME: CLI commands for exporting and importing lifts data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export plans and history",
	Long: `Export plans and history in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (plans grouped by day, human-readable)
  markdown   Markdown tables (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include sessions since this date (markdown only, YYYY-MM-DD)

EXAMPLES:

  lifts export json                          # Export all data as JSON
  lifts export json -o backup.json           # Save to file
  lifts export yaml                          # Export as YAML
  lifts export markdown --since 2026-01-01   # Sessions from 2026 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = db.ExportJSON(ctx)
		case "yaml":
			data, err = db.ExportYAML(ctx)
		case "markdown", "md":
			var since *time.Time
			if exportSince != "" {
				t, perr := parseDate(exportSince)
				if perr != nil {
					return perr
				}
				since = &t
			}
			var md string
			md, err = db.ExportMarkdown(ctx, since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import plans and history from JSON",
	Long: `Import plans and history from a JSON backup file.

The import is all or nothing: if any record fails, nothing is written.
Duplicate entries (same ID) will cause an error.

EXAMPLES:

  lifts import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := db.ImportJSON(cmd.Context(), data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include sessions since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
