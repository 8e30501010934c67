// ABOUTME: CLI command for wiping the database.
// ABOUTME: Drops every table and recreates an empty schema after confirmation.
package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all plans and history",
	Long: `Delete every workout plan and finished session, then recreate an empty
database.

CAUTION:

  There is no undo. Export first if you might want the data back:

  lifts export json -o backup.json
  lifts reset`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			confirmed := false
			if err := huh.NewConfirm().
				Title("Delete all lifts data?").
				Description(db.Path()).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed).
				Run(); err != nil {
				return err
			}
			if !confirmed {
				fmt.Println("Nothing deleted.")
				return nil
			}
		}

		if err := db.HardReset(cmd.Context()); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		cmdLogger(cmd).Warn("database reset", "path", db.Path())

		color.Yellow("✗ All data deleted")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}
