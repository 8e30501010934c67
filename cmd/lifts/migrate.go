// ABOUTME: CLI command for copying data from another lifts database.
// ABOUTME: Moves plans and history into the current database with IDs intact.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/lifts/internal/config"
	"github.com/harperreed/lifts/internal/storage"
	"github.com/spf13/cobra"
)

var migrateDryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate <source.db>",
	Short: "Copy data from another lifts database",
	Long: `Copy every plan, cardio block, and finished session from another lifts
database into the current one.

IDs are kept, so sessions stay linked to their plans. The copy is all or
nothing, and the current database must be empty.

USAGE:

  lifts migrate ~/old-laptop/lifts.db --dry-run   # Preview what would be copied
  lifts migrate ~/old-laptop/lifts.db             # Perform the copy
  lifts --db new.db migrate lifts.db              # Copy into a different file`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		srcPath := config.ExpandPath(args[0])

		if srcPath == db.Path() {
			return fmt.Errorf("source and destination are the same database")
		}
		ok, err := storage.FileExists(srcPath)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("source database not found: %s", srcPath)
		}

		src, err := storage.Open(srcPath, storage.WithLogger(cmdLogger(cmd)))
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer func() { _ = src.Close() }()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			data, err := src.GetAllData(ctx)
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			printMigrateSummary(storage.Summarize(data))
			return nil
		}

		summary, err := storage.MigrateData(ctx, src, db)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated from %s", srcPath)
		printMigrateSummary(summary)
		return nil
	},
}

func printMigrateSummary(s *storage.MigrateSummary) {
	fmt.Printf("  Workouts:  %d\n", s.Workouts)
	fmt.Printf("  Exercises: %d\n", s.Exercises)
	fmt.Printf("  Cardio:    %d\n", s.Cardio)
	fmt.Printf("  Sessions:  %d\n", s.Sessions)
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
