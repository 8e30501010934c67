// ABOUTME: CLI commands for finished workout sessions.
// ABOUTME: Lists, shows, and deletes completed workouts.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/lifts/internal/models"
	"github.com/spf13/cobra"
)

var (
	historyLatest bool
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:     "history [workout-id]",
	Aliases: []string{"h"},
	Short:   "List finished sessions",
	Long: `List finished sessions, newest first.

Sessions keep their workout and exercise names even after the plan is
renamed or deleted.

EXAMPLES:

  lifts history                   # All sessions
  lifts history abc123            # Sessions of one plan
  lifts history abc123 --latest   # Last exercise of the most recent session
  lifts history show def456       # Full detail of one session`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if historyLatest {
			if len(args) == 0 {
				return fmt.Errorf("--latest needs a workout ID")
			}
			id, err := db.ResolveWorkoutID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("workout not found: %s", args[0])
			}
			cw, err := db.LatestCompletionFor(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load latest session: %w", err)
			}
			if cw == nil {
				fmt.Println("No sessions yet.")
				return nil
			}
			printCompletedDetail(cw)
			return nil
		}

		var (
			history []*models.CompletedWorkout
			err     error
		)
		if len(args) == 1 {
			id, rerr := db.ResolveWorkoutID(ctx, args[0])
			if rerr != nil {
				return fmt.Errorf("workout not found: %s", args[0])
			}
			history, err = db.GetWorkoutHistory(ctx, id)
		} else {
			history, err = db.ListCompletedWorkouts(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		if len(history) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}
		if historyLimit > 0 && len(history) > historyLimit {
			history = history[:historyLimit]
		}

		faint := color.New(color.Faint)
		for _, cw := range history {
			fmt.Printf("%s %s %s %d sets  %s\n",
				faint.Sprint(shortID(cw.ID)),
				faint.Sprint(cw.Date.Local().Format("2006-01-02 15:04")),
				padRight(truncate(cw.WorkoutName, 24), 24),
				cw.SetCount(),
				formatWeight(cw.Volume()))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a finished session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cw, err := findCompleted(cmd, args[0])
		if err != nil {
			return err
		}
		printCompletedDetail(cw)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a finished session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cw, err := findCompleted(cmd, args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteCompletedWorkout(cmd.Context(), cw.ID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		color.Yellow("✗ Deleted session of %s", cw.WorkoutName)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(shortID(cw.ID)),
			cw.Date.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

// findCompleted resolves a session ID prefix and loads it from the full history list.
func findCompleted(cmd *cobra.Command, idOrPrefix string) (*models.CompletedWorkout, error) {
	id, err := db.ResolveCompletedWorkoutID(cmd.Context(), idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("session not found: %s", idOrPrefix)
	}
	all, err := db.ListCompletedWorkouts(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	for _, cw := range all {
		if cw.ID == id {
			return cw, nil
		}
	}
	return nil, fmt.Errorf("session not found: %s", idOrPrefix)
}

func printCompletedDetail(cw *models.CompletedWorkout) {
	fmt.Printf("Session: %s\n", shortID(cw.ID))
	fmt.Printf("Workout: %s\n", cw.WorkoutName)
	if cw.WorkoutID == nil {
		fmt.Println("  (plan deleted)")
	}
	fmt.Printf("Date: %s\n", cw.Date.Local().Format("2006-01-02 15:04"))

	if len(cw.Exercises) == 0 {
		fmt.Println("\nNo exercises recorded.")
		return
	}
	fmt.Println()
	for _, ce := range cw.Exercises {
		fmt.Printf("  %s\n", ce.ExerciseName)
		for _, s := range ce.Sets {
			line := fmt.Sprintf("    set %d: %d @ %s", s.SetNumber, s.Repetitions, formatWeight(s.Weight))
			if s.Observation != nil {
				line += color.New(color.Faint).Sprintf("  %s", *s.Observation)
			}
			fmt.Println(line)
		}
	}
}

func init() {
	historyCmd.Flags().BoolVar(&historyLatest, "latest", false, "show only the latest exercise of the most recent session")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max number of results")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
