// ABOUTME: CLI commands for managing workout plans.
// ABOUTME: Supports add, list, show, exercise, and delete subcommands.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/lifts/internal/models"
	"github.com/harperreed/lifts/internal/storage"
	"github.com/spf13/cobra"
)

var (
	workoutDay string

	exerciseSets   int
	exerciseReps   int
	exerciseWeight float64
	exerciseSpecs  []string
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workout plans",
	Long: `Build the plans that sessions walk through.

WORKFLOW:

  1. Create a plan:      lifts workout add "Push Day" --day monday
  2. Add exercises:      lifts workout exercise abc123 "Bench Press" --set 10@60 --set 8@65
  3. Review it:          lifts workout show abc123
  4. Train with it:      lifts session start abc123

COMMANDS:

  add       Create a new workout plan
  list      List plans, optionally for one day
  show      View a plan with its exercises and sets
  exercise  Append an exercise to a plan
  delete    Delete a plan (its history is kept)

DAYS:

  --day accepts full names (monday), abbreviations (mon), or 0-6 with 0 = Sunday.`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new workout plan",
	Long: `Add a new workout plan.

Examples:
  lifts workout add "Push Day" --day monday
  lifts workout add Mobility`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := models.ParseWeekday(workoutDay)
		if err != nil {
			return err
		}

		w, err := db.CreateWorkout(cmd.Context(), args[0], day)
		if err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		color.Green("✓ Added workout %s", w.Name)
		fmt.Printf("  ID: %s\n", shortID(w.ID))
		if w.DayOfWeek != models.Unscheduled {
			fmt.Printf("  Day: %s\n", w.DayOfWeek.Title())
		}
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workout plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			workouts []*models.Workout
			err      error
		)
		switch strings.ToLower(workoutDay) {
		case "":
			workouts, err = db.ListAllWorkouts(cmd.Context())
		case "none", "unscheduled":
			workouts, err = db.ListWorkoutsByDay(cmd.Context(), models.Unscheduled)
		default:
			day, perr := models.ParseWeekday(workoutDay)
			if perr != nil {
				return perr
			}
			workouts, err = db.ListWorkoutsByDay(cmd.Context(), day)
		}
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			fmt.Printf("%s %s %s\n",
				faint.Sprint(shortID(w.ID)),
				padRight(w.DayOfWeek.Title(), 12),
				truncate(w.Name, 40))
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a workout plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveWorkoutID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}
		w, err := db.GetWorkoutDetails(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}
		if w == nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}

		fmt.Printf("Workout: %s\n", shortID(w.ID))
		fmt.Printf("Name: %s\n", w.Name)
		fmt.Printf("Day: %s\n", w.DayOfWeek.Title())
		fmt.Printf("Created: %s\n", w.CreatedAt.Local().Format("2006-01-02 15:04"))

		if len(w.Exercises) == 0 {
			fmt.Println("\nNo exercises yet.")
		} else {
			fmt.Println("\nExercises:")
			for i, ex := range w.Exercises {
				fmt.Printf("  %d. %s\n", i+1, ex.Name)
				for _, s := range ex.Sets {
					fmt.Printf("       set %d: %s\n", s.SetNumber, formatPlannedSet(s))
				}
			}
		}

		cardio, err := db.ListCardio(cmd.Context(), w.ID)
		if err != nil {
			return fmt.Errorf("failed to list cardio: %w", err)
		}
		if len(cardio) > 0 {
			fmt.Println("\nCardio:")
			for _, c := range cardio {
				fmt.Printf("  - %s\n", describeCardio(c))
			}
		}
		return nil
	},
}

var workoutExerciseCmd = &cobra.Command{
	Use:   "exercise <workout-id> <name>",
	Short: "Append an exercise to a workout plan",
	Long: `Append an exercise to the end of a workout plan.

Describe sets individually with --set (repeatable), as reps or reps@weight,
or give a uniform prescription with --sets and --reps (and optionally --weight).

Examples:
  lifts workout exercise abc123 "Bench Press" --set 10@60 --set 8@65 --set 6@70
  lifts workout exercise abc123 "Pull Up" --sets 3 --reps 8`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveWorkoutID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}

		sets, err := exerciseSetPlans(cmd)
		if err != nil {
			return err
		}

		ex, err := db.AddExerciseToWorkout(cmd.Context(), id, args[1], sets)
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		color.Green("✓ Added %s", ex.Name)
		for _, s := range ex.Sets {
			fmt.Printf("  set %d: %s\n", s.SetNumber, formatPlannedSet(s))
		}
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a workout plan",
	Long: `Delete a workout plan with its exercises, sets, and cardio.

Finished sessions of this plan stay in your history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveWorkoutID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}
		w, err := db.GetWorkoutDetails(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}
		if w == nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}

		if err := db.DeleteWorkout(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}

		color.Yellow("✗ Deleted workout %s", w.Name)
		fmt.Printf("  %s %d exercises\n", color.New(color.Faint).Sprint(shortID(w.ID)), len(w.Exercises))
		return nil
	},
}

// exerciseSetPlans turns the exercise flags into set plans.
func exerciseSetPlans(cmd *cobra.Command) ([]models.SetPlan, error) {
	if len(exerciseSpecs) > 0 {
		if cmd.Flags().Changed("sets") || cmd.Flags().Changed("reps") {
			return nil, fmt.Errorf("use either --set or --sets/--reps, not both")
		}
		sets := make([]models.SetPlan, 0, len(exerciseSpecs))
		for _, spec := range exerciseSpecs {
			sp, err := parseSetSpec(spec)
			if err != nil {
				return nil, err
			}
			sets = append(sets, sp)
		}
		return sets, nil
	}

	if exerciseSets < 0 {
		return nil, &storage.ValidationError{Field: "sets", Msg: fmt.Sprintf("must not be negative: %d", exerciseSets)}
	}
	if exerciseReps < 0 {
		return nil, &storage.ValidationError{Field: "reps", Msg: fmt.Sprintf("must not be negative: %d", exerciseReps)}
	}
	if exerciseSets == 0 {
		return nil, nil
	}
	sets := models.UniformSets(exerciseSets, exerciseReps)
	if cmd.Flags().Changed("weight") {
		for i := range sets {
			w := exerciseWeight
			sets[i].Weight = &w
		}
	}
	return sets, nil
}

func init() {
	workoutAddCmd.Flags().StringVarP(&workoutDay, "day", "d", "", "day of week (monday, mon, 0-6)")
	workoutListCmd.Flags().StringVarP(&workoutDay, "day", "d", "", "only plans for this day (or 'none')")

	workoutExerciseCmd.Flags().StringArrayVar(&exerciseSpecs, "set", nil, "one set as reps or reps@weight (repeatable)")
	workoutExerciseCmd.Flags().IntVar(&exerciseSets, "sets", 0, "number of uniform sets")
	workoutExerciseCmd.Flags().IntVar(&exerciseReps, "reps", 10, "repetitions per uniform set")
	workoutExerciseCmd.Flags().Float64Var(&exerciseWeight, "weight", 0, "target weight per uniform set")

	workoutCmd.AddCommand(workoutAddCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutExerciseCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
