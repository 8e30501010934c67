// ABOUTME: CLI command for running a workout session interactively.
// ABOUTME: Uses huh prompts to drive the session controller set by set.
package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/lifts/internal/models"
	"github.com/harperreed/lifts/internal/session"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run workout sessions",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start [workout-id]",
	Short: "Start a workout session",
	Long: `Walk through a workout plan one exercise at a time.

For every planned set you are asked for repetitions, weight, and an optional
note. Values are prefilled from the same set of your last session of this
plan, or from the plan target when there is no history.

Blank or unreadable numbers are saved as 0. Weights accept a comma as the
decimal separator.

After each exercise you can move on or finish early. Finishing saves every
exercise you reached, including the current one. If saving fails you can
retry without losing what you entered.

Without an ID you pick from today's plans (or all plans if none are
scheduled today).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := pickWorkout(ctx, args)
		if err != nil {
			return err
		}

		ctrl := session.New(db, session.WithLogger(cmdLogger(cmd)))
		if err := ctrl.Start(ctx, id); err != nil {
			if errors.Is(err, session.ErrEmptyPlan) {
				return fmt.Errorf("%w (add one with 'lifts workout exercise')", err)
			}
			return err
		}

		plan := ctrl.Plan()
		color.Cyan("▶ %s", plan.Name)
		if prev := ctrl.Previous(); prev != nil {
			fmt.Printf("  Last session: %s\n", prev.Date.Local().Format("2006-01-02 15:04"))
		}

		for {
			if err := promptExercise(ctrl); err != nil {
				return err
			}
			if ctrl.IsLast() {
				break
			}

			next := "next"
			if err := huh.NewSelect[string]().
				Title("What now?").
				Options(
					huh.NewOption("Next exercise", "next"),
					huh.NewOption("Finish workout", "finish"),
				).
				Value(&next).
				Run(); err != nil {
				return abortErr(err)
			}
			if next == "finish" {
				break
			}
			if err := ctrl.Advance(); err != nil {
				return err
			}
		}

		for {
			cw, err := ctrl.Finish(ctx)
			if err == nil {
				printCompletion(cw)
				return nil
			}

			color.Red("✗ Could not save session: %v", err)
			retry := true
			if cerr := huh.NewConfirm().
				Title("Retry saving?").
				Affirmative("Retry").
				Negative("Give up").
				Value(&retry).
				Run(); cerr != nil || !retry {
				return err
			}
		}
	},
}

// promptExercise asks for every planned set of the current exercise.
func promptExercise(ctrl *session.Controller) error {
	ex := ctrl.CurrentExercise()
	fmt.Printf("\n%s %s\n",
		color.New(color.Faint).Sprintf("%d/%d", ctrl.Index()+1, len(ctrl.Plan().Exercises)),
		color.New(color.Bold).Sprint(ex.Name))

	for _, s := range ex.Sets {
		sug := ctrl.Suggestion(s.SetNumber)
		reps := strconv.Itoa(sug.Repetitions)
		weight := ""
		if sug.Weight != nil {
			weight = formatWeight(*sug.Weight)
		}
		note := ""

		hint := "plan target"
		if sug.FromHistory {
			hint = "from last session"
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title(fmt.Sprintf("%s · set %d · reps", ex.Name, s.SetNumber)).
					Description(hint).
					Value(&reps),
				huh.NewInput().
					Title("Weight").
					Value(&weight),
				huh.NewInput().
					Title("Note").
					Description("optional").
					Value(&note),
			),
		)
		if err := form.Run(); err != nil {
			return abortErr(err)
		}

		if err := ctrl.RecordSet(s.SetNumber, reps, weight); err != nil {
			return err
		}
		if note != "" {
			if err := ctrl.RecordObservation(s.SetNumber, note); err != nil {
				return err
			}
		}
	}
	return nil
}

// pickWorkout resolves the argument or asks the user to choose a plan.
func pickWorkout(ctx context.Context, args []string) (uuid.UUID, error) {
	if len(args) == 1 {
		id, err := db.ResolveWorkoutID(ctx, args[0])
		if err != nil {
			return uuid.Nil, fmt.Errorf("workout not found: %s", args[0])
		}
		return id, nil
	}

	workouts, err := db.ListWorkoutsByDay(ctx, models.WeekdayOf(time.Now().Weekday()))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	if len(workouts) == 0 {
		workouts, err = db.ListAllWorkouts(ctx)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to list workouts: %w", err)
		}
	}
	if len(workouts) == 0 {
		return uuid.Nil, fmt.Errorf("no workouts yet (create one with 'lifts workout add')")
	}

	options := make([]huh.Option[uuid.UUID], 0, len(workouts))
	for _, w := range workouts {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", w.Name, w.DayOfWeek.Title()), w.ID))
	}
	id := workouts[0].ID
	if err := huh.NewSelect[uuid.UUID]().
		Title("Which workout?").
		Options(options...).
		Value(&id).
		Run(); err != nil {
		return uuid.Nil, abortErr(err)
	}
	return id, nil
}

func abortErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return errors.New("session aborted, nothing was saved")
	}
	return err
}

func printCompletion(cw *models.CompletedWorkout) {
	color.Green("✓ Saved %s", cw.WorkoutName)
	fmt.Printf("  ID: %s\n", shortID(cw.ID))
	fmt.Printf("  Exercises: %d  Sets: %d  Volume: %s\n",
		len(cw.Exercises), cw.SetCount(), formatWeight(cw.Volume()))
}

func init() {
	sessionCmd.AddCommand(sessionStartCmd)
	rootCmd.AddCommand(sessionCmd)
}
