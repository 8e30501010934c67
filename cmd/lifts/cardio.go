// ABOUTME: CLI commands for cardio blocks attached to workout plans.
// ABOUTME: Supports add and list subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/lifts/internal/models"
	"github.com/spf13/cobra"
)

var (
	cardioDuration int
	cardioSpeed    float64
)

var cardioCmd = &cobra.Command{
	Use:   "cardio",
	Short: "Manage cardio attached to workouts",
}

var cardioAddCmd = &cobra.Command{
	Use:   "add <workout-id> <description>",
	Short: "Attach a cardio block to a workout",
	Long: `Attach a cardio block to a workout plan.

Examples:
  lifts cardio add abc123 "Treadmill intervals" --duration 20 --speed 11.5
  lifts cardio add abc123 "Rower cooldown" --duration 10`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveWorkoutID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}

		c := models.NewCardio(id, args[1])
		if cmd.Flags().Changed("duration") {
			c.WithDuration(cardioDuration)
		}
		if cmd.Flags().Changed("speed") {
			c.WithSpeed(cardioSpeed)
		}

		if err := db.AddCardio(cmd.Context(), c); err != nil {
			return fmt.Errorf("failed to add cardio: %w", err)
		}

		color.Green("✓ Added cardio: %s", describeCardio(c))
		return nil
	},
}

var cardioListCmd = &cobra.Command{
	Use:     "list <workout-id>",
	Aliases: []string{"ls"},
	Short:   "List cardio for a workout",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := db.ResolveWorkoutID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}

		entries, err := db.ListCardio(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to list cardio: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No cardio found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, c := range entries {
			fmt.Printf("%s %s\n", faint.Sprint(shortID(c.ID)), describeCardio(c))
		}
		return nil
	},
}

func describeCardio(c *models.Cardio) string {
	s := c.Description
	if c.DurationMinutes != nil {
		s += fmt.Sprintf(", %d min", *c.DurationMinutes)
	}
	if c.Speed != nil {
		s += fmt.Sprintf(" @ %s", formatWeight(*c.Speed))
	}
	return s
}

func init() {
	cardioAddCmd.Flags().IntVar(&cardioDuration, "duration", 0, "duration in minutes")
	cardioAddCmd.Flags().Float64Var(&cardioSpeed, "speed", 0, "target speed")

	cardioCmd.AddCommand(cardioAddCmd)
	cardioCmd.AddCommand(cardioListCmd)
	rootCmd.AddCommand(cardioCmd)
}
