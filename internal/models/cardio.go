// ABOUTME: Cardio model for conditioning work attached to a workout plan.
// ABOUTME: Optional extension: description, duration, and speed.
package models

import "github.com/google/uuid"

// Cardio is a conditioning block scheduled with a workout.
type Cardio struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	WorkoutID       uuid.UUID `json:"workout_id" yaml:"workout_id"`
	Description     string    `json:"description" yaml:"description"`
	DurationMinutes *int      `json:"duration_minutes,omitempty" yaml:"duration_minutes,omitempty"`
	Speed           *float64  `json:"speed,omitempty" yaml:"speed,omitempty"`
}

// NewCardio creates a new Cardio entry for a workout.
func NewCardio(workoutID uuid.UUID, description string) *Cardio {
	return &Cardio{
		ID:          uuid.New(),
		WorkoutID:   workoutID,
		Description: description,
	}
}

// WithDuration sets the duration in minutes.
func (c *Cardio) WithDuration(minutes int) *Cardio {
	c.DurationMinutes = &minutes
	return c
}

// WithSpeed sets the target speed.
func (c *Cardio) WithSpeed(speed float64) *Cardio {
	c.Speed = &speed
	return c
}
