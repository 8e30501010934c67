// ABOUTME: Workout plan models: Workout, Exercise, and planned Set.
// ABOUTME: Plans are reusable templates that sessions walk through in order.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Workout is a named, reusable training plan.
type Workout struct {
	ID        uuid.UUID  `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	DayOfWeek Weekday    `json:"day_of_week,omitempty" yaml:"day_of_week,omitempty"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	Exercises []Exercise `json:"exercises,omitempty" yaml:"exercises,omitempty"` // Populated by detail queries
}

// NewWorkout creates a new Workout with generated UUID and current timestamp.
func NewWorkout(name string, day Weekday) *Workout {
	return &Workout{
		ID:        uuid.New(),
		Name:      name,
		DayOfWeek: day,
		CreatedAt: time.Now(),
	}
}

// Exercise is a named movement within a workout plan.
type Exercise struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	WorkoutID uuid.UUID `json:"workout_id" yaml:"workout_id"`
	Name      string    `json:"name" yaml:"name"`
	Position  int       `json:"position" yaml:"position"`
	Sets      []Set     `json:"sets,omitempty" yaml:"sets,omitempty"`
}

// NewExercise creates a new Exercise under the given workout.
func NewExercise(workoutID uuid.UUID, name string, position int) *Exercise {
	return &Exercise{
		ID:        uuid.New(),
		WorkoutID: workoutID,
		Name:      name,
		Position:  position,
	}
}

// Set is one planned unit of an exercise's prescription.
type Set struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	ExerciseID  uuid.UUID `json:"exercise_id" yaml:"exercise_id"`
	SetNumber   int       `json:"set_number" yaml:"set_number"`
	Repetitions int       `json:"repetitions" yaml:"repetitions"`
	Weight      *float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// NewSet creates a new planned Set.
func NewSet(exerciseID uuid.UUID, setNumber, repetitions int) *Set {
	return &Set{
		ID:          uuid.New(),
		ExerciseID:  exerciseID,
		SetNumber:   setNumber,
		Repetitions: repetitions,
	}
}

// WithWeight sets the target weight.
func (s *Set) WithWeight(weight float64) *Set {
	s.Weight = &weight
	return s
}

// ExercisePlan is caller input for one exercise of a new workout.
type ExercisePlan struct {
	Name string    `json:"name"`
	Sets []SetPlan `json:"sets"`
}

// SetPlan is caller input for one planned set. A zero SetNumber is assigned by position.
type SetPlan struct {
	SetNumber   int      `json:"set_number,omitempty"`
	Repetitions int      `json:"repetitions"`
	Weight      *float64 `json:"weight,omitempty"`
}

// UniformSets builds count sets with the same repetition target.
// A count below one yields no sets.
func UniformSets(count, repetitions int) []SetPlan {
	if count <= 0 {
		return nil
	}
	sets := make([]SetPlan, 0, count)
	for i := 1; i <= count; i++ {
		sets = append(sets, SetPlan{SetNumber: i, Repetitions: repetitions})
	}
	return sets
}

// NormalizeSetNumbers orders sets by SetNumber and renumbers them densely from 1.
// Sets with a zero SetNumber keep their input order after the numbered ones.
// Two sets sharing a positive SetNumber are rejected.
func NormalizeSetNumbers(sets []SetPlan) ([]SetPlan, error) {
	return renumber(sets,
		func(s SetPlan) int { return s.SetNumber },
		func(s *SetPlan, n int) { s.SetNumber = n })
}
