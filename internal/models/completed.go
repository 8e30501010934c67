// ABOUTME: Completed-workout history models and the session commit payload.
// ABOUTME: Names are snapshotted so history survives plan renames and deletion.
package models

import (
	"time"

	"github.com/google/uuid"
)

// CompletedWorkout is a historical record of one execution of a workout plan.
type CompletedWorkout struct {
	ID          uuid.UUID           `json:"id" yaml:"id"`
	WorkoutID   *uuid.UUID          `json:"workout_id,omitempty" yaml:"workout_id,omitempty"` // nil once the plan is deleted
	WorkoutName string              `json:"workout_name" yaml:"workout_name"`
	Date        time.Time           `json:"date" yaml:"date"`
	Exercises   []CompletedExercise `json:"completed_exercises" yaml:"completed_exercises"`
}

// CompletedExercise is one exercise performed during a completed workout.
type CompletedExercise struct {
	ID                 uuid.UUID      `json:"id" yaml:"id"`
	CompletedWorkoutID uuid.UUID      `json:"completed_workout_id" yaml:"completed_workout_id"`
	ExerciseName       string         `json:"exercise_name" yaml:"exercise_name"`
	Position           int            `json:"position" yaml:"position"`
	Sets               []CompletedSet `json:"completed_sets" yaml:"completed_sets"`
}

// CompletedSet is the actual result of one set.
type CompletedSet struct {
	ID                  uuid.UUID `json:"id" yaml:"id"`
	CompletedExerciseID uuid.UUID `json:"completed_exercise_id" yaml:"completed_exercise_id"`
	SetNumber           int       `json:"set_number" yaml:"set_number"`
	Repetitions         int       `json:"repetitions" yaml:"repetitions"`
	Weight              float64   `json:"weight" yaml:"weight"`
	Observation         *string   `json:"observation,omitempty" yaml:"observation,omitempty"`
}

// SetCount returns the total number of sets across all exercises.
func (cw *CompletedWorkout) SetCount() int {
	n := 0
	for _, ce := range cw.Exercises {
		n += len(ce.Sets)
	}
	return n
}

// Volume returns the sum of weight x repetitions across all sets.
func (cw *CompletedWorkout) Volume() float64 {
	var v float64
	for _, ce := range cw.Exercises {
		for _, s := range ce.Sets {
			v += s.Weight * float64(s.Repetitions)
		}
	}
	return v
}

// CompletedWorkoutData is the payload committed when a session finishes.
type CompletedWorkoutData struct {
	WorkoutID          uuid.UUID               `json:"workout_id"`
	WorkoutName        string                  `json:"workout_name"`
	Date               time.Time               `json:"date"`
	CompletedExercises []CompletedExerciseData `json:"completed_exercises"`
}

// CompletedExerciseData is one finalized exercise in a session payload.
type CompletedExerciseData struct {
	ExerciseID    uuid.UUID          `json:"exercise_id"`
	ExerciseName  string             `json:"exercise_name"`
	CompletedSets []CompletedSetData `json:"completed_sets"`
}

// CompletedSetData is one finalized set in a session payload.
type CompletedSetData struct {
	SetNumber   int     `json:"set_number"`
	Weight      float64 `json:"weight"`
	Repetitions int     `json:"repetitions"`
	Observation string  `json:"observation,omitempty"`
}

// NormalizeCompletedSets applies the NormalizeSetNumbers policy to completed sets.
func NormalizeCompletedSets(sets []CompletedSetData) ([]CompletedSetData, error) {
	return renumber(sets,
		func(s CompletedSetData) int { return s.SetNumber },
		func(s *CompletedSetData, n int) { s.SetNumber = n })
}
