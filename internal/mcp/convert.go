// ABOUTME: Flat output shapes for MCP tool results.
// ABOUTME: Converts models into string-keyed structs with short display IDs.
package mcp

import (
	"time"

	"github.com/harperreed/lifts/internal/models"
)

type setOutput struct {
	SetNumber   int      `json:"set_number"`
	Repetitions int      `json:"repetitions"`
	Weight      *float64 `json:"weight,omitempty"`
}

type exerciseOutput struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Position int         `json:"position"`
	Sets     []setOutput `json:"sets"`
}

type workoutOutput struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Day       string           `json:"day"`
	CreatedAt string           `json:"created_at"`
	Exercises []exerciseOutput `json:"exercises,omitempty"`
}

type completedSetOutput struct {
	SetNumber   int     `json:"set_number"`
	Repetitions int     `json:"repetitions"`
	Weight      float64 `json:"weight"`
	Observation string  `json:"observation,omitempty"`
}

type completedExerciseOutput struct {
	Name     string               `json:"name"`
	Position int                  `json:"position"`
	Sets     []completedSetOutput `json:"sets"`
}

type completedOutput struct {
	ID          string                    `json:"id"`
	WorkoutID   string                    `json:"workout_id,omitempty"`
	WorkoutName string                    `json:"workout_name"`
	Date        string                    `json:"date"`
	SetCount    int                       `json:"set_count"`
	Volume      float64                   `json:"volume"`
	Exercises   []completedExerciseOutput `json:"exercises"`
}

func toWorkoutOutput(w *models.Workout) workoutOutput {
	out := workoutOutput{
		ID:        w.ID.String(),
		Name:      w.Name,
		Day:       w.DayOfWeek.Title(),
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
	}
	for i := range w.Exercises {
		out.Exercises = append(out.Exercises, toExerciseOutput(&w.Exercises[i]))
	}
	return out
}

func toExerciseOutput(ex *models.Exercise) exerciseOutput {
	out := exerciseOutput{
		ID:       ex.ID.String(),
		Name:     ex.Name,
		Position: ex.Position,
		Sets:     make([]setOutput, 0, len(ex.Sets)),
	}
	for _, st := range ex.Sets {
		out.Sets = append(out.Sets, setOutput{SetNumber: st.SetNumber, Repetitions: st.Repetitions, Weight: st.Weight})
	}
	return out
}

func toCompletedOutput(cw *models.CompletedWorkout) completedOutput {
	out := completedOutput{
		ID:          cw.ID.String(),
		WorkoutName: cw.WorkoutName,
		Date:        cw.Date.Format(time.RFC3339),
		SetCount:    cw.SetCount(),
		Volume:      cw.Volume(),
		Exercises:   make([]completedExerciseOutput, 0, len(cw.Exercises)),
	}
	if cw.WorkoutID != nil {
		out.WorkoutID = cw.WorkoutID.String()
	}
	for _, ce := range cw.Exercises {
		eo := completedExerciseOutput{
			Name:     ce.ExerciseName,
			Position: ce.Position,
			Sets:     make([]completedSetOutput, 0, len(ce.Sets)),
		}
		for _, cs := range ce.Sets {
			so := completedSetOutput{SetNumber: cs.SetNumber, Repetitions: cs.Repetitions, Weight: cs.Weight}
			if cs.Observation != nil {
				so.Observation = *cs.Observation
			}
			eo.Sets = append(eo.Sets, so)
		}
		out.Exercises = append(out.Exercises, eo)
	}
	return out
}
