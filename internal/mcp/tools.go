// ABOUTME: MCP tool implementations for workout plans and history.
// ABOUTME: Provides plan CRUD, history lookups, and session commits.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/lifts/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// create_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_workout",
		Description: "Create a workout plan, optionally with its exercises and sets",
	}, s.handleCreateWorkout)

	// list_workouts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List workout plans, optionally filtered by day of week",
	}, s.handleListWorkouts)

	// get_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout plan with its exercises and planned sets",
	}, s.handleGetWorkout)

	// delete_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout plan. Its history is kept.",
	}, s.handleDeleteWorkout)

	// add_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Append an exercise with planned sets to an existing workout",
	}, s.handleAddExercise)

	// get_history
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_history",
		Description: "List completed workouts, newest first, optionally for one plan",
	}, s.handleGetHistory)

	// get_latest_completion
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_latest_completion",
		Description: "Get the most recent completion of a workout with its last exercise",
	}, s.handleGetLatestCompletion)

	// save_completed_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "save_completed_workout",
		Description: "Record a finished workout session against a plan",
	}, s.handleSaveCompletedWorkout)
}

// Tool input/output types

type setInput struct {
	SetNumber   int      `json:"set_number,omitempty" jsonschema:"Set number starting at 1; defaults to list order"`
	Repetitions int      `json:"repetitions" jsonschema:"Target repetitions"`
	Weight      *float64 `json:"weight,omitempty" jsonschema:"Target weight"`
}

type exerciseInput struct {
	Name string     `json:"name" jsonschema:"Exercise name"`
	Sets []setInput `json:"sets,omitempty" jsonschema:"Planned sets"`
}

type createWorkoutInput struct {
	Name      string          `json:"name" jsonschema:"Name of the workout plan"`
	Day       string          `json:"day,omitempty" jsonschema:"Day of week (monday, tue, 0-6 with 0 = sunday)"`
	Exercises []exerciseInput `json:"exercises,omitempty" jsonschema:"Exercises in order"`
}

type listWorkoutsInput struct {
	Day string `json:"day,omitempty" jsonschema:"Only plans scheduled for this day; 'unscheduled' for none"`
}

type listWorkoutsOutput struct {
	Count    int             `json:"count"`
	Workouts []workoutOutput `json:"workouts"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Workout ID or unique prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type addExerciseInput struct {
	WorkoutID string     `json:"workout_id" jsonschema:"Workout ID or unique prefix"`
	Name      string     `json:"name" jsonschema:"Exercise name"`
	Sets      []setInput `json:"sets,omitempty" jsonschema:"Planned sets"`
}

type getHistoryInput struct {
	WorkoutID string `json:"workout_id,omitempty" jsonschema:"Workout ID or prefix; omit for all workouts"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type historyOutput struct {
	Count   int               `json:"count"`
	History []completedOutput `json:"history"`
}

type latestOutput struct {
	Found      bool             `json:"found"`
	Completion *completedOutput `json:"completion,omitempty"`
}

type completedSetInput struct {
	SetNumber   int     `json:"set_number,omitempty" jsonschema:"Set number starting at 1; defaults to list order"`
	Repetitions int     `json:"repetitions" jsonschema:"Repetitions performed"`
	Weight      float64 `json:"weight,omitempty" jsonschema:"Weight used"`
	Observation string  `json:"observation,omitempty" jsonschema:"Free-text note"`
}

type completedExerciseInput struct {
	Name string              `json:"name" jsonschema:"Exercise name"`
	Sets []completedSetInput `json:"sets,omitempty" jsonschema:"Sets performed"`
}

type saveCompletedInput struct {
	WorkoutID string                   `json:"workout_id" jsonschema:"Workout ID or unique prefix"`
	Date      string                   `json:"date,omitempty" jsonschema:"When the session finished (ISO 8601), defaults to now"`
	Exercises []completedExerciseInput `json:"exercises" jsonschema:"Exercises performed in order"`
}

// Tool handlers

func (s *Server) handleCreateWorkout(ctx context.Context, req *mcp.CallToolRequest, input createWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	day, err := models.ParseWeekday(input.Day)
	if err != nil {
		return nil, workoutOutput{}, err
	}

	plans := make([]models.ExercisePlan, 0, len(input.Exercises))
	for _, ex := range input.Exercises {
		plans = append(plans, models.ExercisePlan{Name: ex.Name, Sets: toSetPlans(ex.Sets)})
	}

	w, err := s.repo.CreateWorkoutWithExercises(ctx, input.Name, day, plans)
	if err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to create workout: %w", err)
	}
	s.logger.Debug("workout created via mcp", "id", w.ID, "name", w.Name)

	return nil, toWorkoutOutput(w), nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, listWorkoutsOutput, error) {
	var (
		workouts []*models.Workout
		err      error
	)
	switch input.Day {
	case "":
		workouts, err = s.repo.ListAllWorkouts(ctx)
	case "unscheduled":
		workouts, err = s.repo.ListWorkoutsByDay(ctx, models.Unscheduled)
	default:
		day, perr := models.ParseWeekday(input.Day)
		if perr != nil {
			return nil, listWorkoutsOutput{}, perr
		}
		workouts, err = s.repo.ListWorkoutsByDay(ctx, day)
	}
	if err != nil {
		return nil, listWorkoutsOutput{}, fmt.Errorf("failed to list workouts: %w", err)
	}

	out := listWorkoutsOutput{Count: len(workouts), Workouts: make([]workoutOutput, 0, len(workouts))}
	for _, w := range workouts {
		out.Workouts = append(out.Workouts, toWorkoutOutput(w))
	}
	return nil, out, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.loadWorkout(ctx, input.ID)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	return nil, toWorkoutOutput(w), nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.repo.ResolveWorkoutID(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("workout not found: %s", input.ID)
	}
	if err := s.repo.DeleteWorkout(ctx, id); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted workout: %s", id.String()[:8]),
	}, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	id, err := s.repo.ResolveWorkoutID(ctx, input.WorkoutID)
	if err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("workout not found: %s", input.WorkoutID)
	}

	ex, err := s.repo.AddExerciseToWorkout(ctx, id, input.Name, toSetPlans(input.Sets))
	if err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}

	return nil, toExerciseOutput(ex), nil
}

func (s *Server) handleGetHistory(ctx context.Context, req *mcp.CallToolRequest, input getHistoryInput) (*mcp.CallToolResult, historyOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var (
		history []*models.CompletedWorkout
		err     error
	)
	if input.WorkoutID == "" {
		history, err = s.repo.ListCompletedWorkouts(ctx)
	} else {
		var id uuid.UUID
		id, err = s.repo.ResolveWorkoutID(ctx, input.WorkoutID)
		if err != nil {
			return nil, historyOutput{}, fmt.Errorf("workout not found: %s", input.WorkoutID)
		}
		history, err = s.repo.GetWorkoutHistory(ctx, id)
	}
	if err != nil {
		return nil, historyOutput{}, fmt.Errorf("failed to load history: %w", err)
	}

	if len(history) > input.Limit {
		history = history[:input.Limit]
	}
	out := historyOutput{Count: len(history), History: make([]completedOutput, 0, len(history))}
	for _, cw := range history {
		out.History = append(out.History, toCompletedOutput(cw))
	}
	return nil, out, nil
}

func (s *Server) handleGetLatestCompletion(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, latestOutput, error) {
	id, err := s.repo.ResolveWorkoutID(ctx, input.ID)
	if err != nil {
		return nil, latestOutput{}, fmt.Errorf("workout not found: %s", input.ID)
	}

	cw, err := s.repo.LatestCompletionFor(ctx, id)
	if err != nil {
		return nil, latestOutput{}, fmt.Errorf("failed to load latest completion: %w", err)
	}
	if cw == nil {
		return nil, latestOutput{Found: false}, nil
	}

	co := toCompletedOutput(cw)
	return nil, latestOutput{Found: true, Completion: &co}, nil
}

func (s *Server) handleSaveCompletedWorkout(ctx context.Context, req *mcp.CallToolRequest, input saveCompletedInput) (*mcp.CallToolResult, completedOutput, error) {
	w, err := s.loadWorkout(ctx, input.WorkoutID)
	if err != nil {
		return nil, completedOutput{}, err
	}

	date := s.now()
	if input.Date != "" {
		t, err := time.Parse(time.RFC3339, input.Date)
		if err != nil {
			t, err = time.ParseInLocation("2006-01-02 15:04", input.Date, time.Local)
		}
		if err != nil {
			return nil, completedOutput{}, fmt.Errorf("invalid date: %s", input.Date)
		}
		date = t
	}

	// Exercise IDs are matched by name so the payload mirrors a live session.
	byName := make(map[string]uuid.UUID, len(w.Exercises))
	for _, ex := range w.Exercises {
		byName[ex.Name] = ex.ID
	}

	data := models.CompletedWorkoutData{
		WorkoutID:          w.ID,
		WorkoutName:        w.Name,
		Date:               date,
		CompletedExercises: make([]models.CompletedExerciseData, 0, len(input.Exercises)),
	}
	for _, ex := range input.Exercises {
		ed := models.CompletedExerciseData{
			ExerciseID:    byName[ex.Name],
			ExerciseName:  ex.Name,
			CompletedSets: make([]models.CompletedSetData, 0, len(ex.Sets)),
		}
		for _, st := range ex.Sets {
			ed.CompletedSets = append(ed.CompletedSets, models.CompletedSetData{
				SetNumber:   st.SetNumber,
				Repetitions: st.Repetitions,
				Weight:      st.Weight,
				Observation: st.Observation,
			})
		}
		data.CompletedExercises = append(data.CompletedExercises, ed)
	}

	cw, err := s.repo.SaveCompletedWorkout(ctx, data)
	if err != nil {
		return nil, completedOutput{}, fmt.Errorf("failed to save completed workout: %w", err)
	}
	s.logger.Debug("completed workout saved via mcp", "id", cw.ID, "workout", w.Name)

	return nil, toCompletedOutput(cw), nil
}

func (s *Server) loadWorkout(ctx context.Context, idOrPrefix string) (*models.Workout, error) {
	id, err := s.repo.ResolveWorkoutID(ctx, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("workout not found: %s", idOrPrefix)
	}
	w, err := s.repo.GetWorkoutDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load workout: %w", err)
	}
	if w == nil {
		return nil, fmt.Errorf("workout not found: %s", idOrPrefix)
	}
	return w, nil
}

func toSetPlans(sets []setInput) []models.SetPlan {
	plans := make([]models.SetPlan, 0, len(sets))
	for _, st := range sets {
		plans = append(plans, models.SetPlan{SetNumber: st.SetNumber, Repetitions: st.Repetitions, Weight: st.Weight})
	}
	return plans
}
