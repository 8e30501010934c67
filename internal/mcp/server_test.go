// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers against SQLite.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/lifts/internal/models"
	"github.com/harperreed/lifts/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer opens a temp database and wraps it in a server with a fixed clock.
func setupTestServer(t *testing.T, now time.Time) (*Server, *storage.DB) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "lifts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	server, err := NewServer(db, nil)
	require.NoError(t, err)
	server.now = func() time.Time { return now }
	return server, db
}

// monday is 2026-03-02, a Monday.
var monday = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

func weight(f float64) *float64 { return &f }

func createPushDay(t *testing.T, s *Server) workoutOutput {
	t.Helper()
	_, out, err := s.handleCreateWorkout(context.Background(), &mcp.CallToolRequest{}, createWorkoutInput{
		Name: "Push Day",
		Day:  "mon",
		Exercises: []exerciseInput{
			{Name: "Bench Press", Sets: []setInput{
				{Repetitions: 10, Weight: weight(60)},
				{Repetitions: 8, Weight: weight(65)},
			}},
			{Name: "Dips", Sets: []setInput{{Repetitions: 12}}},
		},
	})
	require.NoError(t, err)
	return out
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t, monday)

	assert.NotNil(t, server.mcpServer)
	assert.NotNil(t, server.repo)
	assert.NotNil(t, server.logger)
}

func TestHandleCreateWorkout(t *testing.T) {
	server, _ := setupTestServer(t, monday)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     createWorkoutInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "plain workout",
			input: createWorkoutInput{Name: "Legs"},
		},
		{
			name:  "workout with numeric day",
			input: createWorkoutInput{Name: "Pull", Day: "3"},
		},
		{
			name:      "invalid day",
			input:     createWorkoutInput{Name: "Pull", Day: "someday"},
			wantErr:   true,
			errSubstr: "unknown weekday",
		},
		{
			name:      "empty name",
			input:     createWorkoutInput{Name: "  "},
			wantErr:   true,
			errSubstr: "name",
		},
		{
			name: "duplicate set numbers",
			input: createWorkoutInput{Name: "Bad", Exercises: []exerciseInput{
				{Name: "Squat", Sets: []setInput{{SetNumber: 1, Repetitions: 5}, {SetNumber: 1, Repetitions: 5}}},
			}},
			wantErr:   true,
			errSubstr: "duplicate set number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleCreateWorkout(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, output.ID)
			assert.Equal(t, tt.input.Name, output.Name)
		})
	}

	out := createPushDay(t, server)
	assert.Equal(t, "Monday", out.Day)
	require.Len(t, out.Exercises, 2)
	assert.Equal(t, []setOutput{
		{SetNumber: 1, Repetitions: 10, Weight: weight(60)},
		{SetNumber: 2, Repetitions: 8, Weight: weight(65)},
	}, out.Exercises[0].Sets)
}

func TestHandleListWorkouts(t *testing.T) {
	server, _ := setupTestServer(t, monday)
	ctx := context.Background()

	createPushDay(t, server)
	_, _, err := server.handleCreateWorkout(ctx, &mcp.CallToolRequest{}, createWorkoutInput{Name: "Mobility"})
	require.NoError(t, err)

	tests := []struct {
		day   string
		count int
	}{
		{"", 2},
		{"monday", 1},
		{"friday", 0},
		{"unscheduled", 1},
	}
	for _, tt := range tests {
		t.Run("day="+tt.day, func(t *testing.T) {
			_, output, err := server.handleListWorkouts(ctx, &mcp.CallToolRequest{}, listWorkoutsInput{Day: tt.day})
			require.NoError(t, err)
			assert.Equal(t, tt.count, output.Count)
			assert.Len(t, output.Workouts, tt.count)
		})
	}

	_, _, err = server.handleListWorkouts(ctx, &mcp.CallToolRequest{}, listWorkoutsInput{Day: "blursday"})
	assert.Error(t, err)
}

func TestHandleGetAndDeleteWorkout(t *testing.T) {
	server, db := setupTestServer(t, monday)
	ctx := context.Background()
	created := createPushDay(t, server)

	_, got, err := server.handleGetWorkout(ctx, &mcp.CallToolRequest{}, idInput{ID: created.ID[:8]})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, got.Exercises, 2)

	_, msg, err := server.handleDeleteWorkout(ctx, &mcp.CallToolRequest{}, idInput{ID: created.ID})
	require.NoError(t, err)
	assert.Contains(t, msg.Message, created.ID[:8])

	all, err := db.ListAllWorkouts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, _, err = server.handleGetWorkout(ctx, &mcp.CallToolRequest{}, idInput{ID: created.ID})
	assert.ErrorContains(t, err, "workout not found")
}

func TestHandleAddExercise(t *testing.T) {
	server, _ := setupTestServer(t, monday)
	ctx := context.Background()
	created := createPushDay(t, server)

	_, ex, err := server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{
		WorkoutID: created.ID,
		Name:      "Lateral Raise",
		Sets:      []setInput{{Repetitions: 15}, {Repetitions: 15}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lateral Raise", ex.Name)
	assert.Equal(t, 2, ex.Position)
	assert.Len(t, ex.Sets, 2)

	_, _, err = server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{WorkoutID: "ffffffff", Name: "Curl"})
	assert.ErrorContains(t, err, "workout not found")
}

func TestSaveAndQueryHistory(t *testing.T) {
	server, _ := setupTestServer(t, monday)
	ctx := context.Background()
	created := createPushDay(t, server)

	_, first, err := server.handleSaveCompletedWorkout(ctx, &mcp.CallToolRequest{}, saveCompletedInput{
		WorkoutID: created.ID,
		Date:      "2026-02-23T18:00:00Z",
		Exercises: []completedExerciseInput{
			{Name: "Bench Press", Sets: []completedSetInput{{Repetitions: 10, Weight: 60}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Push Day", first.WorkoutName)
	assert.Equal(t, created.ID, first.WorkoutID)

	_, second, err := server.handleSaveCompletedWorkout(ctx, &mcp.CallToolRequest{}, saveCompletedInput{
		WorkoutID: created.ID[:8],
		Exercises: []completedExerciseInput{
			{Name: "Bench Press", Sets: []completedSetInput{
				{Repetitions: 10, Weight: 62.5},
				{Repetitions: 8, Weight: 65, Observation: "slow"},
			}},
			{Name: "Dips", Sets: []completedSetInput{{Repetitions: 12}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, monday.Format(time.RFC3339), second.Date)
	assert.Equal(t, 3, second.SetCount)
	assert.Equal(t, 10*62.5+8*65.0, second.Volume)

	_, history, err := server.handleGetHistory(ctx, &mcp.CallToolRequest{}, getHistoryInput{WorkoutID: created.ID})
	require.NoError(t, err)
	require.Equal(t, 2, history.Count)
	assert.Equal(t, second.ID, history.History[0].ID)
	assert.Equal(t, first.ID, history.History[1].ID)

	_, limited, err := server.handleGetHistory(ctx, &mcp.CallToolRequest{}, getHistoryInput{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, limited.Count)

	_, latest, err := server.handleGetLatestCompletion(ctx, &mcp.CallToolRequest{}, idInput{ID: created.ID})
	require.NoError(t, err)
	require.True(t, latest.Found)
	assert.Equal(t, second.ID, latest.Completion.ID)
	require.Len(t, latest.Completion.Exercises, 1)
	assert.Equal(t, "Dips", latest.Completion.Exercises[0].Name)
}

func TestSaveCompletedWorkoutErrors(t *testing.T) {
	server, _ := setupTestServer(t, monday)
	ctx := context.Background()
	created := createPushDay(t, server)

	_, _, err := server.handleSaveCompletedWorkout(ctx, &mcp.CallToolRequest{}, saveCompletedInput{WorkoutID: "nope"})
	assert.ErrorContains(t, err, "workout not found")

	_, _, err = server.handleSaveCompletedWorkout(ctx, &mcp.CallToolRequest{}, saveCompletedInput{
		WorkoutID: created.ID,
		Date:      "last tuesday",
	})
	assert.ErrorContains(t, err, "invalid date")
}

func TestGetLatestCompletionNone(t *testing.T) {
	server, _ := setupTestServer(t, monday)
	created := createPushDay(t, server)

	_, latest, err := server.handleGetLatestCompletion(context.Background(), &mcp.CallToolRequest{}, idInput{ID: created.ID})
	require.NoError(t, err)
	assert.False(t, latest.Found)
	assert.Nil(t, latest.Completion)
}

func readResource(t *testing.T, result *mcp.ReadResourceResult) map[string]any {
	t.Helper()
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &data))
	return data
}

func TestWorkoutsResource(t *testing.T) {
	server, _ := setupTestServer(t, monday)
	createPushDay(t, server)

	result, err := server.handleWorkoutsResource(context.Background(), &mcp.ReadResourceRequest{})
	require.NoError(t, err)
	assert.Equal(t, workoutsURI, result.Contents[0].URI)

	data := readResource(t, result)
	assert.Equal(t, float64(1), data["count"])
	workouts := data["workouts"].([]any)
	first := workouts[0].(map[string]any)
	assert.Equal(t, "Push Day", first["name"])
	assert.Len(t, first["exercises"], 2)
}

func TestTodayResource(t *testing.T) {
	server, db := setupTestServer(t, monday)
	ctx := context.Background()
	created := createPushDay(t, server)
	_, err := db.CreateWorkout(ctx, "Friday Legs", models.Friday)
	require.NoError(t, err)

	_, _, err = server.handleSaveCompletedWorkout(ctx, &mcp.CallToolRequest{}, saveCompletedInput{
		WorkoutID: created.ID,
		Date:      "2026-02-23T18:00:00Z",
	})
	require.NoError(t, err)
	_, _, err = server.handleSaveCompletedWorkout(ctx, &mcp.CallToolRequest{}, saveCompletedInput{
		WorkoutID: created.ID,
		Exercises: []completedExerciseInput{{Name: "Dips", Sets: []completedSetInput{{Repetitions: 10}}}},
	})
	require.NoError(t, err)

	result, err := server.handleTodayResource(ctx, &mcp.ReadResourceRequest{})
	require.NoError(t, err)

	data := readResource(t, result)
	assert.Equal(t, "2026-03-02", data["date"])
	assert.Equal(t, "Monday", data["day"])
	counts := data["counts"].(map[string]any)
	assert.Equal(t, float64(1), counts["scheduled"])
	assert.Equal(t, float64(1), counts["completed"])
}
