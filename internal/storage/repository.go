// ABOUTME: Repository interface for workout plan and history storage.
// ABOUTME: Defines the contract shared by the session controller, CLI, and MCP server.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/lifts/internal/models"
)

// Repository defines the storage interface for lifts data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Schema
	Initialize(ctx context.Context) error
	HardReset(ctx context.Context) error

	// Workout plan operations
	CreateWorkout(ctx context.Context, name string, day models.Weekday) (*models.Workout, error)
	CreateWorkoutWithExercises(ctx context.Context, name string, day models.Weekday, exercises []models.ExercisePlan) (*models.Workout, error)
	AddExerciseToWorkout(ctx context.Context, workoutID uuid.UUID, name string, sets []models.SetPlan) (*models.Exercise, error)
	DeleteWorkout(ctx context.Context, id uuid.UUID) error
	ListAllWorkouts(ctx context.Context) ([]*models.Workout, error)
	ListWorkoutsByDay(ctx context.Context, day models.Weekday) ([]*models.Workout, error)
	GetWorkoutDetails(ctx context.Context, id uuid.UUID) (*models.Workout, error)
	ResolveWorkoutID(ctx context.Context, idOrPrefix string) (uuid.UUID, error)

	// Cardio operations
	AddCardio(ctx context.Context, c *models.Cardio) error
	ListCardio(ctx context.Context, workoutID uuid.UUID) ([]*models.Cardio, error)

	// History operations
	SaveCompletedWorkout(ctx context.Context, data models.CompletedWorkoutData) (*models.CompletedWorkout, error)
	GetWorkoutHistory(ctx context.Context, workoutID uuid.UUID) ([]*models.CompletedWorkout, error)
	LatestCompletionFor(ctx context.Context, workoutID uuid.UUID) (*models.CompletedWorkout, error)
	ListCompletedWorkouts(ctx context.Context) ([]*models.CompletedWorkout, error)
	DeleteCompletedWorkout(ctx context.Context, id uuid.UUID) error
	ResolveCompletedWorkoutID(ctx context.Context, idOrPrefix string) (uuid.UUID, error)

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) error
	ImportJSON(ctx context.Context, data []byte) error
	ExportJSON(ctx context.Context) ([]byte, error)
	ExportYAML(ctx context.Context) ([]byte, error)
	ExportMarkdown(ctx context.Context, since *time.Time) (string, error)

	// Lifecycle
	Close() error
}

var _ Repository = (*DB)(nil)
