// ABOUTME: Shared helpers for storage tests.
// ABOUTME: Opens throwaway databases and counts rows for atomicity checks.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/harperreed/lifts/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "lifts.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()

	var n int
	if err := db.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// seedPushDay creates a two-exercise plan used across tests.
func seedPushDay(t *testing.T, db *DB) *models.Workout {
	t.Helper()

	w, err := db.CreateWorkoutWithExercises(context.Background(), "Push Day", models.Monday, []models.ExercisePlan{
		{Name: "Bench Press", Sets: []models.SetPlan{
			{SetNumber: 1, Repetitions: 10, Weight: floatPtr(60)},
			{SetNumber: 2, Repetitions: 8, Weight: floatPtr(65)},
			{SetNumber: 3, Repetitions: 6, Weight: floatPtr(70)},
		}},
		{Name: "Overhead Press", Sets: models.UniformSets(3, 10)},
	})
	if err != nil {
		t.Fatalf("CreateWorkoutWithExercises failed: %v", err)
	}
	return w
}

func floatPtr(f float64) *float64 {
	return &f
}
