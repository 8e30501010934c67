// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown exports and atomic JSON import.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/lifts/internal/models"
	"gopkg.in/yaml.v3"
)

func seedExportData(t *testing.T, db *DB) *models.Workout {
	t.Helper()
	ctx := context.Background()

	w := seedPushDay(t, db)
	if err := db.AddCardio(ctx, models.NewCardio(w.ID, "Bike").WithDuration(15)); err != nil {
		t.Fatalf("AddCardio failed: %v", err)
	}
	data := completionFor(w, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), 60, 65, 70)
	data.CompletedExercises[0].CompletedSets[0].Observation = "easy"
	if _, err := db.SaveCompletedWorkout(ctx, data); err != nil {
		t.Fatalf("SaveCompletedWorkout failed: %v", err)
	}
	return w
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	seedExportData(t, db)

	data, err := db.ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", export.Version)
	}
	if export.Tool != "lifts" {
		t.Errorf("Expected tool lifts, got %s", export.Tool)
	}
	if len(export.Workouts) != 1 || len(export.Workouts[0].Exercises) != 2 {
		t.Errorf("Expected 1 workout with 2 exercises, got %+v", export.Workouts)
	}
	if len(export.Cardio) != 1 {
		t.Errorf("Expected 1 cardio entry, got %d", len(export.Cardio))
	}
	if len(export.History) != 1 || export.History[0].SetCount() != 6 {
		t.Errorf("Expected 1 completion with 6 sets, got %+v", export.History)
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	seedExportData(t, db)

	data, err := db.ExportYAML(context.Background())
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if parsed["tool"] != "lifts" {
		t.Errorf("Expected tool lifts, got %v", parsed["tool"])
	}
	plans, ok := parsed["plans"].(map[string]any)
	if !ok {
		t.Fatalf("Expected plans map, got %T", parsed["plans"])
	}
	if _, ok := plans["monday"]; !ok {
		t.Errorf("Expected monday plans, got keys %v", plans)
	}
	if !strings.Contains(string(data), "observation: easy") {
		t.Error("Expected observation in YAML output")
	}
	if !strings.Contains(string(data), "description: Bike") {
		t.Error("Expected cardio in YAML output")
	}
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)
	seedExportData(t, db)
	ctx := context.Background()

	md, err := db.ExportMarkdown(ctx, nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	for _, want := range []string{
		"# Lifts Export",
		"## Plans",
		"### Push Day (Monday)",
		"| Bench Press | 10 @ 60, 8 @ 65, 6 @ 70 |",
		"| Overhead Press | 10, 10, 10 |",
		"## History",
		"easy",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q", want)
		}
	}

	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	md, err = db.ExportMarkdown(ctx, &since)
	if err != nil {
		t.Fatalf("ExportMarkdown with since failed: %v", err)
	}
	if strings.Contains(md, "## History") {
		t.Error("Expected history filtered out by since")
	}
}

func TestImportJSONRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	w := seedExportData(t, src)
	ctx := context.Background()

	data, err := src.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst := setupTestDB(t)
	if err := dst.ImportJSON(ctx, data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	got, err := dst.GetWorkoutDetails(ctx, w.ID)
	if err != nil || got == nil {
		t.Fatalf("imported workout missing: (%v, %v)", got, err)
	}
	if len(got.Exercises) != 2 || len(got.Exercises[0].Sets) != 3 {
		t.Errorf("imported tree incomplete: %+v", got)
	}

	history, _ := dst.GetWorkoutHistory(ctx, w.ID)
	if len(history) != 1 {
		t.Fatalf("expected 1 imported completion, got %d", len(history))
	}
	if history[0].Exercises[0].Sets[0].Observation == nil {
		t.Error("expected observation to survive import")
	}

	cardio, _ := dst.ListCardio(ctx, w.ID)
	if len(cardio) != 1 {
		t.Errorf("expected 1 cardio entry, got %d", len(cardio))
	}
}

func TestImportDataIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	seedExportData(t, db)
	ctx := context.Background()

	export, err := db.GetAllData(ctx)
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}

	// Prepend a fresh workout; the duplicate IDs that follow must abort everything.
	fresh := models.NewWorkout("Fresh", models.Sunday)
	export.Workouts = append([]*models.Workout{fresh}, export.Workouts...)

	if err := db.ImportData(ctx, export); err == nil {
		t.Fatal("expected error importing duplicate IDs")
	}

	got, _ := db.GetWorkoutDetails(ctx, fresh.ID)
	if got != nil {
		t.Error("expected fresh workout to be rolled back")
	}
	if n := countRows(t, db, "workouts"); n != 1 {
		t.Errorf("workouts = %d, want 1", n)
	}
}

func TestImportKeepsOrphanedHistory(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	src := setupTestDB(t)
	seedExportData(t, src)
	export, err := src.GetAllData(ctx)
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}
	export.Workouts = nil
	export.Cardio = nil

	if err := db.ImportData(ctx, export); err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}

	all, _ := db.ListCompletedWorkouts(ctx)
	if len(all) != 1 || all[0].WorkoutID != nil {
		t.Errorf("expected one orphaned completion, got %+v", all)
	}
}

func TestImportJSONInvalid(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ImportJSON(context.Background(), []byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestImportJSONNullEntries(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"workout", `{"workouts":[null],"history":[]}`, "workouts"},
		{"cardio", `{"workouts":[],"cardio":[null],"history":[]}`, "cardio"},
		{"history", `{"workouts":[],"history":[null]}`, "history"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			ctx := context.Background()

			err := db.ImportJSON(ctx, []byte(tt.input))
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var ve *ValidationError
			if errors.As(err, &ve) && ve.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ve.Field)
			}

			workouts, err := db.ListAllWorkouts(ctx)
			if err != nil {
				t.Fatalf("ListAllWorkouts failed: %v", err)
			}
			if len(workouts) != 0 {
				t.Errorf("expected nothing imported, got %d workouts", len(workouts))
			}
		})
	}
}
