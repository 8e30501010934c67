// ABOUTME: Completed-workout history writes and reads for SQLite storage.
// ABOUTME: A finished session commits its whole tree in one transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/lifts/internal/models"
)

const (
	insertCompletedWorkoutSQL  = `INSERT INTO completed_workouts (id, workout_id, workout_name, date) VALUES (?, ?, ?, ?)`
	insertCompletedExerciseSQL = `INSERT INTO completed_exercises (id, completed_workout_id, exercise_name, position) VALUES (?, ?, ?, ?)`
	insertCompletedSetSQL      = `INSERT INTO completed_sets (id, completed_exercise_id, set_number, repetitions, weight, observation) VALUES (?, ?, ?, ?, ?, ?)`
	selectCompletedCols        = `SELECT id, workout_id, workout_name, date FROM completed_workouts`
)

// SaveCompletedWorkout records a finished session. The completed workout, its
// exercises, and their sets are committed together or not at all.
func (d *DB) SaveCompletedWorkout(ctx context.Context, data models.CompletedWorkoutData) (*models.CompletedWorkout, error) {
	cw, err := buildCompletedWorkout(data)
	if err != nil {
		return nil, err
	}

	err = d.withTx(ctx, "save completed workout", func(tx *sql.Tx) error {
		if cw.WorkoutID != nil {
			var exists int
			err := tx.QueryRowContext(ctx, `SELECT 1 FROM workouts WHERE id = ?`, cw.WorkoutID.String()).Scan(&exists)
			if errors.Is(err, sql.ErrNoRows) {
				return &StorageError{Op: "save completed workout", Err: fmt.Errorf("workout %s: %w", cw.WorkoutID, ErrNotFound)}
			}
			if err != nil {
				return fmt.Errorf("check workout: %w", err)
			}
		}
		return insertCompletedTree(ctx, tx, cw)
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("completed workout saved", "id", cw.ID, "workout", cw.WorkoutName, "sets", cw.SetCount())
	return cw, nil
}

// GetWorkoutHistory returns every completion of a workout, most recent first,
// each with its exercises and sets. Returns an empty slice when there is none.
func (d *DB) GetWorkoutHistory(ctx context.Context, workoutID uuid.UUID) ([]*models.CompletedWorkout, error) {
	return d.queryCompleted(ctx, "get workout history",
		selectCompletedCols+` WHERE workout_id = ? ORDER BY date DESC, rowid DESC`,
		workoutID.String())
}

// ListCompletedWorkouts returns every completed workout across all plans, most
// recent first, fully materialized. Orphaned history is included.
func (d *DB) ListCompletedWorkouts(ctx context.Context) ([]*models.CompletedWorkout, error) {
	return d.queryCompleted(ctx, "list completed workouts",
		selectCompletedCols+` ORDER BY date DESC, rowid DESC`)
}

func (d *DB) queryCompleted(ctx context.Context, op, query string, args ...any) ([]*models.CompletedWorkout, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	history, err := scanCompletedWorkouts(rows)
	if err != nil {
		return nil, err
	}

	for _, cw := range history {
		exercises, err := d.listCompletedExercises(ctx, cw.ID, 0)
		if err != nil {
			return nil, err
		}
		cw.Exercises = exercises
	}
	return history, nil
}

// DeleteCompletedWorkout removes one history entry with its exercises and sets.
func (d *DB) DeleteCompletedWorkout(ctx context.Context, id uuid.UUID) error {
	result, err := d.db.ExecContext(ctx, "DELETE FROM completed_workouts WHERE id = ?", id.String())
	if err != nil {
		return &StorageError{Op: "delete completed workout", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &StorageError{Op: "delete completed workout", Err: err}
	}
	if affected == 0 {
		return fmt.Errorf("delete completed workout %s: %w", id, ErrNotFound)
	}
	return nil
}

// ResolveCompletedWorkoutID finds the full completed-workout ID from an ID or unique prefix.
func (d *DB) ResolveCompletedWorkoutID(ctx context.Context, idOrPrefix string) (uuid.UUID, error) {
	return d.resolveID(ctx, "completed_workouts", idOrPrefix)
}

// buildCompletedWorkout validates a session payload and assigns IDs and positions.
func buildCompletedWorkout(data models.CompletedWorkoutData) (*models.CompletedWorkout, error) {
	name := strings.TrimSpace(data.WorkoutName)
	if name == "" {
		return nil, &ValidationError{Field: "workout_name", Msg: "must not be empty"}
	}

	date := data.Date
	if date.IsZero() {
		date = time.Now()
	}

	cw := &models.CompletedWorkout{
		ID:          uuid.New(),
		WorkoutName: name,
		Date:        date.UTC().Truncate(time.Millisecond),
		Exercises:   make([]models.CompletedExercise, 0, len(data.CompletedExercises)),
	}
	if data.WorkoutID != uuid.Nil {
		id := data.WorkoutID
		cw.WorkoutID = &id
	}

	for pos, ed := range data.CompletedExercises {
		exName := strings.TrimSpace(ed.ExerciseName)
		if exName == "" {
			return nil, &ValidationError{Field: "exercise_name", Msg: fmt.Sprintf("exercise %d has no name", pos+1)}
		}
		sets, err := models.NormalizeCompletedSets(ed.CompletedSets)
		if err != nil {
			return nil, &ValidationError{Field: "completed_sets", Msg: fmt.Sprintf("%s: %v", exName, err)}
		}

		ce := models.CompletedExercise{
			ID:                 uuid.New(),
			CompletedWorkoutID: cw.ID,
			ExerciseName:       exName,
			Position:           pos,
			Sets:               make([]models.CompletedSet, 0, len(sets)),
		}
		for _, sd := range sets {
			cs := models.CompletedSet{
				ID:                  uuid.New(),
				CompletedExerciseID: ce.ID,
				SetNumber:           sd.SetNumber,
				Repetitions:         sd.Repetitions,
				Weight:              sd.Weight,
			}
			if obs := strings.TrimSpace(sd.Observation); obs != "" {
				cs.Observation = &obs
			}
			ce.Sets = append(ce.Sets, cs)
		}
		cw.Exercises = append(cw.Exercises, ce)
	}
	return cw, nil
}

// insertCompletedTree writes a completed workout and its children within tx.
func insertCompletedTree(ctx context.Context, tx *sql.Tx, cw *models.CompletedWorkout) error {
	var workoutID any
	if cw.WorkoutID != nil {
		workoutID = cw.WorkoutID.String()
	}
	if _, err := tx.ExecContext(ctx, insertCompletedWorkoutSQL, cw.ID.String(), workoutID, cw.WorkoutName, formatTime(cw.Date)); err != nil {
		return fmt.Errorf("insert completed workout: %w", err)
	}

	exStmt, err := tx.PrepareContext(ctx, insertCompletedExerciseSQL)
	if err != nil {
		return fmt.Errorf("prepare completed exercise insert: %w", err)
	}
	defer exStmt.Close()

	setStmt, err := tx.PrepareContext(ctx, insertCompletedSetSQL)
	if err != nil {
		return fmt.Errorf("prepare completed set insert: %w", err)
	}
	defer setStmt.Close()

	for _, ce := range cw.Exercises {
		if _, err := exStmt.ExecContext(ctx, ce.ID.String(), cw.ID.String(), ce.ExerciseName, ce.Position); err != nil {
			return fmt.Errorf("insert completed exercise %q: %w", ce.ExerciseName, err)
		}
		for _, cs := range ce.Sets {
			var obs any
			if cs.Observation != nil {
				obs = *cs.Observation
			}
			if _, err := setStmt.ExecContext(ctx, cs.ID.String(), ce.ID.String(), cs.SetNumber, cs.Repetitions, cs.Weight, obs); err != nil {
				return fmt.Errorf("insert completed set %d of %q: %w", cs.SetNumber, ce.ExerciseName, err)
			}
		}
	}
	return nil
}

// listCompletedExercises loads the exercises of one completed workout with their
// sets. A positive limit keeps only the most recent (highest position) exercises.
func (d *DB) listCompletedExercises(ctx context.Context, completedWorkoutID uuid.UUID, limit int) ([]models.CompletedExercise, error) {
	query := `SELECT id, completed_workout_id, exercise_name, position FROM completed_exercises WHERE completed_workout_id = ?`
	args := []any{completedWorkoutID.String()}
	if limit > 0 {
		query += ` ORDER BY position DESC, rowid DESC LIMIT ?`
		args = append(args, limit)
	} else {
		query += ` ORDER BY position, rowid`
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: "list completed exercises", Err: err}
	}
	defer rows.Close()

	exercises := []models.CompletedExercise{}
	for rows.Next() {
		var ce models.CompletedExercise
		var idStr, parentStr string
		if err := rows.Scan(&idStr, &parentStr, &ce.ExerciseName, &ce.Position); err != nil {
			return nil, &StorageError{Op: "scan completed exercise", Err: err}
		}
		ce.ID, _ = uuid.Parse(idStr)
		ce.CompletedWorkoutID, _ = uuid.Parse(parentStr)
		exercises = append(exercises, ce)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list completed exercises", Err: err}
	}
	rows.Close()

	for i := range exercises {
		sets, err := d.listCompletedSets(ctx, exercises[i].ID)
		if err != nil {
			return nil, err
		}
		exercises[i].Sets = sets
	}
	return exercises, nil
}

func (d *DB) listCompletedSets(ctx context.Context, completedExerciseID uuid.UUID) ([]models.CompletedSet, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, completed_exercise_id, set_number, repetitions, weight, observation
		FROM completed_sets
		WHERE completed_exercise_id = ?
		ORDER BY set_number ASC
	`, completedExerciseID.String())
	if err != nil {
		return nil, &StorageError{Op: "list completed sets", Err: err}
	}
	defer rows.Close()

	sets := []models.CompletedSet{}
	for rows.Next() {
		var cs models.CompletedSet
		var idStr, parentStr string
		var obs sql.NullString
		if err := rows.Scan(&idStr, &parentStr, &cs.SetNumber, &cs.Repetitions, &cs.Weight, &obs); err != nil {
			return nil, &StorageError{Op: "scan completed set", Err: err}
		}
		cs.ID, _ = uuid.Parse(idStr)
		cs.CompletedExerciseID, _ = uuid.Parse(parentStr)
		if obs.Valid {
			cs.Observation = &obs.String
		}
		sets = append(sets, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list completed sets", Err: err}
	}
	return sets, nil
}

// scanCompletedWorkouts reads and closes rows of completed workout headers.
func scanCompletedWorkouts(rows *sql.Rows) ([]*models.CompletedWorkout, error) {
	defer rows.Close()

	history := []*models.CompletedWorkout{}
	for rows.Next() {
		cw, err := scanCompletedWorkout(rows)
		if err != nil {
			return nil, &StorageError{Op: "scan completed workout", Err: err}
		}
		history = append(history, cw)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "scan completed workouts", Err: err}
	}
	return history, nil
}

func scanCompletedWorkout(row rowScanner) (*models.CompletedWorkout, error) {
	var cw models.CompletedWorkout
	var idStr, date string
	var workoutID sql.NullString

	if err := row.Scan(&idStr, &workoutID, &cw.WorkoutName, &date); err != nil {
		return nil, err
	}

	cw.ID, _ = uuid.Parse(idStr)
	cw.Date = parseTime(date)
	if workoutID.Valid {
		if id, err := uuid.Parse(workoutID.String); err == nil {
			cw.WorkoutID = &id
		}
	}
	return &cw, nil
}
