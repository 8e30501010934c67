// ABOUTME: Latest-completion shortcut used to prefill a new session.
// ABOUTME: Returns only the newest exercise of the newest completion for a workout.
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/harperreed/lifts/internal/models"
)

// LatestCompletionFor returns the most recent completion of a workout, trimmed to
// its most recent completed exercise and that exercise's sets in set-number order.
// Returns (nil, nil) when the workout has never been completed.
func (d *DB) LatestCompletionFor(ctx context.Context, workoutID uuid.UUID) (*models.CompletedWorkout, error) {
	cw, err := scanCompletedWorkout(d.db.QueryRowContext(ctx,
		selectCompletedCols+` WHERE workout_id = ? ORDER BY date DESC, rowid DESC LIMIT 1`,
		workoutID.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "latest completion", Err: err}
	}

	exercises, err := d.listCompletedExercises(ctx, cw.ID, 1)
	if err != nil {
		return nil, err
	}
	cw.Exercises = exercises
	return cw, nil
}
