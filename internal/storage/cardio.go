// ABOUTME: Cardio CRUD for SQLite storage.
// ABOUTME: Cardio blocks belong to a workout plan and cascade with it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/lifts/internal/models"
)

// AddCardio stores a cardio block for an existing workout.
func (d *DB) AddCardio(ctx context.Context, c *models.Cardio) error {
	c.Description = strings.TrimSpace(c.Description)
	if c.Description == "" {
		return &ValidationError{Field: "description", Msg: "must not be empty"}
	}
	if c.DurationMinutes != nil && *c.DurationMinutes < 0 {
		return &ValidationError{Field: "duration_minutes", Msg: "must not be negative"}
	}

	return d.withTx(ctx, "add cardio", func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM workouts WHERE id = ?`, c.WorkoutID.String()).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check workout: %w", err)
		}
		if exists == 0 {
			return &StorageError{Op: "add cardio", Err: fmt.Errorf("workout %s: %w", c.WorkoutID, ErrNotFound)}
		}

		var duration any
		if c.DurationMinutes != nil {
			duration = *c.DurationMinutes
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO cardio (id, workout_id, description, duration_minutes, speed) VALUES (?, ?, ?, ?, ?)`,
			c.ID.String(), c.WorkoutID.String(), c.Description, duration, nullFloat(c.Speed))
		if err != nil {
			return fmt.Errorf("insert cardio: %w", err)
		}
		return nil
	})
}

// ListCardio returns a workout's cardio blocks in insertion order.
func (d *DB) ListCardio(ctx context.Context, workoutID uuid.UUID) ([]*models.Cardio, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, workout_id, description, duration_minutes, speed FROM cardio WHERE workout_id = ? ORDER BY rowid`,
		workoutID.String())
	if err != nil {
		return nil, &StorageError{Op: "list cardio", Err: err}
	}
	defer rows.Close()

	entries := []*models.Cardio{}
	for rows.Next() {
		var c models.Cardio
		var idStr, workoutIDStr string
		var duration sql.NullInt64
		var speed sql.NullFloat64
		if err := rows.Scan(&idStr, &workoutIDStr, &c.Description, &duration, &speed); err != nil {
			return nil, &StorageError{Op: "scan cardio", Err: err}
		}
		c.ID, _ = uuid.Parse(idStr)
		c.WorkoutID, _ = uuid.Parse(workoutIDStr)
		if duration.Valid {
			n := int(duration.Int64)
			c.DurationMinutes = &n
		}
		if speed.Valid {
			s := speed.Float64
			c.Speed = &s
		}
		entries = append(entries, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list cardio", Err: err}
	}
	return entries, nil
}
