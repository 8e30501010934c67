// ABOUTME: Workout plan CRUD for SQLite storage: workouts, exercises, and planned sets.
// ABOUTME: Multi-row writes run in one transaction; deletes cascade through the schema.
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
	insertWorkoutSQL  = `INSERT INTO workouts (id, name, day_of_week, created_at) VALUES (?, ?, ?, ?)`
	insertExerciseSQL = `INSERT INTO exercises (id, workout_id, name, position) VALUES (?, ?, ?, ?)`
	insertSetSQL      = `INSERT INTO sets (id, exercise_id, set_number, repetitions, weight) VALUES (?, ?, ?, ?, ?)`
	selectWorkoutCols = `SELECT id, name, day_of_week, created_at FROM workouts`
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CreateWorkout stores a new workout plan with no exercises.
func (d *DB) CreateWorkout(ctx context.Context, name string, day models.Weekday) (*models.Workout, error) {
	w, err := newValidatedWorkout(name, day)
	if err != nil {
		return nil, err
	}

	_, err = d.db.ExecContext(ctx, insertWorkoutSQL, w.ID.String(), w.Name, dayValue(w.DayOfWeek), formatTime(w.CreatedAt))
	if err != nil {
		return nil, &StorageError{Op: "create workout", Err: err}
	}

	d.logger.Debug("workout created", "id", w.ID, "name", w.Name)
	return w, nil
}

// CreateWorkoutWithExercises stores a workout and its whole exercise/set tree atomically.
// Either every row commits or none do.
func (d *DB) CreateWorkoutWithExercises(ctx context.Context, name string, day models.Weekday, exercises []models.ExercisePlan) (*models.Workout, error) {
	w, err := newValidatedWorkout(name, day)
	if err != nil {
		return nil, err
	}

	plans := make([]models.ExercisePlan, len(exercises))
	for i, ex := range exercises {
		p, err := validateExercisePlan(ex.Name, ex.Sets)
		if err != nil {
			return nil, err
		}
		plans[i] = p
	}

	err = d.withTx(ctx, "create workout", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertWorkoutSQL, w.ID.String(), w.Name, dayValue(w.DayOfWeek), formatTime(w.CreatedAt)); err != nil {
			return fmt.Errorf("insert workout: %w", err)
		}

		ins, err := prepareExerciseInserter(ctx, tx)
		if err != nil {
			return err
		}
		defer ins.Close()

		w.Exercises = make([]models.Exercise, 0, len(plans))
		for pos, p := range plans {
			ex := buildExercise(w.ID, p, pos)
			if err := ins.insert(ctx, ex); err != nil {
				return err
			}
			w.Exercises = append(w.Exercises, *ex)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("workout created", "id", w.ID, "name", w.Name, "exercises", len(w.Exercises))
	return w, nil
}

// AddExerciseToWorkout appends an exercise and its sets to an existing workout.
// The exercise and all of its sets commit together.
func (d *DB) AddExerciseToWorkout(ctx context.Context, workoutID uuid.UUID, name string, sets []models.SetPlan) (*models.Exercise, error) {
	p, err := validateExercisePlan(name, sets)
	if err != nil {
		return nil, err
	}

	var ex *models.Exercise
	err = d.withTx(ctx, "add exercise", func(tx *sql.Tx) error {
		var next int
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(e.position) + 1, 0) FROM workouts w
			 LEFT JOIN exercises e ON e.workout_id = w.id
			 WHERE w.id = ? GROUP BY w.id`,
			workoutID.String()).Scan(&next)
		if errors.Is(err, sql.ErrNoRows) {
			return &StorageError{Op: "add exercise", Err: fmt.Errorf("workout %s: %w", workoutID, ErrNotFound)}
		}
		if err != nil {
			return fmt.Errorf("next position: %w", err)
		}

		ins, err := prepareExerciseInserter(ctx, tx)
		if err != nil {
			return err
		}
		defer ins.Close()

		ex = buildExercise(workoutID, p, next)
		return ins.insert(ctx, ex)
	})
	if err != nil {
		return nil, err
	}
	return ex, nil
}

// DeleteWorkout removes a workout with its exercises, sets, and cardio (cascade delete).
// Completed history keeps its rows with workout_id cleared.
// Deleting an id that does not exist is a no-op.
func (d *DB) DeleteWorkout(ctx context.Context, id uuid.UUID) error {
	result, err := d.db.ExecContext(ctx, "DELETE FROM workouts WHERE id = ?", id.String())
	if err != nil {
		return &StorageError{Op: "delete workout", Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &StorageError{Op: "delete workout", Err: err}
	}
	if affected == 0 {
		d.logger.Debug("delete workout: nothing to delete", "id", id)
	}
	return nil
}

// ListAllWorkouts returns every workout in storage order, without exercises.
func (d *DB) ListAllWorkouts(ctx context.Context) ([]*models.Workout, error) {
	rows, err := d.db.QueryContext(ctx, selectWorkoutCols+` ORDER BY rowid`)
	if err != nil {
		return nil, &StorageError{Op: "list workouts", Err: err}
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// ListWorkoutsByDay returns the workouts scheduled for a weekday.
// Unscheduled selects workouts with no day set.
func (d *DB) ListWorkoutsByDay(ctx context.Context, day models.Weekday) ([]*models.Workout, error) {
	if !day.IsValid() {
		return nil, &ValidationError{Field: "day_of_week", Msg: fmt.Sprintf("unknown weekday %q", day)}
	}

	var rows *sql.Rows
	var err error
	if day == models.Unscheduled {
		rows, err = d.db.QueryContext(ctx, selectWorkoutCols+` WHERE day_of_week IS NULL ORDER BY rowid`)
	} else {
		rows, err = d.db.QueryContext(ctx, selectWorkoutCols+` WHERE day_of_week = ? ORDER BY rowid`, string(day))
	}
	if err != nil {
		return nil, &StorageError{Op: "list workouts by day", Err: err}
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// GetWorkoutDetails returns the workout with exercises ordered by position and
// sets ordered by set number. Returns (nil, nil) when the workout does not exist.
func (d *DB) GetWorkoutDetails(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	w, err := scanWorkout(d.db.QueryRowContext(ctx, selectWorkoutCols+` WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "get workout", Err: err}
	}

	exercises, err := d.listExercises(ctx, id)
	if err != nil {
		return nil, err
	}

	sets, err := d.listSetsForWorkout(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range exercises {
		exercises[i].Sets = sets[exercises[i].ID]
	}
	w.Exercises = exercises
	return w, nil
}

// ResolveWorkoutID finds the full workout ID from an ID or unique ID prefix.
func (d *DB) ResolveWorkoutID(ctx context.Context, idOrPrefix string) (uuid.UUID, error) {
	return d.resolveID(ctx, "workouts", idOrPrefix)
}

func (d *DB) listExercises(ctx context.Context, workoutID uuid.UUID) ([]models.Exercise, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, workout_id, name, position FROM exercises WHERE workout_id = ? ORDER BY position, rowid`,
		workoutID.String())
	if err != nil {
		return nil, &StorageError{Op: "list exercises", Err: err}
	}
	defer rows.Close()

	exercises := []models.Exercise{}
	for rows.Next() {
		var e models.Exercise
		var idStr, workoutIDStr string
		if err := rows.Scan(&idStr, &workoutIDStr, &e.Name, &e.Position); err != nil {
			return nil, &StorageError{Op: "scan exercise", Err: err}
		}
		e.ID, _ = uuid.Parse(idStr)
		e.WorkoutID, _ = uuid.Parse(workoutIDStr)
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list exercises", Err: err}
	}
	return exercises, nil
}

// listSetsForWorkout returns planned sets keyed by exercise, each ordered by set number.
func (d *DB) listSetsForWorkout(ctx context.Context, workoutID uuid.UUID) (map[uuid.UUID][]models.Set, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT s.id, s.exercise_id, s.set_number, s.repetitions, s.weight
		FROM sets s
		JOIN exercises e ON e.id = s.exercise_id
		WHERE e.workout_id = ?
		ORDER BY s.exercise_id, s.set_number
	`, workoutID.String())
	if err != nil {
		return nil, &StorageError{Op: "list sets", Err: err}
	}
	defer rows.Close()

	sets := make(map[uuid.UUID][]models.Set)
	for rows.Next() {
		var s models.Set
		var idStr, exerciseIDStr string
		var weight sql.NullFloat64
		if err := rows.Scan(&idStr, &exerciseIDStr, &s.SetNumber, &s.Repetitions, &weight); err != nil {
			return nil, &StorageError{Op: "scan set", Err: err}
		}
		s.ID, _ = uuid.Parse(idStr)
		s.ExerciseID, _ = uuid.Parse(exerciseIDStr)
		if weight.Valid {
			w := weight.Float64
			s.Weight = &w
		}
		sets[s.ExerciseID] = append(sets[s.ExerciseID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list sets", Err: err}
	}
	return sets, nil
}

// exerciseInserter holds the prepared statements for writing exercises inside a transaction.
type exerciseInserter struct {
	exStmt  *sql.Stmt
	setStmt *sql.Stmt
}

func prepareExerciseInserter(ctx context.Context, tx *sql.Tx) (*exerciseInserter, error) {
	exStmt, err := tx.PrepareContext(ctx, insertExerciseSQL)
	if err != nil {
		return nil, fmt.Errorf("prepare exercise insert: %w", err)
	}
	setStmt, err := tx.PrepareContext(ctx, insertSetSQL)
	if err != nil {
		_ = exStmt.Close()
		return nil, fmt.Errorf("prepare set insert: %w", err)
	}
	return &exerciseInserter{exStmt: exStmt, setStmt: setStmt}, nil
}

// buildExercise turns a validated plan into an exercise tree with fresh IDs.
func buildExercise(workoutID uuid.UUID, p models.ExercisePlan, position int) *models.Exercise {
	ex := models.NewExercise(workoutID, p.Name, position)
	ex.Sets = make([]models.Set, 0, len(p.Sets))
	for _, sp := range p.Sets {
		s := models.NewSet(ex.ID, sp.SetNumber, sp.Repetitions)
		s.Weight = sp.Weight
		ex.Sets = append(ex.Sets, *s)
	}
	return ex
}

func (ins *exerciseInserter) insert(ctx context.Context, ex *models.Exercise) error {
	if _, err := ins.exStmt.ExecContext(ctx, ex.ID.String(), ex.WorkoutID.String(), ex.Name, ex.Position); err != nil {
		return fmt.Errorf("insert exercise %q: %w", ex.Name, err)
	}
	for _, s := range ex.Sets {
		if _, err := ins.setStmt.ExecContext(ctx, s.ID.String(), ex.ID.String(), s.SetNumber, s.Repetitions, nullFloat(s.Weight)); err != nil {
			return fmt.Errorf("insert set %d of %q: %w", s.SetNumber, ex.Name, err)
		}
	}
	return nil
}

func (ins *exerciseInserter) Close() {
	_ = ins.setStmt.Close()
	_ = ins.exStmt.Close()
}

func newValidatedWorkout(name string, day models.Weekday) (*models.Workout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Msg: "must not be empty"}
	}
	if !day.IsValid() {
		return nil, &ValidationError{Field: "day_of_week", Msg: fmt.Sprintf("unknown weekday %q", day)}
	}
	w := models.NewWorkout(name, day)
	w.CreatedAt = w.CreatedAt.UTC().Truncate(time.Millisecond)
	return w, nil
}

func validateExercisePlan(name string, sets []models.SetPlan) (models.ExercisePlan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ExercisePlan{}, &ValidationError{Field: "exercise name", Msg: "must not be empty"}
	}
	normalized, err := models.NormalizeSetNumbers(sets)
	if err != nil {
		return models.ExercisePlan{}, &ValidationError{Field: "sets", Msg: err.Error()}
	}
	return models.ExercisePlan{Name: name, Sets: normalized}, nil
}

// resolveID finds the full ID in table from an ID or unique prefix.
func (d *DB) resolveID(ctx context.Context, table, idOrPrefix string) (uuid.UUID, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return uuid.Nil, &ValidationError{Field: "id", Msg: "must not be empty"}
	}
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		id, err := uuid.Parse(idOrPrefix)
		if err != nil {
			return uuid.Nil, &ValidationError{Field: "id", Msg: err.Error()}
		}
		return id, nil
	}

	// Compare the leading characters exactly; LIKE would treat _ and % as wildcards.
	prefix := strings.ToLower(idOrPrefix)
	query := fmt.Sprintf(`SELECT id FROM %s WHERE substr(id, 1, length(?)) = ? LIMIT 2`, table)
	rows, err := d.db.QueryContext(ctx, query, prefix, prefix)
	if err != nil {
		return uuid.Nil, &StorageError{Op: "resolve ID", Err: err}
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return uuid.Nil, &StorageError{Op: "scan ID", Err: err}
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, &StorageError{Op: "resolve ID", Err: err}
	}

	if len(matches) == 0 {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	if len(matches) > 1 {
		return uuid.Nil, fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
	}

	return uuid.Parse(matches[0])
}

func scanWorkout(row rowScanner) (*models.Workout, error) {
	var w models.Workout
	var idStr, createdAt string
	var day sql.NullString

	if err := row.Scan(&idStr, &w.Name, &day, &createdAt); err != nil {
		return nil, err
	}

	w.ID, _ = uuid.Parse(idStr)
	w.CreatedAt = parseTime(createdAt)
	if day.Valid {
		w.DayOfWeek = models.Weekday(day.String)
	}
	return &w, nil
}

func scanWorkouts(rows *sql.Rows) ([]*models.Workout, error) {
	workouts := []*models.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, &StorageError{Op: "scan workout", Err: err}
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "scan workouts", Err: err}
	}
	return workouts, nil
}

func dayValue(day models.Weekday) any {
	if day == models.Unscheduled {
		return nil
	}
	return string(day)
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
