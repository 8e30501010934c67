// ABOUTME: Export and import functionality for workout plans and history.
// ABOUTME: Supports JSON, YAML, and Markdown export formats; JSON imports atomically.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/lifts/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for lifts data.
type ExportData struct {
	Version    string                     `json:"version" yaml:"version"`
	ExportedAt time.Time                  `json:"exported_at" yaml:"exported_at"`
	Tool       string                     `json:"tool" yaml:"tool"`
	Workouts   []*models.Workout          `json:"workouts" yaml:"workouts"`
	Cardio     []*models.Cardio           `json:"cardio,omitempty" yaml:"cardio,omitempty"`
	History    []*models.CompletedWorkout `json:"history" yaml:"history"`
}

// GetAllData retrieves all plans, cardio, and history for export.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	summaries, err := d.ListAllWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "lifts",
		Workouts:   make([]*models.Workout, 0, len(summaries)),
		Cardio:     []*models.Cardio{},
	}

	for _, s := range summaries {
		w, err := d.GetWorkoutDetails(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("get workout %s: %w", s.ID, err)
		}
		if w == nil {
			continue
		}
		data.Workouts = append(data.Workouts, w)

		cardio, err := d.ListCardio(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("list cardio: %w", err)
		}
		data.Cardio = append(data.Cardio, cardio...)
	}

	data.History, err = d.ListCompletedWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return data, nil
}

// ImportData imports an export in one transaction. IDs are preserved; a
// collision with an existing row aborts the whole import.
func (d *DB) ImportData(ctx context.Context, data *ExportData) error {
	if data == nil {
		return &ValidationError{Field: "data", Msg: "nothing to import"}
	}
	for _, w := range data.Workouts {
		if w == nil {
			return &ValidationError{Field: "workouts", Msg: "null entry"}
		}
		if strings.TrimSpace(w.Name) == "" {
			return &ValidationError{Field: "name", Msg: "imported workout has no name"}
		}
		if !w.DayOfWeek.IsValid() {
			return &ValidationError{Field: "day_of_week", Msg: fmt.Sprintf("unknown weekday %q", w.DayOfWeek)}
		}
	}
	for _, c := range data.Cardio {
		if c == nil {
			return &ValidationError{Field: "cardio", Msg: "null entry"}
		}
	}
	for _, cw := range data.History {
		if cw == nil {
			return &ValidationError{Field: "history", Msg: "null entry"}
		}
		if strings.TrimSpace(cw.WorkoutName) == "" {
			return &ValidationError{Field: "workout_name", Msg: "imported history entry has no name"}
		}
	}

	err := d.withTx(ctx, "import", func(tx *sql.Tx) error {
		ins, err := prepareExerciseInserter(ctx, tx)
		if err != nil {
			return err
		}
		defer ins.Close()

		for _, w := range data.Workouts {
			fillWorkoutIDs(w)
			if w.CreatedAt.IsZero() {
				w.CreatedAt = time.Now()
			}
			if _, err := tx.ExecContext(ctx, insertWorkoutSQL, w.ID.String(), strings.TrimSpace(w.Name), dayValue(w.DayOfWeek), formatTime(w.CreatedAt)); err != nil {
				return fmt.Errorf("import workout %q: %w", w.Name, err)
			}
			for i := range w.Exercises {
				if err := ins.insert(ctx, &w.Exercises[i]); err != nil {
					return fmt.Errorf("import workout %q: %w", w.Name, err)
				}
			}
		}

		for _, c := range data.Cardio {
			if c.ID == uuid.Nil {
				c.ID = uuid.New()
			}
			var duration any
			if c.DurationMinutes != nil {
				duration = *c.DurationMinutes
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cardio (id, workout_id, description, duration_minutes, speed) VALUES (?, ?, ?, ?, ?)`,
				c.ID.String(), c.WorkoutID.String(), c.Description, duration, nullFloat(c.Speed)); err != nil {
				return fmt.Errorf("import cardio %q: %w", c.Description, err)
			}
		}

		for _, cw := range data.History {
			fillCompletedIDs(cw)
			if cw.WorkoutID != nil {
				var n int
				if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM workouts WHERE id = ?`, cw.WorkoutID.String()).Scan(&n); err != nil {
					return fmt.Errorf("check workout: %w", err)
				}
				// History whose plan is gone is kept as orphaned.
				if n == 0 {
					cw.WorkoutID = nil
				}
			}
			if err := insertCompletedTree(ctx, tx, cw); err != nil {
				return fmt.Errorf("import history %s: %w", cw.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.logger.Info("import complete", "workouts", len(data.Workouts), "history", len(data.History))
	return nil
}

// fillWorkoutIDs assigns IDs missing from hand-written imports and links children.
func fillWorkoutIDs(w *models.Workout) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	for i := range w.Exercises {
		ex := &w.Exercises[i]
		if ex.ID == uuid.Nil {
			ex.ID = uuid.New()
		}
		ex.WorkoutID = w.ID
		for j := range ex.Sets {
			if ex.Sets[j].ID == uuid.Nil {
				ex.Sets[j].ID = uuid.New()
			}
			ex.Sets[j].ExerciseID = ex.ID
		}
	}
}

func fillCompletedIDs(cw *models.CompletedWorkout) {
	if cw.ID == uuid.Nil {
		cw.ID = uuid.New()
	}
	if cw.Date.IsZero() {
		cw.Date = time.Now()
	}
	for i := range cw.Exercises {
		ce := &cw.Exercises[i]
		if ce.ID == uuid.Nil {
			ce.ID = uuid.New()
		}
		ce.CompletedWorkoutID = cw.ID
		for j := range ce.Sets {
			if ce.Sets[j].ID == uuid.Nil {
				ce.Sets[j].ID = uuid.New()
			}
			ce.Sets[j].CompletedExerciseID = ce.ID
		}
	}
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}

	// Convert to YAML-friendly format with plans grouped by day
	yamlData := struct {
		Version    string                   `yaml:"version"`
		ExportedAt string                   `yaml:"exported_at"`
		Tool       string                   `yaml:"tool"`
		Plans      map[string][]yamlWorkout `yaml:"plans"`
		History    []yamlCompletion         `yaml:"history"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Plans:      make(map[string][]yamlWorkout),
		History:    make([]yamlCompletion, 0, len(data.History)),
	}

	cardioByWorkout := make(map[uuid.UUID][]*models.Cardio)
	for _, c := range data.Cardio {
		cardioByWorkout[c.WorkoutID] = append(cardioByWorkout[c.WorkoutID], c)
	}

	for _, w := range data.Workouts {
		yw := yamlWorkout{
			ID:   w.ID.String()[:8],
			Name: w.Name,
		}
		for _, ex := range w.Exercises {
			ye := yamlExercise{Name: ex.Name}
			for _, s := range ex.Sets {
				ye.Sets = append(ye.Sets, yamlSet{Set: s.SetNumber, Reps: s.Repetitions, Weight: s.Weight})
			}
			yw.Exercises = append(yw.Exercises, ye)
		}
		for _, c := range cardioByWorkout[w.ID] {
			yc := yamlCardio{Description: c.Description, Speed: c.Speed}
			if c.DurationMinutes != nil {
				yc.DurationMinutes = *c.DurationMinutes
			}
			yw.Cardio = append(yw.Cardio, yc)
		}
		day := strings.ToLower(w.DayOfWeek.Title())
		yamlData.Plans[day] = append(yamlData.Plans[day], yw)
	}

	for _, cw := range data.History {
		yc := yamlCompletion{
			ID:      cw.ID.String()[:8],
			Workout: cw.WorkoutName,
			Date:    cw.Date.Format(time.RFC3339),
		}
		for _, ce := range cw.Exercises {
			ye := yamlCompletedExercise{Name: ce.ExerciseName}
			for _, s := range ce.Sets {
				ys := yamlCompletedSet{Set: s.SetNumber, Reps: s.Repetitions, Weight: s.Weight}
				if s.Observation != nil {
					ys.Observation = *s.Observation
				}
				ye.Sets = append(ye.Sets, ys)
			}
			yc.Exercises = append(yc.Exercises, ye)
		}
		yamlData.History = append(yamlData.History, yc)
	}

	return yaml.Marshal(yamlData)
}

type yamlWorkout struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Exercises []yamlExercise `yaml:"exercises,omitempty"`
	Cardio    []yamlCardio   `yaml:"cardio,omitempty"`
}

type yamlExercise struct {
	Name string    `yaml:"name"`
	Sets []yamlSet `yaml:"sets,omitempty"`
}

type yamlSet struct {
	Set    int      `yaml:"set"`
	Reps   int      `yaml:"reps"`
	Weight *float64 `yaml:"weight,omitempty"`
}

type yamlCardio struct {
	Description     string   `yaml:"description"`
	DurationMinutes int      `yaml:"duration_minutes,omitempty"`
	Speed           *float64 `yaml:"speed,omitempty"`
}

type yamlCompletion struct {
	ID        string                  `yaml:"id"`
	Workout   string                  `yaml:"workout"`
	Date      string                  `yaml:"date"`
	Exercises []yamlCompletedExercise `yaml:"exercises,omitempty"`
}

type yamlCompletedExercise struct {
	Name string             `yaml:"name"`
	Sets []yamlCompletedSet `yaml:"sets,omitempty"`
}

type yamlCompletedSet struct {
	Set         int     `yaml:"set"`
	Reps        int     `yaml:"reps"`
	Weight      float64 `yaml:"weight"`
	Observation string  `yaml:"observation,omitempty"`
}

// ExportMarkdown exports plans and history as Markdown. A non-nil since keeps
// only history on or after that time.
func (d *DB) ExportMarkdown(ctx context.Context, since *time.Time) (string, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Lifts Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	// Plans sorted by weekday, unscheduled last
	workouts := make([]*models.Workout, len(data.Workouts))
	copy(workouts, data.Workouts)
	sort.SliceStable(workouts, func(i, j int) bool {
		return dayRank(workouts[i].DayOfWeek) < dayRank(workouts[j].DayOfWeek)
	})

	if len(workouts) > 0 {
		sb.WriteString("## Plans\n\n")
		for _, w := range workouts {
			sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", w.Name, w.DayOfWeek.Title()))
			if len(w.Exercises) == 0 {
				sb.WriteString("_No exercises._\n\n")
				continue
			}
			sb.WriteString("| Exercise | Sets |\n")
			sb.WriteString("|----------|------|\n")
			for _, ex := range w.Exercises {
				sb.WriteString(fmt.Sprintf("| %s | %s |\n", ex.Name, describeSets(ex.Sets)))
			}
			sb.WriteString("\n")
		}
	}

	var history []*models.CompletedWorkout
	for _, cw := range data.History {
		if since == nil || !cw.Date.Before(*since) {
			history = append(history, cw)
		}
	}

	if len(history) > 0 {
		sb.WriteString("## History\n\n")
		sb.WriteString("| Date | Workout | Exercise | Set | Reps | Weight | Notes |\n")
		sb.WriteString("|------|---------|----------|-----|------|--------|-------|\n")
		for _, cw := range history {
			for _, ce := range cw.Exercises {
				for _, s := range ce.Sets {
					notes := ""
					if s.Observation != nil {
						notes = *s.Observation
					}
					sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %d | %.2f | %s |\n",
						cw.Date.Local().Format("2006-01-02 15:04"),
						cw.WorkoutName, ce.ExerciseName, s.SetNumber, s.Repetitions, s.Weight, notes))
				}
			}
		}
	}

	return sb.String(), nil
}

// describeSets renders planned sets compactly, e.g. "10, 8 @ 60, 6".
func describeSets(sets []models.Set) string {
	parts := make([]string, 0, len(sets))
	for _, s := range sets {
		if s.Weight != nil {
			parts = append(parts, fmt.Sprintf("%d @ %g", s.Repetitions, *s.Weight))
		} else {
			parts = append(parts, fmt.Sprintf("%d", s.Repetitions))
		}
	}
	return strings.Join(parts, ", ")
}

func dayRank(day models.Weekday) int {
	if day == models.Unscheduled {
		return len(models.AllWeekdays)
	}
	return day.Index()
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(ctx context.Context, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(ctx, &exportData)
}
