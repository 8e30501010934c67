// ABOUTME: Tests for schema initialization, reset, and connection setup.
// ABOUTME: Verifies idempotent init, hard reset, and enforced foreign keys.
package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harperreed/lifts/internal/models"
)

func TestInitializeIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	w := seedPushDay(t, db)

	for i := 0; i < 3; i++ {
		if err := db.Initialize(ctx); err != nil {
			t.Fatalf("Initialize #%d failed: %v", i+1, err)
		}
	}

	got, err := db.GetWorkoutDetails(ctx, w.ID)
	if err != nil || got == nil {
		t.Fatalf("data lost after re-initialize: (%v, %v)", got, err)
	}
	if len(got.Exercises) != 2 {
		t.Errorf("expected 2 exercises, got %d", len(got.Exercises))
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "lifts.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	w, err := db.CreateWorkout(context.Background(), "Persisted", models.Saturday)
	if err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}
	db.Close()

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	got, err := db.GetWorkoutDetails(context.Background(), w.ID)
	if err != nil || got == nil || got.Name != "Persisted" {
		t.Errorf("after reopen got (%v, %v), want Persisted", got, err)
	}
}

func TestHardReset(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	w := seedPushDay(t, db)
	if _, err := db.SaveCompletedWorkout(ctx, completionFor(w, w.CreatedAt)); err != nil {
		t.Fatalf("SaveCompletedWorkout failed: %v", err)
	}

	if err := db.HardReset(ctx); err != nil {
		t.Fatalf("HardReset failed: %v", err)
	}

	for _, table := range []string{"workouts", "exercises", "sets", "cardio", "completed_workouts", "completed_exercises", "completed_sets"} {
		if n := countRows(t, db, table); n != 0 {
			t.Errorf("%s has %d rows after reset, want 0", table, n)
		}
	}

	// Schema is usable again and still enforces foreign keys.
	seedPushDay(t, db)
	_, err := db.db.Exec(insertExerciseSQL, "e-orphan", "no-such-workout", "Orphan", 0)
	if err == nil {
		t.Error("expected foreign key violation after reset")
	}
}

func TestForeignKeysEnforcedOnEveryConnection(t *testing.T) {
	db := setupTestDB(t)

	// Hold several pooled connections open at once.
	ctx := context.Background()
	conns := make([]interface{ Close() error }, 0, 3)
	for i := 0; i < 3; i++ {
		conn, err := db.db.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn failed: %v", err)
		}
		var fk int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("read pragma: %v", err)
		}
		if fk != 1 {
			t.Errorf("connection %d has foreign_keys=%d, want 1", i, fk)
		}
		conns = append(conns, conn)
	}
	for _, c := range conns {
		c.Close()
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "lifts.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
	if db.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", db.Path(), dbPath)
	}
}

func TestDataDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-test")

	if got := DataDir(); got != "/tmp/xdg-test/lifts" {
		t.Errorf("DataDir() = %q", got)
	}
	if got := DefaultDBPath(); got != "/tmp/xdg-test/lifts/lifts.db" {
		t.Errorf("DefaultDBPath() = %q", got)
	}
}

func TestDBCloseNilDB(t *testing.T) {
	d := &DB{db: nil}
	if err := d.Close(); err != nil {
		t.Errorf("Close on nil db should not error: %v", err)
	}
}

func TestTimeFormatIsSortable(t *testing.T) {
	a := parseTime(formatTime(models.NewWorkout("x", "").CreatedAt))
	if a.IsZero() {
		t.Fatal("round trip produced zero time")
	}
	if len(formatTime(a)) != len(timeLayout) {
		t.Errorf("formatted length = %d, want fixed %d", len(formatTime(a)), len(timeLayout))
	}
}

func TestOpenWithLoggerLogsSchemaSetup(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	db, err := Open(filepath.Join(t.TempDir(), "lifts.db"), WithLogger(logger))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if !strings.Contains(buf.String(), "schema ready") {
		t.Errorf("expected schema setup in log output, got %q", buf.String())
	}
}

func TestOpenWithNilLogger(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "lifts.db"), WithLogger(nil))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if db.logger == nil {
		t.Fatal("expected the default logger to be kept")
	}
	if _, err := db.CreateWorkout(context.Background(), "Push Day", models.Monday); err != nil {
		t.Errorf("CreateWorkout failed: %v", err)
	}
}
