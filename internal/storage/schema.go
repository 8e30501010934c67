// ABOUTME: Schema initialization and destructive reset backed by golang-migrate.
// ABOUTME: Migrations are embedded SQL files applied through the sqlite driver.
package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// dropOrder lists every table children-first so drops never trip a foreign key.
var dropOrder = []string{
	"completed_sets",
	"completed_exercises",
	"completed_workouts",
	"cardio",
	"sets",
	"exercises",
	"workouts",
	sqlite.DefaultMigrationsTable,
}

// Initialize creates any missing tables. Safe to call repeatedly.
func (d *DB) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return &StorageError{Op: "load migrations", Err: err}
	}

	// The driver's Close would close d.db, so the migrator is never closed.
	drv, err := sqlite.WithInstance(d.db, &sqlite.Config{})
	if err != nil {
		return &StorageError{Op: "init migration driver", Err: err}
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return &StorageError{Op: "init migrator", Err: err}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return &StorageError{Op: "apply migrations", Err: err}
	}

	version, dirty, err := m.Version()
	if err == nil {
		d.logger.Debug("schema ready", "version", version, "dirty", dirty)
	}
	return nil
}

// HardReset drops every table and recreates the schema. All data is lost.
// If recreation fails the database may be left without some tables; calling
// Initialize again repairs it.
func (d *DB) HardReset(ctx context.Context) error {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return &StorageError{Op: "hard reset", Err: err}
	}

	dropErr := func() error {
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
			return err
		}
		for _, table := range dropOrder {
			if _, err := conn.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
				return fmt.Errorf("drop %s: %w", table, err)
			}
		}
		return nil
	}()

	// Restore enforcement before the connection goes back to the pool.
	if _, err := conn.ExecContext(context.Background(), "PRAGMA foreign_keys = ON"); err != nil && dropErr == nil {
		dropErr = err
	}
	if err := conn.Close(); err != nil && dropErr == nil {
		dropErr = err
	}
	if dropErr != nil {
		return &StorageError{Op: "hard reset", Err: dropErr}
	}

	d.logger.Warn("all tables dropped", "path", d.dbPath)
	return d.Initialize(ctx)
}
