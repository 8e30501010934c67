// ABOUTME: Transaction helper shared by every multi-row write.
// ABOUTME: Rolls back on any callback error and commits otherwise.
package storage

import (
	"context"
	"database/sql"
)

func (d *DB) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.logger.Error("rollback failed", "op", op, "err", rbErr)
		}
		d.logger.Debug("transaction rolled back", "op", op, "err", err)
		return wrapErr(op, err)
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}
