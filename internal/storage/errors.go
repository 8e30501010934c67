// ABOUTME: Typed errors returned by the storage layer.
// ABOUTME: Separates bad caller input from engine failures and missing parents.
package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a write references a parent row that does not exist.
// Reads report absence with a nil result instead.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed caller input. Nothing was written.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// StorageError reports a failure from the database engine.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// wrapErr leaves typed errors alone and wraps anything else as a StorageError.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
