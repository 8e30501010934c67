// ABOUTME: Data migration between lifts databases.
// ABOUTME: Copies plans, cardio, and history from one repository into another.

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrDestinationNotEmpty is returned when MigrateData would merge into existing data.
var ErrDestinationNotEmpty = errors.New("destination already has data")

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Workouts  int
	Exercises int
	Cardio    int
	Sessions  int
}

// Summarize counts the entities in an export.
func Summarize(data *ExportData) *MigrateSummary {
	s := &MigrateSummary{
		Workouts: len(data.Workouts),
		Cardio:   len(data.Cardio),
		Sessions: len(data.History),
	}
	for _, w := range data.Workouts {
		s.Exercises += len(w.Exercises)
	}
	return s
}

// MigrateData copies all data from src to dst, keeping IDs so history stays
// linked to its plans. The destination must be empty. Nothing is written to
// dst when any record fails.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	empty, err := isEmpty(ctx, dst)
	if err != nil {
		return nil, err
	}
	if !empty {
		return nil, ErrDestinationNotEmpty
	}

	data, err := src.GetAllData(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if err := dst.ImportData(ctx, data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}
	return Summarize(data), nil
}

func isEmpty(ctx context.Context, repo Repository) (bool, error) {
	workouts, err := repo.ListAllWorkouts(ctx)
	if err != nil {
		return false, fmt.Errorf("list destination workouts: %w", err)
	}
	if len(workouts) > 0 {
		return false, nil
	}
	history, err := repo.ListCompletedWorkouts(ctx)
	if err != nil {
		return false, fmt.Errorf("list destination history: %w", err)
	}
	return len(history) == 0, nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %q: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}
