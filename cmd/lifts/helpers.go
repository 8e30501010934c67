// ABOUTME: Formatting and parsing helpers shared by CLI commands.
// ABOUTME: Set specs, short IDs, weights, dates, and column padding.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/lifts/internal/models"
)

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// parseSetSpec parses "reps" or "reps@weight", e.g. "10@62.5".
func parseSetSpec(s string) (models.SetPlan, error) {
	repsPart, weightPart, hasWeight := strings.Cut(strings.TrimSpace(s), "@")
	reps, err := strconv.Atoi(strings.TrimSpace(repsPart))
	if err != nil || reps < 0 {
		return models.SetPlan{}, fmt.Errorf("invalid set %q: repetitions must be a whole number", s)
	}
	sp := models.SetPlan{Repetitions: reps}
	if hasWeight {
		w, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(weightPart), ",", "."), 64)
		if err != nil {
			return models.SetPlan{}, fmt.Errorf("invalid set %q: weight must be a number", s)
		}
		sp.Weight = &w
	}
	return sp, nil
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func formatPlannedSet(s models.Set) string {
	if s.Weight == nil {
		return fmt.Sprintf("%d reps", s.Repetitions)
	}
	return fmt.Sprintf("%d @ %s", s.Repetitions, formatWeight(*s.Weight))
}

func parseDate(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q (use YYYY-MM-DD)", s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
