// ABOUTME: Forgiving numeric coercion for free-text set input.
// ABOUTME: Empty or unparseable values become zero instead of failing the session.
package session

import (
	"math"
	"strconv"
	"strings"
)

// parseReps converts a repetitions entry to a non-negative integer.
// Decimals truncate, so "8.0" and "8.7" both become 8.
func parseReps(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return max(n, 0)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// parseWeight converts a weight entry to a float. A comma is accepted as the
// decimal separator.
func parseWeight(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
