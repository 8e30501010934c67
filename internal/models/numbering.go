// ABOUTME: Set-number normalization shared by planned and completed sets.
// ABOUTME: Keeps set_number dense and unique within its parent exercise.
package models

import (
	"fmt"
	"sort"
)

func renumber[T any](items []T, get func(T) int, set func(*T, int)) ([]T, error) {
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		n := get(it)
		if n < 0 {
			return nil, fmt.Errorf("set number must not be negative: %d", n)
		}
		if n == 0 {
			continue
		}
		if seen[n] {
			return nil, fmt.Errorf("duplicate set number: %d", n)
		}
		seen[n] = true
	}

	out := make([]T, len(items))
	copy(out, items)
	// Unnumbered entries sort after numbered ones, stable among themselves.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := get(out[i]), get(out[j])
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})
	for i := range out {
		set(&out[i], i+1)
	}
	return out, nil
}
