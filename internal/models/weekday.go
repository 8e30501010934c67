// ABOUTME: Weekday enumeration for scheduling workout plans.
// ABOUTME: Normalizes names, abbreviations, and legacy 0-6 integers to one tag set.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is the day a workout plan is scheduled for. The zero value means unset.
type Weekday string

const (
	Unscheduled Weekday = ""
	Sunday      Weekday = "sunday"
	Monday      Weekday = "monday"
	Tuesday     Weekday = "tuesday"
	Wednesday   Weekday = "wednesday"
	Thursday    Weekday = "thursday"
	Friday      Weekday = "friday"
	Saturday    Weekday = "saturday"
)

// AllWeekdays lists the valid weekdays, Sunday first to match time.Weekday.
var AllWeekdays = []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// ParseWeekday normalizes user or legacy input into a Weekday.
// Accepts full names, three-letter abbreviations, and 0-6 (0 = Sunday).
// An empty string yields Unscheduled.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Unscheduled, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return Unscheduled, fmt.Errorf("invalid weekday number: %d", n)
		}
		return AllWeekdays[n], nil
	}

	for _, d := range AllWeekdays {
		if s == string(d) || s == string(d)[:3] {
			return d, nil
		}
	}
	return Unscheduled, fmt.Errorf("unknown weekday: %q", s)
}

// WeekdayOf returns the Weekday for a time.Weekday.
func WeekdayOf(d time.Weekday) Weekday {
	return AllWeekdays[int(d)]
}

// IsValid reports whether w is one of the seven weekdays or Unscheduled.
func (w Weekday) IsValid() bool {
	if w == Unscheduled {
		return true
	}
	return w.Index() >= 0
}

// Index returns 0 for Sunday through 6 for Saturday, or -1 if unset or invalid.
func (w Weekday) Index() int {
	for i, d := range AllWeekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// Title returns the capitalized weekday name, or "Unscheduled".
func (w Weekday) Title() string {
	if w == Unscheduled {
		return "Unscheduled"
	}
	s := string(w)
	return strings.ToUpper(s[:1]) + s[1:]
}
