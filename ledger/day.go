/*
Package ledger provides the day-keyed quota ledger and its date utilities.

PURPOSE:
  This package contains the generic, exercise-agnostic pieces of the
  engine: the canonical UTC day-string type and the sparse history map
  from day to {planned, done}. Everything here is pure bookkeeping; the
  rollover and metrics rules live in the domain packages built on top.

KEY CONCEPTS IN THIS FILE (day.go):
  - Day: a calendar day as a zero-padded "YYYY-MM-DD" string
  - DayDiff: whole-day calendar subtraction, immune to DST and zones
  - RecentDays: trailing windows ending at a given day

DESIGN PRINCIPLES:
  1. UTC everywhere: every Day is a UTC-midnight instant
  2. Lexical = chronological: zero-padded ISO keys sort in time order,
     so the history map needs no specialized time-series structure
  3. Purity: all functions are pure given their inputs; Today() is the
     only place the wall clock is read

SEE ALSO:
  - ledger.go: History map and mutation primitives
  - exercise/rollover.go: catch-up logic driven by DayDiff
*/
package ledger

import "time"

// Day is a UTC calendar day in canonical "YYYY-MM-DD" form.
// The zero value "" means "unset".
type Day string

const dayLayout = "2006-01-02"

// Today returns the current UTC calendar day.
func Today() Day {
	return FromTime(time.Now().UTC())
}

// FromTime truncates t to its UTC calendar day.
func FromTime(t time.Time) Day {
	return Day(t.UTC().Format(dayLayout))
}

// Time returns the UTC-midnight instant for d.
// Malformed or empty days return the zero time.
func (d Day) Time() time.Time {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsZero reports whether the day is unset.
func (d Day) IsZero() bool { return d == "" }

// Before reports whether d sorts strictly before other. Lexical compare
// is chronological for well-formed keys.
func (d Day) Before(other Day) bool { return d < other }

// AddDays returns the day n calendar days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// DayDiff returns the number of whole UTC calendar days from a to b.
// Positive when b is after a. Returns 0 when either day is unset or
// malformed, matching the "nothing elapsed" reading used by rollover.
func DayDiff(a, b Day) int {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	at, bt := a.Time(), b.Time()
	if at.IsZero() || bt.IsZero() {
		return 0
	}
	return int(bt.Sub(at).Hours() / 24)
}

// RecentDays returns the n most recent days ending at and including
// today, oldest first. n <= 0 yields an empty slice.
func RecentDays(today Day, n int) []Day {
	if n <= 0 {
		return nil
	}
	out := make([]Day, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = today.AddDays(-i)
	}
	return out
}
