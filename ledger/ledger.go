/*
ledger.go - Sparse day-keyed history and its mutation primitives

PURPOSE:
  History is the per-exercise ledger: a sparse map from Day to the
  {planned, done} pair for that day. Keys need not be contiguous; days
  with no activity simply have no entry.

CRITICAL INVARIANTS:
  1. MONOTONE: AddPlanned/AddDone only ever increase their field.
     Negative amounts are clamped to zero, never applied.
  2. NON-NEGATIVE: planned and done are never negative; absent entries
     read as {0, 0}.
  3. BOUNDED: Prune removes entries strictly older than the retention
     horizon (366 days by default), so the map stays small forever.

Malformed day keys are not rejected: ISO "YYYY-MM-DD" sorts
chronologically, so the map treats every key as a sort-order-safe
lexical string. Well-formed keys are an internal invariant upheld by
callers, not user input to validate.

SEE ALSO:
  - day.go: Day type and calendar arithmetic
  - metrics/: derived values computed by scanning History
*/
package ledger

import "sort"

// DefaultHorizonDays is the retention horizon for Prune: entries older
// than this many days before today are dropped.
const DefaultHorizonDays = 366

// Entry is one day's quota bookkeeping.
type Entry struct {
	Planned int `json:"planned"`
	Done    int `json:"done"`
}

// History maps a day to its entry. The map is sparse: absent days read
// as zero entries.
type History map[Day]*Entry

// Ensure returns the entry for day, creating a zero entry if absent.
func (h History) Ensure(day Day) *Entry {
	e, ok := h[day]
	if !ok {
		e = &Entry{}
		h[day] = e
	}
	return e
}

// Get returns the entry for day, or a zero entry without inserting.
func (h History) Get(day Day) Entry {
	if e, ok := h[day]; ok && e != nil {
		return *e
	}
	return Entry{}
}

// AddPlanned adds amount (clamped to >= 0) to the day's planned quota.
func (h History) AddPlanned(day Day, amount int) {
	if amount < 0 {
		amount = 0
	}
	h.Ensure(day).Planned += amount
}

// AddDone adds amount (clamped to >= 0) to the day's logged count.
func (h History) AddDone(day Day, amount int) {
	if amount < 0 {
		amount = 0
	}
	h.Ensure(day).Done += amount
}

// Prune removes every entry strictly older than today-horizonDays.
// Idempotent and deterministic; safe to call on every rollover.
func (h History) Prune(today Day, horizonDays int) {
	cutoff := today.AddDays(-horizonDays)
	for day := range h {
		if day.Before(cutoff) {
			delete(h, day)
		}
	}
}

// Clone returns a deep copy sharing no entries with the receiver.
func (h History) Clone() History {
	c := make(History, len(h))
	for day, entry := range h {
		if entry != nil {
			cp := *entry
			c[day] = &cp
		}
	}
	return c
}

// SortedDays returns the history keys in chronological order.
func (h History) SortedDays() []Day {
	days := make([]Day, 0, len(h))
	for day := range h {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}
