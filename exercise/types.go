/*
Package exercise defines the tracked-habit domain type and its rules.

PURPOSE:
  An Exercise is one tracked habit: a daily quota, the outstanding
  counter, and the day-keyed ledger of planned vs done repetitions.
  This package owns construction defaults, import normalization, quick
  step derivation, and the rollover engine that catches the ledger up
  after missed days.

KEY CONCEPTS IN THIS FILE (types.go):
  - Exercise: the persisted record (JSON shape matches the export format)
  - New: creation flow, which seeds today's planned entry directly
  - Normalize: recover-with-default repair for imported/loaded records
  - Quick steps: the 1-4 one-tap decrement amounts offered by the UI

DESIGN PRINCIPLES:
  1. Exact integers: planned/done/remaining are ints end to end;
     the only fraction in the model is the completion threshold
  2. Clamp, don't error: out-of-range thresholds and amounts are
     silently clamped; hard validation happens at the API boundary
  3. Append-only badges: achievements are never revoked

SEE ALSO:
  - rollover.go: catch-up contract for missed days
  - metrics/: derived values computed from History
*/
package exercise

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/quota-engine/ledger"
)

const (
	// DefaultDecrementStep is the legacy one-tap amount used when a new
	// exercise doesn't specify one; quick steps derive from it.
	DefaultDecrementStep = 10

	// MinThreshold/MaxThreshold bound the completion threshold.
	MinThreshold = 0.5
	MaxThreshold = 1.0

	// MaxQuickSteps caps the one-tap amounts offered per exercise.
	MaxQuickSteps = 4

	// maxQuickStepValue bounds a single quick step amount.
	maxQuickStepValue = 999
)

// Exercise is one tracked habit. JSON tags match the import/export wire
// format, so an exported array round-trips byte-compatibly with the
// original client.
type Exercise struct {
	ID                  string         `json:"id"`
	Name                string         `json:"exerciseName"`
	DailyTarget         int            `json:"dailyTarget"`
	DecrementStep       int            `json:"decrementStep"`
	Remaining           int            `json:"remaining"`
	LastAppliedDate     ledger.Day     `json:"lastAppliedDate"`
	History             ledger.History `json:"history"`
	CompletionThreshold float64        `json:"completionThreshold"`
	WeeklyGoal          int            `json:"weeklyGoal,omitempty"`
	QuickSteps          []int          `json:"quickSteps,omitempty"`
	Badges              []string       `json:"badges,omitempty"`
}

// New creates an exercise with defaulted fields and today's quota
// already planned. Rollover sees a fresh exercise as "nothing elapsed":
// the creation flow seeds history[today] directly instead.
func New(name string, dailyTarget int, today ledger.Day) *Exercise {
	if dailyTarget < 1 {
		dailyTarget = 1
	}
	e := &Exercise{
		ID:                  uuid.NewString(),
		Name:                name,
		DailyTarget:         dailyTarget,
		DecrementStep:       DefaultDecrementStep,
		Remaining:           dailyTarget,
		LastAppliedDate:     today,
		History:             ledger.History{},
		CompletionThreshold: MaxThreshold,
	}
	e.History.AddPlanned(today, dailyTarget)
	e.QuickSteps = e.EffectiveQuickSteps()
	return e
}

// Normalize repairs a record loaded from storage or import. Every field
// is coerced to a safe default; nothing here is fatal. Guarantees no
// negative dailyTarget, remaining, or weeklyGoal survive.
func (e *Exercise) Normalize(today ledger.Day) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Name == "" {
		e.Name = "Exercise"
	}
	if e.DailyTarget < 1 {
		e.DailyTarget = 1
	}
	if e.DecrementStep < 1 {
		e.DecrementStep = 1
	}
	if e.Remaining < 0 {
		e.Remaining = 0
	}
	if e.LastAppliedDate.IsZero() {
		e.LastAppliedDate = today
	}
	if e.History == nil {
		e.History = ledger.History{}
	}
	if e.CompletionThreshold == 0 {
		e.CompletionThreshold = MaxThreshold
	}
	e.CompletionThreshold = clampThreshold(e.CompletionThreshold)
	if e.WeeklyGoal < 0 {
		e.WeeklyGoal = 0
	}
	e.QuickSteps = sanitizeQuickSteps(e.QuickSteps, e.DecrementStep)
}

// Threshold returns the completion threshold clamped into
// [MinThreshold, MaxThreshold] as an exact decimal.
func (e *Exercise) Threshold() decimal.Decimal {
	return decimal.NewFromFloat(clampThreshold(e.CompletionThreshold))
}

// EffectiveWeeklyGoal returns the weekly goal, defaulting to
// dailyTarget*7 when unset or non-positive. The default is applied at
// read time so target edits move it transparently.
func (e *Exercise) EffectiveWeeklyGoal() int {
	if e.WeeklyGoal > 0 {
		return e.WeeklyGoal
	}
	return e.DailyTarget * 7
}

// EffectiveQuickSteps returns the sanitized quick step amounts, deriving
// a default set from the decrement step when none are configured.
func (e *Exercise) EffectiveQuickSteps() []int {
	return sanitizeQuickSteps(e.QuickSteps, e.DecrementStep)
}

// Clone returns a deep copy sharing no history entries or slices with
// the receiver. Callers outside the tracker's lock only ever see clones.
func (e *Exercise) Clone() *Exercise {
	c := *e
	if e.History != nil {
		c.History = e.History.Clone()
	}
	if e.QuickSteps != nil {
		c.QuickSteps = append([]int(nil), e.QuickSteps...)
	}
	if e.Badges != nil {
		c.Badges = append([]string(nil), e.Badges...)
	}
	return &c
}

// HasBadge reports whether the achievement id was already earned.
func (e *Exercise) HasBadge(id string) bool {
	for _, b := range e.Badges {
		if b == id {
			return true
		}
	}
	return false
}

func clampThreshold(t float64) float64 {
	if t < MinThreshold {
		return MinThreshold
	}
	if t > MaxThreshold {
		return MaxThreshold
	}
	return t
}

// sanitizeQuickSteps filters to 1..999, dedupes, sorts ascending and
// caps at MaxQuickSteps. An empty result falls back to the derived set
// [1, step, step*2].
func sanitizeQuickSteps(steps []int, decrementStep int) []int {
	valid := make([]int, 0, len(steps))
	for _, n := range steps {
		if n >= 1 && n <= maxQuickStepValue {
			valid = append(valid, n)
		}
	}
	if len(valid) == 0 {
		base := decrementStep
		if base < 1 {
			base = 1
		}
		valid = []int{1, base, base * 2}
	}

	seen := make(map[int]bool, len(valid))
	uniq := valid[:0]
	for _, n := range valid {
		if !seen[n] {
			seen[n] = true
			uniq = append(uniq, n)
		}
	}
	sort.Ints(uniq)
	if len(uniq) > MaxQuickSteps {
		uniq = uniq[:MaxQuickSteps]
	}
	return uniq
}
