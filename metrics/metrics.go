/*
Package metrics derives completion, streaks and progress from the ledger.

PURPOSE:
  All user-visible numbers that are not stored directly on the Exercise
  come from here: per-day completion, current and longest streaks,
  lifetime total, personal best, weekly-goal progress and the trailing
  range summaries shown on the history panel.

CACHING:
  The two streak computations scan up to a year of history, so they are
  cached: the current streak per (exercise id, day) and the longest
  streak per exercise id. Invalidate must be called in the same
  synchronous path as every history or threshold mutation - a stale
  entry here is a correctness bug, not a performance trade-off. All
  other metrics are single-pass sums computed on demand.

NUMERIC SEMANTICS:
  Sums are exact integers. The completion threshold and the weekly
  fraction use decimal arithmetic so 7 >= 10*0.5 style comparisons are
  exact at the 0.5 boundary. Percentages are rounded to integers only
  at the API DTO boundary, never here.

SEE ALSO:
  - ledger/: the History being scanned
  - achievements/: badge rules fed by the Snapshot
*/
package metrics

import (
	"strconv"

	"github.com/coocood/freecache"
	"github.com/shopspring/decimal"

	"github.com/warp/quota-engine/exercise"
	"github.com/warp/quota-engine/ledger"
)

const (
	// streakScanDays bounds the backward scan for the current streak.
	streakScanDays = 365

	// cacheSize is generous for two small ints per exercise.
	cacheSize = 512 * 1024

	// cacheTTLSeconds lets day-stamped entries age out on their own;
	// same-day staleness is handled by explicit invalidation.
	cacheTTLSeconds = 48 * 60 * 60
)

// Engine computes derived metrics. Safe for use from a single session
// at a time, matching the engine's synchronous execution model.
type Engine struct {
	cache *freecache.Cache
}

func NewEngine() *Engine {
	return &Engine{cache: freecache.NewCache(cacheSize)}
}

// IsCompleted reports whether day met its quota: planned > 0 and
// done >= planned * threshold. A day with nothing planned is never
// completed, no matter how much was logged.
func (m *Engine) IsCompleted(e *exercise.Exercise, day ledger.Day) bool {
	entry := e.History.Get(day)
	if entry.Planned <= 0 {
		return false
	}
	need := decimal.NewFromInt(int64(entry.Planned)).Mul(e.Threshold())
	return decimal.NewFromInt(int64(entry.Done)).GreaterThanOrEqual(need)
}

// CurrentStreak counts consecutive completed days scanning backward
// from today. The scan anchors at today: an unlogged today reads as
// streak 0 even with a long prior run. Cached per (id, today).
func (m *Engine) CurrentStreak(e *exercise.Exercise, today ledger.Day) int {
	key := currentKey(e.ID, today)
	if v, err := m.cache.Get(key); err == nil {
		if n, err := strconv.Atoi(string(v)); err == nil {
			return n
		}
	}

	count := 0
	days := ledger.RecentDays(today, streakScanDays)
	for i := len(days) - 1; i >= 0; i-- {
		if !m.IsCompleted(e, days[i]) {
			break
		}
		count++
	}

	m.cache.Set(key, []byte(strconv.Itoa(count)), cacheTTLSeconds)
	return count
}

// LongestStreak is the historical maximum run of consecutive completed
// days. The run resets whenever the gap to the previous history key is
// not exactly one day or the day is not completed. Cached per id.
func (m *Engine) LongestStreak(e *exercise.Exercise) int {
	key := longestKey(e.ID)
	if v, err := m.cache.Get(key); err == nil {
		if n, err := strconv.Atoi(string(v)); err == nil {
			return n
		}
	}

	run, best := 0, 0
	var prev ledger.Day
	for _, day := range e.History.SortedDays() {
		switch {
		case !m.IsCompleted(e, day):
			run = 0
		case !prev.IsZero() && ledger.DayDiff(prev, day) == 1:
			run++
		default:
			run = 1
		}
		if run > best {
			best = run
		}
		prev = day
	}

	m.cache.Set(key, []byte(strconv.Itoa(best)), cacheTTLSeconds)
	return best
}

// LifetimeDone sums done across the whole history.
func (m *Engine) LifetimeDone(e *exercise.Exercise) int {
	total := 0
	for _, entry := range e.History {
		if entry != nil {
			total += entry.Done
		}
	}
	return total
}

// PersonalBest returns the day with the maximum single-day done count
// and its value. Ties keep the first day in chronological order; an
// empty history yields ("", 0).
func (m *Engine) PersonalBest(e *exercise.Exercise) (ledger.Day, int) {
	var bestDay ledger.Day
	best := 0
	for _, day := range e.History.SortedDays() {
		if done := e.History.Get(day).Done; done > best {
			best = done
			bestDay = day
		}
	}
	return bestDay, best
}

// CompletedDayCount is the number of history days passing IsCompleted.
func (m *Engine) CompletedDayCount(e *exercise.Exercise) int {
	count := 0
	for day := range e.History {
		if m.IsCompleted(e, day) {
			count++
		}
	}
	return count
}

// WeeklyProgress returns the trailing-7-day done sum, the effective
// weekly goal, and done/goal clamped into [0, 1].
func (m *Engine) WeeklyProgress(e *exercise.Exercise, today ledger.Day) (done, goal int, fraction decimal.Decimal) {
	_, done = m.RangeSummary(e, today, 7)
	goal = e.EffectiveWeeklyGoal()
	if goal <= 0 || done <= 0 {
		return done, goal, decimal.Zero
	}
	fraction = decimal.NewFromInt(int64(done)).Div(decimal.NewFromInt(int64(goal)))
	one := decimal.NewFromInt(1)
	if fraction.GreaterThan(one) {
		fraction = one
	}
	return done, goal, fraction
}

// RangeSummary sums planned and done over the trailing n days ending
// at today.
func (m *Engine) RangeSummary(e *exercise.Exercise, today ledger.Day, n int) (planned, done int) {
	for _, day := range ledger.RecentDays(today, n) {
		entry := e.History.Get(day)
		planned += entry.Planned
		done += entry.Done
	}
	return planned, done
}

// Snapshot bundles the derived values the achievement rules look at,
// computed fresh in one pass over the current ledger state.
type Snapshot struct {
	LifetimeDone  int
	WeeklyDone    int
	CurrentStreak int
	LongestStreak int
	CompletedDays int
}

func (m *Engine) Snapshot(e *exercise.Exercise, today ledger.Day) Snapshot {
	_, weekly := m.RangeSummary(e, today, 7)
	return Snapshot{
		LifetimeDone:  m.LifetimeDone(e),
		WeeklyDone:    weekly,
		CurrentStreak: m.CurrentStreak(e, today),
		LongestStreak: m.LongestStreak(e),
		CompletedDays: m.CompletedDayCount(e),
	}
}

// Invalidate drops the cached streaks for an exercise. Must be called
// whenever its history or threshold changes; today identifies the
// current-streak entry (older day-stamped entries age out via TTL).
func (m *Engine) Invalidate(id string, today ledger.Day) {
	m.cache.Del(currentKey(id, today))
	m.cache.Del(longestKey(id))
}

func currentKey(id string, today ledger.Day) []byte {
	return []byte("streak:" + id + ":" + string(today))
}

func longestKey(id string) []byte {
	return []byte("longest:" + id)
}
