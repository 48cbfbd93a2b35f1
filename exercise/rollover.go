/*
rollover.go - Lazy catch-up for missed days

PURPOSE:
  There is no background scheduler. Instead, every session that reads
  or mutates an exercise calls ApplyRollover first, which materializes
  the planned quota for each day elapsed since lastAppliedDate and
  advances the bookkeeping to today. Calling it twice on the same UTC
  day is a no-op the second time.

CONTRACT (per elapsed day, exactly once, never double-counted):
  1. daysPassed = DayDiff(lastAppliedDate, today); <= 0 means no-op
  2. each skipped day d gets history[d].planned += dailyTarget
  3. remaining += dailyTarget * daysPassed
  4. lastAppliedDate = today
  5. prune entries beyond the retention horizon

Cache invalidation for the streak scans is the caller's half of the
contract: the tracker invalidates the metrics cache whenever this
function reports a change, in the same synchronous call.

SEE ALSO:
  - tracker/tracker.go: the single call site that pairs rollover with
    cache invalidation and persistence
*/
package exercise

import "github.com/warp/quota-engine/ledger"

// ApplyRollover advances e's ledger and remaining counter to today.
// Reports whether anything changed. An unset lastAppliedDate (possible
// only for hand-built records; New always sets it) reads as zero days
// passed.
func ApplyRollover(e *Exercise, today ledger.Day) bool {
	daysPassed := ledger.DayDiff(e.LastAppliedDate, today)
	if daysPassed <= 0 {
		return false
	}
	if e.History == nil {
		e.History = ledger.History{}
	}
	for i := 1; i <= daysPassed; i++ {
		e.History.AddPlanned(e.LastAppliedDate.AddDays(i), e.DailyTarget)
	}
	e.Remaining += e.DailyTarget * daysPassed
	e.LastAppliedDate = today
	e.History.Prune(today, ledger.DefaultHorizonDays)
	return true
}
