/*
Package achievements awards badges from derived metrics.

PURPOSE:
  A stateless, ordered rule table mapping a badge id to a predicate
  over a metrics.Snapshot. Evaluation appends ids for newly satisfied
  rules to the exercise's badge list in discovery order. Badges are
  append-only: once earned, never revoked, even if the underlying
  metric later regresses (history pruning can shrink lifetime sums).

ADDING A RULE:
  Append to Rules. Ids are persisted, so never rename or reuse one.
*/
package achievements

import (
	"github.com/warp/quota-engine/exercise"
	"github.com/warp/quota-engine/metrics"
)

// Rule is one badge: an identifier and the predicate that earns it.
type Rule struct {
	ID   string
	Name string
	Met  func(metrics.Snapshot) bool
}

// Rules is the badge table, in discovery order.
var Rules = []Rule{
	{
		ID:   "first_rep",
		Name: "First Rep",
		Met:  func(s metrics.Snapshot) bool { return s.LifetimeDone >= 1 },
	},
	{
		ID:   "streak_3",
		Name: "3-Day Streak",
		Met:  func(s metrics.Snapshot) bool { return s.CurrentStreak >= 3 },
	},
	{
		ID:   "streak_7",
		Name: "7-Day Streak",
		Met:  func(s metrics.Snapshot) bool { return s.CurrentStreak >= 7 },
	},
	{
		ID:   "century_week",
		Name: "Century Week",
		Met:  func(s metrics.Snapshot) bool { return s.WeeklyDone >= 100 },
	},
	{
		ID:   "half_k",
		Name: "500 Club",
		Met:  func(s metrics.Snapshot) bool { return s.LifetimeDone >= 500 },
	},
	{
		ID:   "perfect_3",
		Name: "3 Perfect Days",
		Met:  func(s metrics.Snapshot) bool { return s.CompletedDays >= 3 },
	},
}

// Evaluate tests every rule not already earned against the snapshot and
// appends the ids that pass. Reports whether any new badge was awarded.
func Evaluate(e *exercise.Exercise, s metrics.Snapshot) bool {
	awarded := false
	for _, rule := range Rules {
		if e.HasBadge(rule.ID) {
			continue
		}
		if rule.Met(s) {
			e.Badges = append(e.Badges, rule.ID)
			awarded = true
		}
	}
	return awarded
}

// RuleName returns the display name for a badge id, or the id itself
// for ids from older rule sets.
func RuleName(id string) string {
	for _, rule := range Rules {
		if rule.ID == id {
			return rule.Name
		}
	}
	return id
}
