package achievements_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/quota-engine/achievements"
	"github.com/warp/quota-engine/exercise"
	"github.com/warp/quota-engine/metrics"
)

func TestEvaluate_AwardsInDiscoveryOrder(t *testing.T) {
	e := &exercise.Exercise{ID: "ex-1"}
	s := metrics.Snapshot{LifetimeDone: 500, WeeklyDone: 120, CurrentStreak: 7, CompletedDays: 5}

	awarded := achievements.Evaluate(e, s)

	assert.True(t, awarded)
	assert.Equal(t, []string{"first_rep", "streak_3", "streak_7", "century_week", "half_k", "perfect_3"}, e.Badges)
}

func TestEvaluate_NoDuplicates(t *testing.T) {
	e := &exercise.Exercise{ID: "ex-1"}
	s := metrics.Snapshot{LifetimeDone: 1}

	assert.True(t, achievements.Evaluate(e, s))
	assert.False(t, achievements.Evaluate(e, s), "second pass awards nothing new")
	assert.Equal(t, []string{"first_rep"}, e.Badges)
}

func TestEvaluate_NeverRevokes(t *testing.T) {
	// GIVEN: badges earned under an older, larger history
	// WHEN: metrics regress (pruning shrank lifetime, streak broke)
	// THEN: the badge set is untouched

	e := &exercise.Exercise{ID: "ex-1", Badges: []string{"half_k", "streak_7"}}

	awarded := achievements.Evaluate(e, metrics.Snapshot{})

	assert.False(t, awarded)
	assert.Equal(t, []string{"half_k", "streak_7"}, e.Badges)
}

func TestEvaluate_ThresholdEdges(t *testing.T) {
	e := &exercise.Exercise{ID: "ex-1"}
	assert.False(t, achievements.Evaluate(e, metrics.Snapshot{WeeklyDone: 99, CurrentStreak: 2, CompletedDays: 2}))

	assert.True(t, achievements.Evaluate(e, metrics.Snapshot{WeeklyDone: 100, CurrentStreak: 3, CompletedDays: 3}))
	assert.ElementsMatch(t, []string{"streak_3", "century_week", "perfect_3"}, e.Badges)
}

func TestRuleName(t *testing.T) {
	assert.Equal(t, "First Rep", achievements.RuleName("first_rep"))
	assert.Equal(t, "legacy_badge", achievements.RuleName("legacy_badge"))
}
