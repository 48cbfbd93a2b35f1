package exercise_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/quota-engine/exercise"
	"github.com/warp/quota-engine/ledger"
)

// =============================================================================
// CREATION
// =============================================================================

func TestNew_SeedsTodayDirectly(t *testing.T) {
	today := ledger.Day("2025-03-10")
	e := exercise.New("pushups", 20, today)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "pushups", e.Name)
	assert.Equal(t, 20, e.DailyTarget)
	assert.Equal(t, 20, e.Remaining)
	assert.Equal(t, today, e.LastAppliedDate)
	assert.Equal(t, 20, e.History.Get(today).Planned)
	assert.Equal(t, exercise.DefaultDecrementStep, e.DecrementStep)
	assert.Equal(t, 1.0, e.CompletionThreshold)
}

func TestNew_UniqueIDs(t *testing.T) {
	a := exercise.New("a", 1, "2025-03-10")
	b := exercise.New("b", 1, "2025-03-10")
	assert.NotEqual(t, a.ID, b.ID)
}

// =============================================================================
// NORMALIZATION (import/load repair)
// =============================================================================

func TestNormalize_Defaults(t *testing.T) {
	today := ledger.Day("2025-03-10")
	e := &exercise.Exercise{}

	e.Normalize(today)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "Exercise", e.Name)
	assert.Equal(t, 1, e.DailyTarget)
	assert.Equal(t, 1, e.DecrementStep)
	assert.Equal(t, 0, e.Remaining)
	assert.Equal(t, today, e.LastAppliedDate)
	require.NotNil(t, e.History)
	assert.Empty(t, e.History)
	assert.Equal(t, 1.0, e.CompletionThreshold)
}

func TestNormalize_NeverNegative(t *testing.T) {
	e := &exercise.Exercise{
		DailyTarget: -5,
		Remaining:   -3,
		WeeklyGoal:  -70,
	}
	e.Normalize("2025-03-10")

	assert.GreaterOrEqual(t, e.DailyTarget, 1)
	assert.GreaterOrEqual(t, e.Remaining, 0)
	assert.GreaterOrEqual(t, e.WeeklyGoal, 0)
}

func TestNormalize_ClampsThreshold(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 1.0},   // unset defaults to full completion
		{0.3, 0.5}, // below floor
		{0.5, 0.5},
		{0.75, 0.75},
		{1.0, 1.0},
		{1.7, 1.0}, // above ceiling
	}
	for _, tc := range tests {
		e := &exercise.Exercise{CompletionThreshold: tc.in}
		e.Normalize("2025-03-10")
		assert.Equal(t, tc.want, e.CompletionThreshold, "in=%v", tc.in)
	}
}

func TestThreshold_Decimal(t *testing.T) {
	e := &exercise.Exercise{CompletionThreshold: 0.5}
	assert.True(t, e.Threshold().Equal(decimal.NewFromFloat(0.5)))

	// Out-of-range values clamp without mutating the stored field.
	e.CompletionThreshold = 2.0
	assert.True(t, e.Threshold().Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 2.0, e.CompletionThreshold)
}

// =============================================================================
// WEEKLY GOAL
// =============================================================================

func TestEffectiveWeeklyGoal(t *testing.T) {
	e := &exercise.Exercise{DailyTarget: 10}
	assert.Equal(t, 70, e.EffectiveWeeklyGoal(), "unset defaults to target*7")

	e.WeeklyGoal = 100
	assert.Equal(t, 100, e.EffectiveWeeklyGoal())

	e.WeeklyGoal = 0
	e.DailyTarget = 25
	assert.Equal(t, 175, e.EffectiveWeeklyGoal(), "default follows target edits")
}

// =============================================================================
// QUICK STEPS
// =============================================================================

func TestEffectiveQuickSteps_DerivedFromStep(t *testing.T) {
	e := &exercise.Exercise{DecrementStep: 10}
	assert.Equal(t, []int{1, 10, 20}, e.EffectiveQuickSteps())

	// Step of 1 collapses duplicates.
	e.DecrementStep = 1
	assert.Equal(t, []int{1, 2}, e.EffectiveQuickSteps())
}

func TestEffectiveQuickSteps_Sanitized(t *testing.T) {
	e := &exercise.Exercise{
		DecrementStep: 10,
		QuickSteps:    []int{50, 5, 5, -2, 1000, 25, 100, 7},
	}
	// Out-of-range dropped, deduped, sorted, capped at 4.
	assert.Equal(t, []int{5, 7, 25, 50}, e.EffectiveQuickSteps())
}

func TestEffectiveQuickSteps_AllInvalidFallsBack(t *testing.T) {
	e := &exercise.Exercise{DecrementStep: 15, QuickSteps: []int{0, -1, 5000}}
	assert.Equal(t, []int{1, 15, 30}, e.EffectiveQuickSteps())
}

// =============================================================================
// BADGES
// =============================================================================

func TestHasBadge(t *testing.T) {
	e := &exercise.Exercise{Badges: []string{"first_rep", "streak_3"}}
	assert.True(t, e.HasBadge("first_rep"))
	assert.False(t, e.HasBadge("streak_7"))
}
