package tracker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/quota-engine/exercise"
	"github.com/warp/quota-engine/tracker"
)

func TestQuickAction_DecLogsAgainstNamedExercise(t *testing.T) {
	tr, _, _ := newTestTracker(t, "2025-03-10")
	ctx := context.Background()

	_, err := tr.Create(ctx, tracker.CreateParams{Name: "squats", DailyTarget: 30})
	require.NoError(t, err)
	e, err := tr.Create(ctx, tracker.CreateParams{Name: "pushups", DailyTarget: 20})
	require.NoError(t, err)

	res, err := tr.QuickAction(ctx, tracker.QuickAction{Dec: 15, Exercise: "PUSHUPS"})
	require.NoError(t, err)

	assert.Equal(t, "logged", res.Action)
	assert.Equal(t, 15, res.Amount)
	assert.Equal(t, e.ID, res.Exercise.ID)
	assert.Equal(t, 5, res.Exercise.Remaining)
	assert.Equal(t, 15, res.Exercise.History.Get("2025-03-10").Done)
}

func TestQuickAction_SlugMatch(t *testing.T) {
	tr, _, _ := newTestTracker(t, "2025-03-10")
	ctx := context.Background()

	e, err := tr.Create(ctx, tracker.CreateParams{Name: "Morning Pushups", DailyTarget: 20})
	require.NoError(t, err)

	res, err := tr.QuickAction(ctx, tracker.QuickAction{Dec: 5, Exercise: "morning-pushups"})
	require.NoError(t, err)
	assert.Equal(t, e.ID, res.Exercise.ID)
}

func TestQuickAction_UnknownNameFallsBackToFirst(t *testing.T) {
	tr, _, _ := newTestTracker(t, "2025-03-10")
	ctx := context.Background()

	first, err := tr.Create(ctx, tracker.CreateParams{Name: "squats", DailyTarget: 30})
	require.NoError(t, err)
	_, err = tr.Create(ctx, tracker.CreateParams{Name: "pushups", DailyTarget: 20})
	require.NoError(t, err)

	res, err := tr.QuickAction(ctx, tracker.QuickAction{Dec: 5, Exercise: "no such thing"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, res.Exercise.ID)
}

func TestQuickAction_AddMultipliesDailyTarget(t *testing.T) {
	tr, _, _ := newTestTracker(t, "2025-03-10")
	ctx := context.Background()

	e, err := tr.Create(ctx, tracker.CreateParams{Name: "pushups", DailyTarget: 20})
	require.NoError(t, err)

	res, err := tr.QuickAction(ctx, tracker.QuickAction{AddTimes: 2})
	require.NoError(t, err)

	assert.Equal(t, "added", res.Action)
	assert.Equal(t, 2, res.Amount)
	assert.Equal(t, 60, res.Exercise.Remaining, "20 seed + 2x20 added")
	assert.Equal(t, 60, res.Exercise.History.Get("2025-03-10").Planned)
	assert.Equal(t, e.ID, res.Exercise.ID)
}

func TestQuickAction_DecWinsOverAdd(t *testing.T) {
	tr, _, _ := newTestTracker(t, "2025-03-10")
	ctx := context.Background()

	_, err := tr.Create(ctx, tracker.CreateParams{Name: "pushups", DailyTarget: 20})
	require.NoError(t, err)

	res, err := tr.QuickAction(ctx, tracker.QuickAction{Dec: 5, AddTimes: 3})
	require.NoError(t, err)
	assert.Equal(t, "logged", res.Action)
}

func TestQuickAction_NoParameters(t *testing.T) {
	tr, _, _ := newTestTracker(t, "2025-03-10")

	_, err := tr.QuickAction(context.Background(), tracker.QuickAction{})
	assert.ErrorIs(t, err, tracker.ErrNoAction)
}

func TestQuickAction_EmptyCollection(t *testing.T) {
	tr, _, _ := newTestTracker(t, "2025-03-10")

	_, err := tr.QuickAction(context.Background(), tracker.QuickAction{Dec: 5})
	assert.ErrorIs(t, err, exercise.ErrNotFound)
}
