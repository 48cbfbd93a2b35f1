package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/quota-engine/exercise"
	"github.com/warp/quota-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestLoad_EmptyDatabase(t *testing.T) {
	st := newTestStore(t)

	list, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	e := exercise.New("pushups", 20, "2025-03-10")
	e.History.AddDone("2025-03-10", 7)
	e.Badges = []string{"first_rep"}
	e.WeeklyGoal = 150

	require.NoError(t, st.Save(ctx, []*exercise.Exercise{e}))

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "pushups", got.Name)
	assert.Equal(t, 20, got.DailyTarget)
	assert.Equal(t, 7, got.History.Get("2025-03-10").Done)
	assert.Equal(t, 20, got.History.Get("2025-03-10").Planned)
	assert.Equal(t, []string{"first_rep"}, got.Badges)
	assert.Equal(t, 150, got.WeeklyGoal)
}

func TestSave_ReplacesPrevious(t *testing.T) {
	// Last write wins: the blob is the whole collection.
	st := newTestStore(t)
	ctx := context.Background()

	a := exercise.New("a", 1, "2025-03-10")
	b := exercise.New("b", 2, "2025-03-10")
	require.NoError(t, st.Save(ctx, []*exercise.Exercise{a, b}))
	require.NoError(t, st.Save(ctx, []*exercise.Exercise{b}))

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "b", loaded[0].Name)
}

func TestSave_EmptyCollection(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, []*exercise.Exercise{exercise.New("a", 1, "2025-03-10")}))
	require.NoError(t, st.Save(ctx, []*exercise.Exercise{}))

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
