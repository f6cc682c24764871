package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndSlowest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx, "run-1", "plot_fast.star", StatusSuccess, 50*time.Millisecond))
	require.NoError(t, store.RecordRun(ctx, "run-1", "plot_slow.star", StatusSuccess, 900*time.Millisecond))
	require.NoError(t, store.RecordRun(ctx, "run-1", "plot_broken.star", StatusFailed, 200*time.Millisecond))
	require.NoError(t, store.RecordRun(ctx, "run-1", "plot_cached.star", StatusCached, 0))
	require.NoError(t, store.RecordRun(ctx, "run-2", "plot_other.star", StatusSuccess, 5*time.Second))

	runs, err := store.SlowestExamples(ctx, "run-1", 10)
	require.NoError(t, err)
	require.Len(t, runs, 3, "cached entries are excluded, other builds too")
	assert.Equal(t, "plot_slow.star", runs[0].Example)
	assert.Equal(t, 900*time.Millisecond, runs[0].Elapsed)
	assert.Equal(t, "plot_broken.star", runs[1].Example)
}

func TestSlowestLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordRun(ctx, "run-1", "plot_x.star", StatusSuccess, time.Duration(i)*time.Second))
	}
	runs, err := store.SlowestExamples(ctx, "run-1", 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestHistoryNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx, "run-1", "plot_a.star", StatusSuccess, time.Second))
	require.NoError(t, store.RecordRun(ctx, "run-2", "plot_a.star", StatusFailed, 2*time.Second))

	runs, err := store.History(ctx, "plot_a.star", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, StatusFailed, runs[0].Status)
}
