package history

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		rec := &Record{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Name:      name,
			NPoints:   5,
			RMSE:      analytics.Float(0.1 * float64(i+1)),
			NSC:       0.9,
			Cor:       0.95,
			KGE2009:   analytics.Float(math.NaN()),
			Metrics:   analytics.FloatMap{"RMSE": 0.1, "NRMSE": math.Inf(1)},
			Notes:     "note",
		}
		require.NoError(t, store.Record(ctx, rec))
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, SourceSingle, rec.Source)
	}

	records, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "third", records[0].Name)
	assert.Equal(t, "second", records[1].Name)
	assert.Equal(t, base.Add(2*time.Minute), records[0].CreatedAt)
	assert.InDelta(t, 0.3, float64(records[0].RMSE), 1e-12)
	assert.True(t, math.IsNaN(float64(records[0].KGE2009)))
	assert.True(t, math.IsInf(records[0].Metrics["NRMSE"], 1))
	assert.Equal(t, "note", records[0].Notes)
}

func TestRecentEmpty(t *testing.T) {
	store := newTestStore(t)

	records, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, &Record{
		CreatedAt: now.Add(-48 * time.Hour), Name: "old", NPoints: 3,
		RMSE: 1, NSC: 0.5, Cor: 0.8, KGE2009: 0.4,
	}))
	require.NoError(t, store.Record(ctx, &Record{
		CreatedAt: now.Add(-time.Hour), Name: "new", NPoints: 3, Source: SourceBatch,
		RMSE: 3, NSC: analytics.Float(math.NaN()), Cor: 0.6, KGE2009: analytics.Float(math.Inf(-1)),
	}))

	stats, err := store.Stats(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalAnalyses)
	assert.Equal(t, int64(1), stats.RecentAnalyses)
	assert.InDelta(t, 2.0, float64(stats.AvgRMSE), 1e-12)
	assert.InDelta(t, 0.5, float64(stats.AvgNSC), 1e-12)
	assert.InDelta(t, 0.7, float64(stats.AvgCor), 1e-12)
	assert.InDelta(t, 0.4, float64(stats.AvgKGE2009), 1e-12)
}

func TestStatsEmpty(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Stats(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalAnalyses)
	assert.Zero(t, stats.RecentAnalyses)
	assert.True(t, math.IsNaN(float64(stats.AvgRMSE)))
}

func TestPrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	for _, age := range []time.Duration{72 * time.Hour, 36 * time.Hour, time.Hour} {
		require.NoError(t, store.Record(ctx, &Record{CreatedAt: now.Add(-age), Name: age.String(), NPoints: 2}))
	}

	removed, err := store.Prune(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1h0m0s", records[0].Name)
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, &Record{Name: "persisted", NPoints: 4}))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	records, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "persisted", records[0].Name)
}
