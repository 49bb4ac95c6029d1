package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroeval/hydroeval/internal/analytics/batch"
	"github.com/hydroeval/hydroeval/internal/archive"
	"github.com/hydroeval/hydroeval/internal/cache"
	"github.com/hydroeval/hydroeval/internal/config"
	"github.com/hydroeval/hydroeval/internal/events"
	"github.com/hydroeval/hydroeval/internal/history"
	"github.com/hydroeval/hydroeval/internal/logging"
)

const testSubject = "hydroeval.analyses"

type testEnv struct {
	deps      Dependencies
	publisher *events.MemoryPublisher
	history   *history.SQLiteStore
	archive   *archive.LocalStore
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	store, err := history.NewSQLiteStore(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	arch, err := archive.NewLocalStore(filepath.Join(dir, "archive"))
	require.NoError(t, err)

	memCache := cache.NewMemoryCache(time.Minute, 100)
	t.Cleanup(func() { _ = memCache.Close() })

	publisher := events.NewMemoryPublisher()

	return &testEnv{
		deps: Dependencies{
			Logger:   logging.NewNop(),
			Cache:    memCache,
			CacheTTL: time.Minute,
			History:  store,
			Events:   events.NewEmitter(publisher, testSubject),
			Archive:  arch,
			Batch:    config.BatchConfig{Workers: 2, MaxSeries: 10},
		},
		publisher: publisher,
		history:   store,
		archive:   arch,
	}
}

func bareDeps() Dependencies {
	return Dependencies{Logger: logging.NewNop(), Batch: config.BatchConfig{MaxSeries: 10}}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr), "expected ServiceError, got %T", err)
	assert.Equal(t, code, svcErr.Code)
}

func TestAnalysisService_Analyze(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewAnalysisService(env.deps)
	ctx := context.Background()

	req := &AnalyzeRequest{
		Name:      "gauge-1",
		Predicted: []float64{1, 2, 3, 4},
		Target:    []float64{1.5, 2, 2.5, 4},
	}

	result, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "gauge-1", result.Name)
	assert.Equal(t, 4, result.NPoints)
	assert.False(t, result.Cached)
	assert.InDelta(t, math.Sqrt(0.125), result.Metrics["RMSE"], 1e-12)
	assert.Len(t, result.Residuals, 4)

	records, err := env.history.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, history.SourceSingle, records[0].Source)
	assert.Equal(t, "gauge-1", records[0].Name)
	assert.Equal(t, 1, env.publisher.Pending(testSubject))

	data, err := env.publisher.Receive(ctx, testSubject)
	require.NoError(t, err)
	var evt events.AnalysisCompleted
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, events.TypeAnalysisCompleted, evt.Type)
	assert.Equal(t, "gauge-1", evt.Name)
}

func TestAnalysisService_CacheHit(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewAnalysisService(env.deps)
	ctx := context.Background()

	req := &AnalyzeRequest{Predicted: []float64{1, 2, 3}, Target: []float64{1, 2, 4}}
	first, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Series_1", first.Name)

	req.Name = "renamed"
	second, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "renamed", second.Name)
	assert.Equal(t, first.Metrics["RMSE"], second.Metrics["RMSE"])

	// Cached answers are not recorded twice
	records, err := env.history.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	stats, err := svc.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, 1, stats.Entries)

	removed, err := svc.InvalidateCache(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestAnalysisService_Errors(t *testing.T) {
	svc := NewAnalysisService(bareDeps())
	ctx := context.Background()

	_, err := svc.Analyze(ctx, &AnalyzeRequest{Predicted: []float64{1, 2}, Target: []float64{1}})
	requireCode(t, err, CodeInvalidInput)

	_, err = svc.Analyze(ctx, &AnalyzeRequest{Predicted: []float64{1}, Target: []float64{1}})
	requireCode(t, err, CodeInvalidInput)
}

func TestAnalysisService_NoCache(t *testing.T) {
	svc := NewAnalysisService(bareDeps())
	ctx := context.Background()

	stats, err := svc.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "none", stats.Backend)

	removed, err := svc.InvalidateCache(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, removed)

	fields, err := svc.ReportStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "backend", fields[0])
}

func TestAnalysisService_MetricsInfo(t *testing.T) {
	info := NewAnalysisService(bareDeps()).MetricsInfo()
	assert.Contains(t, info.Order, "RMSE")
	assert.Contains(t, info.HigherIsBetter, "NSC")
	assert.NotContains(t, info.HigherIsBetter, "RMSE")
	assert.NotEmpty(t, info.Metrics)
	assert.NotEmpty(t, info.Conventions)
}

func TestTransformService(t *testing.T) {
	svc := NewTransformService(bareDeps())
	ctx := context.Background()

	t.Run("smooth default window", func(t *testing.T) {
		out, err := svc.Smooth(ctx, []float64{1, 2, 3, 4, 5, 6}, "moving_average", SmoothOptions{Window: 3})
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 2, 2, 3, 4, 5}, out)
	})

	t.Run("unknown smooth method", func(t *testing.T) {
		_, err := svc.Smooth(ctx, []float64{1, 2, 3}, "median", SmoothOptions{})
		requireCode(t, err, CodeInvalidMethod)
	})

	t.Run("fill missing", func(t *testing.T) {
		res, err := svc.FillMissing(ctx, []float64{1, math.NaN(), 3}, "linear", nil)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, res.Values)
		assert.Equal(t, 1, res.Count())
	})

	t.Run("fill missing limit", func(t *testing.T) {
		values := []float64{1, math.NaN(), math.NaN(), 4}

		res, err := svc.FillMissing(ctx, values, "forward", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Count())

		zero := 0
		res, err = svc.FillMissing(ctx, values, "forward", &zero)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Count())

		negative := -1
		_, err = svc.FillMissing(ctx, values, "forward", &negative)
		requireCode(t, err, CodeInvalidInput)
	})

	t.Run("outliers default threshold", func(t *testing.T) {
		values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}
		res, err := svc.DetectOutliers(ctx, values, "iqr", nil)
		require.NoError(t, err)
		assert.Equal(t, 1.5, res.Threshold)
		assert.Equal(t, []int{9}, res.Indices())
	})

	t.Run("outliers explicit threshold", func(t *testing.T) {
		threshold := 2.0
		values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}
		res, err := svc.DetectOutliers(ctx, values, "zscore", &threshold)
		require.NoError(t, err)
		assert.Equal(t, []int{9}, res.Indices())
	})

	t.Run("infinite threshold", func(t *testing.T) {
		threshold := math.Inf(1)
		_, err := svc.DetectOutliers(ctx, []float64{1, 2}, "zscore", &threshold)
		requireCode(t, err, CodeInvalidInput)
	})

	t.Run("interpolate", func(t *testing.T) {
		out, err := svc.Interpolate(ctx, []float64{0, 10}, nil, "linear", 3)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 5, 10}, out.Values, 1e-12)
	})

	t.Run("unknown decompose model", func(t *testing.T) {
		_, err := svc.Decompose(ctx, []float64{1, 2, 3, 4}, 2, "stl")
		requireCode(t, err, CodeInvalidMethod)
	})
}

func testInputs() []batch.Input {
	return []batch.Input{
		{Name: "good", Predicted: []float64{1, 2, 3, 4}, Target: []float64{1, 2, 3, 5}},
		{Name: "bad", Predicted: []float64{1, 2}, Target: []float64{1}},
		{Name: "better", Predicted: []float64{1, 2, 3, 4}, Target: []float64{1, 2, 3, 4.5}},
	}
}

func TestBatchService_Analyze(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewBatchService(env.deps)
	ctx := context.Background()

	results, err := svc.Analyze(ctx, testInputs())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)

	records, err := env.history.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, history.SourceBatch, rec.Source)
	}
	assert.Equal(t, 2, env.publisher.Pending(testSubject))
}

func TestBatchService_Limits(t *testing.T) {
	svc := NewBatchService(bareDeps())
	ctx := context.Background()

	_, err := svc.Analyze(ctx, nil)
	requireCode(t, err, CodeInvalidInput)

	inputs := make([]batch.Input, 11)
	_, err = svc.Analyze(ctx, inputs)
	requireCode(t, err, CodeInvalidInput)
}

func TestBatchService_Compare(t *testing.T) {
	svc := NewBatchService(bareDeps())
	ctx := context.Background()

	cmp, err := svc.Compare(ctx, testInputs(), nil, []string{"RMSE"})
	require.NoError(t, err)
	assert.Empty(t, cmp.Error)
	assert.Equal(t, 2, cmp.NumSeries)
	assert.Equal(t, "better", cmp.Rankings["RMSE"].Best)

	cmp, err = svc.Compare(ctx, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, batch.ErrNoResults, cmp.Error)
}

func TestBatchService_Export(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewBatchService(env.deps)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	results := batch.Analyze(testInputs())

	t.Run("csv", func(t *testing.T) {
		out, err := svc.Export(ctx, &ExportRequest{Results: results})
		require.NoError(t, err)
		assert.Equal(t, FormatCSV, out.Format)
		assert.Equal(t, "text/csv", out.ContentType)
		assert.True(t, strings.HasPrefix(string(out.Content), "name,success,n_points"))
		assert.Empty(t, out.Location)
	})

	t.Run("json", func(t *testing.T) {
		out, err := svc.Export(ctx, &ExportRequest{Results: results, Format: "JSON"})
		require.NoError(t, err)
		var envelope batch.Envelope
		require.NoError(t, json.Unmarshal(out.Content, &envelope))
		assert.Equal(t, 3, envelope.NumAnalyses)
		assert.Equal(t, 1, envelope.NumFailed)
	})

	t.Run("report archived", func(t *testing.T) {
		out, err := svc.Export(ctx, &ExportRequest{Results: results, Format: "report", Archive: true})
		require.NoError(t, err)
		require.NotEmpty(t, out.Location)

		keys, err := env.archive.List(ctx, "batch/")
		require.NoError(t, err)
		require.Len(t, keys, 1)
		assert.True(t, strings.HasSuffix(keys[0], ".txt"))

		stored, err := env.archive.Get(ctx, keys[0])
		require.NoError(t, err)
		assert.Equal(t, out.Content, stored)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := svc.Export(ctx, &ExportRequest{Results: results, Format: "xml"})
		requireCode(t, err, CodeInvalidMethod)
	})
}

func TestBatchService_ExportWithoutArchive(t *testing.T) {
	svc := NewBatchService(bareDeps())
	_, err := svc.Export(context.Background(), &ExportRequest{Results: batch.Analyze(testInputs()), Archive: true})
	requireCode(t, err, CodeArchiveUnavailable)
}

func TestHistoryService(t *testing.T) {
	env := setupTestEnv(t)
	analysis := NewAnalysisService(env.deps)
	svc := NewHistoryService(env.deps)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := analysis.Analyze(ctx, &AnalyzeRequest{
			Predicted: []float64{1, 2, 3, float64(i)},
			Target:    []float64{1, 2, 3, 4},
		})
		require.NoError(t, err)
	}

	records, err := svc.History(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = svc.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalAnalyses)
	assert.Equal(t, int64(3), stats.RecentAnalyses)

	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	removed, err := svc.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
}

func TestHistoryService_Disabled(t *testing.T) {
	svc := NewHistoryService(bareDeps())
	ctx := context.Background()

	_, err := svc.History(ctx, 10)
	requireCode(t, err, CodeHistoryUnavailable)
	_, err = svc.Stats(ctx)
	requireCode(t, err, CodeHistoryUnavailable)
	_, err = svc.Prune(ctx, time.Hour)
	requireCode(t, err, CodeHistoryUnavailable)
}
