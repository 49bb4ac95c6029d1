package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"github.com/hydroeval/hydroeval/internal/analytics/batch"
	"github.com/hydroeval/hydroeval/internal/analytics/metrics"
	"github.com/hydroeval/hydroeval/internal/cache"
	"github.com/hydroeval/hydroeval/internal/history"
	"github.com/hydroeval/hydroeval/internal/logging"
	"github.com/hydroeval/hydroeval/internal/telemetry"
)

// OpComputeErrorMetrics names the metrics computation in cache keys and telemetry
const OpComputeErrorMetrics = "compute_error_metrics"

// AnalysisService computes error metrics for single predicted/target pairs
type AnalysisService struct {
	logger   *logging.Logger
	cache    cache.Cache
	cacheTTL time.Duration
	sinks    *sinks
	recorder *telemetry.Recorder
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(deps Dependencies) *AnalysisService {
	return &AnalysisService{
		logger:   deps.Logger,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
		sinks:    newSinks(deps),
		recorder: deps.Recorder,
	}
}

// AnalyzeRequest represents a single analysis request
type AnalyzeRequest struct {
	Name      string
	Predicted []float64
	Target    []float64
	Notes     string
}

// AnalyzeResult is the outcome of a single analysis
type AnalyzeResult struct {
	Name      string             `json:"name"`
	NPoints   int                `json:"n_points"`
	Metrics   analytics.FloatMap `json:"metrics"`
	Residuals analytics.Floats   `json:"residuals"`
	Cached    bool               `json:"cached"`
}

// cacheArgs is the content that identifies a computation
type cacheArgs struct {
	Predicted analytics.Floats `json:"predicted"`
	Target    analytics.Floats `json:"target"`
}

// Analyze validates the pair, serves it from cache when possible, and
// otherwise computes, caches, records and announces the metrics.
func (s *AnalysisService) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResult, error) {
	if len(req.Predicted) != len(req.Target) {
		return nil, NewServiceErrorWithDetails(CodeInvalidInput,
			fmt.Sprintf("length mismatch: predicted(%d) vs target(%d)", len(req.Predicted), len(req.Target)),
			map[string]interface{}{"predicted": len(req.Predicted), "target": len(req.Target)})
	}

	name := req.Name
	if name == "" {
		name = batch.DefaultName(0)
	}

	key, keyErr := cache.Key(OpComputeErrorMetrics, cacheArgs{Predicted: req.Predicted, Target: req.Target})
	if keyErr != nil {
		s.logger.Warn("Failed to derive cache key", "error", keyErr)
	}

	if s.cache != nil && keyErr == nil {
		if cached, ok := s.lookup(ctx, key); ok {
			cached.Name = name
			return cached, nil
		}
	}

	start := time.Now()
	m, err := metrics.Compute(req.Predicted, req.Target)
	s.recorder.ObserveOperation(OpComputeErrorMetrics, time.Since(start), err)
	if err != nil {
		return nil, fromAnalytics(err)
	}

	result := &AnalyzeResult{
		Name:      name,
		NPoints:   m.N,
		Metrics:   m.ToMap(),
		Residuals: m.Residuals(),
	}

	if s.cache != nil && keyErr == nil {
		s.store(ctx, key, result)
	}

	s.sinks.completed(ctx, history.SourceSingle, []completion{{
		name:    name,
		nPoints: result.NPoints,
		metrics: result.Metrics,
		notes:   req.Notes,
	}})

	s.logger.Debug("Analysis completed", "name", name, "n_points", result.NPoints,
		"rmse", analytics.FormatFloat(result.Metrics[metrics.NameRMSE]))
	return result, nil
}

func (s *AnalysisService) lookup(ctx context.Context, key string) (*AnalyzeResult, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.recorder.IncSinkError("cache")
		s.logger.Warn("Cache lookup failed", "error", err)
		return nil, false
	}
	s.recorder.IncCacheLookup(ok)
	if !ok {
		return nil, false
	}

	var result AnalyzeResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Warn("Discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}
	result.Cached = true
	return &result, true
}

func (s *AnalysisService) store(ctx context.Context, key string, result *AnalyzeResult) {
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("Failed to encode cache entry", "error", err)
		return
	}
	if err := s.cache.Put(ctx, key, data, s.cacheTTL); err != nil {
		s.recorder.IncSinkError("cache")
		s.logger.Warn("Cache store failed", "error", err)
	}
}

// MetricsInfo describes the available metrics
type MetricsInfo struct {
	Metrics        map[string]map[string]string `json:"metrics"`
	Order          []string                     `json:"order"`
	HigherIsBetter []string                     `json:"higher_is_better"`
	Conventions    map[string]string            `json:"conventions"`
}

// MetricsInfo returns the metric catalogue
func (s *AnalysisService) MetricsInfo() MetricsInfo {
	groups := make(map[string]map[string]string)
	for _, g := range metrics.Catalog() {
		groups[g.Name] = g.Metrics
	}

	var better []string
	for _, name := range metrics.Names() {
		if metrics.HigherIsBetter(name) {
			better = append(better, name)
		}
	}

	return MetricsInfo{
		Metrics:        groups,
		Order:          metrics.Names(),
		HigherIsBetter: better,
		Conventions:    metrics.Conventions(),
	}
}

// CacheStats returns result cache statistics
func (s *AnalysisService) CacheStats(ctx context.Context) (cache.Stats, error) {
	if s.cache == nil {
		return cache.Stats{Backend: "none"}, nil
	}
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return cache.Stats{}, NewServiceError(CodeInternal, err.Error())
	}
	return stats, nil
}

// InvalidateCache removes cached results under prefix (all when empty)
func (s *AnalysisService) InvalidateCache(ctx context.Context, prefix string) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	removed, err := s.cache.Invalidate(ctx, prefix)
	if err != nil {
		return 0, NewServiceError(CodeInternal, err.Error())
	}
	s.logger.Info("Cache invalidated", "prefix", prefix, "removed", removed)
	return removed, nil
}

// ReportStats renders cache statistics as log fields
func (s *AnalysisService) ReportStats(ctx context.Context) ([]interface{}, error) {
	stats, err := s.CacheStats(ctx)
	if err != nil {
		return nil, err
	}
	return []interface{}{
		"backend", stats.Backend,
		"entries", stats.Entries,
		"hits", stats.Hits,
		"misses", stats.Misses,
		"hit_rate", stats.HitRate(),
	}, nil
}

func floatOf(m map[string]float64, name string) analytics.Float {
	v, ok := m[name]
	if !ok {
		return analytics.Float(math.NaN())
	}
	return analytics.Float(v)
}
