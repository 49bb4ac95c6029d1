// Package telemetry records service counters and durations as Prometheus
// metrics. A nil *Recorder is valid and records nothing.
package telemetry

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "hydroeval"

// Recorder holds the service metrics
type Recorder struct {
	registry        *prom.Registry
	requests        *prom.CounterVec
	requestDuration *prom.HistogramVec
	operations      *prom.CounterVec
	opDuration      *prom.HistogramVec
	batchSeries     *prom.CounterVec
	cacheLookups    *prom.CounterVec
	sinkErrors      *prom.CounterVec
	historyPruned   prom.Counter
}

// NewRecorder constructs and registers the metrics on reg (a fresh
// registry when nil)
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	r := &Recorder{
		registry: reg,
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "route"}),
		operations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Analytics operations by name and outcome",
		}, []string{"operation", "result"}),
		opDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Analytics operation duration",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"operation"}),
		batchSeries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "batch_series_total",
			Help:      "Series evaluated in batches by outcome",
		}, []string{"result"}),
		cacheLookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by outcome",
		}, []string{"result"}),
		sinkErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failures writing to cache, history or event sinks",
		}, []string{"sink"}),
		historyPruned: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "history_pruned_total",
			Help:      "History records removed by retention",
		}),
	}

	reg.MustRegister(r.requests, r.requestDuration, r.operations, r.opDuration,
		r.batchSeries, r.cacheLookups, r.sinkErrors, r.historyPruned)
	return r
}

// Registry returns the registry the metrics are registered on
func (r *Recorder) Registry() *prom.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveRequest records one HTTP request
func (r *Recorder) ObserveRequest(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveOperation records one analytics operation
func (r *Recorder) ObserveOperation(operation string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(operation, resultLabel(err == nil)).Inc()
	r.opDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// AddBatchSeries counts the outcomes of a batch
func (r *Recorder) AddBatchSeries(succeeded, failed int) {
	if r == nil {
		return
	}
	r.batchSeries.WithLabelValues("success").Add(float64(succeeded))
	r.batchSeries.WithLabelValues("failed").Add(float64(failed))
}

// IncCacheLookup counts a cache hit or miss
func (r *Recorder) IncCacheLookup(hit bool) {
	if r == nil {
		return
	}
	label := "miss"
	if hit {
		label = "hit"
	}
	r.cacheLookups.WithLabelValues(label).Inc()
}

// IncSinkError counts a failed cache, history or event write
func (r *Recorder) IncSinkError(sink string) {
	if r == nil {
		return
	}
	r.sinkErrors.WithLabelValues(sink).Inc()
}

// AddHistoryPruned counts records removed by retention
func (r *Recorder) AddHistoryPruned(n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.historyPruned.Add(float64(n))
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}
