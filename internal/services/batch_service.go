package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hydroeval/hydroeval/internal/analytics/batch"
	"github.com/hydroeval/hydroeval/internal/archive"
	"github.com/hydroeval/hydroeval/internal/config"
	"github.com/hydroeval/hydroeval/internal/history"
	"github.com/hydroeval/hydroeval/internal/logging"
	"github.com/hydroeval/hydroeval/internal/telemetry"
)

// Export formats
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatReport = "report"
)

// BatchService evaluates, compares and exports many series at once
type BatchService struct {
	logger   *logging.Logger
	config   config.BatchConfig
	archive  archive.Store
	sinks    *sinks
	recorder *telemetry.Recorder
	now      func() time.Time
}

// NewBatchService creates a new BatchService
func NewBatchService(deps Dependencies) *BatchService {
	return &BatchService{
		logger:   deps.Logger,
		config:   deps.Batch,
		archive:  deps.Archive,
		sinks:    newSinks(deps),
		recorder: deps.Recorder,
		now:      time.Now,
	}
}

// Analyze evaluates every input; per-series failures are reported in the
// results, never as an error
func (s *BatchService) Analyze(ctx context.Context, inputs []batch.Input) ([]batch.Result, error) {
	if len(inputs) == 0 {
		return nil, NewServiceError(CodeInvalidInput, "series must contain at least one entry")
	}
	if s.config.MaxSeries > 0 && len(inputs) > s.config.MaxSeries {
		return nil, NewServiceErrorWithDetails(CodeInvalidInput,
			fmt.Sprintf("too many series: %d (max %d)", len(inputs), s.config.MaxSeries),
			map[string]interface{}{"max_series": s.config.MaxSeries})
	}

	start := time.Now()
	results, err := batch.AnalyzeParallel(ctx, inputs, s.config.Workers)
	if err != nil {
		return nil, NewServiceError(CodeInternal, fmt.Sprintf("batch analysis interrupted: %v", err))
	}
	s.recorder.ObserveOperation("batch_analyze", time.Since(start), nil)

	succeeded, failed := batch.Counts(results)
	s.recorder.AddBatchSeries(succeeded, failed)

	items := make([]completion, 0, succeeded)
	for _, r := range results {
		if r.Success {
			items = append(items, completion{name: r.Name, nPoints: r.NPoints, metrics: r.Metrics})
		}
	}
	s.sinks.completed(ctx, history.SourceBatch, items)

	s.logger.Info("Batch analysis completed",
		"series", len(results), "successful", succeeded, "failed", failed,
		"latency_ms", time.Since(start).Milliseconds())
	return results, nil
}

// resolve returns precomputed results, or analyzes inputs when given
func (s *BatchService) resolve(ctx context.Context, inputs []batch.Input, results []batch.Result) ([]batch.Result, error) {
	if len(inputs) > 0 {
		return s.Analyze(ctx, inputs)
	}
	return results, nil
}

// Compare ranks series per metric. Either inputs are analyzed first, or
// precomputed results are compared directly.
func (s *BatchService) Compare(ctx context.Context, inputs []batch.Input, results []batch.Result, metricNames []string) (batch.ComparisonResult, error) {
	resolved, err := s.resolve(ctx, inputs, results)
	if err != nil {
		return batch.ComparisonResult{}, err
	}
	return batch.Compare(resolved, metricNames), nil
}

// ExportRequest selects what to export and how
type ExportRequest struct {
	Inputs  []batch.Input
	Results []batch.Result
	Format  string
	Pretty  bool
	Archive bool
}

// ExportResult is a rendered export
type ExportResult struct {
	Format      string
	ContentType string
	Filename    string
	Content     []byte
	Location    string // archive location, empty unless archived
}

// Export renders results as csv, json or a text report, optionally
// archiving the artifact
func (s *BatchService) Export(ctx context.Context, req *ExportRequest) (*ExportResult, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatJSON && format != FormatReport {
		return nil, NewServiceErrorWithDetails(CodeInvalidMethod,
			fmt.Sprintf("unknown format %q (valid: csv, json, report)", req.Format),
			map[string]interface{}{"field": "format"})
	}
	if req.Archive && s.archive == nil {
		return nil, NewServiceError(CodeArchiveUnavailable, "export archive is not configured")
	}

	results, err := s.resolve(ctx, req.Inputs, req.Results)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := &ExportResult{Format: format}
	switch format {
	case FormatCSV:
		text, err := batch.ExportCSV(results)
		if err != nil {
			return nil, NewServiceError(CodeInternal, err.Error())
		}
		out.Content, out.ContentType, out.Filename = []byte(text), "text/csv", "batch_results.csv"
	case FormatJSON:
		data, err := batch.ExportJSON(results, now, req.Pretty)
		if err != nil {
			return nil, NewServiceError(CodeInternal, err.Error())
		}
		out.Content, out.ContentType, out.Filename = data, "application/json", "batch_results.json"
	case FormatReport:
		out.Content, out.ContentType, out.Filename = []byte(batch.SummaryReport(results, now)), "text/plain; charset=utf-8", "batch_report.txt"
	}

	if req.Archive {
		ext := format
		if format == FormatReport {
			ext = "txt"
		}
		location, err := s.archive.Put(ctx, archive.ExportKey(ext, now), out.Content, out.ContentType)
		if err != nil {
			s.recorder.IncSinkError("archive")
			return nil, NewServiceError(CodeInternal, fmt.Sprintf("failed to archive export: %v", err))
		}
		out.Location = location
		s.logger.Info("Export archived", "format", format, "location", location, "bytes", len(out.Content))
	}

	return out, nil
}
