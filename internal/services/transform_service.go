package services

import (
	"context"
	"math"
	"time"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"github.com/hydroeval/hydroeval/internal/analytics/transform"
	"github.com/hydroeval/hydroeval/internal/logging"
	"github.com/hydroeval/hydroeval/internal/telemetry"
)

// TransformService exposes the series transforms, parsing method names at
// the boundary
type TransformService struct {
	logger   *logging.Logger
	recorder *telemetry.Recorder
}

// NewTransformService creates a new TransformService
func NewTransformService(deps Dependencies) *TransformService {
	return &TransformService{logger: deps.Logger, recorder: deps.Recorder}
}

// SmoothOptions are the optional smoothing parameters; zero values select defaults
type SmoothOptions struct {
	Window    int
	PolyOrder *int
	Alpha     *float64
}

// FillResult is a filled series plus the positions that were filled
type FillResult struct {
	Values []float64
	Filled []bool
}

// Count returns the number of filled positions
func (r FillResult) Count() int {
	n := 0
	for _, f := range r.Filled {
		if f {
			n++
		}
	}
	return n
}

// OutlierResult is the outlier mask and the threshold that produced it
type OutlierResult struct {
	Mask      []bool
	Threshold float64
}

// Indices returns the flagged positions in order
func (r OutlierResult) Indices() []int {
	idx := make([]int, 0)
	for i, out := range r.Mask {
		if out {
			idx = append(idx, i)
		}
	}
	return idx
}

func (s *TransformService) observe(op string, start time.Time, err error) error {
	s.recorder.ObserveOperation(op, time.Since(start), err)
	if err != nil {
		s.logger.Debug("Transform rejected", "operation", op, "error", err)
		return fromAnalytics(err)
	}
	return nil
}

// Interpolate evaluates a spline through (index, values) on numPoints evenly spaced positions
func (s *TransformService) Interpolate(_ context.Context, values, index []float64, kind string, numPoints int) (analytics.IndexedSeries, error) {
	start := time.Now()
	k, err := transform.ParseInterpolationKind(kind)
	if err != nil {
		return analytics.IndexedSeries{}, s.observe("interpolate", start, err)
	}
	out, err := transform.Interpolate(values, index, k, numPoints)
	return out, s.observe("interpolate", start, err)
}

// Resample evaluates a spline on targetPoints evenly spaced positions
func (s *TransformService) Resample(_ context.Context, values, index []float64, targetPoints int, kind string) (analytics.IndexedSeries, error) {
	start := time.Now()
	k, err := transform.ParseInterpolationKind(kind)
	if err != nil {
		return analytics.IndexedSeries{}, s.observe("resample", start, err)
	}
	out, err := transform.Resample(values, index, targetPoints, k)
	return out, s.observe("resample", start, err)
}

// Smooth applies the named smoothing method
func (s *TransformService) Smooth(_ context.Context, values []float64, method string, opts SmoothOptions) ([]float64, error) {
	start := time.Now()
	m, err := transform.ParseSmoothMethod(method)
	if err != nil {
		return nil, s.observe("smooth", start, err)
	}

	window := opts.Window
	if window == 0 {
		window = transform.DefaultWindow
	}
	params := transform.DefaultSmoothParams()
	if opts.PolyOrder != nil {
		params.PolyOrder = *opts.PolyOrder
	}
	if opts.Alpha != nil {
		params.Alpha = *opts.Alpha
	}

	out, err := transform.Smooth(values, m, window, params)
	return out, s.observe("smooth", start, err)
}

// FillMissing replaces NaN positions with the named method. A nil limit
// lets forward and backward filling cover gaps of any length.
func (s *TransformService) FillMissing(_ context.Context, values []float64, method string, limit *int) (FillResult, error) {
	start := time.Now()
	m, err := transform.ParseFillMethod(method)
	if err != nil {
		return FillResult{}, s.observe("fill_missing", start, err)
	}
	maxRun := transform.NoLimit
	if limit != nil {
		if *limit < 0 {
			err = analytics.NewValidationError("limit", "must be >= 0, got %d", *limit)
			return FillResult{}, s.observe("fill_missing", start, err)
		}
		maxRun = *limit
	}
	out, mask, err := transform.FillMissing(values, m, maxRun)
	return FillResult{Values: out, Filled: mask}, s.observe("fill_missing", start, err)
}

// Decompose splits the series into trend, seasonal and residual components
func (s *TransformService) Decompose(_ context.Context, values []float64, period int, model string) (transform.Decomposition, error) {
	start := time.Now()
	m, err := transform.ParseDecomposeModel(model)
	if err != nil {
		return transform.Decomposition{}, s.observe("decompose", start, err)
	}
	out, err := transform.Decompose(values, period, m)
	return out, s.observe("decompose", start, err)
}

// DetectOutliers flags outliers. A nil threshold selects the method default.
func (s *TransformService) DetectOutliers(_ context.Context, values []float64, method string, threshold *float64) (OutlierResult, error) {
	start := time.Now()
	m, err := transform.ParseOutlierMethod(method)
	if err != nil {
		return OutlierResult{}, s.observe("detect_outliers", start, err)
	}

	t := transform.DefaultZScoreThreshold
	if m == transform.IQR {
		t = transform.DefaultIQRMultiplier
	}
	if threshold != nil {
		t = *threshold
	}
	if math.IsInf(t, 0) {
		return OutlierResult{}, s.observe("detect_outliers", start,
			analytics.NewValidationError("threshold", "must be finite"))
	}

	mask, err := transform.DetectOutliers(values, m, t)
	return OutlierResult{Mask: mask, Threshold: t}, s.observe("detect_outliers", start, err)
}
