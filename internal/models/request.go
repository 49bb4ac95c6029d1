package models

import (
	"github.com/hydroeval/hydroeval/internal/analytics"
	"github.com/hydroeval/hydroeval/internal/analytics/batch"
)

// AnalyzeRequest represents a single predicted/target analysis request.
// null entries decode as missing values.
type AnalyzeRequest struct {
	Name      string           `json:"name,omitempty"`
	Predicted analytics.Floats `json:"predicted"`
	Target    analytics.Floats `json:"target"`
	Notes     string           `json:"notes,omitempty"`
}

// InterpolateRequest represents a spline interpolation request
type InterpolateRequest struct {
	Values    analytics.Floats `json:"values"`
	Index     analytics.Floats `json:"index,omitempty"` // Positional when omitted
	Kind      string           `json:"kind,omitempty"`  // linear, quadratic, cubic
	NumPoints int              `json:"num_points,omitempty"`
}

// ResampleRequest represents a resampling request
type ResampleRequest struct {
	Values       analytics.Floats `json:"values"`
	Index        analytics.Floats `json:"index,omitempty"`
	TargetPoints int              `json:"target_points"`
	Kind         string           `json:"kind,omitempty"`
}

// SmoothRequest represents a smoothing request
type SmoothRequest struct {
	Values    analytics.Floats `json:"values"`
	Method    string           `json:"method,omitempty"` // moving_average, savitzky_golay, exponential
	Window    int              `json:"window_size,omitempty"`
	PolyOrder *int             `json:"poly_order,omitempty"`
	Alpha     *float64         `json:"alpha,omitempty"`
}

// FillRequest represents a gap filling request
type FillRequest struct {
	Values analytics.Floats `json:"values"`
	Method string           `json:"method,omitempty"` // linear, forward, backward, mean, median
	Limit  *int             `json:"limit,omitempty"`  // Max consecutive fills for forward/backward, omitted = unlimited
}

// DecomposeRequest represents a trend/seasonal decomposition request
type DecomposeRequest struct {
	Values analytics.Floats `json:"values"`
	Period int              `json:"period,omitempty"`
	Model  string           `json:"model,omitempty"` // additive, multiplicative
}

// OutliersRequest represents an outlier detection request
type OutliersRequest struct {
	Values    analytics.Floats `json:"values"`
	Method    string           `json:"method,omitempty"` // zscore, iqr
	Threshold *float64         `json:"threshold,omitempty"`
}

// BatchAnalyzeRequest represents a batch analysis request
type BatchAnalyzeRequest struct {
	Series []batch.Input `json:"series"`
}

// CompareRequest compares either raw series or precomputed results
type CompareRequest struct {
	Series  []batch.Input  `json:"series,omitempty"`
	Results []batch.Result `json:"results,omitempty"`
	Metrics []string       `json:"metrics,omitempty"`
}

// ExportRequest exports either raw series or precomputed results
type ExportRequest struct {
	Series  []batch.Input  `json:"series,omitempty"`
	Results []batch.Result `json:"results,omitempty"`
	Format  string         `json:"format,omitempty"` // csv, json, report
	Pretty  bool           `json:"pretty,omitempty"`
	Archive bool           `json:"archive,omitempty"`
}
