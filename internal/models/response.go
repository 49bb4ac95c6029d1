package models

import (
	"encoding/json"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"github.com/hydroeval/hydroeval/internal/analytics/batch"
	"github.com/hydroeval/hydroeval/internal/history"
)

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// AnalyzeResponse is flat: one key per metric plus the residual series Er
type AnalyzeResponse struct {
	Name    string
	NPoints int
	Cached  bool
	Metrics analytics.FloatMap
	Er      analytics.Floats
}

// MarshalJSON implements json.Marshaler
func (r AnalyzeResponse) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Metrics)+4)
	for name, v := range r.Metrics {
		out[name] = analytics.Float(v)
	}
	out["Er"] = r.Er
	out["name"] = r.Name
	out["n_points"] = r.NPoints
	out["cached"] = r.Cached
	return json.Marshal(out)
}

// SeriesResponse represents an evaluated curve
type SeriesResponse struct {
	X analytics.Floats `json:"x"`
	Y analytics.Floats `json:"y"`
}

// ValuesResponse represents a transformed series
type ValuesResponse struct {
	Method string           `json:"method"`
	Values analytics.Floats `json:"values"`
}

// FillResponse represents a filled series
type FillResponse struct {
	Method      string           `json:"method"`
	Values      analytics.Floats `json:"values"`
	FilledMask  []bool           `json:"filled_mask"`
	FilledCount int              `json:"filled_count"`
}

// DecomposeResponse represents a decomposed series
type DecomposeResponse struct {
	Model    string           `json:"model"`
	Period   int              `json:"period"`
	Trend    analytics.Floats `json:"trend"`
	Seasonal analytics.Floats `json:"seasonal"`
	Residual analytics.Floats `json:"residual"`
	Original analytics.Floats `json:"original"`
}

// OutliersResponse represents an outlier mask
type OutliersResponse struct {
	Method    string  `json:"method"`
	Threshold float64 `json:"threshold"`
	Mask      []bool  `json:"outlier_mask"`
	Indices   []int   `json:"outlier_indices"`
	Count     int     `json:"outlier_count"`
}

// BatchAnalyzeResponse represents batch analysis results
type BatchAnalyzeResponse struct {
	NumAnalyses   int            `json:"num_analyses"`
	NumSuccessful int            `json:"num_successful"`
	NumFailed     int            `json:"num_failed"`
	Results       []batch.Result `json:"results"`
}

// HistoryResponse represents recent analyses
type HistoryResponse struct {
	Analyses []history.Record `json:"analyses"`
	Count    int              `json:"count"`
}

// CacheInvalidateResponse represents a cache invalidation result
type CacheInvalidateResponse struct {
	Prefix  string `json:"prefix,omitempty"`
	Removed int    `json:"removed"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
