// Package transform conditions a single series before evaluation:
// interpolation, smoothing, gap filling, decomposition, outlier flags and
// resampling. Every operation returns new slices and leaves its input
// untouched.
package transform

import (
	"strings"

	"github.com/hydroeval/hydroeval/internal/analytics"
)

// InterpolationKind selects the order of the piecewise interpolant.
type InterpolationKind string

const (
	Linear    InterpolationKind = "linear"
	Quadratic InterpolationKind = "quadratic"
	Cubic     InterpolationKind = "cubic"
)

// SmoothMethod selects a smoothing filter.
type SmoothMethod string

const (
	MovingAverage SmoothMethod = "moving_average"
	SavitzkyGolay SmoothMethod = "savitzky_golay"
	Exponential   SmoothMethod = "exponential"
)

// FillMethod selects a gap filling strategy.
type FillMethod string

const (
	FillLinear   FillMethod = "linear"
	FillForward  FillMethod = "forward"
	FillBackward FillMethod = "backward"
	FillMean     FillMethod = "mean"
	FillMedian   FillMethod = "median"
)

// DecomposeModel selects how trend and seasonality combine.
type DecomposeModel string

const (
	Additive       DecomposeModel = "additive"
	Multiplicative DecomposeModel = "multiplicative"
)

// OutlierMethod selects an outlier test.
type OutlierMethod string

const (
	ZScore OutlierMethod = "zscore"
	IQR    OutlierMethod = "iqr"
)

var (
	interpolationKinds = []InterpolationKind{Linear, Quadratic, Cubic}
	smoothMethods      = []SmoothMethod{MovingAverage, SavitzkyGolay, Exponential}
	fillMethods        = []FillMethod{FillLinear, FillForward, FillBackward, FillMean, FillMedian}
	decomposeModels    = []DecomposeModel{Additive, Multiplicative}
	outlierMethods     = []OutlierMethod{ZScore, IQR}
)

// ParseInterpolationKind converts a name into an InterpolationKind.
func ParseInterpolationKind(s string) (InterpolationKind, error) {
	return parse("kind", s, interpolationKinds)
}

// ParseSmoothMethod converts a name into a SmoothMethod.
func ParseSmoothMethod(s string) (SmoothMethod, error) {
	return parse("method", s, smoothMethods)
}

// ParseFillMethod converts a name into a FillMethod.
func ParseFillMethod(s string) (FillMethod, error) {
	return parse("method", s, fillMethods)
}

// ParseDecomposeModel converts a name into a DecomposeModel.
func ParseDecomposeModel(s string) (DecomposeModel, error) {
	return parse("model", s, decomposeModels)
}

// ParseOutlierMethod converts a name into an OutlierMethod.
func ParseOutlierMethod(s string) (OutlierMethod, error) {
	return parse("method", s, outlierMethods)
}

func parse[T ~string](field, s string, valid []T) (T, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	names := make([]string, len(valid))
	for i, v := range valid {
		if string(v) == name {
			return v, nil
		}
		names[i] = string(v)
	}
	var zero T
	return zero, analytics.NewValidationError(field,
		"unknown %s %q (valid: %s)", field, s, strings.Join(names, ", "))
}

func unknown(field string, v interface{}) error {
	return analytics.NewValidationError(field, "unknown %s %q", field, v)
}
