package transform

import (
	"math"

	"github.com/hydroeval/hydroeval/internal/analytics"
)

// epsilon guards the multiplicative divisions.
const epsilon = 1e-10

// Decomposition splits a series into trend, seasonal and residual parts.
type Decomposition struct {
	Trend    []float64 `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
	Residual []float64 `json:"residual"`
	Original []float64 `json:"original"`
}

// Decompose estimates the trend with a centered moving average of width
// period (edges repeat the nearest sample) and the seasonal component as
// the mean detrended value of each phase of the period.
func Decompose(values []float64, period int, model DecomposeModel) (Decomposition, error) {
	if model != Additive && model != Multiplicative {
		return Decomposition{}, unknown("model", model)
	}
	if period < 1 {
		return Decomposition{}, analytics.NewValidationError("period", "must be >= 1, got %d", period)
	}
	n := len(values)
	if n == 0 {
		return Decomposition{}, analytics.NewValidationError("series", "must not be empty")
	}

	d := Decomposition{
		Trend:    centeredMean(values, period),
		Seasonal: make([]float64, n),
		Residual: make([]float64, n),
		Original: append([]float64(nil), values...),
	}

	detrended := make([]float64, n)
	for i, v := range values {
		if model == Additive {
			detrended[i] = v - d.Trend[i]
		} else {
			detrended[i] = v / (d.Trend[i] + epsilon)
		}
	}

	for phase := 0; phase < period && phase < n; phase++ {
		sum, count := 0.0, 0
		for i := phase; i < n; i += period {
			if !math.IsNaN(detrended[i]) {
				sum += detrended[i]
				count++
			}
		}
		mean := math.NaN()
		if count > 0 {
			mean = sum / float64(count)
		}
		for i := phase; i < n; i += period {
			d.Seasonal[i] = mean
		}
	}

	for i, v := range values {
		if model == Additive {
			d.Residual[i] = v - d.Trend[i] - d.Seasonal[i]
		} else {
			d.Residual[i] = v / ((d.Trend[i] + epsilon) * (d.Seasonal[i] + epsilon))
		}
	}
	return d, nil
}

// centeredMean averages size samples around each position. The window
// spans size/2 samples before and the rest after; positions outside the
// series repeat the nearest edge sample.
func centeredMean(values []float64, size int) []float64 {
	n := len(values)
	left := size / 2
	out := make([]float64, n)
	for i := range values {
		sum := 0.0
		for k := i - left; k < i-left+size; k++ {
			j := k
			if j < 0 {
				j = 0
			}
			if j > n-1 {
				j = n - 1
			}
			sum += values[j]
		}
		out[i] = sum / float64(size)
	}
	return out
}
