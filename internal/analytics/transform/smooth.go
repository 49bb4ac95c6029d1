package transform

import (
	"math"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Smoothing defaults.
const (
	DefaultWindow    = 5
	DefaultPolyOrder = 2
	DefaultAlpha     = 0.3
)

// SmoothParams carries the method specific smoothing parameters.
type SmoothParams struct {
	// PolyOrder is the local polynomial order for savitzky_golay.
	PolyOrder int
	// Alpha is the smoothing factor for exponential, in (0, 1].
	Alpha float64
}

// DefaultSmoothParams returns polyorder 2 and alpha 0.3.
func DefaultSmoothParams() SmoothParams {
	return SmoothParams{
		PolyOrder: DefaultPolyOrder,
		Alpha:     DefaultAlpha,
	}
}

// Smooth filters values with the selected method. The result always has
// the same length as the input.
func Smooth(values []float64, method SmoothMethod, window int, params SmoothParams) ([]float64, error) {
	switch method {
	case MovingAverage:
		return movingAverage(values, window)
	case SavitzkyGolay:
		return savitzkyGolay(values, window, params.PolyOrder)
	case Exponential:
		return exponentialSmoothing(values, params.Alpha)
	default:
		return nil, unknown("method", method)
	}
}

// movingAverage is a trailing mean computed from cumulative sums. The
// first window-1 positions repeat the first full-window mean.
func movingAverage(values []float64, window int) ([]float64, error) {
	n := len(values)
	if window < 1 {
		return nil, analytics.NewValidationError("window", "must be >= 1, got %d", window)
	}
	if window > n {
		return nil, analytics.NewValidationError("window",
			"(%d) exceeds series length (%d)", window, n)
	}

	cum := floats.CumSum(make([]float64, n), values)
	w := float64(window)
	out := make([]float64, n)
	for i := window - 1; i < n; i++ {
		sum := cum[i]
		if i >= window {
			sum -= cum[i-window]
		}
		out[i] = sum / w
	}
	for i := 0; i < window-1; i++ {
		out[i] = out[window-1]
	}
	return out, nil
}

// savitzkyGolay fits a least-squares polynomial over each window and
// evaluates it at the window position of the output sample. Near the
// edges the window is clamped inside the series, so the first and last
// half-windows are evaluated on the edge fit.
func savitzkyGolay(values []float64, window, polyOrder int) ([]float64, error) {
	if window < 1 {
		return nil, analytics.NewValidationError("window", "must be >= 1, got %d", window)
	}
	if window%2 == 0 {
		window++
	}
	n := len(values)
	if window > n {
		return nil, analytics.NewValidationError("window",
			"(%d) exceeds series length (%d)", window, n)
	}
	if polyOrder < 0 || polyOrder >= window {
		return nil, analytics.NewValidationError("polyorder",
			"must be in [0, %d), got %d", window, polyOrder)
	}

	half := window / 2
	cols := polyOrder + 1
	design := mat.NewDense(window, cols, nil)
	for r := 0; r < window; r++ {
		x := float64(r - half)
		p := 1.0
		for c := 0; c < cols; c++ {
			design.Set(r, c, p)
			p *= x
		}
	}

	var qr mat.QR
	qr.Factorize(design)

	out := make([]float64, n)
	var coef mat.VecDense
	for i := range values {
		start := i - half
		if start < 0 {
			start = 0
		}
		if start > n-window {
			start = n - window
		}

		b := mat.NewVecDense(window, values[start:start+window])
		if err := qr.SolveVecTo(&coef, false, b); err != nil {
			return nil, err
		}

		x := float64(i - start - half)
		y, p := 0.0, 1.0
		for c := 0; c < cols; c++ {
			y += coef.AtVec(c) * p
			p *= x
		}
		out[i] = y
	}
	return out, nil
}

// exponentialSmoothing computes y[0] = x[0], y[i] = a*x[i] + (1-a)*y[i-1].
func exponentialSmoothing(values []float64, alpha float64) ([]float64, error) {
	if math.IsNaN(alpha) || alpha <= 0 || alpha > 1 {
		return nil, analytics.NewValidationError("alpha", "must be in (0, 1], got %g", alpha)
	}
	if len(values) == 0 {
		return nil, analytics.NewValidationError("series", "must not be empty")
	}

	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}
