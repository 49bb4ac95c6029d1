package transform

import (
	"fmt"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// MinPoints is the fewest finite points any interpolant can be built from.
const MinPoints = 2

// Interpolate fits a piecewise interpolant of the given kind through the
// finite points of values and samples it at numPoints evenly spaced
// positions spanning the retained index range. A nil index means
// positional; numPoints <= 0 means twice the input length.
func Interpolate(values, index []float64, kind InterpolationKind, numPoints int) (analytics.IndexedSeries, error) {
	if numPoints <= 0 {
		numPoints = 2 * len(values)
	}
	return evaluate("interpolate", values, index, kind, numPoints)
}

// Resample evaluates an interpolant of the given kind at targetPoints
// evenly spaced positions spanning the retained index range.
func Resample(values, index []float64, targetPoints int, kind InterpolationKind) (analytics.IndexedSeries, error) {
	if targetPoints < 1 {
		return analytics.IndexedSeries{}, analytics.NewValidationError("target_points",
			"must be at least 1, got %d", targetPoints)
	}
	return evaluate("resample", values, index, kind, targetPoints)
}

func evaluate(op string, values, index []float64, kind InterpolationKind, n int) (analytics.IndexedSeries, error) {
	if _, err := ParseInterpolationKind(string(kind)); err != nil {
		return analytics.IndexedSeries{}, err
	}

	pts, err := knots(op, values, index)
	if err != nil {
		return analytics.IndexedSeries{}, err
	}

	c, err := fitCurve(kind, pts.Index, pts.Values)
	if err != nil {
		return analytics.IndexedSeries{}, fmt.Errorf("%s: %w", op, err)
	}

	out := analytics.IndexedSeries{
		Index:  make([]float64, n),
		Values: make([]float64, n),
	}
	lo, hi := pts.Index[0], pts.Index[len(pts.Index)-1]
	if n == 1 {
		out.Index[0] = lo
	} else {
		floats.Span(out.Index, lo, hi)
	}
	for i, x := range out.Index {
		out.Values[i] = c.Predict(x)
	}
	return out, nil
}

// knots returns the finite points ordered by index, with repeated index
// values collapsed to their mean.
func knots(op string, values, index []float64) (analytics.IndexedSeries, error) {
	s, err := analytics.NewIndexedSeries(values, index)
	if err != nil {
		return analytics.IndexedSeries{}, err
	}
	clean := s.Finite()
	if clean.Len() < MinPoints {
		return analytics.IndexedSeries{}, analytics.NewInsufficientDataError(op, MinPoints, clean.Len())
	}

	out := analytics.IndexedSeries{
		Index:  make([]float64, 0, clean.Len()),
		Values: make([]float64, 0, clean.Len()),
	}
	for i := 0; i < clean.Len(); {
		x := clean.Index[i]
		if i > 0 && x < clean.Index[i-1] {
			return analytics.IndexedSeries{}, analytics.NewValidationError("index",
				"must be non-decreasing, %g follows %g", x, clean.Index[i-1])
		}
		sum, count := 0.0, 0
		for ; i < clean.Len() && clean.Index[i] == x; i++ {
			sum += clean.Values[i]
			count++
		}
		out.Index = append(out.Index, x)
		out.Values = append(out.Values, sum/float64(count))
	}
	if out.Len() < MinPoints {
		return analytics.IndexedSeries{}, analytics.NewInsufficientDataError(op, MinPoints, out.Len())
	}
	return out, nil
}

// curve is a fitted interpolant defined on the whole real line.
type curve interface {
	Predict(x float64) float64
}

// fitCurve builds the interpolant for kind, falling back to a lower order
// when there are too few points for the requested one.
func fitCurve(kind InterpolationKind, xs, ys []float64) (curve, error) {
	switch kind {
	case Linear:
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			return nil, err
		}
		return newExtrapolated(&pl, xs), nil
	case Quadratic:
		if len(xs) < 3 {
			return fitCurve(Linear, xs, ys)
		}
		q, err := newQuadraticSpline(xs, ys)
		if err != nil {
			return nil, err
		}
		return q, nil
	case Cubic:
		if len(xs) < 4 {
			return fitCurve(Quadratic, xs, ys)
		}
		var nak interp.NotAKnotCubic
		if err := nak.Fit(xs, ys); err != nil {
			return nil, err
		}
		return newExtrapolated(&nak, xs), nil
	default:
		return nil, unknown("kind", kind)
	}
}
