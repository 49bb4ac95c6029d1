package transform

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// extrapolated continues an interpolant linearly past both ends of its
// knots, using the slope the interpolant has at each end.
type extrapolated struct {
	inner   curve
	lo, hi  float64
	yLo     float64
	yHi     float64
	slopeLo float64
	slopeHi float64
}

func newExtrapolated(inner curve, xs []float64) *extrapolated {
	n := len(xs)
	e := &extrapolated{
		inner: inner,
		lo:    xs[0],
		hi:    xs[n-1],
	}
	e.yLo = inner.Predict(e.lo)
	e.yHi = inner.Predict(e.hi)

	hLo := (xs[1] - xs[0]) * 1e-6
	hHi := (xs[n-1] - xs[n-2]) * 1e-6
	e.slopeLo = (inner.Predict(e.lo+hLo) - e.yLo) / hLo
	e.slopeHi = (e.yHi - inner.Predict(e.hi-hHi)) / hHi
	return e
}

func (e *extrapolated) Predict(x float64) float64 {
	switch {
	case x < e.lo:
		return e.yLo + e.slopeLo*(x-e.lo)
	case x > e.hi:
		return e.yHi + e.slopeHi*(x-e.hi)
	default:
		return e.inner.Predict(x)
	}
}

// quadraticSpline is an interpolating quadratic B-spline. Its interior
// knots sit midway between neighbouring samples, except that the first
// and last midpoints are left out so the coefficient count matches the
// sample count. Outside the knots the end pieces are extended.
type quadraticSpline struct {
	t []float64 // knots, each end repeated three times
	c []float64 // B-spline coefficients
}

func newQuadraticSpline(xs, ys []float64) (*quadraticSpline, error) {
	n := len(xs)
	t := make([]float64, 0, n+3)
	t = append(t, xs[0], xs[0], xs[0])
	for i := 1; i < n-2; i++ {
		t = append(t, (xs[i]+xs[i+1])/2)
	}
	t = append(t, xs[n-1], xs[n-1], xs[n-1])
	q := &quadraticSpline{t: t}

	// Sample i only touches basis functions i-1, i and i+1, so the
	// collocation matrix is tridiagonal.
	dl := make([]float64, n-1)
	d := make([]float64, n)
	du := make([]float64, n-1)
	for i, x := range xs {
		k := q.span(x)
		b := q.basis(k, x)
		for r, v := range b {
			switch j := k - 2 + r; j - i {
			case -1:
				dl[i-1] = v
			case 0:
				d[i] = v
			case 1:
				du[i] = v
			}
		}
	}

	var coef mat.VecDense
	a := mat.NewTridiag(n, dl, d, du)
	if err := a.SolveVecTo(&coef, false, mat.NewVecDense(n, ys)); err != nil {
		return nil, err
	}
	q.c = coef.RawVector().Data
	return q, nil
}

// span returns the knot interval used to evaluate x, clamped to the first
// and last non-empty intervals.
func (q *quadraticSpline) span(x float64) int {
	k := sort.Search(len(q.t), func(i int) bool { return q.t[i] > x }) - 1
	if k < 2 {
		k = 2
	}
	if last := len(q.t) - 4; k > last {
		k = last
	}
	return k
}

// basis evaluates the three quadratic B-splines that are non-zero on knot
// interval k, using the Cox-de Boor recurrence.
func (q *quadraticSpline) basis(k int, x float64) [3]float64 {
	var n, left, right [3]float64
	n[0] = 1
	for j := 1; j <= 2; j++ {
		left[j] = x - q.t[k+1-j]
		right[j] = q.t[k+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := n[r] / (right[r+1] + left[j-r])
			n[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		n[j] = saved
	}
	return n
}

func (q *quadraticSpline) Predict(x float64) float64 {
	k := q.span(x)
	b := q.basis(k, x)
	return b[0]*q.c[k-2] + b[1]*q.c[k-1] + b[2]*q.c[k]
}
