// Package metrics computes error and skill scores for a predicted series
// against an observed target series.
//
// Conventions:
//   - positions where either value is NaN or ±Inf are dropped pairwise
//   - standard deviations are population (ddof = 0)
//   - residuals are Er = T - P, positive when the prediction underestimates
//   - an undefined ratio is NaN, a magnitude over zero spread is +Inf
package metrics

import (
	"math"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MinPairs is the minimum number of finite pairs required by Compute.
const MinPairs = 2

// ErrorMetrics is the full set of scores for one predicted/target pair.
type ErrorMetrics struct {
	RMSE  float64
	NSC   float64
	Cor   float64
	NRMSE float64
	MAE   float64

	StdT float64
	StdP float64
	MuT  float64
	MuP  float64

	PERS   float64
	SSE    float64
	SSEN   float64
	RMSEN  float64
	NRMSEN float64

	MARE    float64
	R2      float64
	RSR     float64
	PBIAS   float64
	SMAPE   float64
	KGE2009 float64
	KGE2012 float64
	D       float64
	D1      float64

	Po float64
	Pu float64

	// N is the number of pairs left after pairwise deletion.
	N int

	er []float64
}

// Residuals returns a copy of Er = T - P over the retained pairs.
func (m ErrorMetrics) Residuals() []float64 {
	return append([]float64(nil), m.er...)
}

// Compute evaluates predicted against target.
func Compute(predicted, target []float64) (ErrorMetrics, error) {
	if len(predicted) != len(target) {
		return ErrorMetrics{}, analytics.NewValidationError("series",
			"length mismatch: predicted(%d) vs target(%d)", len(predicted), len(target))
	}

	p, t := analytics.PairwiseFinite(predicted, target)
	n := len(p)
	if n < MinPairs {
		return ErrorMetrics{}, analytics.NewValidationError("series",
			"need at least %d paired finite values, got %d", MinPairs, n)
	}
	fn := float64(n)

	var m ErrorMetrics
	m.N = n
	m.MuT, m.StdT = stat.PopMeanStdDev(t, nil)
	m.MuP, m.StdP = stat.PopMeanStdDev(p, nil)

	resid := floats.SubTo(make([]float64, n), p, t)
	m.SSE = floats.Dot(resid, resid)
	m.RMSE = math.Sqrt(m.SSE / fn)

	var absSum float64
	for _, r := range resid {
		absSum += math.Abs(r)
	}
	m.MAE = absSum / fn
	m.NRMSE = 100 * magnitude(m.RMSE, m.StdT)
	m.RSR = magnitude(m.RMSE, m.StdT)

	// Spread and co-spread around the means.
	var sxy, sxx, syy, dSq, dAbs float64
	for i := range p {
		dp := p[i] - m.MuP
		dt := t[i] - m.MuT
		sxy += dp * dt
		sxx += dp * dp
		syy += dt * dt

		pot := math.Abs(p[i]-m.MuT) + math.Abs(dt)
		dSq += pot * pot
		dAbs += pot
	}
	m.NSC = skill(m.SSE, syy)
	m.Cor = ratio(sxy, math.Sqrt(sxx*syy))
	m.R2 = m.Cor * m.Cor
	m.D = skill(m.SSE, dSq)
	m.D1 = skill(absSum, dAbs)

	m.MARE = mare(p, t)
	m.SMAPE = smape(p, t)

	sumT := floats.Sum(t)
	if sumT != 0 {
		m.PBIAS = 100 * floats.Sum(resid) / sumT
	} else {
		m.PBIAS = math.NaN()
	}

	m.persistence(t)

	beta := ratio(m.MuP, m.MuT)
	alpha := ratio(m.StdP, m.StdT)
	gamma := ratio(ratio(m.StdP, m.MuP), ratio(m.StdT, m.MuT))
	m.KGE2009 = kge(m.Cor, alpha, beta)
	m.KGE2012 = kge(m.Cor, gamma, beta)

	m.er = make([]float64, n)
	var over int
	for i := range p {
		m.er[i] = t[i] - p[i]
		if m.er[i] <= 0 {
			over++
		}
	}
	m.Po = float64(over) / fn
	m.Pu = float64(n-over) / fn

	return m, nil
}

// persistence scores the target against its own lag-1 naive forecast.
func (m *ErrorMetrics) persistence(t []float64) {
	prev, next := t[:len(t)-1], t[1:]
	diff := floats.SubTo(make([]float64, len(prev)), prev, next)
	m.SSEN = floats.Dot(diff, diff)
	m.RMSEN = math.Sqrt(m.SSEN / float64(len(next)))

	_, stdNext := stat.PopMeanStdDev(next, nil)
	m.NRMSEN = 100 * magnitude(m.RMSEN, stdNext)

	if m.SSEN > 0 {
		m.PERS = 1 - m.SSE/m.SSEN
	} else {
		m.PERS = math.NaN()
	}
}

func mare(p, t []float64) float64 {
	var sum float64
	var count int
	for i := range t {
		if t[i] == 0 {
			continue
		}
		sum += math.Abs((t[i] - p[i]) / t[i])
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

func smape(p, t []float64) float64 {
	var sum float64
	var count int
	for i := range p {
		den := math.Abs(p[i]) + math.Abs(t[i])
		if den == 0 {
			continue
		}
		sum += 2 * math.Abs(p[i]-t[i]) / den
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return 100 * sum / float64(count)
}

func kge(r, variability, bias float64) float64 {
	return 1 - math.Sqrt((r-1)*(r-1)+(variability-1)*(variability-1)+(bias-1)*(bias-1))
}
