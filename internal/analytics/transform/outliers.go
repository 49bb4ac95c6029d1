package transform

import (
	"math"
	"sort"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"gonum.org/v1/gonum/stat"
)

// Default outlier thresholds.
const (
	DefaultZScoreThreshold = 3.0
	DefaultIQRMultiplier   = 1.5
)

// DetectOutliers flags values that fail the selected test. NaN values are
// ignored when estimating the statistics and are never flagged.
//
// zscore flags |x-mean|/(std+eps) > threshold with the population std.
// iqr flags values outside [Q1 - threshold*IQR, Q3 + threshold*IQR].
func DetectOutliers(values []float64, method OutlierMethod, threshold float64) ([]bool, error) {
	if math.IsNaN(threshold) || threshold < 0 {
		return nil, analytics.NewValidationError("threshold", "must be a non-negative number, got %g", threshold)
	}

	mask := make([]bool, len(values))
	present := analytics.Present(values)

	switch method {
	case ZScore:
		if len(present) == 0 {
			return mask, nil
		}
		mean, std := stat.PopMeanStdDev(present, nil)
		for i, v := range values {
			mask[i] = math.Abs(v-mean)/(std+epsilon) > threshold
		}
	case IQR:
		if len(present) == 0 {
			return mask, nil
		}
		sort.Float64s(present)
		q1, q3, iqr := quartiles(present)
		lower := q1 - threshold*iqr
		upper := q3 + threshold*iqr
		for i, v := range values {
			mask[i] = v < lower || v > upper
		}
	default:
		return nil, unknown("method", method)
	}
	return mask, nil
}

// quartiles returns Q1, Q3 and their spread for sorted data.
func quartiles(sorted []float64) (q1, q3, iqr float64) {
	q1 = percentile(sorted, 25)
	q3 = percentile(sorted, 75)
	return q1, q3, q3 - q1
}

// percentile linearly interpolates between the closest ranks of sorted
// data, with rank (p/100)*(n-1).
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := (p / 100) * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
