package transform

import (
	"math"
	"sort"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"gonum.org/v1/gonum/stat"
)

// NoLimit lets forward and backward filling cover gap runs of any length.
const NoLimit = -1

// FillMissing replaces NaN gaps in values. limit caps the length of a run
// of consecutive gaps that forward and backward filling may cover; runs
// longer than limit keep their tail unfilled, and a limit of 0 fills
// nothing. A negative limit means no cap.
// The returned mask is true exactly where a gap received a value.
func FillMissing(values []float64, method FillMethod, limit int) ([]float64, []bool, error) {
	filled := append([]float64(nil), values...)

	switch method {
	case FillLinear:
		fillLinear(filled)
	case FillForward:
		fillForward(filled, limit)
	case FillBackward:
		fillBackward(filled, limit)
	case FillMean:
		present := analytics.Present(values)
		if len(present) > 0 {
			fillConstant(filled, stat.Mean(present, nil))
		}
	case FillMedian:
		present := analytics.Present(values)
		if len(present) > 0 {
			sort.Float64s(present)
			fillConstant(filled, percentile(present, 50))
		}
	default:
		return nil, nil, unknown("method", method)
	}

	mask := make([]bool, len(values))
	for i := range values {
		mask[i] = math.IsNaN(values[i]) && !math.IsNaN(filled[i])
	}
	return filled, mask, nil
}

// fillLinear interpolates each gap between its nearest valid neighbours.
// Leading and trailing gaps take the nearest valid value. Fewer than two
// valid points leaves the series as is.
func fillLinear(y []float64) {
	valid := make([]int, 0, len(y))
	for i, v := range y {
		if !math.IsNaN(v) {
			valid = append(valid, i)
		}
	}
	if len(valid) < 2 {
		return
	}

	first, last := valid[0], valid[len(valid)-1]
	for i := range y {
		if !math.IsNaN(y[i]) {
			continue
		}
		switch {
		case i < first:
			y[i] = y[first]
		case i > last:
			y[i] = y[last]
		default:
			k := sort.SearchInts(valid, i)
			lo, hi := valid[k-1], valid[k]
			w := float64(i-lo) / float64(hi-lo)
			y[i] = y[lo] + w*(y[hi]-y[lo])
		}
	}
}

func fillForward(y []float64, limit int) {
	last := math.NaN()
	run := 0
	for i := range y {
		if !math.IsNaN(y[i]) {
			last = y[i]
			run = 0
			continue
		}
		if math.IsNaN(last) {
			continue
		}
		run++
		if limit < 0 || run <= limit {
			y[i] = last
		}
	}
}

func fillBackward(y []float64, limit int) {
	next := math.NaN()
	run := 0
	for i := len(y) - 1; i >= 0; i-- {
		if !math.IsNaN(y[i]) {
			next = y[i]
			run = 0
			continue
		}
		if math.IsNaN(next) {
			continue
		}
		run++
		if limit < 0 || run <= limit {
			y[i] = next
		}
	}
}

func fillConstant(y []float64, v float64) {
	for i := range y {
		if math.IsNaN(y[i]) {
			y[i] = v
		}
	}
}
