package metrics

import "math"

// ratio divides a by b. A zero or undefined denominator yields NaN.
func ratio(a, b float64) float64 {
	if b == 0 || math.IsNaN(b) {
		return math.NaN()
	}
	return a / b
}

// magnitude divides a non-negative magnitude a by a non-negative scale b.
// A zero scale yields +Inf, an undefined one NaN.
func magnitude(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	if b == 0 {
		return math.Inf(1)
	}
	return a / b
}

// skill returns 1 - num/den using ratio semantics.
func skill(num, den float64) float64 {
	return 1 - ratio(num, den)
}
