// Package analytics holds the types shared by the evaluation engine:
// metrics computation, series transforms and batch comparison.
package analytics

import (
	"math"
)

// IndexedSeries is a series of values paired with its time axis.
type IndexedSeries struct {
	Index  []float64 `json:"index"`
	Values []float64 `json:"values"`
}

// Len returns the number of points
func (s IndexedSeries) Len() int {
	return len(s.Values)
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DefaultIndex returns 0, 1, ..., n-1.
func DefaultIndex(n int) []float64 {
	index := make([]float64, n)
	for i := range index {
		index[i] = float64(i)
	}
	return index
}

// NewIndexedSeries pairs values with index. A nil index means positional.
func NewIndexedSeries(values, index []float64) (IndexedSeries, error) {
	if index == nil {
		index = DefaultIndex(len(values))
	}
	if len(index) != len(values) {
		return IndexedSeries{}, NewValidationError("index",
			"index length (%d) must match series length (%d)", len(index), len(values))
	}
	return IndexedSeries{
		Index:  append([]float64(nil), index...),
		Values: append([]float64(nil), values...),
	}, nil
}

// Finite returns a copy of s with every point whose value or index is
// non-finite removed.
func (s IndexedSeries) Finite() IndexedSeries {
	out := IndexedSeries{
		Index:  make([]float64, 0, len(s.Values)),
		Values: make([]float64, 0, len(s.Values)),
	}
	for i, v := range s.Values {
		if IsFinite(v) && IsFinite(s.Index[i]) {
			out.Index = append(out.Index, s.Index[i])
			out.Values = append(out.Values, v)
		}
	}
	return out
}

// StrictlyIncreasing reports whether the index never repeats or decreases.
func (s IndexedSeries) StrictlyIncreasing() bool {
	for i := 1; i < len(s.Index); i++ {
		if s.Index[i] <= s.Index[i-1] {
			return false
		}
	}
	return true
}

// PairwiseFinite drops every position where either a or b is non-finite.
// Both slices must have the same length.
func PairwiseFinite(a, b []float64) ([]float64, []float64) {
	outA := make([]float64, 0, len(a))
	outB := make([]float64, 0, len(b))
	for i := range a {
		if IsFinite(a[i]) && IsFinite(b[i]) {
			outA = append(outA, a[i])
			outB = append(outB, b[i])
		}
	}
	return outA, outB
}

// Present returns the values that are not NaN, preserving order.
func Present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
