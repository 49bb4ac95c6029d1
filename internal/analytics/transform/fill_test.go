package transform

import (
	"math"
	"testing"

	"github.com/hydroeval/hydroeval/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func TestFillMissing(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		method   FillMethod
		limit    int
		expected []float64
		mask     []bool
	}{
		{
			name:     "linear single gap",
			values:   []float64{1, nan, 3},
			method:   FillLinear,
			expected: []float64{1, 2, 3},
			mask:     []bool{false, true, false},
		},
		{
			name:     "linear edges take nearest value",
			values:   []float64{nan, 2, nan, nan, 8, nan},
			method:   FillLinear,
			expected: []float64{2, 2, 4, 6, 8, 8},
			mask:     []bool{true, false, true, true, false, true},
		},
		{
			name:     "linear needs two valid points",
			values:   []float64{nan, 2, nan},
			method:   FillLinear,
			expected: []float64{nan, 2, nan},
			mask:     []bool{false, false, false},
		},
		{
			name:     "forward with limit",
			values:   []float64{1, nan, nan, nan, 5},
			method:   FillForward,
			limit:    2,
			expected: []float64{1, 1, 1, nan, 5},
			mask:     []bool{false, true, true, false, false},
		},
		{
			name:     "forward leaves leading gap",
			values:   []float64{nan, 1, nan},
			method:   FillForward,
			limit:    NoLimit,
			expected: []float64{nan, 1, 1},
			mask:     []bool{false, false, true},
		},
		{
			name:     "backward with limit",
			values:   []float64{nan, nan, 3, nan},
			method:   FillBackward,
			limit:    1,
			expected: []float64{nan, 3, 3, nan},
			mask:     []bool{false, true, false, false},
		},
		{
			name:     "forward zero limit fills nothing",
			values:   []float64{1, nan, nan, 4},
			method:   FillForward,
			limit:    0,
			expected: []float64{1, nan, nan, 4},
			mask:     []bool{false, false, false, false},
		},
		{
			name:     "backward without limit",
			values:   []float64{nan, nan, 3, nan},
			method:   FillBackward,
			limit:    NoLimit,
			expected: []float64{3, 3, 3, nan},
			mask:     []bool{true, true, false, false},
		},
		{
			name:     "mean",
			values:   []float64{1, nan, 3, nan},
			method:   FillMean,
			expected: []float64{1, 2, 3, 2},
			mask:     []bool{false, true, false, true},
		},
		{
			name:     "median",
			values:   []float64{1, nan, 2, 10},
			method:   FillMedian,
			expected: []float64{1, 2, 2, 10},
			mask:     []bool{false, true, false, false},
		},
		{
			name:     "all missing stays missing",
			values:   []float64{nan, nan},
			method:   FillMean,
			expected: []float64{nan, nan},
			mask:     []bool{false, false},
		},
		{
			name:     "nothing missing",
			values:   []float64{1, 2},
			method:   FillMedian,
			expected: []float64{1, 2},
			mask:     []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]float64(nil), tt.values...)

			filled, mask, err := FillMissing(input, tt.method, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.mask, mask)
			require.Len(t, filled, len(tt.expected))
			for i, want := range tt.expected {
				if math.IsNaN(want) {
					assert.True(t, math.IsNaN(filled[i]), "index %d", i)
					continue
				}
				assert.InDelta(t, want, filled[i], 1e-12, "index %d", i)
			}
			for i := range input {
				assert.Equal(t, math.IsNaN(tt.values[i]), math.IsNaN(input[i]), "input mutated at %d", i)
			}
		})
	}
}

func TestFillMissing_UnknownMethod(t *testing.T) {
	_, _, err := FillMissing([]float64{1, nan}, FillMethod("spline"), 0)
	require.Error(t, err)
	assert.True(t, analytics.IsValidation(err))
}

func TestParseFillMethod(t *testing.T) {
	m, err := ParseFillMethod("FORWARD")
	require.NoError(t, err)
	assert.Equal(t, FillForward, m)

	_, err = ParseFillMethod("ffill")
	assert.True(t, analytics.IsValidation(err))
}
