package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikijury/wikijury/internal/errors"
)

func TestMinMaxNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected []float64
	}{
		{
			name:     "normalizes empty sequence to empty sequence",
			input:    []float64{},
			expected: []float64{},
		},
		{
			name:     "normalizes distinct values onto [0,1]",
			input:    []float64{10, 0, 5},
			expected: []float64{1.0, 0.0, 0.5},
		},
		{
			name:     "degenerates to zeros when all values are equal",
			input:    []float64{7, 7, 7},
			expected: []float64{0, 0, 0},
		},
		{
			name:     "single value degenerates to zero",
			input:    []float64{42},
			expected: []float64{0},
		},
		{
			name:     "handles non-integer raw values",
			input:    []float64{1.5, 0.5, 1.0},
			expected: []float64{1.0, 0.0, 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MinMaxNormalize(tt.input)
			require.NoError(t, err)
			require.Len(t, result, len(tt.input))
			for i, expected := range tt.expected {
				assert.InDelta(t, expected, result[i], 1e-12)
			}
		})
	}
}

func TestMinMaxNormalizeRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		input []float64
	}{
		{name: "rejects negative values", input: []float64{1, -2, 3}},
		{name: "rejects NaN", input: []float64{1, math.NaN()}},
		{name: "rejects infinity", input: []float64{1, math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MinMaxNormalize(tt.input)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.IsInvalidMetricData(err))
		})
	}
}

func TestMinMaxNormalizeBoundsAndMonotonicity(t *testing.T) {
	input := []float64{3, 0, 12, 7, 7, 100, 1}

	result, err := MinMaxNormalize(input)
	require.NoError(t, err)

	for i, v := range result {
		assert.GreaterOrEqual(t, v, 0.0, "output %d should be >= 0", i)
		assert.LessOrEqual(t, v, 1.0, "output %d should be <= 1", i)
	}

	// Larger raw value never yields a smaller normalized value.
	for i := range input {
		for j := range input {
			if input[i] <= input[j] {
				assert.LessOrEqual(t, result[i], result[j],
					"raw %.1f <= %.1f but normalized %f > %f",
					input[i], input[j], result[i], result[j])
			}
		}
	}
}
