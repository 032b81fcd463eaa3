package scoring

import (
	"math"

	"github.com/wikijury/wikijury/internal/errors"
)

// MinMaxNormalize maps one metric's raw values across all contributors onto
// [0,1] with (v-min)/(max-min). Output order and length match the input. When
// every value is equal the range degenerates and every output is 0 rather
// than dividing by zero. An empty input yields an empty output, not an error.
func MinMaxNormalize(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return []float64{}, nil
	}

	min, max := values[0], values[0]
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.NewInvalidMetricDataError(
				"raw metric value is not a finite number",
				map[string]interface{}{"index": i})
		}
		if v < 0 {
			return nil, errors.NewInvalidMetricDataError(
				"raw metric value is negative",
				map[string]interface{}{"index": i, "value": v})
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	normalized := make([]float64, len(values))
	if max == min {
		return normalized, nil
	}

	span := max - min
	for i, v := range values {
		normalized[i] = (v - min) / span
	}
	return normalized, nil
}
