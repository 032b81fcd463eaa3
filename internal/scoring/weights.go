package scoring

import (
	"sort"

	"github.com/wikijury/wikijury/internal/errors"
)

// ValidateWeights rejects any weight outside the closed range [0,5]. Values
// are never clamped; the whole configuration is refused so the jury operator
// sees exactly which entry was wrong.
func ValidateWeights(weights Weights) error {
	for metric, weight := range weights {
		if weight < MinWeight || weight > MaxWeight {
			return errors.NewInvalidWeightError(string(metric), weight)
		}
	}
	return nil
}

// ActiveMetrics returns the metrics that participate in the composite score:
// those with a weight greater than zero, in a deterministic order (the known
// vocabulary first, then any extension metrics alphabetically).
func ActiveMetrics(weights Weights) []Metric {
	known := make(map[Metric]bool, len(weights))
	active := make([]Metric, 0, len(weights))
	for _, metric := range KnownMetrics() {
		known[metric] = true
		if weights[metric] > 0 {
			active = append(active, metric)
		}
	}

	var extra []Metric
	for metric, weight := range weights {
		if weight > 0 && !known[metric] {
			extra = append(extra, metric)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(active, extra...)
}
