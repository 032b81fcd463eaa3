package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/wikijury/wikijury/internal/errors"
)

// Score runs one complete analysis: validate the weight configuration and the
// raw dataset, normalize every active metric column, apply the weights and
// the optional early-contributor bonus, and rank the contributors.
//
// The function is pure: it never mutates the request and identical inputs
// produce identical output, including rank order. All validation happens
// before any computation, so a rejected request yields no partial results.
// A dataset with zero contributors is a documented no-op: the response holds
// an empty result set and no error.
func Score(req Request) (Response, error) {
	if err := ValidateWeights(req.Weights); err != nil {
		return Response{}, err
	}

	resp := Response{
		Results:     []ScoreResult{},
		WeightsUsed: cloneWeights(req.Weights),
	}
	if len(req.Contributors) == 0 {
		return resp, nil
	}

	if err := validateRecords(req.Contributors); err != nil {
		return Response{}, err
	}

	active := ActiveMetrics(req.Weights)
	warnings := reconcileMetrics(req.Contributors, req.Weights, active)

	// One normalization pass per active metric, column-wise across the
	// whole dataset. Missing values already read as 0 from the map.
	n := len(req.Contributors)
	normalizedByMetric := make(map[Metric][]float64, len(active))
	for _, metric := range active {
		column := make([]float64, n)
		for i, c := range req.Contributors {
			column[i] = c.Metrics[metric]
		}
		normalized, err := MinMaxNormalize(column)
		if err != nil {
			return Response{}, err
		}
		normalizedByMetric[metric] = normalized
	}

	bonuses, bonusWarnings := earlyBonuses(req.Contributors, req.Bonus)
	warnings = append(warnings, bonusWarnings...)

	results := make([]ScoreResult, n)
	for i, c := range req.Contributors {
		normalized := make(map[Metric]float64, len(active))
		contributions := make(map[Metric]float64, len(active))
		composite := 0.0
		for _, metric := range active {
			value := normalizedByMetric[metric][i]
			weighted := value * float64(req.Weights[metric])
			normalized[metric] = value
			contributions[metric] = weighted
			composite += weighted
		}
		composite += bonuses[i]

		results[i] = ScoreResult{
			ID:            c.ID,
			Normalized:    normalized,
			Contributions: contributions,
			Bonus:         bonuses[i],
			Composite:     composite,
		}
	}

	// Descending by composite, ties broken by identifier ascending so the
	// ordering is reproducible for identical inputs.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Composite != results[j].Composite {
			return results[i].Composite > results[j].Composite
		}
		return results[i].ID < results[j].ID
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	resp.Results = results
	resp.Warnings = warnings
	return resp, nil
}

// validateRecords fails fast on data the domain disallows: empty or duplicate
// identifiers and negative or non-finite raw values.
func validateRecords(contributors []ContributorRecord) error {
	seen := make(map[string]struct{}, len(contributors))
	for _, c := range contributors {
		if c.ID == "" {
			return errors.NewInvalidMetricDataError(
				"contributor identifier is empty", nil)
		}
		if _, dup := seen[c.ID]; dup {
			return errors.NewInvalidMetricDataError(
				"duplicate contributor identifier",
				map[string]interface{}{"contributor": c.ID})
		}
		seen[c.ID] = struct{}{}

		for metric, value := range c.Metrics {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return errors.NewInvalidMetricDataError(
					"raw metric value is not a finite number",
					map[string]interface{}{"contributor": c.ID, "metric": string(metric)})
			}
			if value < 0 {
				return errors.NewInvalidMetricDataError(
					"raw metric value is negative",
					map[string]interface{}{"contributor": c.ID, "metric": string(metric), "value": value})
			}
		}
	}
	return nil
}

// reconcileMetrics surfaces weight/data mismatches as warnings. A weight for
// a metric absent from the data and a data metric with no configured weight
// are both resolved as zero, never silently ignored.
func reconcileMetrics(contributors []ContributorRecord, weights Weights, active []Metric) []string {
	inData := make(map[Metric]bool)
	for _, c := range contributors {
		for metric := range c.Metrics {
			inData[metric] = true
		}
	}

	var warnings []string
	for _, metric := range active {
		if !inData[metric] {
			warnings = append(warnings,
				fmt.Sprintf("weight configured for metric %q absent from dataset, values treated as 0", metric))
		}
	}

	unweighted := make([]Metric, 0)
	for metric := range inData {
		if _, ok := weights[metric]; !ok {
			unweighted = append(unweighted, metric)
		}
	}
	sort.Slice(unweighted, func(i, j int) bool { return unweighted[i] < unweighted[j] })
	for _, metric := range unweighted {
		warnings = append(warnings,
			fmt.Sprintf("no weight configured for metric %q, excluded from scoring", metric))
	}

	return warnings
}

func cloneWeights(weights Weights) Weights {
	cp := make(Weights, len(weights))
	for metric, weight := range weights {
		cp[metric] = weight
	}
	return cp
}
