package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikijury/wikijury/internal/errors"
)

func TestValidateWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{
			name:    "accepts empty configuration",
			weights: Weights{},
			wantErr: false,
		},
		{
			name: "accepts boundary weights",
			weights: Weights{
				MetricArticlesCreated: 0,
				MetricCharactersAdded: 5,
			},
			wantErr: false,
		},
		{
			name:    "rejects weight above range",
			weights: Weights{MetricArticlesCreated: 6},
			wantErr: true,
		},
		{
			name:    "rejects negative weight",
			weights: Weights{MetricReferencesAdded: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWeights(tt.weights)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidWeight(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActiveMetrics(t *testing.T) {
	tests := []struct {
		name     string
		weights  Weights
		expected []Metric
	}{
		{
			name:     "no weights means no active metrics",
			weights:  Weights{},
			expected: []Metric{},
		},
		{
			name: "zero weight excludes the metric",
			weights: Weights{
				MetricArticlesCreated: 1,
				MetricCharactersAdded: 0,
				MetricImagesAdded:     3,
			},
			expected: []Metric{MetricArticlesCreated, MetricImagesAdded},
		},
		{
			name: "vocabulary order is preserved regardless of map order",
			weights: Weights{
				MetricWikidataItems:    1,
				MetricArticlesCreated:  1,
				MetricReferencesAdded:  1,
				MetricArticlesModified: 1,
			},
			expected: []Metric{
				MetricArticlesCreated,
				MetricArticlesModified,
				MetricReferencesAdded,
				MetricWikidataItems,
			},
		},
		{
			name: "extension metrics sort after the vocabulary",
			weights: Weights{
				Metric("zz_custom"):   2,
				Metric("aa_custom"):   2,
				MetricWikidataItems:   4,
				MetricArticlesCreated: 0,
			},
			expected: []Metric{MetricWikidataItems, Metric("aa_custom"), Metric("zz_custom")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ActiveMetrics(tt.weights))
		})
	}
}
