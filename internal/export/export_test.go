package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/wikijury/wikijury/internal/scoring"
)

func sampleResponse() scoring.Response {
	return scoring.Response{
		Results: []scoring.ScoreResult{
			{
				ID: "alice",
				Normalized: map[scoring.Metric]float64{
					scoring.MetricArticlesCreated: 1.0,
					scoring.MetricReferencesAdded: 0.25,
				},
				Bonus:     0.1,
				Composite: 2.35,
				Rank:      1,
			},
			{
				ID: "bob",
				Normalized: map[scoring.Metric]float64{
					scoring.MetricArticlesCreated: 0.0,
					scoring.MetricReferencesAdded: 1.0,
				},
				Bonus:     0.0,
				Composite: 1.0,
				Rank:      2,
			},
		},
		WeightsUsed: scoring.Weights{
			scoring.MetricArticlesCreated: 2,
			scoring.MetricReferencesAdded: 1,
			scoring.MetricImagesAdded:     0,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResponse()))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"Rang", "Utilisateur", "articles_created", "references_added", "Bonus", "Score global",
	}, records[0], "weight-0 metrics stay out of the export")

	assert.Equal(t, []string{"1", "alice", "1.0000", "0.2500", "0.1000", "2.3500"}, records[1])
	assert.Equal(t, []string{"2", "bob", "0.0000", "1.0000", "0.0000", "1.0000"}, records[2])
}

func TestWriteCSVEmptyResponse(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, scoring.Response{WeightsUsed: scoring.Weights{}}))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleResponse()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Classement", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Rang", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "alice", sheet.Rows[1].Cells[1].String())

	composite, err := sheet.Rows[1].Cells[5].Float()
	require.NoError(t, err)
	assert.InDelta(t, 2.35, composite, 1e-9)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "classement_wikijury.csv", Filename("csv"))
	assert.Equal(t, "classement_wikijury.xlsx", Filename("xlsx"))
}
