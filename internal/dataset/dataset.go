// Package dataset turns uploaded contribution tables into engine records.
// It owns the recognized header vocabulary (French first, English accepted)
// and the merge rule for duplicate contributor rows.
package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wikijury/wikijury/internal/errors"
	"github.com/wikijury/wikijury/internal/scoring"
)

// columnKind classifies one table header.
type columnKind int

const (
	columnUnknown columnKind = iota
	columnIdentifier
	columnTimestamp
	columnMetric
)

// metricVocabulary maps normalized header names onto the metric set. The
// campaign exports use the French forms; the English aliases come from the
// same tooling run with an English locale.
var metricVocabulary = map[string]scoring.Metric{
	"articles créés":        scoring.MetricArticlesCreated,
	"total articles créés":  scoring.MetricArticlesCreated,
	"articles created":      scoring.MetricArticlesCreated,
	"caractères ajoutés":    scoring.MetricCharactersAdded,
	"octets ajoutés":        scoring.MetricCharactersAdded,
	"characters added":      scoring.MetricCharactersAdded,
	"bytes added":           scoring.MetricCharactersAdded,
	"articles modifiés":     scoring.MetricArticlesModified,
	"total articles modifiés": scoring.MetricArticlesModified,
	"articles modified":     scoring.MetricArticlesModified,
	"références ajoutées":   scoring.MetricReferencesAdded,
	"references added":      scoring.MetricReferencesAdded,
	"images ajoutées":       scoring.MetricImagesAdded,
	"fichiers téléversés":   scoring.MetricImagesAdded,
	"images added":          scoring.MetricImagesAdded,
	"éléments wikidata":     scoring.MetricWikidataItems,
	"éditions wikidata":     scoring.MetricWikidataItems,
	"wikidata items added":  scoring.MetricWikidataItems,
}

var identifierHeaders = map[string]bool{
	"utilisateur":       true,
	"nom d'utilisateur": true,
	"username":          true,
	"user":              true,
}

var timestampHeaders = map[string]bool{
	"date d'inscription":   true,
	"première contribution": true,
	"enrollment_timestamp": true,
	"first_contribution":   true,
}

// timestampLayouts lists the formats the campaign exports have been seen to
// use, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// Result is a parsed table: engine-ready records plus warnings about columns
// that were present but not recognized.
type Result struct {
	Contributors []scoring.ContributorRecord
	Warnings     []string
}

func classifyHeader(name string) (columnKind, scoring.Metric) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if identifierHeaders[normalized] {
		return columnIdentifier, ""
	}
	if timestampHeaders[normalized] {
		return columnTimestamp, ""
	}
	if metric, ok := metricVocabulary[normalized]; ok {
		return columnMetric, metric
	}
	return columnUnknown, ""
}

// fromRows converts a header row plus data rows into engine records.
// Duplicate identifiers are merged by summing their metric values, keeping
// the earliest temporal marker; this mirrors how the raw exports repeat one
// contributor across wikis.
func fromRows(header []string, rows [][]string) (Result, error) {
	idCol := -1
	tsCol := -1
	metricCols := make(map[int]scoring.Metric)
	var warnings []string

	for i, name := range header {
		kind, metric := classifyHeader(name)
		switch kind {
		case columnIdentifier:
			if idCol == -1 {
				idCol = i
			}
		case columnTimestamp:
			if tsCol == -1 {
				tsCol = i
			}
		case columnMetric:
			metricCols[i] = metric
		default:
			if strings.TrimSpace(name) != "" {
				warnings = append(warnings,
					fmt.Sprintf("column %q not recognized, skipped", strings.TrimSpace(name)))
			}
		}
	}

	if idCol == -1 {
		return Result{}, errors.NewInvalidMetricDataError(
			"no contributor identifier column found",
			map[string]interface{}{"expected": "Utilisateur / username"})
	}
	if len(metricCols) == 0 {
		return Result{}, errors.NewInvalidMetricDataError(
			"no recognized metric columns found", nil)
	}

	type entry struct {
		record scoring.ContributorRecord
		order  int
	}
	byID := make(map[string]*entry)
	order := 0

	for rowIdx, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if idCol >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[idCol])
		if id == "" {
			warnings = append(warnings,
				fmt.Sprintf("row %d has no contributor identifier, skipped", rowIdx+2))
			continue
		}

		e, exists := byID[id]
		if !exists {
			e = &entry{
				record: scoring.ContributorRecord{
					ID:      id,
					Metrics: make(map[scoring.Metric]float64, len(metricCols)),
				},
				order: order,
			}
			byID[id] = e
			order++
		}

		for col, metric := range metricCols {
			cell := ""
			if col < len(row) {
				cell = row[col]
			}
			value, err := parseNumericCell(cell)
			if err != nil {
				return Result{}, errors.NewInvalidMetricDataError(
					"non-numeric metric value",
					map[string]interface{}{
						"row":    rowIdx + 2,
						"column": header[col],
						"value":  cell,
					})
			}
			e.record.Metrics[metric] += value
		}

		if tsCol != -1 && tsCol < len(row) {
			if t, ok := parseTimestampCell(row[tsCol]); ok {
				if e.record.FirstContribution == nil || t.Before(*e.record.FirstContribution) {
					e.record.FirstContribution = &t
				}
			}
		}
	}

	entries := make([]*entry, 0, len(byID))
	for _, e := range byID {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })

	contributors := make([]scoring.ContributorRecord, len(entries))
	for i, e := range entries {
		contributors[i] = e.record
	}

	return Result{Contributors: contributors, Warnings: warnings}, nil
}

// parseNumericCell reads one raw metric cell. Empty cells count as zero;
// French exports use comma decimals and non-breaking thousand separators.
func parseNumericCell(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, nil
	}

	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil && strings.Contains(s, ",") && !strings.Contains(s, ".") {
		v, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseTimestampCell(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
