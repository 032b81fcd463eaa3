// Package export renders an engine response as a downloadable table. The
// response is the sole input: no engine call is needed to export.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tealeg/xlsx/v2"

	"github.com/wikijury/wikijury/internal/errors"
	"github.com/wikijury/wikijury/internal/scoring"
)

// columns derives the metric column order from the weight configuration that
// produced the response, so the exported table shows exactly the criteria
// that contributed to the ranking.
func columns(resp scoring.Response) []scoring.Metric {
	return scoring.ActiveMetrics(resp.WeightsUsed)
}

func headerRow(metrics []scoring.Metric) []string {
	header := []string{"Rang", "Utilisateur"}
	for _, metric := range metrics {
		header = append(header, string(metric))
	}
	return append(header, "Bonus", "Score global")
}

func resultRow(r scoring.ScoreResult, metrics []scoring.Metric) []string {
	row := []string{strconv.Itoa(r.Rank), r.ID}
	for _, metric := range metrics {
		row = append(row, formatScore(r.Normalized[metric]))
	}
	return append(row, formatScore(r.Bonus), formatScore(r.Composite))
}

// formatScore renders a score with the fixed precision the jury sees in the
// dashboard, keeping exports stable across runs.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// WriteCSV writes the ranked results as a UTF-8 CSV table.
func WriteCSV(w io.Writer, resp scoring.Response) error {
	metrics := columns(resp)
	writer := csv.NewWriter(w)

	if err := writer.Write(headerRow(metrics)); err != nil {
		return errors.WrapError(err, "export: write header")
	}
	for _, r := range resp.Results {
		if err := writer.Write(resultRow(r, metrics)); err != nil {
			return errors.WrapError(err, "export: write row for %q", r.ID)
		}
	}

	writer.Flush()
	return errors.WrapError(writer.Error(), "export: flush CSV")
}

// WriteXLSX writes the ranked results as a single-sheet XLSX workbook.
func WriteXLSX(w io.Writer, resp scoring.Response) error {
	metrics := columns(resp)

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Classement")
	if err != nil {
		return errors.WrapError(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, name := range headerRow(metrics) {
		header.AddCell().SetString(name)
	}

	for _, r := range resp.Results {
		row := sheet.AddRow()
		row.AddCell().SetInt(r.Rank)
		row.AddCell().SetString(r.ID)
		for _, metric := range metrics {
			row.AddCell().SetFloat(r.Normalized[metric])
		}
		row.AddCell().SetFloat(r.Bonus)
		row.AddCell().SetFloat(r.Composite)
	}

	return errors.WrapError(f.Write(w), "export: write workbook")
}

// Filename returns the download name for an export in the given format.
func Filename(format string) string {
	return fmt.Sprintf("classement_wikijury.%s", format)
}
