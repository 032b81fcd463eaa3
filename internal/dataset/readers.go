package dataset

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx/v2"

	"github.com/wikijury/wikijury/internal/errors"
)

// Parse reads an uploaded contribution table, dispatching on the file
// extension. CSV and XLSX are supported; the legacy binary XLS format is
// rejected with a hint to convert.
func Parse(filename string, r io.Reader) (Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	case ".xls":
		return Result{}, errors.NewValidationError(
			"legacy .xls format is not supported, convert the file to .xlsx or .csv")
	default:
		return Result{}, errors.NewValidationError(
			"unsupported file type, upload a .csv or .xlsx table")
	}
}

// ParseCSV reads a CSV contribution table: one header row naming the columns,
// one row per contributor.
func ParseCSV(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows tolerated, short rows read as zero
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, errors.NewValidationError("malformed CSV file", err.Error())
	}
	if len(records) == 0 {
		return Result{}, errors.NewEmptyDatasetError()
	}

	return fromRows(records[0], records[1:])
}

// ParseXLSX reads the first sheet of an XLSX workbook the same way ParseCSV
// reads a CSV file.
func ParseXLSX(r io.Reader) (Result, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return Result{}, errors.NewInternalError("failed to read uploaded file", err)
	}

	f, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		return Result{}, errors.NewValidationError("malformed XLSX file", err.Error())
	}
	if len(f.Sheets) == 0 {
		return Result{}, errors.NewEmptyDatasetError()
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return Result{}, errors.NewEmptyDatasetError()
	}

	return fromRows(rows[0], rows[1:])
}
