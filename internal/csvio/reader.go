// Package csvio reads review exports (CSV or XLSX) and writes the
// fixed-schema enrichment output.
package csvio

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
)

// Exports come from different scrapers with inconsistent headers. Each
// canonical field lists the normalized header names that may carry it.
var headerAliases = map[string][]string{
	"display_name": {"display_name", "raw_display_name", "name", "reviewer", "consumer_name"},
	"city":         {"city", "consumer_city"},
	"state":        {"state", "consumer_state", "state_region"},
	"region":       {"region", "location", "consumer_location"},
	"review_url":   {"review_url", "url", "source_review_url"},
	"review_date":  {"review_date", "date"},
	"rating":       {"rating", "stars", "review_rating"},
}

// ReadFile loads input rows from path, dispatching on file extension.
// .xlsx is read as a spreadsheet, everything else as CSV.
func ReadFile(ctx context.Context, path string) ([]model.SourceRow, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "csvio: open input")
	}
	defer f.Close()

	return ReadCSV(ctx, f)
}

// ReadCSV parses review rows from r. The first record is the header.
func ReadCSV(ctx context.Context, r io.Reader) ([]model.SourceRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("csvio: input is empty")
	}
	if err != nil {
		return nil, eris.Wrap(err, "csvio: read header")
	}

	idx, err := resolveHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []model.SourceRow
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "csvio: context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "csvio: read row")
		}

		row := recordToRow(record, idx)
		if row.DisplayName == "" {
			zap.L().Debug("skipping row with empty display name")
			continue
		}
		rows = append(rows, row)
	}
}

func readXLSX(path string) ([]model.SourceRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "csvio: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("csvio: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("csvio: input is empty")
	}

	idx, err := resolveHeader(rowToStrings(sheet.Rows[0]))
	if err != nil {
		return nil, err
	}

	var rows []model.SourceRow
	for _, xr := range sheet.Rows[1:] {
		row := recordToRow(rowToStrings(xr), idx)
		if row.DisplayName == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// resolveHeader maps canonical field names to column positions. Header
// cells are normalized to lowercase with underscores before alias lookup.
func resolveHeader(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, cell := range header {
		norm := strings.ToLower(strings.TrimSpace(cell))
		norm = strings.ReplaceAll(norm, " ", "_")
		norm = strings.ReplaceAll(norm, "-", "_")
		if _, seen := positions[norm]; !seen {
			positions[norm] = i
		}
	}

	idx := make(map[string]int)
	for field, aliases := range headerAliases {
		for _, alias := range aliases {
			if pos, ok := positions[alias]; ok {
				idx[field] = pos
				break
			}
		}
	}

	if _, ok := idx["display_name"]; !ok {
		return nil, eris.Errorf("csvio: no display-name column found (header: %s)", strings.Join(header, ", "))
	}
	return idx, nil
}

func recordToRow(record []string, idx map[string]int) model.SourceRow {
	field := func(name string) string {
		pos, ok := idx[name]
		if !ok || pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[pos])
	}

	return model.SourceRow{
		DisplayName: field("display_name"),
		City:        field("city"),
		State:       field("state"),
		Region:      field("region"),
		ReviewURL:   field("review_url"),
		ReviewDate:  field("review_date"),
		Rating:      field("rating"),
	}
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
