package csvio

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/enrich-cli/internal/model"
)

// WriteRows renders rows to w in the fixed output schema, header first.
func WriteRows(w io.Writer, rows []model.OutputRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(model.OutputColumns); err != nil {
		return eris.Wrap(err, "csvio: write header")
	}
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return eris.Wrap(err, "csvio: write row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return eris.Wrap(err, "csvio: flush output")
	}
	return nil
}

// WriteFile writes rows to a CSV file at path, replacing any existing file.
func WriteFile(path string, rows []model.OutputRow) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "csvio: create output")
	}

	if err := WriteRows(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "csvio: close output")
	}
	return nil
}
