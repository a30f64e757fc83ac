// Package export re-serializes analyzed datasets for download: the raw
// table back to CSV and the report text as-is.
package export

import (
	"bytes"
	"encoding/csv"
	"io"

	"datalens/domain/dataset"
	"datalens/internal/errors"
)

// WriteCSV streams the dataset back to comma-separated form: the declared
// header row, then every data row in order. Missing cells render as empty
// fields, so a re-parse yields identical row/column counts and identical
// non-missing cell values.
func WriteCSV(w io.Writer, ds *dataset.Dataset) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ds.ColumnNames()); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	for i := 0; i < ds.RowCount(); i++ {
		if err := writer.Write(ds.Row(i)); err != nil {
			return errors.Wrapf(err, "failed to write CSV row %d", i+1)
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "failed to flush CSV output")
}

// CSVBytes renders the dataset to an in-memory CSV buffer
func CSVBytes(ds *dataset.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
