// Package excel adapts excelize for the analyzer: reading uploaded
// workbooks into the shared Dataset form and writing chart workbooks from
// finished reports.
package excel

import (
	"bytes"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"datalens/domain/dataset"
	"datalens/internal/errors"
)

// ReadDataset parses an uploaded xlsx workbook into a Dataset. The first
// sheet is used; its first row declares the column names. The cell policy
// matches the CSV parser: names trimmed and non-empty, blank cells become
// the missing sentinel, short rows are padded and long rows truncated.
func ReadDataset(r io.Reader) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.ParseErrorf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseError("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.ParseErrorf("failed to read sheet %q: %v", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, errors.ParseError("workbook is empty")
	}

	header := rows[0]
	columns := make([]dataset.Column, len(header))
	for i, name := range header {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, errors.ParseErrorf("column %d has an empty name", i+1)
		}
		columns[i] = dataset.Column{Name: trimmed}
	}

	for _, record := range rows[1:] {
		for i := range columns {
			cell := dataset.Missing
			if i < len(record) && record[i] != "" {
				cell = dataset.NewCell(record[i])
			}
			columns[i].Cells = append(columns[i].Cells, cell)
		}
	}

	ds, err := dataset.New(columns, len(rows)-1)
	if err != nil {
		return nil, errors.ParseErrorf("parsed sheet is not rectangular: %v", err)
	}
	return ds, nil
}

// ReadDatasetBytes is ReadDataset over an in-memory workbook
func ReadDatasetBytes(data []byte) (*dataset.Dataset, error) {
	return ReadDataset(bytes.NewReader(data))
}
