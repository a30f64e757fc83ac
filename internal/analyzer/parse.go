// Package analyzer implements the dataset summary pipeline: CSV parsing,
// per-column classification under the 80% numeric heuristic, and the
// aggregate report with its fixed-format text rendering.
package analyzer

import (
	"encoding/csv"
	"io"
	"strings"

	"datalens/domain/dataset"
	"datalens/internal/errors"
)

// Parse tokenizes raw comma-separated text into a Dataset. The first line
// declares the column names; names are trimmed and must be non-empty.
// Duplicate names are permitted and kept as distinct positional columns.
//
// Ragged-row policy: rows shorter than the header are padded with the
// missing sentinel, rows longer than the header are truncated to the
// header width. Blank fields become the missing sentinel; all other
// tokens are kept verbatim. A blank line after the header is a data row
// whose cells are all missing, not a gap in the table.
func Parse(raw string) (*dataset.Dataset, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.ParseError("input is empty")
	}
	if err != nil {
		return nil, errors.ParseErrorf("input is not well-formed delimited text: %v", err)
	}

	names := make([]string, len(header))
	for i, name := range header {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, errors.ParseErrorf("column %d has an empty name", i+1)
		}
		names[i] = trimmed
	}

	columns := make([]dataset.Column, len(names))
	for i, name := range names {
		columns[i] = dataset.Column{Name: name}
	}

	rows := 0
	emitMissingRows := func(n int) {
		for ; n > 0; n-- {
			for i := range columns {
				columns[i].Cells = append(columns[i].Cells, dataset.Missing)
			}
			rows++
		}
	}

	// csv.Reader silently drops blank lines, so the input consumed between
	// two records is inspected for them and each becomes an all-missing row.
	offset := reader.InputOffset()
	for {
		record, err := reader.Read()
		if err == io.EOF {
			emitMissingRows(leadingBlankLines(raw[offset:]))
			break
		}
		if err != nil {
			return nil, errors.ParseErrorf("input is not well-formed delimited text at row %d: %v", rows+2, err)
		}
		emitMissingRows(leadingBlankLines(raw[offset:reader.InputOffset()]))
		offset = reader.InputOffset()
		for i := range columns {
			cell := dataset.Missing
			if i < len(record) && record[i] != "" {
				cell = dataset.NewCell(record[i])
			}
			columns[i].Cells = append(columns[i].Cells, cell)
		}
		rows++
	}

	ds, err := dataset.New(columns, rows)
	if err != nil {
		return nil, errors.ParseErrorf("parsed table is not rectangular: %v", err)
	}
	return ds, nil
}

// leadingBlankLines counts the empty lines at the start of s. Only fully
// consumed lines count; record text following them is never inspected, so
// empty lines inside a quoted field are not miscounted as rows.
func leadingBlankLines(s string) int {
	n := 0
	for {
		line, rest, found := strings.Cut(s, "\n")
		if !found || strings.TrimRight(line, "\r") != "" {
			return n
		}
		n++
		s = rest
	}
}
