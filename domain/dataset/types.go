package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is a single tabular value prior to classification. A cell is either
// missing or carries the raw text token from the source file. Numeric
// interpretation is an explicit, fallible conversion (see Float), never an
// implicit coercion.
type Cell struct {
	text    string
	present bool
}

// Missing is the sentinel for an absent cell. It is distinct from a cell
// holding the empty-string token: parsers map blank fields to Missing.
var Missing = Cell{}

// NewCell creates a present cell holding the raw token
func NewCell(text string) Cell {
	return Cell{text: text, present: true}
}

// IsMissing reports whether the cell has no recorded content
func (c Cell) IsMissing() bool {
	return !c.present
}

// Text returns the raw token and whether the cell is present
func (c Cell) Text() (string, bool) {
	return c.text, c.present
}

// Float attempts to interpret the cell as a numeric literal. Standard
// decimal, integer and scientific-notation forms are accepted; anything
// else (free text, mixed alphanumeric, missing) fails.
func (c Cell) Float() (float64, bool) {
	if !c.present {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.text), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// String renders the cell for re-export; missing cells render empty
func (c Cell) String() string {
	if !c.present {
		return ""
	}
	return c.text
}

// Column is an ordered sequence of cells for one declared column
type Column struct {
	Name  string `json:"name"`
	Cells []Cell `json:"-"`
}

// Dataset is the parsed tabular input: an ordered set of columns, each
// holding exactly RowCount cells. Constructed once per upload and immutable
// thereafter; columns are positional, so duplicate header names are allowed.
type Dataset struct {
	columns []Column
	rows    int
}

// New builds a Dataset from ordered columns, validating the rectangle
// invariant: every column must carry exactly rows cells.
func New(columns []Column, rows int) (*Dataset, error) {
	for _, col := range columns {
		if strings.TrimSpace(col.Name) == "" {
			return nil, fmt.Errorf("column name cannot be empty")
		}
		if len(col.Cells) != rows {
			return nil, fmt.Errorf("column %q has %d cells, expected %d", col.Name, len(col.Cells), rows)
		}
	}
	return &Dataset{columns: columns, rows: rows}, nil
}

// RowCount returns the number of data rows
func (d *Dataset) RowCount() int {
	return d.rows
}

// ColumnCount returns the number of declared columns
func (d *Dataset) ColumnCount() int {
	return len(d.columns)
}

// ColumnNames returns the declared column names in order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// Columns returns the ordered columns
func (d *Dataset) Columns() []Column {
	return d.columns
}

// Column returns the column at the given position
func (d *Dataset) Column(i int) Column {
	return d.columns[i]
}

// Row materializes row i as raw tokens in column order, missing cells as ""
func (d *Dataset) Row(i int) []string {
	row := make([]string, len(d.columns))
	for j, col := range d.columns {
		row[j] = col.Cells[i].String()
	}
	return row
}
