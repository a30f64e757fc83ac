package excel

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"datalens/domain/dataset"
	"datalens/domain/profile"
	"datalens/internal/errors"
)

// maxHistogramBins caps histogram resolution for very large columns
const maxHistogramBins = 20

// WriteChartWorkbook renders the report's chart-eligible columns into an
// xlsx workbook: one sheet per column holding the frequency table and a
// native column chart over it. Categorical columns chart their value
// counts ordered by frequency; numeric columns chart a histogram with
// Sturges binning.
func WriteChartWorkbook(report *profile.AnalysisReport, ds *dataset.Dataset) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	used := map[string]bool{"Sheet1": true}
	charted := 0

	for i, col := range report.Columns {
		if !col.ChartEligible() {
			continue
		}

		labels, counts := chartSeries(col, ds.Column(i))
		if len(labels) == 0 {
			continue
		}

		sheet := sheetName(col.Name, used)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, errors.Wrapf(err, "failed to create sheet for column %q", col.Name)
		}

		if err := writeSeries(f, sheet, col, labels, counts); err != nil {
			return nil, err
		}
		charted++
	}

	if charted == 0 {
		return nil, errors.InvalidInput("no columns are eligible for chart generation")
	}

	// Drop the default empty sheet so the workbook opens on a chart.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, errors.Wrap(err, "failed to remove default sheet")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize chart workbook")
	}
	return buf, nil
}

func writeSeries(f *excelize.File, sheet string, col profile.ColumnProfile, labels []string, counts []float64) error {
	header := col.Name
	if col.Kind == profile.KindNumeric {
		header = col.Name + " bins"
	}
	if err := f.SetCellValue(sheet, "A1", header); err != nil {
		return errors.Wrapf(err, "failed to write sheet %q", sheet)
	}
	if err := f.SetCellValue(sheet, "B1", "Count"); err != nil {
		return errors.Wrapf(err, "failed to write sheet %q", sheet)
	}
	for i := range labels {
		row := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), labels[i]); err != nil {
			return errors.Wrapf(err, "failed to write sheet %q", sheet)
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), counts[i]); err != nil {
			return errors.Wrapf(err, "failed to write sheet %q", sheet)
		}
	}

	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", sheet),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, len(labels)+1),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, len(labels)+1),
		}},
		Title:  []excelize.RichTextRun{{Text: col.ChartTitle()}},
		Legend: excelize.ChartLegend{Position: "none"},
	}
	if err := f.AddChart(sheet, "D2", chart); err != nil {
		return errors.Wrapf(err, "failed to add chart to sheet %q", sheet)
	}
	return nil
}

// chartSeries produces the plotted labels and counts for one column
func chartSeries(col profile.ColumnProfile, data dataset.Column) ([]string, []float64) {
	if col.Kind == profile.KindCategorical {
		return CategoricalBars(col.Categorical.ValueCounts)
	}
	return NumericBins(columnFloats(data))
}

// CategoricalBars orders value counts by descending frequency, breaking
// ties on the raw value so repeated runs chart identically.
func CategoricalBars(valueCounts map[string]int) ([]string, []float64) {
	labels := make([]string, 0, len(valueCounts))
	for value := range valueCounts {
		labels = append(labels, value)
	}
	sort.Slice(labels, func(i, j int) bool {
		if valueCounts[labels[i]] != valueCounts[labels[j]] {
			return valueCounts[labels[i]] > valueCounts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	counts := make([]float64, len(labels))
	for i, label := range labels {
		counts[i] = float64(valueCounts[label])
	}
	return labels, counts
}

// NumericBins buckets the parsed values into a histogram. Bin count
// follows Sturges' rule capped at maxHistogramBins; a constant column
// collapses to a single bin.
func NumericBins(values []float64) ([]string, []float64) {
	if len(values) == 0 {
		return nil, nil
	}

	min := floats.Min(values)
	max := floats.Max(values)

	bins := int(math.Ceil(1 + math.Log2(float64(len(values)))))
	if bins > maxHistogramBins {
		bins = maxHistogramBins
	}
	if bins < 1 || min == max {
		bins = 1
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, min, max)
	// stat.Histogram keeps values strictly below the last divider.
	dividers[bins] = math.Nextafter(max, math.Inf(1))

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	counts := stat.Histogram(nil, dividers, sorted, nil)

	labels := make([]string, bins)
	for i := 0; i < bins; i++ {
		labels[i] = fmt.Sprintf("[%.2f, %.2f)", dividers[i], dividers[i+1])
	}
	return labels, counts
}

// columnFloats extracts the successfully parsed numeric values in order
func columnFloats(col dataset.Column) []float64 {
	var values []float64
	for _, cell := range col.Cells {
		if v, ok := cell.Float(); ok {
			values = append(values, v)
		}
	}
	return values
}

// sheetName makes a column name safe and unique as an xlsx sheet name
func sheetName(name string, used map[string]bool) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if len(cleaned) > 25 {
		cleaned = cleaned[:25]
	}
	if cleaned == "" {
		cleaned = "column"
	}

	candidate := cleaned
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", cleaned, n)
	}
	used[candidate] = true
	return candidate
}
