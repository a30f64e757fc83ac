package analyzer

import (
	"fmt"
	"strings"

	"datalens/domain/dataset"
	"datalens/domain/profile"
)

// Summarize derives the full AnalysisReport for a dataset. It is a pure
// function of its input: classification runs over every column in declared
// order, missing cells are totalled, and the text rendering is rebuilt
// from scratch, so repeated calls yield byte-identical output.
func Summarize(ds *dataset.Dataset) *profile.AnalysisReport {
	report := &profile.AnalysisReport{
		RowCount:    ds.RowCount(),
		ColumnCount: ds.ColumnCount(),
		Columns:     make([]profile.ColumnProfile, 0, ds.ColumnCount()),
	}

	for _, col := range ds.Columns() {
		p := Classify(col.Name, col.Cells)
		report.TotalMissingCells += p.MissingCount
		report.Columns = append(report.Columns, p)
	}

	if cells := report.RowCount * report.ColumnCount; cells > 0 {
		report.MissingPercentage = float64(report.TotalMissingCells) / float64(cells) * 100
	}

	report.Summary = renderSummary(report)
	return report
}

// renderSummary produces the fixed-format multi-line report: global counts,
// the missing percentage to two decimals, then one bullet per column with
// its type-specific statistics to two decimals.
func renderSummary(report *profile.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The dataset contains %d rows and %d columns.\n", report.RowCount, report.ColumnCount)
	fmt.Fprintf(&b, "Total missing values across the dataset: %d (%.2f%% of all cells).\n\n", report.TotalMissingCells, report.MissingPercentage)
	b.WriteString("Column Details:\n")

	for _, col := range report.Columns {
		fmt.Fprintf(&b, "- **%s**: ", col.Name)
		switch col.Kind {
		case profile.KindNumeric:
			n := col.Numeric
			fmt.Fprintf(&b, "Numeric (Min: %.2f, Max: %.2f, Mean: %.2f, Median: %.2f, Std Dev: %.2f, Non-null: %d). Missing: %d values.\n",
				n.Min, n.Max, n.Mean, n.Median, n.StdDev, n.NonNullCount, col.MissingCount)
		case profile.KindCategorical:
			fmt.Fprintf(&b, "Categorical (%d unique values). Missing: %d values.\n",
				col.Categorical.UniqueCount, col.MissingCount)
		}
	}

	return b.String()
}
