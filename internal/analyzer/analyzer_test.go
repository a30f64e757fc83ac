package analyzer

import (
	"fmt"
	"math"
	"testing"

	"datalens/domain/dataset"
	"datalens/domain/profile"
	"datalens/internal/errors"
)

func TestParse_BasicTable(t *testing.T) {
	ds, err := Parse("a,b\n1,x\n2,y\n3,z\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.RowCount() != 3 {
		t.Errorf("Expected 3 rows, got %d", ds.RowCount())
	}
	if ds.ColumnCount() != 2 {
		t.Errorf("Expected 2 columns, got %d", ds.ColumnCount())
	}
	names := ds.ColumnNames()
	if names[0] != "a" || names[1] != "b" {
		t.Errorf("Unexpected column names: %v", names)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse("")
	if err == nil {
		t.Fatal("Expected ParseError for empty input")
	}
	if !errors.IsParseError(err) {
		t.Errorf("Expected PARSE_ERROR code, got %s", errors.GetCode(err))
	}
}

func TestParse_EmptyHeaderName(t *testing.T) {
	_, err := Parse("a,,c\n1,2,3\n")
	if err == nil {
		t.Fatal("Expected ParseError for empty header name")
	}
	if !errors.IsParseError(err) {
		t.Errorf("Expected PARSE_ERROR code, got %s", errors.GetCode(err))
	}
}

func TestParse_HeaderNamesTrimmed(t *testing.T) {
	ds, err := Parse(" a , b \n1,2\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	names := ds.ColumnNames()
	if names[0] != "a" || names[1] != "b" {
		t.Errorf("Expected trimmed names [a b], got %v", names)
	}
}

func TestParse_DuplicateHeaderNames(t *testing.T) {
	ds, err := Parse("a,a\n1,x\n2,y\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.ColumnCount() != 2 {
		t.Fatalf("Expected 2 positional columns, got %d", ds.ColumnCount())
	}
	// Duplicate names stay distinct positional columns.
	left, _ := ds.Column(0).Cells[0].Text()
	right, _ := ds.Column(1).Cells[0].Text()
	if left != "1" || right != "x" {
		t.Errorf("Positional identity lost: got %q and %q", left, right)
	}
}

func TestParse_ShortRowsPaddedWithMissing(t *testing.T) {
	ds, err := Parse("a,b,c\n1,2\n4,5,6\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.RowCount() != 2 {
		t.Fatalf("Expected 2 rows, got %d", ds.RowCount())
	}
	if !ds.Column(2).Cells[0].IsMissing() {
		t.Error("Expected padded cell to be missing")
	}
	if ds.Column(2).Cells[1].IsMissing() {
		t.Error("Expected complete row cell to be present")
	}
}

func TestParse_LongRowsTruncated(t *testing.T) {
	ds, err := Parse("a,b\n1,2,3,4\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.ColumnCount() != 2 {
		t.Errorf("Expected extra fields to be dropped, got %d columns", ds.ColumnCount())
	}
}

func TestParse_BlankFieldsBecomeMissing(t *testing.T) {
	ds, err := Parse("a\n\n\n\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.RowCount() != 3 {
		t.Fatalf("Expected 3 rows, got %d", ds.RowCount())
	}
	for i, cell := range ds.Column(0).Cells {
		if !cell.IsMissing() {
			t.Errorf("Row %d: expected missing cell", i)
		}
	}
}

func TestParse_InteriorBlankLineIsMissingRow(t *testing.T) {
	ds, err := Parse("a,b\n1,2\n\n3,4\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.RowCount() != 3 {
		t.Fatalf("Expected 3 rows, got %d", ds.RowCount())
	}
	for j := 0; j < ds.ColumnCount(); j++ {
		if !ds.Column(j).Cells[1].IsMissing() {
			t.Errorf("Column %d: expected blank line to read as a missing cell", j)
		}
	}
	if v, _ := ds.Column(0).Cells[2].Text(); v != "3" {
		t.Errorf("Expected row after blank line to survive, got %q", v)
	}
}

func TestParse_CRLFBlankLines(t *testing.T) {
	ds, err := Parse("a\r\n1\r\n\r\n2\r\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.RowCount() != 3 {
		t.Fatalf("Expected 3 rows, got %d", ds.RowCount())
	}
	if !ds.Column(0).Cells[1].IsMissing() {
		t.Error("Expected CRLF blank line to read as a missing cell")
	}
}

func TestParse_EmptyLineInsideQuotedFieldIsNotARow(t *testing.T) {
	ds, err := Parse("a\n\"x\n\ny\"\n1\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.RowCount() != 2 {
		t.Fatalf("Expected 2 rows, got %d", ds.RowCount())
	}
	if v, _ := ds.Column(0).Cells[0].Text(); v != "x\n\ny" {
		t.Errorf("Expected multi-line field preserved, got %q", v)
	}
}

func TestSummarize_TrailingBlankLinesCountAsMissing(t *testing.T) {
	ds, err := Parse("a\n\n\n\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	report := Summarize(ds)
	if report.RowCount != 3 {
		t.Fatalf("Expected 3 rows, got %d", report.RowCount)
	}
	if report.Columns[0].MissingCount != 3 {
		t.Errorf("Expected 3 missing values, got %d", report.Columns[0].MissingCount)
	}
	if report.TotalMissingCells != 3 {
		t.Errorf("Expected 3 total missing cells, got %d", report.TotalMissingCells)
	}
}

func TestClassify_AllNumeric(t *testing.T) {
	cells := []dataset.Cell{
		dataset.NewCell("1"),
		dataset.NewCell("2"),
		dataset.NewCell("3"),
	}
	p := Classify("a", cells)
	if p.Kind != profile.KindNumeric {
		t.Fatalf("Expected numeric, got %s", p.Kind)
	}
	n := p.Numeric
	if n.NonNullCount != 3 {
		t.Errorf("Expected NonNullCount 3, got %d", n.NonNullCount)
	}
	if n.Min != 1 || n.Max != 3 {
		t.Errorf("Expected min=1 max=3, got min=%v max=%v", n.Min, n.Max)
	}
	if n.Mean != 2.0 {
		t.Errorf("Expected mean 2.0, got %v", n.Mean)
	}
	if n.Median != 2.0 {
		t.Errorf("Expected median 2.0, got %v", n.Median)
	}
}

func TestClassify_ScientificNotationAccepted(t *testing.T) {
	cells := []dataset.Cell{
		dataset.NewCell("1e3"),
		dataset.NewCell("-2.5"),
		dataset.NewCell("3.14"),
	}
	p := Classify("a", cells)
	if p.Kind != profile.KindNumeric {
		t.Fatalf("Expected numeric, got %s", p.Kind)
	}
	if p.Numeric.Max != 1000 {
		t.Errorf("Expected max 1000, got %v", p.Numeric.Max)
	}
}

func TestClassify_AllText(t *testing.T) {
	cells := []dataset.Cell{
		dataset.NewCell("x"),
		dataset.NewCell("y"),
		dataset.NewCell("x"),
	}
	p := Classify("b", cells)
	if p.Kind != profile.KindCategorical {
		t.Fatalf("Expected categorical, got %s", p.Kind)
	}
	c := p.Categorical
	if c.UniqueCount != 2 {
		t.Errorf("Expected 2 unique values, got %d", c.UniqueCount)
	}
	if c.ValueCounts["x"] != 2 || c.ValueCounts["y"] != 1 {
		t.Errorf("Unexpected value counts: %v", c.ValueCounts)
	}
}

func TestClassify_ValueCountsAreExactMatch(t *testing.T) {
	cells := []dataset.Cell{
		dataset.NewCell("Yes"),
		dataset.NewCell("yes"),
		dataset.NewCell("yes "),
	}
	p := Classify("b", cells)
	if p.Categorical.UniqueCount != 3 {
		t.Errorf("Expected case- and whitespace-sensitive counting, got %d unique", p.Categorical.UniqueCount)
	}
}

func TestClassify_ThresholdBoundary(t *testing.T) {
	// Exactly 80% numeric must stay categorical: the threshold is strict.
	cells := make([]dataset.Cell, 0, 10)
	for i := 0; i < 8; i++ {
		cells = append(cells, dataset.NewCell(fmt.Sprintf("%d", i)))
	}
	cells = append(cells, dataset.NewCell("foo"), dataset.NewCell("bar"))
	p := Classify("edge", cells)
	if p.Kind != profile.KindCategorical {
		t.Errorf("80%% numeric should be categorical, got %s", p.Kind)
	}

	// 81 of 100 numeric crosses the threshold.
	cells = cells[:0]
	for i := 0; i < 81; i++ {
		cells = append(cells, dataset.NewCell(fmt.Sprintf("%d", i)))
	}
	for i := 0; i < 19; i++ {
		cells = append(cells, dataset.NewCell("text"))
	}
	p = Classify("edge", cells)
	if p.Kind != profile.KindNumeric {
		t.Errorf("81%% numeric should be numeric, got %s", p.Kind)
	}
	if p.Numeric.NonNullCount != 81 {
		t.Errorf("Expected NonNullCount 81, got %d", p.Numeric.NonNullCount)
	}
}

func TestClassify_TwoThirdsNumericIsCategorical(t *testing.T) {
	cells := []dataset.Cell{
		dataset.NewCell("1"),
		dataset.NewCell("2"),
		dataset.NewCell("foo"),
	}
	p := Classify("a", cells)
	if p.Kind != profile.KindCategorical {
		t.Fatalf("2/3 numeric should be categorical, got %s", p.Kind)
	}
	if p.Categorical.UniqueCount != 3 {
		t.Errorf("Expected 3 unique values, got %d", p.Categorical.UniqueCount)
	}
}

func TestClassify_AllMissing(t *testing.T) {
	cells := []dataset.Cell{dataset.Missing, dataset.Missing, dataset.Missing}
	p := Classify("a", cells)
	if p.Kind != profile.KindCategorical {
		t.Fatalf("All-missing column should be categorical, got %s", p.Kind)
	}
	if p.MissingCount != 3 {
		t.Errorf("Expected missing count 3, got %d", p.MissingCount)
	}
	if p.Categorical.UniqueCount != 0 {
		t.Errorf("Expected 0 unique values, got %d", p.Categorical.UniqueCount)
	}
}

func TestClassify_MissingExcludedFromDenominator(t *testing.T) {
	// 5 numeric of 5 non-missing: numeric even though half the column is missing.
	cells := []dataset.Cell{
		dataset.NewCell("1"), dataset.Missing,
		dataset.NewCell("2"), dataset.Missing,
		dataset.NewCell("3"), dataset.Missing,
		dataset.NewCell("4"), dataset.Missing,
		dataset.NewCell("5"), dataset.Missing,
	}
	p := Classify("a", cells)
	if p.Kind != profile.KindNumeric {
		t.Fatalf("Expected numeric, got %s", p.Kind)
	}
	if p.MissingCount != 5 {
		t.Errorf("Expected missing count 5, got %d", p.MissingCount)
	}
	if p.Numeric.NonNullCount != 5 {
		t.Errorf("Expected NonNullCount 5, got %d", p.Numeric.NonNullCount)
	}
}

func TestClassify_SingleValueStdDevIsNaN(t *testing.T) {
	cells := []dataset.Cell{dataset.NewCell("42")}
	p := Classify("a", cells)
	if p.Kind != profile.KindNumeric {
		t.Fatalf("Expected numeric, got %s", p.Kind)
	}
	if !math.IsNaN(p.Numeric.StdDev) {
		t.Errorf("Expected NaN std dev for single observation, got %v", p.Numeric.StdDev)
	}
}

func TestClassify_SampleStandardDeviation(t *testing.T) {
	cells := []dataset.Cell{
		dataset.NewCell("1"),
		dataset.NewCell("2"),
		dataset.NewCell("3"),
		dataset.NewCell("4"),
	}
	p := Classify("a", cells)
	// Sample std dev of 1..4 with n-1 denominator.
	want := math.Sqrt(5.0 / 3.0)
	if math.Abs(p.Numeric.StdDev-want) > 1e-9 {
		t.Errorf("Expected sample std dev %.10f, got %.10f", want, p.Numeric.StdDev)
	}
}

func TestSummarize_Example(t *testing.T) {
	ds, err := Parse("a,b\n1,x\n2,y\n3,z\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	report := Summarize(ds)
	if report.RowCount != 3 || report.ColumnCount != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", report.RowCount, report.ColumnCount)
	}
	if report.TotalMissingCells != 0 {
		t.Errorf("Expected no missing cells, got %d", report.TotalMissingCells)
	}
	a := report.Columns[0]
	if a.Kind != profile.KindNumeric || a.Numeric.Min != 1 || a.Numeric.Max != 3 {
		t.Errorf("Column a misprofiled: %+v", a)
	}
	b := report.Columns[1]
	if b.Kind != profile.KindCategorical || b.Categorical.UniqueCount != 3 {
		t.Errorf("Column b misprofiled: %+v", b)
	}
	for _, count := range b.Categorical.ValueCounts {
		if count != 1 {
			t.Errorf("Expected each value count 1, got %v", b.Categorical.ValueCounts)
		}
	}
}

func TestSummarize_Deterministic(t *testing.T) {
	ds, err := Parse("age,city\n34,Austin\n,Boston\nold,Austin\n51,\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	first := Summarize(ds)
	second := Summarize(ds)
	if first.Summary != second.Summary {
		t.Error("Summary text must be byte-identical across calls")
	}
	if first.MissingPercentage != second.MissingPercentage {
		t.Error("Missing percentage must be stable across calls")
	}
}

func TestSummarize_ZeroRowsNoDivisionByZero(t *testing.T) {
	ds, err := Parse("a,b\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	report := Summarize(ds)
	if report.RowCount != 0 {
		t.Fatalf("Expected 0 rows, got %d", report.RowCount)
	}
	if report.MissingPercentage != 0 {
		t.Errorf("Expected missing percentage 0 for empty dataset, got %v", report.MissingPercentage)
	}
}

func TestSummarize_MissingPercentage(t *testing.T) {
	// 1 missing cell of 4 total.
	ds, err := Parse("a,b\n1,x\n2,\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	report := Summarize(ds)
	if report.TotalMissingCells != 1 {
		t.Fatalf("Expected 1 missing cell, got %d", report.TotalMissingCells)
	}
	if math.Abs(report.MissingPercentage-25.0) > 1e-9 {
		t.Errorf("Expected 25%% missing, got %v", report.MissingPercentage)
	}
}

func TestSummarize_ReportFormat(t *testing.T) {
	ds, err := Parse("a,b\n1,x\n2,y\n3,z\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	report := Summarize(ds)
	want := "The dataset contains 3 rows and 2 columns.\n" +
		"Total missing values across the dataset: 0 (0.00% of all cells).\n\n" +
		"Column Details:\n" +
		"- **a**: Numeric (Min: 1.00, Max: 3.00, Mean: 2.00, Median: 2.00, Std Dev: 1.00, Non-null: 3). Missing: 0 values.\n" +
		"- **b**: Categorical (3 unique values). Missing: 0 values.\n"
	if report.Summary != want {
		t.Errorf("Report format mismatch.\nGot:\n%s\nWant:\n%s", report.Summary, want)
	}
}
