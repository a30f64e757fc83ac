// Package deck builds the downloadable slide presentation: a title slide
// followed by one slide per chart-eligible column carrying the column's
// headline statistics.
package deck

import (
	"bytes"
	"fmt"

	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/presentation"

	"datalens/domain/profile"
	"datalens/internal/errors"
)

// Options carries presentation styling passed explicitly at call time.
// There is no ambient style state; callers that want different text sizes
// hand in their own Options.
type Options struct {
	TitleSize measurement.Distance
	BodySize  measurement.Distance
}

// DefaultOptions returns the standard deck styling
func DefaultOptions() Options {
	return Options{
		TitleSize: 32 * measurement.Point,
		BodySize:  16 * measurement.Point,
	}
}

// Build renders the report into a pptx document in memory. Only
// chart-eligible columns get a slide; an empty report is an error rather
// than an empty deck.
func Build(report *profile.AnalysisReport, opts Options) (*bytes.Buffer, error) {
	eligible := make([]profile.ColumnProfile, 0, len(report.Columns))
	for _, col := range report.Columns {
		if col.ChartEligible() {
			eligible = append(eligible, col)
		}
	}
	if len(eligible) == 0 {
		return nil, errors.InvalidInput("no columns are eligible for slide generation")
	}

	ppt := presentation.New()

	addTitleSlide(ppt, report, opts)
	for _, col := range eligible {
		addColumnSlide(ppt, col, opts)
	}

	var buf bytes.Buffer
	if err := ppt.Save(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to serialize presentation")
	}
	return &buf, nil
}

func addTitleSlide(ppt *presentation.Presentation, report *profile.AnalysisReport, opts Options) {
	slide := ppt.AddSlide()

	title := slide.AddTextBox()
	title.Properties().SetPosition(0.5*measurement.Inch, 2*measurement.Inch)
	title.Properties().SetSize(9*measurement.Inch, 1.25*measurement.Inch)
	run := title.AddParagraph().AddRun()
	run.SetText("Dataset Analysis Report")
	run.Properties().SetSize(opts.TitleSize)
	run.Properties().SetBold(true)

	subtitle := slide.AddTextBox()
	subtitle.Properties().SetPosition(0.5*measurement.Inch, 3.5*measurement.Inch)
	subtitle.Properties().SetSize(9*measurement.Inch, 0.75*measurement.Inch)
	sub := subtitle.AddParagraph().AddRun()
	sub.SetText(fmt.Sprintf("%d rows, %d columns, %.2f%% missing cells",
		report.RowCount, report.ColumnCount, report.MissingPercentage))
	sub.Properties().SetSize(opts.BodySize)
}

func addColumnSlide(ppt *presentation.Presentation, col profile.ColumnProfile, opts Options) {
	slide := ppt.AddSlide()

	title := slide.AddTextBox()
	title.Properties().SetPosition(0.5*measurement.Inch, 0.5*measurement.Inch)
	title.Properties().SetSize(9*measurement.Inch, 0.75*measurement.Inch)
	run := title.AddParagraph().AddRun()
	run.SetText(col.ChartTitle())
	run.Properties().SetSize(opts.TitleSize)
	run.Properties().SetBold(true)

	body := slide.AddTextBox()
	body.Properties().SetPosition(0.75*measurement.Inch, 1.75*measurement.Inch)
	body.Properties().SetSize(8.5*measurement.Inch, 4.5*measurement.Inch)
	for _, line := range columnLines(col) {
		r := body.AddParagraph().AddRun()
		r.SetText(line)
		r.Properties().SetSize(opts.BodySize)
	}
}

// columnLines renders the per-slide statistics bullets
func columnLines(col profile.ColumnProfile) []string {
	if col.Kind == profile.KindNumeric {
		n := col.Numeric
		return []string{
			fmt.Sprintf("Min %.2f, Max %.2f", n.Min, n.Max),
			fmt.Sprintf("Mean %.2f, Median %.2f, Std Dev %.2f", n.Mean, n.Median, n.StdDev),
			fmt.Sprintf("Quartiles: %.2f / %.2f", n.Q25, n.Q75),
			fmt.Sprintf("%d numeric values, %d missing", n.NonNullCount, col.MissingCount),
		}
	}
	c := col.Categorical
	return []string{
		fmt.Sprintf("%d unique values, %d missing", c.UniqueCount, col.MissingCount),
		fmt.Sprintf("Most frequent: %s", topValue(c.ValueCounts)),
	}
}

// topValue names the most frequent raw value, ties broken on the value
func topValue(valueCounts map[string]int) string {
	best := ""
	bestCount := -1
	for value, count := range valueCounts {
		if count > bestCount || (count == bestCount && value < best) {
			best = value
			bestCount = count
		}
	}
	return fmt.Sprintf("%q (%d occurrences)", best, bestCount)
}
