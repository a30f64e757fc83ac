package analyzer

import (
	"math"

	"datalens/domain/dataset"
	"datalens/domain/profile"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// numericThreshold is the classification heuristic: a column is numeric
// when strictly more than 80% of its non-missing values parse as numeric
// literals. Columns with a few stray tokens ("N/A", typos) stay numeric;
// fundamentally textual columns are not flipped by a handful of
// numeric-looking values.
const numericThreshold = 0.8

// Classify profiles a single column. Missing cells are counted first and
// excluded from the threshold denominator; a column with no non-missing
// values is categorical with zero unique values.
func Classify(name string, cells []dataset.Cell) profile.ColumnProfile {
	missing := 0
	var numeric []float64
	var tokens []string

	for _, cell := range cells {
		if cell.IsMissing() {
			missing++
			continue
		}
		text, _ := cell.Text()
		tokens = append(tokens, text)
		if v, ok := cell.Float(); ok {
			numeric = append(numeric, v)
		}
	}

	p := profile.ColumnProfile{
		Name:         name,
		MissingCount: missing,
	}

	denom := len(cells) - missing
	if denom > 0 && float64(len(numeric))/float64(denom) > numericThreshold {
		p.Kind = profile.KindNumeric
		p.Numeric = describeNumeric(numeric)
		return p
	}

	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	p.Kind = profile.KindCategorical
	p.Categorical = &profile.CategoricalStats{
		UniqueCount: len(counts),
		ValueCounts: counts,
	}
	return p
}

// describeNumeric computes descriptive statistics over exactly the values
// that parsed as numeric. Undefined statistics are NaN, not errors: sample
// standard deviation (n-1 denominator) below two observations, skewness
// below three, and the quartiles when the sample is too small for
// stats.Percentile to interpolate.
func describeNumeric(values []float64) *profile.NumericStats {
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	q25, _ := stats.Percentile(values, 25)
	q75, _ := stats.Percentile(values, 75)

	stdDev := math.NaN()
	if len(values) > 1 {
		stdDev, _ = stats.StandardDeviationSample(values)
	}

	skew := math.NaN()
	if len(values) > 2 {
		skew = stat.Skew(values, nil)
	}

	return &profile.NumericStats{
		Min:          min,
		Max:          max,
		Mean:         mean,
		Median:       median,
		StdDev:       stdDev,
		Q25:          q25,
		Q75:          q75,
		Skewness:     skew,
		NonNullCount: len(values),
	}
}
