package profile

import (
	"encoding/json"
	"math"
)

// ColumnKind is the outcome of column classification
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// NumericStats holds descriptive statistics computed over the cells that
// parsed as numeric literals. StdDev is the sample standard deviation
// (n-1 denominator) and is NaN when only a single value parsed.
type NumericStats struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	StdDev       float64 `json:"std_dev"`
	Q25          float64 `json:"q25"`
	Q75          float64 `json:"q75"`
	Skewness     float64 `json:"skewness"`
	NonNullCount int     `json:"non_null_count"`
}

// MarshalJSON renders undefined statistics as null, which encoding/json
// cannot do for raw NaN values: std dev for a single observation, skewness
// below three, and the quartiles for samples too small to interpolate.
func (n NumericStats) MarshalJSON() ([]byte, error) {
	optional := func(v float64) *float64 {
		if math.IsNaN(v) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		Min          float64  `json:"min"`
		Max          float64  `json:"max"`
		Mean         float64  `json:"mean"`
		Median       float64  `json:"median"`
		StdDev       *float64 `json:"std_dev"`
		Q25          *float64 `json:"q25"`
		Q75          *float64 `json:"q75"`
		Skewness     *float64 `json:"skewness"`
		NonNullCount int      `json:"non_null_count"`
	}{n.Min, n.Max, n.Mean, n.Median, optional(n.StdDev), optional(n.Q25), optional(n.Q75), optional(n.Skewness), n.NonNullCount})
}

// CategoricalStats holds exact-match frequency counts over the non-missing
// raw values. Counts sum to rowCount - MissingCount. Key order in
// ValueCounts carries no meaning; callers must rely only on the counts.
type CategoricalStats struct {
	UniqueCount int            `json:"unique_count"`
	ValueCounts map[string]int `json:"value_counts"`
}

// ColumnProfile is the per-column classification result. Exactly one of
// Numeric or Categorical is set, matching Kind.
type ColumnProfile struct {
	Name         string            `json:"name"`
	Kind         ColumnKind        `json:"kind"`
	MissingCount int               `json:"missing_count"`
	Numeric      *NumericStats     `json:"numeric,omitempty"`
	Categorical  *CategoricalStats `json:"categorical,omitempty"`
}

// AnalysisReport aggregates the per-column profiles for one dataset,
// ordered to match the dataset's column order. Summary is the fixed-format
// human-readable rendering; it is derived once and never mutated.
type AnalysisReport struct {
	RowCount          int             `json:"row_count"`
	ColumnCount       int             `json:"column_count"`
	TotalMissingCells int             `json:"total_missing_cells"`
	MissingPercentage float64         `json:"missing_percentage"`
	Columns           []ColumnProfile `json:"columns"`
	Summary           string          `json:"summary"`
}

// ChartEligible reports whether the column qualifies for automatic chart
// generation: categorical columns below the cardinality cap, numeric
// columns with enough parsed observations.
func (p ColumnProfile) ChartEligible() bool {
	switch p.Kind {
	case KindCategorical:
		return p.Categorical != nil && p.Categorical.UniqueCount > 0 && p.Categorical.UniqueCount < 50
	case KindNumeric:
		return p.Numeric != nil && p.Numeric.NonNullCount > 10
	}
	return false
}

// ChartTitle is the display title used for the column's chart and its slide
func (p ColumnProfile) ChartTitle() string {
	if p.Kind == KindCategorical {
		return "Frequency Distribution of " + p.Name
	}
	return "Distribution of " + p.Name
}
