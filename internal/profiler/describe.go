package profiler

import (
	"math"
	"sort"
	"strconv"

	"github.com/peekknuf/opendataqa/internal/dataset"
)

// ColumnStats represents describe-style statistics for a column
type ColumnStats struct {
	Name      string
	Type      string
	Count     int
	NullCount int
	Mean      float64
	Std       float64
	Min       string
	Q25       float64
	Q50       float64
	Q75       float64
	Max       string
	Unique    int    // For object columns
	Top       string // For object columns
	Freq      int    // For object columns
	MinLength int
	MaxLength int
}

// Describe computes describe-style statistics for every column of a dataset
func Describe(ds *dataset.Dataset) []ColumnStats {
	stats := make([]ColumnStats, len(ds.Columns))
	for i, col := range ds.Columns {
		stats[i] = DescribeColumn(col)
	}
	return stats
}

// DescribeColumn computes describe-style statistics for a single column
func DescribeColumn(col dataset.Column) ColumnStats {
	nulls := col.MissingCount()
	stats := ColumnStats{
		Name:      col.Name,
		Type:      col.Type(),
		Count:     col.Len() - nulls,
		NullCount: nulls,
	}

	if col.IsNumeric() {
		if summary, ok := Numeric(col); ok {
			stats.Mean = summary.Mean
			stats.Std = summary.Std
			stats.Min = strconv.FormatFloat(summary.Min, 'g', 6, 64)
			stats.Max = strconv.FormatFloat(summary.Max, 'g', 6, 64)

			values := numericValues(col)
			sort.Float64s(values)
			stats.Q25 = calculateQuantile(values, 0.25)
			stats.Q50 = calculateQuantile(values, 0.50)
			stats.Q75 = calculateQuantile(values, 0.75)
		}
		return stats
	}

	counts := ValueCounts(col)
	top := counts.Top()
	stats.Unique = len(counts)
	stats.Top = top.Value
	stats.Freq = top.Count

	lengths := Lengths(col)
	stats.MinLength = lengths.Min
	stats.MaxLength = lengths.Max

	// For object columns, use the lexical first/last values for min/max display
	if len(counts) > 0 {
		keys := make([]string, len(counts))
		for i, vc := range counts {
			keys[i] = vc.Value
		}
		sort.Strings(keys)
		stats.Min = keys[0]
		stats.Max = keys[len(keys)-1]
	}

	return stats
}

func numericValues(col dataset.Column) []float64 {
	values := make([]float64, 0, col.Len())
	for _, cell := range col.Cells {
		if cell.IsNumeric() {
			values = append(values, cell.Num)
		}
	}
	return values
}

// calculateQuantile calculates the quantile from sorted values using linear
// interpolation between the closest ranks
func calculateQuantile(sortedVals []float64, quantile float64) float64 {
	if len(sortedVals) == 0 {
		return 0
	}

	if len(sortedVals) == 1 {
		return sortedVals[0]
	}

	index := quantile * float64(len(sortedVals)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sortedVals[lower]
	}

	weight := index - float64(lower)
	return sortedVals[lower]*(1-weight) + sortedVals[upper]*weight
}
