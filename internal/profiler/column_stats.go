package profiler

import (
	"math"
	"unicode/utf8"

	"github.com/peekknuf/opendataqa/internal/dataset"
)

// NumericSummary holds distribution statistics of the numeric cells of a column.
type NumericSummary struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
	Std   float64
}

// Numeric summarizes the numeric cells of a column. It returns false when
// the column has no numeric cells.
func Numeric(col dataset.Column) (NumericSummary, bool) {
	summary := NumericSummary{
		Min: math.MaxFloat64,
		Max: -math.MaxFloat64,
	}

	var sum float64
	for _, cell := range col.Cells {
		if !cell.IsNumeric() {
			continue
		}
		summary.Count++
		sum += cell.Num
		if cell.Num < summary.Min {
			summary.Min = cell.Num
		}
		if cell.Num > summary.Max {
			summary.Max = cell.Num
		}
	}
	if summary.Count == 0 {
		return NumericSummary{}, false
	}

	summary.Mean = sum / float64(summary.Count)

	// Sample standard deviation; a single value has no spread.
	if summary.Count > 1 {
		var sq float64
		for _, cell := range col.Cells {
			if !cell.IsNumeric() {
				continue
			}
			d := cell.Num - summary.Mean
			sq += d * d
		}
		summary.Std = math.Sqrt(sq / float64(summary.Count-1))
	}

	return summary, true
}

// LengthSummary holds character length statistics of the non-missing cells.
type LengthSummary struct {
	Min  int
	Max  int
	Mean float64
}

// Lengths computes character lengths of the non-missing cells of a column.
// A column without values yields the zero summary.
func Lengths(col dataset.Column) LengthSummary {
	var summary LengthSummary
	count, total := 0, 0
	for _, cell := range col.Cells {
		if cell.IsMissing() {
			continue
		}
		n := utf8.RuneCountInString(cell.Raw)
		if count == 0 || n < summary.Min {
			summary.Min = n
		}
		if n > summary.Max {
			summary.Max = n
		}
		total += n
		count++
	}
	if count > 0 {
		summary.Mean = float64(total) / float64(count)
	}
	return summary
}
