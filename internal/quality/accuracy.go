package quality

import (
	"math"

	"github.com/peekknuf/opendataqa/internal/dataset"
	"github.com/peekknuf/opendataqa/internal/profiler"
)

// AccuracyColumn is the type and distribution profile of one column.
type AccuracyColumn struct {
	DataType          string   `json:"data_type"`
	UniqueValuesCount int      `json:"unique_values_count"`
	Min               *float64 `json:"min,omitempty"`
	Max               *float64 `json:"max,omitempty"`
	Mean              *float64 `json:"mean,omitempty"`
	Std               *float64 `json:"std,omitempty"`
	PatternMatchRate  *float64 `json:"pattern_match_rate,omitempty"`
	MixedTypes        bool     `json:"mixed_types,omitempty"`
	Error             string   `json:"error,omitempty"`
}

// AccuracyCheck is the accuracy section of a report.
type AccuracyCheck struct {
	Metrics     Ordered[AccuracyColumn] `json:"metrics"`
	Validations Ordered[Validation]     `json:"validations"`
	Grade       Grade                   `json:"grade"`
}

// Accuracy profiles each column's type and distribution and penalizes
// textual columns whose values mix primitive kinds. The score is not
// clamped and can drop below zero on wide, messy datasets.
func (a *Analyzer) Accuracy(ds *dataset.Dataset) AccuracyCheck {
	check := AccuracyCheck{
		Metrics:     Ordered[AccuracyColumn]{},
		Validations: Ordered[Validation]{},
	}

	mixed := 0
	for _, col := range ds.Columns {
		var metrics AccuracyColumn
		err := a.isolate(CategoryAccuracy, col.Name, func() {
			metrics = a.profileAccuracy(col)
		})
		if err != nil {
			metrics = AccuracyColumn{Error: err.Error()}
		} else if metrics.MixedTypes {
			mixed++
		}
		check.Metrics.Set(col.Name, metrics)
	}

	score := 1.0 - a.cfg.Penalties.MixedType*float64(mixed)
	check.Validations.Set("data_type_check", Validation{
		Success:         score > a.cfg.AccuracyPassScore,
		UnexpectedCount: int(math.Round((1 - score) * float64(ds.Rows()))),
	})
	check.Grade = a.grader.Grade(score)
	return check
}

func (a *Analyzer) profileAccuracy(col dataset.Column) AccuracyColumn {
	metrics := AccuracyColumn{
		DataType:          col.Type(),
		UniqueValuesCount: len(profiler.ValueCounts(col)),
	}

	switch {
	case col.IsNumeric():
		if summary, ok := profiler.Numeric(col); ok {
			lo, hi := summary.Min, summary.Max
			mean, std := round(summary.Mean, 3), round(summary.Std, 3)
			metrics.Min, metrics.Max = &lo, &hi
			metrics.Mean, metrics.Std = &mean, &std
		}
	case col.IsTextual():
		metrics.MixedTypes = len(col.Primitives()) > 1
		if matchesAny(col.Name, a.cfg.EmailPatterns) {
			rate := round(a.patternMatchRate(col), 3)
			metrics.PatternMatchRate = &rate
		}
	}
	return metrics
}

// patternMatchRate is the share of non-missing values that look like an
// email address. Missing values are left out of the denominator; values
// that are not text never match.
func (a *Analyzer) patternMatchRate(col dataset.Column) float64 {
	present, matched := 0, 0
	for _, cell := range col.Cells {
		if cell.IsMissing() {
			continue
		}
		present++
		if cell.Kind == dataset.KindText && a.email.MatchString(cell.Raw) {
			matched++
		}
	}
	return ratio(matched, present)
}
