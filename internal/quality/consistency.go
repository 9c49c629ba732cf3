package quality

import (
	"math"

	"github.com/peekknuf/opendataqa/internal/dataset"
	"github.com/peekknuf/opendataqa/internal/profiler"
)

// LengthStats describes the character lengths of a column's values.
type LengthStats struct {
	MinLength  int     `json:"min_length"`
	MaxLength  int     `json:"max_length"`
	MeanLength float64 `json:"mean_length"`
}

// ConsistencyColumn is the value distribution profile of one textual column.
type ConsistencyColumn struct {
	UniqueValuesCount        int                     `json:"unique_values_count"`
	MostCommonValue          string                  `json:"most_common_value"`
	MostCommonValueFrequency int                     `json:"most_common_value_frequency"`
	ValueDistribution        profiler.FrequencyTable `json:"value_distribution"`
	LengthStats              LengthStats             `json:"length_stats"`
	Error                    string                  `json:"error,omitempty"`
}

// ConsistencyCheck is the consistency section of a report.
type ConsistencyCheck struct {
	Metrics     Ordered[ConsistencyColumn] `json:"metrics"`
	Validations Ordered[Validation]        `json:"validations"`
	Grade       Grade                      `json:"grade"`
}

// Consistency profiles textual columns and penalizes every non-identifier
// column whose distinct values nearly match the row count.
func (a *Analyzer) Consistency(ds *dataset.Dataset) ConsistencyCheck {
	check := ConsistencyCheck{
		Metrics:     Ordered[ConsistencyColumn]{},
		Validations: Ordered[Validation]{},
	}

	rows := ds.Rows()
	noisy := 0
	for _, col := range ds.Columns {
		if !col.IsTextual() {
			continue
		}

		var metrics ConsistencyColumn
		err := a.isolate(CategoryConsistency, col.Name, func() {
			metrics = profileConsistency(col)
		})
		if err != nil {
			check.Metrics.Set(col.Name, ConsistencyColumn{Error: err.Error()})
			continue
		}
		check.Metrics.Set(col.Name, metrics)

		uniqueRatio := ratio(metrics.UniqueValuesCount, rows)
		if uniqueRatio > a.cfg.HighCardinalityRatio && !matchesAny(col.Name, a.cfg.IdentifierPatterns) {
			noisy++
		}
	}

	score := 1.0 - a.cfg.Penalties.HighCardinality*float64(noisy)
	check.Validations.Set("value_set_check", Validation{
		Success:         score > a.cfg.ConsistencyPassScore,
		UnexpectedCount: int(math.Round((1 - score) * float64(rows))),
	})
	check.Grade = a.grader.Grade(score)
	return check
}

func profileConsistency(col dataset.Column) ConsistencyColumn {
	counts := profiler.ValueCounts(col)
	top := counts.Top()
	lengths := profiler.Lengths(col)

	if counts == nil {
		counts = profiler.FrequencyTable{}
	}
	return ConsistencyColumn{
		UniqueValuesCount:        len(counts),
		MostCommonValue:          top.Value,
		MostCommonValueFrequency: top.Count,
		ValueDistribution:        counts,
		LengthStats: LengthStats{
			MinLength:  lengths.Min,
			MaxLength:  lengths.Max,
			MeanLength: round(lengths.Mean, 1),
		},
	}
}
