package quality

import (
	"github.com/peekknuf/opendataqa/internal/dataset"
	"github.com/peekknuf/opendataqa/internal/profiler"
)

// UniquenessColumn describes duplicated values in one column.
type UniquenessColumn struct {
	UniqueCount      int                     `json:"unique_count"`
	DuplicateCount   int                     `json:"duplicate_count"`
	DuplicationRatio float64                 `json:"duplication_ratio"`
	DuplicateValues  profiler.FrequencyTable `json:"duplicate_values"`
	Error            string                  `json:"error,omitempty"`
}

// UniquenessCheck is the uniqueness section of a report.
type UniquenessCheck struct {
	Metrics     Ordered[UniquenessColumn] `json:"metrics"`
	Validations Ordered[Validation]       `json:"validations"`
	Grade       Grade                     `json:"grade"`
}

// Uniqueness measures duplication per column. The score is driven by the
// single worst column: 1 minus the highest duplication ratio.
func (a *Analyzer) Uniqueness(ds *dataset.Dataset) UniquenessCheck {
	check := UniquenessCheck{
		Metrics:     Ordered[UniquenessColumn]{},
		Validations: Ordered[Validation]{},
	}

	rows := ds.Rows()
	worst := 0.0
	for _, col := range ds.Columns {
		var metrics UniquenessColumn
		err := a.isolate(CategoryUniqueness, col.Name, func() {
			metrics = profileUniqueness(col, rows)
		})
		if err != nil {
			check.Metrics.Set(col.Name, UniquenessColumn{Error: err.Error()})
			continue
		}

		check.Metrics.Set(col.Name, metrics)
		check.Validations.Set(col.Name+"_uniqueness", Validation{
			Success:           metrics.DuplicateCount == 0,
			UnexpectedCount:   metrics.DuplicateCount,
			UnexpectedPercent: percent(round(metrics.DuplicationRatio*100, 3)),
		})
		if metrics.DuplicationRatio > worst {
			worst = metrics.DuplicationRatio
		}
	}

	check.Grade = a.grader.Grade(1 - worst)
	return check
}

func profileUniqueness(col dataset.Column, rows int) UniquenessColumn {
	counts := profiler.ValueCounts(col)
	duplicates := counts.Repeated()
	return UniquenessColumn{
		UniqueCount:      len(counts),
		DuplicateCount:   len(duplicates),
		DuplicationRatio: round(ratio(len(duplicates), rows), 3),
		DuplicateValues:  duplicates,
	}
}
