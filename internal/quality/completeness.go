package quality

import "github.com/peekknuf/opendataqa/internal/dataset"

// CompletenessMetrics describes missing cells across the dataset.
type CompletenessMetrics struct {
	TotalRows          int          `json:"total_rows"`
	TotalCells         int          `json:"total_cells"`
	TotalNullCells     int          `json:"total_null_cells"`
	CompletenessRatio  float64      `json:"completeness_ratio"`
	NullCountsByColumn Ordered[int] `json:"null_counts_by_column"`
}

// CompletenessCheck is the completeness section of a report.
type CompletenessCheck struct {
	Metrics     CompletenessMetrics `json:"metrics"`
	Validations Ordered[Validation] `json:"validations"`
	Grade       Grade               `json:"grade"`
}

// Completeness measures missing-value rates per column and overall. A
// dataset without cells is complete.
func (a *Analyzer) Completeness(ds *dataset.Dataset) CompletenessCheck {
	rows := ds.Rows()
	totalCells := rows * len(ds.Columns)

	var check CompletenessCheck
	check.Metrics.NullCountsByColumn = Ordered[int]{}
	check.Validations = Ordered[Validation]{}

	totalNulls := 0
	for _, col := range ds.Columns {
		missing := col.MissingCount()
		totalNulls += missing

		check.Metrics.NullCountsByColumn.Set(col.Name, missing)
		check.Validations.Set(col.Name, Validation{
			Success:           missing == 0,
			UnexpectedCount:   missing,
			UnexpectedPercent: percent(round(ratio(missing, rows)*100, 3)),
		})
	}

	completeness := 1.0
	if totalCells > 0 {
		completeness = 1 - float64(totalNulls)/float64(totalCells)
	}

	check.Metrics.TotalRows = rows
	check.Metrics.TotalCells = totalCells
	check.Metrics.TotalNullCells = totalNulls
	check.Metrics.CompletenessRatio = round(completeness, 3)
	check.Grade = a.grader.Grade(completeness)
	return check
}
