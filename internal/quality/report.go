package quality

import (
	"fmt"
	"sync"
	"time"

	"github.com/peekknuf/opendataqa/internal/dataset"
)

// Metadata identifies the dataset a report was generated for.
type Metadata struct {
	Filename        string    `json:"filename"`
	Timestamp       time.Time `json:"timestamp"`
	TotalRows       int       `json:"total_rows"`
	TotalColumns    int       `json:"total_columns"`
	Columns         []string  `json:"columns"`
	AnalysisVersion string    `json:"analysis_version"`
}

// QualityChecks groups the four independent checks.
type QualityChecks struct {
	Completeness CompletenessCheck `json:"completeness"`
	Accuracy     AccuracyCheck     `json:"accuracy"`
	Consistency  ConsistencyCheck  `json:"consistency"`
	Uniqueness   UniquenessCheck   `json:"uniqueness"`
}

// CategoryScores holds the grade score of every check.
type CategoryScores struct {
	Completeness float64 `json:"completeness"`
	Accuracy     float64 `json:"accuracy"`
	Consistency  float64 `json:"consistency"`
	Uniqueness   float64 `json:"uniqueness"`
}

// Get returns the score of a category by name.
func (s CategoryScores) Get(category string) (float64, bool) {
	switch category {
	case CategoryCompleteness:
		return s.Completeness, true
	case CategoryAccuracy:
		return s.Accuracy, true
	case CategoryConsistency:
		return s.Consistency, true
	case CategoryUniqueness:
		return s.Uniqueness, true
	}
	return 0, false
}

// Recommendation is an actionable finding derived from category scores.
type Recommendation struct {
	Category   string `json:"category"`
	Issue      string `json:"issue"`
	Impact     string `json:"impact"`
	Suggestion string `json:"suggestion"`
}

// OverallQuality aggregates the four checks.
type OverallQuality struct {
	Score           float64          `json:"score"`
	Grade           string           `json:"grade"`
	Interpretation  string           `json:"interpretation"`
	ThresholdMet    bool             `json:"threshold_met"`
	CategoryScores  CategoryScores   `json:"category_scores"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Thresholds documents the grading policy the report was scored with.
type Thresholds struct {
	Grades         Ordered[GradeBand] `json:"grades"`
	CriticalChecks CriticalChecks     `json:"critical_checks"`
}

// Report is the complete quality report of one dataset.
type Report struct {
	Metadata       Metadata       `json:"metadata"`
	QualityChecks  QualityChecks  `json:"quality_checks"`
	OverallQuality OverallQuality `json:"overall_quality"`
	Thresholds     Thresholds     `json:"thresholds"`
}

// GenerateReport runs the four checks over ds and aggregates them. The
// checks run concurrently; none of them mutates the dataset.
func (a *Analyzer) GenerateReport(ds *dataset.Dataset) (*Report, error) {
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	var checks QualityChecks
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		checks.Completeness = a.Completeness(ds)
	}()
	go func() {
		defer wg.Done()
		checks.Accuracy = a.Accuracy(ds)
	}()
	go func() {
		defer wg.Done()
		checks.Consistency = a.Consistency(ds)
	}()
	go func() {
		defer wg.Done()
		checks.Uniqueness = a.Uniqueness(ds)
	}()
	wg.Wait()

	scores := CategoryScores{
		Completeness: checks.Completeness.Grade.Score,
		Accuracy:     checks.Accuracy.Grade.Score,
		Consistency:  checks.Consistency.Grade.Score,
		Uniqueness:   checks.Uniqueness.Grade.Score,
	}
	overall := a.grader.Grade((scores.Completeness + scores.Accuracy + scores.Consistency + scores.Uniqueness) / 4)

	report := &Report{
		Metadata: Metadata{
			Filename:        ds.Source,
			Timestamp:       a.clock.Now(),
			TotalRows:       ds.Rows(),
			TotalColumns:    len(ds.Columns),
			Columns:         ds.Names(),
			AnalysisVersion: a.cfg.AnalysisVersion,
		},
		QualityChecks: checks,
		OverallQuality: OverallQuality{
			Score:           overall.Score,
			Grade:           overall.Interpretation,
			Interpretation:  overall.Interpretation,
			ThresholdMet:    overall.ThresholdMet,
			CategoryScores:  scores,
			Recommendations: a.recommend(scores),
		},
		Thresholds: a.thresholds(),
	}
	return report, nil
}

// recommend evaluates every rule independently; several can fire at once.
func (a *Analyzer) recommend(scores CategoryScores) []Recommendation {
	recommendations := []Recommendation{}
	for _, rule := range a.cfg.Recommendations {
		score, ok := scores.Get(rule.Category)
		if !ok || score >= rule.Below {
			continue
		}
		recommendations = append(recommendations, Recommendation{
			Category:   rule.Category,
			Issue:      rule.Issue,
			Impact:     rule.Impact,
			Suggestion: rule.Suggestion,
		})
	}
	return recommendations
}

func (a *Analyzer) thresholds() Thresholds {
	grades := Ordered[GradeBand]{}
	for _, band := range a.cfg.Grades {
		grades.Set(band.Letter, band)
	}
	return Thresholds{
		Grades:         grades,
		CriticalChecks: a.cfg.CriticalChecks,
	}
}
