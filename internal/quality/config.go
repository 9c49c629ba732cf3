package quality

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Grade interpretations, best to worst.
const (
	Excellent = "Excellent"
	Good      = "Good"
	Fair      = "Fair"
	Poor      = "Poor"
	Failed    = "Failed"
)

// Categories of the four quality checks.
const (
	CategoryCompleteness = "completeness"
	CategoryAccuracy     = "accuracy"
	CategoryConsistency  = "consistency"
	CategoryUniqueness   = "uniqueness"
)

// DefaultEmailPattern is the shape local@domain.tld checked in email columns.
const DefaultEmailPattern = `^[\w.-]+@[\w.-]+\.\w+$`

// GradeBand maps scores at or above Min to an interpretation.
type GradeBand struct {
	Letter         string  `yaml:"letter" json:"-"`
	Min            float64 `yaml:"min" json:"min"`
	Interpretation string  `yaml:"interpretation" json:"interpretation"`
}

// Penalties are the flat deductions applied by the accuracy and consistency
// scores.
type Penalties struct {
	MixedType       float64 `yaml:"mixed_type"`
	HighCardinality float64 `yaml:"high_cardinality"`
}

// CriticalChecks lists the column-name patterns held to stricter
// expectations. It is reported, not computed.
type CriticalChecks struct {
	NullTolerance      []string `yaml:"null_tolerance" json:"null_tolerance"`
	UniquenessRequired []string `yaml:"uniqueness_required" json:"uniqueness_required"`
	FormatValidation   []string `yaml:"format_validation" json:"format_validation"`
}

// RecommendationRule emits a recommendation when the grade score of
// Category falls below Below.
type RecommendationRule struct {
	Category   string  `yaml:"category"`
	Below      float64 `yaml:"below"`
	Issue      string  `yaml:"issue"`
	Impact     string  `yaml:"impact"`
	Suggestion string  `yaml:"suggestion"`
}

// Config holds every threshold, penalty and name pattern the engine uses.
type Config struct {
	Grades        []GradeBand `yaml:"grades"`
	PassThreshold float64     `yaml:"pass_threshold"`

	Penalties            Penalties `yaml:"penalties"`
	HighCardinalityRatio float64   `yaml:"high_cardinality_ratio"`
	AccuracyPassScore    float64   `yaml:"accuracy_pass_score"`
	ConsistencyPassScore float64   `yaml:"consistency_pass_score"`

	// IdentifierPatterns exempt a column from the cardinality penalty when
	// its lowercased name contains one of them.
	IdentifierPatterns []string `yaml:"identifier_patterns"`
	EmailPatterns      []string `yaml:"email_patterns"`
	EmailRegexp        string   `yaml:"email_regexp"`

	CriticalChecks  CriticalChecks       `yaml:"critical_checks"`
	Recommendations []RecommendationRule `yaml:"recommendations"`
	AnalysisVersion string               `yaml:"analysis_version"`
}

// DefaultConfig returns the baseline scoring policy.
func DefaultConfig() Config {
	return Config{
		Grades: []GradeBand{
			{Letter: "A", Min: 0.95, Interpretation: Excellent},
			{Letter: "B", Min: 0.90, Interpretation: Good},
			{Letter: "C", Min: 0.85, Interpretation: Fair},
			{Letter: "D", Min: 0.80, Interpretation: Poor},
			{Letter: "F", Min: 0.00, Interpretation: Failed},
		},
		PassThreshold: 0.85,
		Penalties: Penalties{
			MixedType:       0.05,
			HighCardinality: 0.1,
		},
		HighCardinalityRatio: 0.9,
		AccuracyPassScore:    0.95,
		ConsistencyPassScore: 0.9,
		IdentifierPatterns:   []string{"id", "email"},
		EmailPatterns:        []string{"email"},
		EmailRegexp:          DefaultEmailPattern,
		CriticalChecks: CriticalChecks{
			NullTolerance:      []string{"id", "email"},
			UniquenessRequired: []string{"id", "email"},
			FormatValidation:   []string{"email", "signup_date"},
		},
		Recommendations: []RecommendationRule{
			{
				Category:   CategoryCompleteness,
				Below:      0.98,
				Issue:      "Missing values detected",
				Impact:     "Medium",
				Suggestion: "Review and fill in missing data where possible",
			},
			{
				Category:   CategoryUniqueness,
				Below:      0.98,
				Issue:      "Duplicate values found",
				Impact:     "High",
				Suggestion: "Investigate and resolve duplicate records",
			},
		},
		AnalysisVersion: "1.0",
	}
}

// Validate reports configuration mistakes that would make grading ambiguous.
func (c Config) Validate() error {
	var errs []error
	if len(c.Grades) == 0 {
		errs = append(errs, errors.New("at least one grade band is required"))
	}
	for i, band := range c.Grades {
		if band.Letter == "" {
			errs = append(errs, fmt.Errorf("grade band %d has no letter", i))
		}
		if band.Interpretation == "" {
			errs = append(errs, fmt.Errorf("grade band %d has no interpretation", i))
		}
		if i > 0 && band.Min >= c.Grades[i-1].Min {
			errs = append(errs, fmt.Errorf("grade bands must be in descending order of min, band %d (%.3f) >= band %d (%.3f)", i, band.Min, i-1, c.Grades[i-1].Min))
		}
	}
	for _, bound := range []struct {
		name  string
		value float64
	}{
		{"pass_threshold", c.PassThreshold},
		{"high_cardinality_ratio", c.HighCardinalityRatio},
		{"accuracy_pass_score", c.AccuracyPassScore},
		{"consistency_pass_score", c.ConsistencyPassScore},
	} {
		if bound.value < 0 || bound.value > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", bound.name, bound.value))
		}
	}
	if c.Penalties.MixedType < 0 || c.Penalties.HighCardinality < 0 {
		errs = append(errs, errors.New("penalties must not be negative"))
	}
	if _, err := regexp.Compile(c.EmailRegexp); err != nil {
		errs = append(errs, fmt.Errorf("invalid email_regexp: %w", err))
	}
	for i, rule := range c.Recommendations {
		switch rule.Category {
		case CategoryCompleteness, CategoryAccuracy, CategoryConsistency, CategoryUniqueness:
		default:
			errs = append(errs, fmt.Errorf("recommendation %d has unknown category %q", i, rule.Category))
		}
	}
	return errors.Join(errs...)
}

// matchesAny reports whether the lowercased name contains any pattern.
func matchesAny(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
