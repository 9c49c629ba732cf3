package quality

import "math"

// Grade is the interpretation of a bounded score.
type Grade struct {
	Score          float64 `json:"score"`
	Interpretation string  `json:"interpretation"`
	ThresholdMet   bool    `json:"threshold_met"`
}

// Grader maps scores to grades using a fixed band table.
type Grader struct {
	bands []GradeBand
	pass  float64
}

// NewGrader creates a grader from the bands and pass threshold of cfg.
// Bands are expected in descending order of Min.
func NewGrader(cfg Config) Grader {
	return Grader{bands: cfg.Grades, pass: cfg.PassThreshold}
}

// Grade rounds score to three decimals, then interprets it. Scores below
// every band get the last band's interpretation.
func (g Grader) Grade(score float64) Grade {
	score = round(score, 3)

	interpretation := Failed
	if n := len(g.bands); n > 0 {
		interpretation = g.bands[n-1].Interpretation
	}
	for _, band := range g.bands {
		if score >= band.Min {
			interpretation = band.Interpretation
			break
		}
	}

	return Grade{
		Score:          score,
		Interpretation: interpretation,
		ThresholdMet:   score >= g.pass,
	}
}

// round rounds half away from zero to the given number of decimals.
func round(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
