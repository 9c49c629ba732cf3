package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrader_Breakpoints(t *testing.T) {
	g := NewGrader(DefaultConfig())

	tests := []struct {
		score          float64
		interpretation string
		thresholdMet   bool
	}{
		{1.0, Excellent, true},
		{0.95, Excellent, true},
		{0.9499, Excellent, true}, // rounds to 0.95
		{0.949, Good, true},
		{0.90, Good, true},
		{0.89, Fair, true},
		{0.85, Fair, true},
		{0.8496, Fair, true}, // rounds to 0.85
		{0.8494, Poor, false},
		{0.80, Poor, false},
		{0.799, Failed, false},
		{0.0, Failed, false},
		{-0.25, Failed, false},
	}

	for _, tt := range tests {
		grade := g.Grade(tt.score)
		assert.Equal(t, tt.interpretation, grade.Interpretation, "score %v", tt.score)
		assert.Equal(t, tt.thresholdMet, grade.ThresholdMet, "score %v", tt.score)
	}
}

func TestGrader_RoundsScore(t *testing.T) {
	g := NewGrader(DefaultConfig())

	assert.Equal(t, 0.857, g.Grade(0.85714285).Score)
	assert.Equal(t, 0.9, g.Grade(1.0-0.05-0.05).Score)
}

func TestGrader_ThresholdIndependentOfTier(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PassThreshold = 0.92
	g := NewGrader(cfg)

	grade := g.Grade(0.91)
	assert.Equal(t, Good, grade.Interpretation)
	assert.False(t, grade.ThresholdMet)
}

func TestGrader_Monotonic(t *testing.T) {
	g := NewGrader(DefaultConfig())
	rank := map[string]int{Failed: 0, Poor: 1, Fair: 2, Good: 3, Excellent: 4}

	prev := g.Grade(-0.1)
	for i := 0; i <= 1100; i++ {
		score := -0.1 + float64(i)*0.001
		grade := g.Grade(score)
		require.GreaterOrEqual(t, rank[grade.Interpretation], rank[prev.Interpretation], "score %v", score)
		require.Equal(t, grade.Score >= 0.85, grade.ThresholdMet, "score %v", score)
		prev = grade
	}
}

func TestGrader_CustomBands(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grades = []GradeBand{
		{Letter: "P", Min: 0.5, Interpretation: "Pass"},
		{Letter: "F", Min: 0.0, Interpretation: "Fail"},
	}
	g := NewGrader(cfg)

	assert.Equal(t, "Pass", g.Grade(0.5).Interpretation)
	assert.Equal(t, "Fail", g.Grade(0.4).Interpretation)
	assert.Equal(t, "Fail", g.Grade(-1).Interpretation)
}
