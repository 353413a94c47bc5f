package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// confidenceTable restates the labelling rules, first match wins.
func confidenceTable(score float64, alt, active int) Confidence {
	switch {
	case score <= 0.00469 || active <= 200:
		return LowPrecision
	case 21 <= alt && alt <= 100 && 0.00469 <= score && score <= 0.00515:
		return LowPrecision
	case alt > 100:
		return HighPrecision
	case alt <= 20:
		return LowPrecision
	case 21 <= alt && alt < 100 && score >= 0.00515:
		return HighPrecision
	case alt >= 100 && score >= 0.00515:
		return HighPrecisionStar
	}
	return LowPrecision
}

func TestConfidenceFor(t *testing.T) {
	const eps = 1e-6
	tests := []struct {
		name   string
		score  float64
		alt    int
		active int
		want   Confidence
	}{
		{"score at low cut", depthScoreLow, 500, 5000, LowPrecision},
		{"score below low cut", depthScoreLow - eps, 500, 5000, LowPrecision},
		{"active at 200", 0.5, 100, 200, LowPrecision},
		{"active just above 200", 0.5, 101, 201, HighPrecision},
		{"active 201 alt 20", 0.5, 20, 201, LowPrecision},
		{"alt 21 inside band", depthScoreLow + eps, 21, 5000, LowPrecision},
		{"alt 50 just below high cut", depthScoreHigh - eps, 50, 10000, LowPrecision},
		{"mid band high edge", depthScoreHigh, 100, 20000, LowPrecision},
		{"alt above 100 in band", depthScoreLow + eps, 101, 20000, HighPrecision},
		{"alt 21 above band", depthScoreHigh + eps, 21, 1000, HighPrecision},
		{"alt 99 above band", 0.099, 99, 1000, HighPrecision},
		{"alt 100 above band", 0.1, 100, 1000, HighPrecisionStar},
		{"alt 100 just above band", depthScoreHigh + eps, 100, 19000, HighPrecisionStar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfidenceFor(tt.score, tt.alt, tt.active))
		})
	}
}

func TestConfidenceFor_BoundaryGrid(t *testing.T) {
	const eps = 1e-6
	scores := []float64{
		depthScoreLow - eps, depthScoreLow, depthScoreLow + eps,
		depthScoreHigh - eps, depthScoreHigh, depthScoreHigh + eps,
	}

	for _, alt := range []int{20, 21, 99, 100, 101} {
		for _, active := range []int{200, 201} {
			for _, score := range scores {
				want := confidenceTable(score, alt, active)
				assert.Equal(t, want, ConfidenceFor(score, alt, active),
					"score=%v alt=%d active=%d", score, alt, active)
			}
		}
	}
}

func TestAssignConfidence(t *testing.T) {
	score, conf := AssignConfidence(150, 1000)
	assert.InDelta(t, 0.15, score, 1e-12)
	assert.Equal(t, HighPrecision, conf)

	score, conf = AssignConfidence(25, 2000)
	assert.InDelta(t, 0.0125, score, 1e-12)
	assert.Equal(t, HighPrecision, conf)

	score, conf = AssignConfidence(5, 0)
	assert.Equal(t, 0.0, score)
	assert.Equal(t, LowPrecision, conf)
}

func TestScore_AlwaysLabelled(t *testing.T) {
	var in []ClassifiedVariant
	for alt := 0; alt <= 300; alt += 7 {
		for _, active := range []int{0, 150, 201, 1000, 50000} {
			in = append(in, ClassifiedVariant{AltDepth: alt, ActiveRegionDepth: active})
		}
	}

	out := Score(in)
	assert.Len(t, out, len(in))
	for _, s := range out {
		assert.Contains(t, []Confidence{LowPrecision, HighPrecision, HighPrecisionStar}, s.Confidence)
		if s.ActiveRegionDepth <= 200 {
			assert.Equal(t, LowPrecision, s.Confidence)
		}
	}
}

func TestExcludeLowPrecision(t *testing.T) {
	in := []ScoredVariant{
		{Confidence: LowPrecision},
		{Confidence: HighPrecision},
		{Confidence: HighPrecisionStar},
	}
	out := ExcludeLowPrecision(in)
	assert.Len(t, out, 2)
	assert.Len(t, in, 3)
}
