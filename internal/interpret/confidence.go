package interpret

// Depth score cut points for the confidence table.
const (
	depthScoreLow  = 0.00469
	depthScoreHigh = 0.00515
	minActiveDepth = 200
)

// AssignConfidence computes the depth score alt/active and its label.
// An active region depth of zero yields a score of 0 and Low_Precision.
func AssignConfidence(altDepth, activeDepth int) (float64, Confidence) {
	if activeDepth <= 0 {
		return 0, LowPrecision
	}
	score := float64(altDepth) / float64(activeDepth)
	return score, ConfidenceFor(score, altDepth, activeDepth)
}

// ConfidenceFor evaluates the confidence rules in order; the first matching
// rule wins.
func ConfidenceFor(score float64, altDepth, activeDepth int) Confidence {
	switch {
	case score <= depthScoreLow || activeDepth <= minActiveDepth:
		return LowPrecision
	case altDepth >= 21 && altDepth <= 100 && score >= depthScoreLow && score <= depthScoreHigh:
		return LowPrecision
	case altDepth > 100:
		return HighPrecision
	case altDepth <= 20:
		return LowPrecision
	case altDepth >= 21 && altDepth < 100 && score >= depthScoreHigh:
		return HighPrecision
	case altDepth >= 100 && score >= depthScoreHigh:
		// only alt == 100 reaches here
		return HighPrecisionStar
	default:
		return LowPrecision
	}
}

// Score attaches the depth score and confidence label to each variant.
func Score(vs []ClassifiedVariant) []ScoredVariant {
	out := make([]ScoredVariant, 0, len(vs))
	for _, v := range vs {
		score, conf := AssignConfidence(v.AltDepth, v.ActiveRegionDepth)
		out = append(out, ScoredVariant{
			ClassifiedVariant: v,
			DepthScore:        score,
			Confidence:        conf,
		})
	}
	return out
}

// ExcludeLowPrecision drops Low_Precision rows.
func ExcludeLowPrecision(vs []ScoredVariant) []ScoredVariant {
	out := make([]ScoredVariant, 0, len(vs))
	for _, v := range vs {
		if v.Confidence != LowPrecision {
			out = append(out, v)
		}
	}
	return out
}
