package core

import "math"

// faceFindingPoints is the flat score contribution of a FaceDetected finding.
// Face hits are scored outside the severity table: HIGH severity for display,
// 20 points toward the deterministic score.
const faceFindingPoints = 20

// DeterministicScore sums the point values of deterministic findings, capped
// at 100.
func DeterministicScore(findings []Finding) int {
	score := 0
	for _, f := range findings {
		if f.Kind == KindFaceDetected {
			score += faceFindingPoints
			continue
		}
		score += f.Severity.Points()
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Fuse combines the deterministic score with the AI assessment score into the
// final risk score and level. A nil aiScore means the AI detector failed or
// was skipped, and the deterministic score stands alone. When both are
// present the deterministic signal is weighted 0.6 against 0.4 for the AI:
// regex matches are exact evidence, AI findings are heuristic and must not
// dominate.
func Fuse(deterministic int, aiScore *int) (int, RiskLevel) {
	det := deterministic
	if det > 100 {
		det = 100
	}

	fused := det
	if aiScore != nil {
		fused = int(math.Round(float64(det)*0.6 + float64(*aiScore)*0.4))
		if fused > 100 {
			fused = 100
		}
		if fused < 0 {
			fused = 0
		}
	}

	return fused, LevelForScore(fused)
}

// LevelForScore maps a 0-100 score to a risk level. Thresholds are strictly
// greater-than: a score of exactly 75, 50, or 25 falls into the lower band.
func LevelForScore(score int) RiskLevel {
	switch {
	case score > 75:
		return RiskCritical
	case score > 50:
		return RiskHigh
	case score > 25:
		return RiskMedium
	default:
		return RiskLow
	}
}
