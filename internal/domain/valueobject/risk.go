package valueobject

// RiskCategory buckets a trust score into lending risk tiers.
type RiskCategory string

const (
	RiskLow      RiskCategory = "LOW"
	RiskMedium   RiskCategory = "MEDIUM"
	RiskHigh     RiskCategory = "HIGH"
	RiskVeryHigh RiskCategory = "VERY_HIGH"
)

// Trust score band thresholds shared by every scorer.
const (
	ScoreExcellent = 750
	ScoreGood      = 650
	ScoreFair      = 550
	ScorePoor      = 450

	// ScoreFloor and ScoreCeiling bound every trust score.
	ScoreFloor   = 300
	ScoreCeiling = 900
)

// RiskFromScore maps a trust score to its risk category.
func RiskFromScore(trustScore int) RiskCategory {
	switch {
	case trustScore >= ScoreExcellent:
		return RiskLow
	case trustScore >= ScoreGood:
		return RiskMedium
	case trustScore >= ScoreFair:
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}

// RiskFromScoreAndDefault combines the score bands with a predicted default
// probability. A high score with a high predicted default probability is not
// allowed to classify as LOW.
func RiskFromScoreAndDefault(trustScore int, defaultProbability float64) RiskCategory {
	switch {
	case trustScore >= ScoreExcellent && defaultProbability < 0.15:
		return RiskLow
	case trustScore >= ScoreGood && defaultProbability < 0.30:
		return RiskMedium
	case trustScore >= ScoreFair && defaultProbability < 0.50:
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}

// String implements fmt.Stringer.
func (r RiskCategory) String() string { return string(r) }
