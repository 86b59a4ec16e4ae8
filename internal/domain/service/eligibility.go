package service

import (
	"github.com/shopspring/decimal"

	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// EligibilityTranslator – trust score to micro-loan terms
// ---------------------------------------------------------------------------

// eligibilityBand is one row of the fixed score-to-terms table.
type eligibilityBand struct {
	minScore     int
	minAmount    int64
	maxAmount    int64
	ratePct      float64
	tenureMonths int
}

// Bands are ordered highest score first; the first matching row wins.
var eligibilityBands = []eligibilityBand{
	{minScore: valueobject.ScoreExcellent, minAmount: 10000, maxAmount: 50000, ratePct: 12, tenureMonths: 12},
	{minScore: valueobject.ScoreGood, minAmount: 5000, maxAmount: 25000, ratePct: 15, tenureMonths: 9},
	{minScore: valueobject.ScoreFair, minAmount: 2000, maxAmount: 10000, ratePct: 18, tenureMonths: 6},
	{minScore: valueobject.ScorePoor, minAmount: 1000, maxAmount: 5000, ratePct: 22, tenureMonths: 3},
	{minScore: 0, minAmount: 0, maxAmount: 2000, ratePct: 24, tenureMonths: 3},
}

// EligibilityTranslator maps a final trust score and confidence to loan
// terms. Pure function: discrete bands by score, max amount scaled by
// confidence, with the min<=max invariant preserved by clamping.
type EligibilityTranslator struct{}

// NewEligibilityTranslator returns a new translator.
func NewEligibilityTranslator() *EligibilityTranslator {
	return &EligibilityTranslator{}
}

// Translate derives loan eligibility terms from a trust score and the
// scorer's confidence in it.
func (t *EligibilityTranslator) Translate(trustScore int, confidence float64) model.LoanEligibility {
	band := eligibilityBands[len(eligibilityBands)-1]
	for _, b := range eligibilityBands {
		if trustScore >= b.minScore {
			band = b
			break
		}
	}

	maxAmount := decimal.NewFromInt(band.maxAmount).
		Mul(decimal.NewFromFloat(confidence)).
		Round(0)

	minAmount := decimal.NewFromInt(band.minAmount)
	// Low confidence can compress the band below the nominal minimum.
	if minAmount.GreaterThan(maxAmount) {
		minAmount = maxAmount
	}

	return model.LoanEligibility{
		MinAmount:               minAmount,
		MaxAmount:               maxAmount,
		InterestRateAnnualPct:   band.ratePct,
		RecommendedTenureMonths: band.tenureMonths,
	}
}
