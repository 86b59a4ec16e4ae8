package service

import (
	"math"

	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// RuleScorer – deterministic trust scoring from behavioural features
// ---------------------------------------------------------------------------

// regularIncomeThreshold is the monthly income above which highly consistent
// earners receive the regular-income bonus.
const regularIncomeThreshold = 5000

// RuleScorer computes a trust score from a feature record using fixed
// per-component formulas and the canonical component weights. It is pure and
// deterministic: the primary scorer before any training data exists, and the
// always-available fallback for the external-AI scorer.
type RuleScorer struct {
	weights model.ComponentWeights
}

// NewRuleScorer creates a rule-based scorer with the canonical weight set.
func NewRuleScorer() *RuleScorer {
	return &RuleScorer{weights: model.PriorWeights()}
}

// Score evaluates the feature record and returns a complete result.
func (s *RuleScorer) Score(features valueobject.FeatureRecord) model.ScoreResult {
	components := s.ComponentScores(features)

	composite := components.Utility*s.weights.Utility +
		components.UPI*s.weights.UPI +
		components.Location*s.weights.Location +
		components.Social*s.weights.Social

	// Weighted 0-100 composite scaled onto the 300-900 span.
	trustScore := int(math.Round(300 + composite/100*600))

	return model.ScoreResult{
		TrustScore:      trustScore,
		ComponentScores: components,
		RiskCategory:    valueobject.RiskFromScore(trustScore),
		Explanations:    s.Explanations(features, components),
		Confidence:      s.Confidence(features),
		Source:          model.SourceRuleBased,
	}
}

// ComponentScores computes the four 0-100 sub-scores.
func (s *RuleScorer) ComponentScores(features valueobject.FeatureRecord) model.ComponentScores {
	return model.ComponentScores{
		Utility:  scoreUtility(features.Utility),
		UPI:      scoreUPI(features.UPI),
		Location: scoreLocation(features.Location),
		Social:   scoreSocial(features.Social),
	}
}

// scoreUtility rates utility-bill payment discipline. No tracked months
// means no data and scores exactly zero.
func scoreUtility(u valueobject.UtilityFeatures) float64 {
	if u.MonthsTracked == 0 {
		return 0
	}

	score := u.OnTimeRatio * 50
	score -= math.Min(float64(u.MissedPayments)*5, 20)

	switch {
	case u.MonthsTracked >= 12:
		score += 20
	case u.MonthsTracked >= 6:
		score += 15
	case u.MonthsTracked >= 3:
		score += 10
	default:
		score += 5
	}

	if u.AvgPaymentAmount > 0 {
		score += 10
	}
	if u.MissedPayments == 0 && u.MonthsTracked >= 6 {
		score += 10
	}

	return clamp100(score)
}

// scoreUPI rates payment-app transaction stability. Zero transaction
// frequency means no data and scores exactly zero.
func scoreUPI(u valueobject.UPIFeatures) float64 {
	if u.AvgTransactionsPerDay == 0 {
		return 0
	}

	score := math.Min(u.AvgTransactionsPerDay/10, 1) * 25

	switch u.IncomeConsistency {
	case valueobject.TierHigh:
		score += 30
	case valueobject.TierMedium:
		score += 20
	default:
		score += 10
	}

	switch u.TransactionVariance {
	case valueobject.TierLow:
		score += 20
	case valueobject.TierMedium:
		score += 12
	default:
		score += 5
	}

	if u.AvgMonthlyIncome > 0 && u.AvgMonthlyExpense > 0 {
		ratio := u.AvgMonthlyIncome / u.AvgMonthlyExpense
		switch {
		case ratio >= 1.3:
			score += 15
		case ratio >= 1.1:
			score += 10
		case ratio >= 1.0:
			score += 5
		}
	}

	if u.IncomeConsistency == valueobject.TierHigh && u.AvgMonthlyIncome > regularIncomeThreshold {
		score += 10
	}

	return clamp100(score)
}

// scoreLocation rates residential stability. No stability signal at all
// scores exactly zero.
func scoreLocation(l valueobject.LocationFeatures) float64 {
	if l.StabilityScore == 0 && l.MonthsAtLocation == 0 {
		return 0
	}

	score := l.StabilityScore * 50

	switch {
	case l.MonthsAtLocation >= 24:
		score += 30
	case l.MonthsAtLocation >= 12:
		score += 20
	case l.MonthsAtLocation >= 6:
		score += 10
	default:
		score += 5
	}

	if l.MonthsAtLocation >= 6 {
		score += 20
	}

	return clamp100(score)
}

// scoreSocial rates the trust network. A low-tier network with no
// connections and no referrals carries no signal and scores exactly zero.
func scoreSocial(s valueobject.SocialFeatures) float64 {
	if s.NetworkStrength == valueobject.TierLow && s.TrustConnections == 0 && s.ReferralsCount == 0 {
		return 0
	}

	var score float64

	switch s.NetworkStrength {
	case valueobject.TierHigh:
		score += 40
	case valueobject.TierMedium:
		score += 25
	default:
		score += 10
	}

	score += math.Min(float64(s.TrustConnections)*3, 30)
	score += math.Min(float64(s.ReferralsCount)*5, 20)

	if s.TrustConnections >= 5 && s.NetworkStrength != valueobject.TierLow {
		score += 10
	}

	return clamp100(score)
}

// Confidence measures data completeness, not score quality: each group
// contributes up to its component weight based on how much signal it has,
// normalized to [0,1].
func (s *RuleScorer) Confidence(features valueobject.FeatureRecord) float64 {
	var confidence float64

	switch {
	case features.Utility.MonthsTracked >= 6:
		confidence += 0.35
	case features.Utility.MonthsTracked >= 3:
		confidence += 0.25
	case features.Utility.MonthsTracked > 0:
		confidence += 0.15
	}

	switch {
	case features.UPI.AvgTransactionsPerDay >= 3:
		confidence += 0.30
	case features.UPI.AvgTransactionsPerDay >= 1:
		confidence += 0.20
	case features.UPI.AvgTransactionsPerDay > 0:
		confidence += 0.10
	}

	switch {
	case features.Location.MonthsAtLocation >= 6:
		confidence += 0.20
	case features.Location.MonthsAtLocation >= 3:
		confidence += 0.15
	case features.Location.MonthsAtLocation > 0:
		confidence += 0.10
	}

	switch {
	case features.Social.TrustConnections >= 3:
		confidence += 0.15
	case features.Social.TrustConnections >= 1:
		confidence += 0.10
	default:
		confidence += 0.05
	}

	// The tiers above already sum to at most 1.0.
	return math.Min(confidence, 1)
}

// Explanations produces one short human-readable sentence per component.
func (s *RuleScorer) Explanations(features valueobject.FeatureRecord, components model.ComponentScores) model.Explanations {
	return model.Explanations{
		Utility:  explainUtility(features.Utility, components.Utility),
		UPI:      explainUPI(features.UPI, components.UPI),
		Location: explainLocation(features.Location, components.Location),
		Social:   explainSocial(components.Social),
	}
}

func explainUtility(u valueobject.UtilityFeatures, score float64) string {
	switch {
	case u.MonthsTracked == 0:
		return "No utility payment history available"
	case score >= 80:
		return "Excellent payment discipline with consistent on-time payments"
	case score >= 60:
		return "Good payment history with occasional delays"
	case score >= 40:
		return "Moderate payment consistency with some missed payments"
	default:
		return "Limited payment history or frequent delays detected"
	}
}

func explainUPI(u valueobject.UPIFeatures, score float64) string {
	switch {
	case u.AvgTransactionsPerDay == 0:
		return "No UPI transaction history available"
	case score >= 80:
		return "Highly stable transaction patterns with consistent income"
	case score >= 60:
		return "Stable transaction activity with moderate income consistency"
	case score >= 40:
		return "Moderate transaction activity with some variance"
	default:
		return "Limited transaction history or high income volatility"
	}
}

func explainLocation(l valueobject.LocationFeatures, score float64) string {
	switch {
	case l.MonthsAtLocation == 0:
		return "No location stability data available"
	case score >= 80:
		return "Strong residential stability over extended period"
	case score >= 60:
		return "Good location stability with established residence"
	case score >= 40:
		return "Moderate residential stability"
	default:
		return "Limited location history or recent relocation"
	}
}

func explainSocial(score float64) string {
	switch {
	case score >= 80:
		return "Strong trusted network with multiple verified connections"
	case score >= 60:
		return "Good social trust network with some connections"
	case score >= 40:
		return "Moderate social network presence"
	default:
		return "Limited social trust network or new user"
	}
}

func clamp100(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
