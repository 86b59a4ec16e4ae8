package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/service"
	"github.com/altcred/trustengine/internal/domain/valueobject"
)

func strongFeatures(t *testing.T) valueobject.FeatureRecord {
	t.Helper()
	features, err := valueobject.NewFeatureRecord(
		valueobject.UtilityFeatures{OnTimeRatio: 1.0, MissedPayments: 0, MonthsTracked: 12, AvgPaymentAmount: 800},
		valueobject.UPIFeatures{
			AvgTransactionsPerDay: 5,
			TransactionVariance:   valueobject.TierLow,
			IncomeConsistency:     valueobject.TierHigh,
			AvgMonthlyIncome:      20000,
			AvgMonthlyExpense:     15000,
		},
		valueobject.LocationFeatures{StabilityScore: 0.9, MonthsAtLocation: 24},
		valueobject.SocialFeatures{NetworkStrength: valueobject.TierHigh, ReferralsCount: 3, TrustConnections: 12},
	)
	require.NoError(t, err)
	return features
}

func zeroFeatures(t *testing.T) valueobject.FeatureRecord {
	t.Helper()
	features, err := valueobject.NewFeatureRecord(
		valueobject.UtilityFeatures{},
		valueobject.UPIFeatures{},
		valueobject.LocationFeatures{},
		valueobject.SocialFeatures{},
	)
	require.NoError(t, err)
	return features
}

func TestRuleScorer_StrongProfile_ExcellentBand(t *testing.T) {
	scorer := service.NewRuleScorer()
	result := scorer.Score(strongFeatures(t))

	assert.GreaterOrEqual(t, result.TrustScore, valueobject.ScoreExcellent)
	assert.Equal(t, valueobject.RiskLow, result.RiskCategory)
	assert.Equal(t, model.SourceRuleBased, result.Source)
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
}

func TestRuleScorer_ZeroData_Floor(t *testing.T) {
	scorer := service.NewRuleScorer()
	result := scorer.Score(zeroFeatures(t))

	assert.Equal(t, valueobject.ScoreFloor, result.TrustScore)
	assert.Equal(t, valueobject.RiskVeryHigh, result.RiskCategory)
	assert.LessOrEqual(t, result.Confidence, 0.05)

	assert.Zero(t, result.ComponentScores.Utility)
	assert.Zero(t, result.ComponentScores.UPI)
	assert.Zero(t, result.ComponentScores.Location)
	assert.Zero(t, result.ComponentScores.Social)
}

func TestRuleScorer_Idempotent(t *testing.T) {
	scorer := service.NewRuleScorer()
	features := strongFeatures(t)

	first := scorer.Score(features)
	second := scorer.Score(features)

	assert.Equal(t, first, second)
}

func TestRuleScorer_ScoreAlwaysInRange(t *testing.T) {
	scorer := service.NewRuleScorer()

	cases := []struct {
		name     string
		utility  valueobject.UtilityFeatures
		upi      valueobject.UPIFeatures
		location valueobject.LocationFeatures
		social   valueobject.SocialFeatures
	}{
		{
			name:     "everything maxed",
			utility:  valueobject.UtilityFeatures{OnTimeRatio: 1, MonthsTracked: 120, AvgPaymentAmount: 1e6},
			upi:      valueobject.UPIFeatures{AvgTransactionsPerDay: 1000, TransactionVariance: valueobject.TierLow, IncomeConsistency: valueobject.TierHigh, AvgMonthlyIncome: 1e6, AvgMonthlyExpense: 1},
			location: valueobject.LocationFeatures{StabilityScore: 1, MonthsAtLocation: 600},
			social:   valueobject.SocialFeatures{NetworkStrength: valueobject.TierHigh, ReferralsCount: 1000, TrustConnections: 1000},
		},
		{
			name:    "heavy penalties",
			utility: valueobject.UtilityFeatures{OnTimeRatio: 0.1, MissedPayments: 50, MonthsTracked: 1},
			upi:     valueobject.UPIFeatures{AvgTransactionsPerDay: 0.1, TransactionVariance: valueobject.TierHigh, IncomeConsistency: valueobject.TierLow, AvgMonthlyIncome: 100, AvgMonthlyExpense: 1000},
		},
		{
			name:   "partial data",
			upi:    valueobject.UPIFeatures{AvgTransactionsPerDay: 2, TransactionVariance: valueobject.TierMedium, IncomeConsistency: valueobject.TierMedium},
			social: valueobject.SocialFeatures{NetworkStrength: valueobject.TierMedium, TrustConnections: 2},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			features, err := valueobject.NewFeatureRecord(tc.utility, tc.upi, tc.location, tc.social)
			require.NoError(t, err)

			result := scorer.Score(features)

			assert.GreaterOrEqual(t, result.TrustScore, valueobject.ScoreFloor)
			assert.LessOrEqual(t, result.TrustScore, valueobject.ScoreCeiling)

			for name, score := range map[string]float64{
				"utility":  result.ComponentScores.Utility,
				"upi":      result.ComponentScores.UPI,
				"location": result.ComponentScores.Location,
				"social":   result.ComponentScores.Social,
			} {
				assert.GreaterOrEqual(t, score, 0.0, name)
				assert.LessOrEqual(t, score, 100.0, name)
			}
		})
	}
}

func TestRuleScorer_UtilityNoHistoryScoresZero(t *testing.T) {
	scorer := service.NewRuleScorer()
	features, err := valueobject.NewFeatureRecord(
		// Perfect ratio but no tracked months: no data, no credit.
		valueobject.UtilityFeatures{OnTimeRatio: 1.0, MonthsTracked: 0},
		valueobject.UPIFeatures{},
		valueobject.LocationFeatures{},
		valueobject.SocialFeatures{},
	)
	require.NoError(t, err)

	components := scorer.ComponentScores(features)
	assert.Zero(t, components.Utility)
}

func TestRuleScorer_MissedPaymentPenaltyCapped(t *testing.T) {
	scorer := service.NewRuleScorer()

	few, err := valueobject.NewFeatureRecord(
		valueobject.UtilityFeatures{OnTimeRatio: 0.8, MissedPayments: 4, MonthsTracked: 12, AvgPaymentAmount: 500},
		valueobject.UPIFeatures{}, valueobject.LocationFeatures{}, valueobject.SocialFeatures{},
	)
	require.NoError(t, err)
	many, err := valueobject.NewFeatureRecord(
		valueobject.UtilityFeatures{OnTimeRatio: 0.8, MissedPayments: 40, MonthsTracked: 12, AvgPaymentAmount: 500},
		valueobject.UPIFeatures{}, valueobject.LocationFeatures{}, valueobject.SocialFeatures{},
	)
	require.NoError(t, err)

	// 4 missed payments hits the 20-point penalty cap already.
	assert.Equal(t, scorer.ComponentScores(few).Utility, scorer.ComponentScores(many).Utility)
}

func TestRuleScorer_Explanations(t *testing.T) {
	scorer := service.NewRuleScorer()

	strong := scorer.Score(strongFeatures(t))
	assert.Equal(t, "Excellent payment discipline with consistent on-time payments", strong.Explanations.Utility)
	assert.NotEmpty(t, strong.Explanations.UPI)
	assert.NotEmpty(t, strong.Explanations.Location)
	assert.NotEmpty(t, strong.Explanations.Social)

	empty := scorer.Score(zeroFeatures(t))
	assert.Equal(t, "No utility payment history available", empty.Explanations.Utility)
	assert.Equal(t, "No UPI transaction history available", empty.Explanations.UPI)
	assert.Equal(t, "No location stability data available", empty.Explanations.Location)
	assert.Equal(t, "Limited social trust network or new user", empty.Explanations.Social)
}

func TestRuleScorer_ConfidenceTiers(t *testing.T) {
	scorer := service.NewRuleScorer()

	cases := []struct {
		name     string
		features valueobject.FeatureRecord
		want     float64
	}{
		{name: "full data", features: strongFeatures(t), want: 1.0},
		{name: "no data", features: zeroFeatures(t), want: 0.05},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, scorer.Confidence(tc.features), 1e-9)
		})
	}
}
