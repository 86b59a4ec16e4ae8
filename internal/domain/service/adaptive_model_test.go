package service_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/service"
	"github.com/altcred/trustengine/internal/domain/valueobject"
)

func newAdaptiveModel() *service.AdaptiveModel {
	return service.NewAdaptiveModel(model.NewModelState(), service.DefaultAdaptiveConfig(), service.NewRuleScorer())
}

func outcome(userID string, trustScore int, components model.ComponentScores, repaid bool) model.LoanOutcome {
	return model.LoanOutcome{
		UserID:          userID,
		TrustScore:      trustScore,
		ComponentScores: components,
		LoanAmount:      decimal.NewFromInt(5000),
		Repaid:          repaid,
	}
}

func TestAdaptiveModel_WeightsSumToOneAfterLearning(t *testing.T) {
	m := newAdaptiveModel()

	for i := 0; i < 50; i++ {
		c := model.ComponentScores{
			Utility:  float64(i % 100),
			UPI:      float64((i * 7) % 100),
			Location: float64((i * 13) % 100),
			Social:   float64((i * 29) % 100),
		}
		state := m.Learn(outcome(fmt.Sprintf("u%d", i), 300+i*10, c, i%3 != 0))

		assert.InDelta(t, 1.0, state.Weights.Sum(), 1e-9, "after %d samples", i+1)
		assert.GreaterOrEqual(t, state.Weights.Utility, 0.0)
		assert.GreaterOrEqual(t, state.Weights.UPI, 0.0)
		assert.GreaterOrEqual(t, state.Weights.Location, 0.0)
		assert.GreaterOrEqual(t, state.Weights.Social, 0.0)
	}
}

func TestAdaptiveModel_TrainingSamplesMonotonic(t *testing.T) {
	m := newAdaptiveModel()
	assert.Equal(t, 0, m.TrainingSamples())

	for i := 1; i <= 20; i++ {
		state := m.Learn(outcome("u", 600, model.ComponentScores{Utility: 50, UPI: 50, Location: 50, Social: 50}, true))
		assert.Equal(t, i, state.TrainingSamples)
	}

	state := m.Reset()
	assert.Equal(t, 0, state.TrainingSamples)
}

func TestAdaptiveModel_DirectionalCoefficients(t *testing.T) {
	m := newAdaptiveModel()

	// 100 outcomes in increasing trust score order: the top half repays,
	// the bottom half defaults. Coefficients must end directionally
	// consistent with higher signal meaning more likely repayment.
	for i := 0; i < 100; i++ {
		c := model.ComponentScores{
			Utility:  float64(i),
			UPI:      float64(i),
			Location: float64(i),
			Social:   float64(i),
		}
		m.Learn(outcome(fmt.Sprintf("u%d", i), 300+i*6, c, i >= 50))
	}

	state := m.Stats()
	assert.Equal(t, 100, state.TrainingSamples)
	assert.GreaterOrEqual(t, state.Coefficients.Utility, 0.0)
	assert.GreaterOrEqual(t, state.Coefficients.UPI, 0.0)
	assert.GreaterOrEqual(t, state.Coefficients.Location, 0.0)
	assert.GreaterOrEqual(t, state.Coefficients.Social, 0.0)
}

func TestAdaptiveModel_PredictRangeAndConfidence(t *testing.T) {
	m := newAdaptiveModel()
	features, err := valueobject.NewFeatureRecord(
		valueobject.UtilityFeatures{OnTimeRatio: 0.9, MonthsTracked: 10, AvgPaymentAmount: 400},
		valueobject.UPIFeatures{AvgTransactionsPerDay: 3, TransactionVariance: valueobject.TierLow, IncomeConsistency: valueobject.TierMedium, AvgMonthlyIncome: 9000, AvgMonthlyExpense: 7000},
		valueobject.LocationFeatures{StabilityScore: 0.7, MonthsAtLocation: 18},
		valueobject.SocialFeatures{NetworkStrength: valueobject.TierMedium, ReferralsCount: 2, TrustConnections: 4},
	)
	require.NoError(t, err)

	// Untrained model: confidence zero, source adaptive, score in range.
	result := m.Predict(features)
	assert.Equal(t, model.SourceAdaptive, result.Source)
	assert.Zero(t, result.Confidence)
	assert.GreaterOrEqual(t, result.TrustScore, valueobject.ScoreFloor)
	assert.LessOrEqual(t, result.TrustScore, valueobject.ScoreCeiling)
	assert.GreaterOrEqual(t, result.DefaultProbability, 0.0)
	assert.LessOrEqual(t, result.DefaultProbability, 1.0)

	// Confidence grows linearly toward the target sample count.
	for i := 0; i < 100; i++ {
		m.Learn(outcome("u", 700, model.ComponentScores{Utility: 70, UPI: 70, Location: 70, Social: 70}, true))
	}
	result = m.Predict(features)
	assert.InDelta(t, 0.1, result.Confidence, 1e-9)
}

func TestAdaptiveModel_RepaidAtHighProbabilityIsNoOp(t *testing.T) {
	m := newAdaptiveModel()
	before := m.Stats()

	// Prior coefficients put p_repay above 0.5 for strong components, so a
	// repaid outcome matches the thresholded prediction and the error
	// signal is zero.
	state := m.Learn(outcome("u", 800, model.ComponentScores{Utility: 90, UPI: 90, Location: 90, Social: 90}, true))

	assert.InDelta(t, before.Weights.Utility, state.Weights.Utility, 1e-12)
	assert.InDelta(t, before.Weights.UPI, state.Weights.UPI, 1e-12)
	assert.InDelta(t, before.Weights.Location, state.Weights.Location, 1e-12)
	assert.InDelta(t, before.Weights.Social, state.Weights.Social, 1e-12)
	assert.Equal(t, before.Coefficients, state.Coefficients)
	assert.Equal(t, 1, state.TrainingSamples)
}

func TestAdaptiveModel_DefaultPullsCoefficientsDown(t *testing.T) {
	m := newAdaptiveModel()
	before := m.Stats()

	state := m.Learn(outcome("u", 800, model.ComponentScores{Utility: 90, UPI: 90, Location: 90, Social: 90}, false))

	assert.Less(t, state.Coefficients.Utility, before.Coefficients.Utility)
	assert.Less(t, state.Coefficients.Intercept, before.Coefficients.Intercept)
}

func TestAdaptiveModel_TrainFromHistory(t *testing.T) {
	m := newAdaptiveModel()

	outcomes := []model.LoanOutcome{
		outcome("a", 750, model.ComponentScores{Utility: 80, UPI: 75, Location: 70, Social: 65}, true),
		outcome("b", 400, model.ComponentScores{Utility: 20, UPI: 15, Location: 25, Social: 10}, false),
		outcome("c", 600, model.ComponentScores{Utility: 55, UPI: 50, Location: 45, Social: 40}, true),
	}

	state := m.TrainFromHistory(outcomes)
	assert.Equal(t, 3, state.TrainingSamples)
	assert.InDelta(t, 1.0, state.Weights.Sum(), 1e-9)
}

func TestAdaptiveModel_TrainFromHistoryEmpty(t *testing.T) {
	m := newAdaptiveModel()
	state := m.TrainFromHistory(nil)
	assert.Equal(t, 0, state.TrainingSamples)
	assert.Equal(t, model.PriorWeights(), state.Weights)
}

func TestAdaptiveModel_ResetRestoresPriors(t *testing.T) {
	m := newAdaptiveModel()
	for i := 0; i < 30; i++ {
		m.Learn(outcome("u", 350, model.ComponentScores{Utility: 30, UPI: 20, Location: 25, Social: 15}, false))
	}
	require.NotEqual(t, model.PriorCoefficients(), m.Stats().Coefficients)

	state := m.Reset()
	assert.Equal(t, model.PriorWeights(), state.Weights)
	assert.Equal(t, model.PriorCoefficients(), state.Coefficients)
	assert.Equal(t, 0, state.TrainingSamples)
	assert.Equal(t, model.ModelVersion, state.Version)
}
