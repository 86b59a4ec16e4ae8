package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altcred/trustengine/internal/application/usecase"
	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/service"
)

func trainedAdaptiveModel(t *testing.T, samples int) *service.AdaptiveModel {
	t.Helper()
	adaptive := service.NewAdaptiveModel(model.NewModelState(), service.DefaultAdaptiveConfig(), service.NewRuleScorer())
	req := outcomeRequest()
	for i := 0; i < samples; i++ {
		adaptive.Learn(model.LoanOutcome{
			UserID:          req.UserID,
			TrustScore:      req.TrustScore,
			ComponentScores: req.ComponentScores,
			LoanAmount:      req.LoanAmount,
			Repaid:          req.Repaid,
			RepaymentRate:   req.RepaymentRate,
		})
	}
	return adaptive
}

func TestResetModel_RestoresPriorsAndPersists(t *testing.T) {
	adaptive := trainedAdaptiveModel(t, 5)
	stateRepo := &mockStateRepo{}
	publisher := &mockPublisher{}

	uc := usecase.NewResetModelUseCase(adaptive, stateRepo, publisher, service.DefaultAdaptiveConfig(), slog.Default())

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.PriorWeights(), resp.Weights)
	assert.Equal(t, model.PriorCoefficients(), resp.Coefficients)
	assert.Equal(t, 0, resp.TrainingSamples)
	assert.Zero(t, resp.Confidence)
	assert.Equal(t, 0, adaptive.TrainingSamples())

	require.Len(t, stateRepo.saved, 1)
	assert.Equal(t, 0, stateRepo.saved[0].TrainingSamples)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, "scoring.model.reset", publisher.published[0].EventType())
}

func TestResetModel_PersistenceFailureFails(t *testing.T) {
	adaptive := trainedAdaptiveModel(t, 3)
	stateRepo := &mockStateRepo{
		saveFunc: func(context.Context, model.ModelState) error {
			return errors.New("connection refused")
		},
	}

	uc := usecase.NewResetModelUseCase(adaptive, stateRepo, &mockPublisher{}, service.DefaultAdaptiveConfig(), slog.Default())

	_, err := uc.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist reset state")
}

func TestGetModelStats_ReportsPolicyDecision(t *testing.T) {
	cfg := service.DefaultAdaptiveConfig()
	adaptive := trainedAdaptiveModel(t, 12)
	policy := service.NewSelectionPolicy(10, false, false)

	uc := usecase.NewGetModelStatsUseCase(adaptive, policy, cfg)

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, resp.TrainingSamples)
	assert.Equal(t, model.ModelVersion, resp.Version)
	assert.Equal(t, cfg.LearningRate, resp.LearningRate)
	assert.InDelta(t, 12.0/1000.0, resp.Confidence, 1e-9)
	assert.Equal(t, model.SourceAdaptive, resp.WouldUse)
}

func TestGetModelStats_UntrainedModelWouldUseRules(t *testing.T) {
	adaptive := service.NewAdaptiveModel(model.NewModelState(), service.DefaultAdaptiveConfig(), service.NewRuleScorer())
	policy := service.NewSelectionPolicy(10, false, false)

	uc := usecase.NewGetModelStatsUseCase(adaptive, policy, service.DefaultAdaptiveConfig())

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, resp.TrainingSamples)
	assert.Zero(t, resp.Confidence)
	assert.Equal(t, model.SourceRuleBased, resp.WouldUse)
}
