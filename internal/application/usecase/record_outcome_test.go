package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altcred/trustengine/internal/application/dto"
	"github.com/altcred/trustengine/internal/application/usecase"
	"github.com/altcred/trustengine/internal/domain/event"
	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/service"
)

func outcomeRequest() dto.RecordOutcomeRequest {
	return dto.RecordOutcomeRequest{
		UserID:          "user-1",
		TrustScore:      640,
		ComponentScores: model.ComponentScores{Utility: 60, UPI: 55, Location: 50, Social: 45},
		LoanAmount:      decimal.NewFromInt(8000),
		Repaid:          true,
		RepaymentRate:   1.0,
	}
}

type recordFixture struct {
	uc          *usecase.RecordOutcomeUseCase
	adaptive    *service.AdaptiveModel
	outcomeRepo *mockOutcomeRepo
	stateRepo   *mockStateRepo
	publisher   *mockPublisher
}

func newRecordFixture() *recordFixture {
	adaptive := service.NewAdaptiveModel(model.NewModelState(), service.DefaultAdaptiveConfig(), service.NewRuleScorer())
	outcomeRepo := &mockOutcomeRepo{}
	stateRepo := &mockStateRepo{}
	publisher := &mockPublisher{}

	return &recordFixture{
		uc:          usecase.NewRecordOutcomeUseCase(adaptive, outcomeRepo, stateRepo, publisher, slog.Default()),
		adaptive:    adaptive,
		outcomeRepo: outcomeRepo,
		stateRepo:   stateRepo,
		publisher:   publisher,
	}
}

func TestRecordOutcome_LearnsAndPersists(t *testing.T) {
	f := newRecordFixture()

	resp, err := f.uc.Execute(context.Background(), outcomeRequest())
	require.NoError(t, err)

	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, 1, resp.TrainingSamples)
	assert.True(t, resp.OutcomePersisted)
	assert.True(t, resp.StatePersisted)

	assert.Equal(t, 1, f.adaptive.TrainingSamples())

	require.Len(t, f.outcomeRepo.saved, 1)
	assert.Equal(t, "user-1", f.outcomeRepo.saved[0].UserID)
	assert.False(t, f.outcomeRepo.saved[0].CreatedAt.IsZero(), "missing timestamps are filled in")

	require.Len(t, f.stateRepo.saved, 1)
	assert.Equal(t, 1, f.stateRepo.saved[0].TrainingSamples)

	require.Len(t, f.publisher.published, 2)
	assert.Equal(t, "scoring.outcome.recorded", f.publisher.published[0].EventType())
	assert.Equal(t, "scoring.model.trained", f.publisher.published[1].EventType())
}

func TestRecordOutcome_SamplesAccumulate(t *testing.T) {
	f := newRecordFixture()

	for i := 1; i <= 5; i++ {
		resp, err := f.uc.Execute(context.Background(), outcomeRequest())
		require.NoError(t, err)
		assert.Equal(t, i, resp.TrainingSamples)
	}
}

func TestRecordOutcome_InvalidOutcomeRejected(t *testing.T) {
	f := newRecordFixture()

	req := outcomeRequest()
	req.TrustScore = 250

	_, err := f.uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid outcome")

	assert.Equal(t, 0, f.adaptive.TrainingSamples(), "rejected outcomes never reach the model")
	assert.Empty(t, f.outcomeRepo.saved)
	assert.Empty(t, f.stateRepo.saved)
	assert.Empty(t, f.publisher.published)
}

func TestRecordOutcome_OutcomePersistenceFailure(t *testing.T) {
	f := newRecordFixture()
	f.outcomeRepo.saveFunc = func(context.Context, model.LoanOutcome) error {
		return errors.New("connection refused")
	}

	resp, err := f.uc.Execute(context.Background(), outcomeRequest())
	require.NoError(t, err, "persistence failure does not fail the request")

	assert.False(t, resp.OutcomePersisted)
	assert.True(t, resp.StatePersisted)
	assert.Equal(t, 1, f.adaptive.TrainingSamples(), "the model update survives the write failure")
}

func TestRecordOutcome_StatePersistenceFailure(t *testing.T) {
	f := newRecordFixture()
	f.stateRepo.saveFunc = func(context.Context, model.ModelState) error {
		return errors.New("connection refused")
	}

	resp, err := f.uc.Execute(context.Background(), outcomeRequest())
	require.NoError(t, err)

	assert.True(t, resp.OutcomePersisted)
	assert.False(t, resp.StatePersisted)
	assert.Equal(t, 1, f.adaptive.TrainingSamples())
}

func TestRecordOutcome_PublishFailureIsBestEffort(t *testing.T) {
	f := newRecordFixture()
	f.publisher.publishFunc = func(context.Context, ...event.DomainEvent) error {
		return errors.New("broker down")
	}

	resp, err := f.uc.Execute(context.Background(), outcomeRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TrainingSamples)
}
