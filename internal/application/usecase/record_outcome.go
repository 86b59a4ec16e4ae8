package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/altcred/trustengine/internal/application/dto"
	"github.com/altcred/trustengine/internal/domain/event"
	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/port"
	"github.com/altcred/trustengine/internal/domain/service"
)

// RecordOutcomeUseCase ingests one labelled loan outcome: it persists the
// outcome, drives an adaptive-model update, and persists the new model
// state.
type RecordOutcomeUseCase struct {
	adaptive    *service.AdaptiveModel
	outcomeRepo port.OutcomeRepository
	stateRepo   port.ModelStateRepository
	publisher   port.EventPublisher
	logger      *slog.Logger
}

// NewRecordOutcomeUseCase wires dependencies.
func NewRecordOutcomeUseCase(
	adaptive *service.AdaptiveModel,
	outcomeRepo port.OutcomeRepository,
	stateRepo port.ModelStateRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *RecordOutcomeUseCase {
	return &RecordOutcomeUseCase{
		adaptive:    adaptive,
		outcomeRepo: outcomeRepo,
		stateRepo:   stateRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute validates and learns from one outcome. The model update always
// happens for a valid outcome; persistence failures are reported on the
// response rather than discarding the update.
func (uc *RecordOutcomeUseCase) Execute(ctx context.Context, req dto.RecordOutcomeRequest) (dto.OutcomeResponse, error) {
	outcome := model.LoanOutcome{
		UserID:          req.UserID,
		TrustScore:      req.TrustScore,
		ComponentScores: req.ComponentScores,
		LoanAmount:      req.LoanAmount,
		Repaid:          req.Repaid,
		RepaymentRate:   req.RepaymentRate,
		CreatedAt:       req.CreatedAt,
	}
	if outcome.CreatedAt.IsZero() {
		outcome.CreatedAt = time.Now().UTC()
	}
	if err := outcome.Validate(); err != nil {
		return dto.OutcomeResponse{}, fmt.Errorf("invalid outcome: %w", err)
	}

	state := uc.adaptive.Learn(outcome)

	uc.logger.InfoContext(ctx, "learned from loan outcome",
		"user_id", outcome.UserID,
		"repaid", outcome.Repaid,
		"training_samples", state.TrainingSamples,
	)

	outcomePersisted := true
	if err := uc.outcomeRepo.Save(ctx, outcome); err != nil {
		outcomePersisted = false
		uc.logger.WarnContext(ctx, "failed to persist loan outcome", "user_id", outcome.UserID, "error", err)
	}

	statePersisted := true
	if err := uc.stateRepo.Save(ctx, state); err != nil {
		statePersisted = false
		uc.logger.WarnContext(ctx, "failed to persist model state", "error", err)
	}

	if err := uc.publisher.Publish(ctx,
		event.NewLoanOutcomeRecorded(outcome),
		event.NewModelTrained(state),
	); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish outcome events", "user_id", outcome.UserID, "error", err)
	}

	return dto.OutcomeResponse{
		UserID:           outcome.UserID,
		TrainingSamples:  state.TrainingSamples,
		OutcomePersisted: outcomePersisted,
		StatePersisted:   statePersisted,
	}, nil
}
