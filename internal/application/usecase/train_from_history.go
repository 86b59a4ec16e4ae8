package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/altcred/trustengine/internal/application/dto"
	"github.com/altcred/trustengine/internal/domain/event"
	"github.com/altcred/trustengine/internal/domain/port"
	"github.com/altcred/trustengine/internal/domain/service"
)

// TrainFromHistoryUseCase replays every stored loan outcome through the
// adaptive model, oldest first.
type TrainFromHistoryUseCase struct {
	adaptive    *service.AdaptiveModel
	outcomeRepo port.OutcomeRepository
	stateRepo   port.ModelStateRepository
	publisher   port.EventPublisher
	logger      *slog.Logger
}

// NewTrainFromHistoryUseCase wires dependencies.
func NewTrainFromHistoryUseCase(
	adaptive *service.AdaptiveModel,
	outcomeRepo port.OutcomeRepository,
	stateRepo port.ModelStateRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *TrainFromHistoryUseCase {
	return &TrainFromHistoryUseCase{
		adaptive:    adaptive,
		outcomeRepo: outcomeRepo,
		stateRepo:   stateRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute loads all outcomes ordered by creation time ascending and learns
// from each in turn.
func (uc *TrainFromHistoryUseCase) Execute(ctx context.Context) (dto.TrainingResponse, error) {
	outcomes, err := uc.outcomeRepo.ListAll(ctx)
	if err != nil {
		return dto.TrainingResponse{}, fmt.Errorf("load outcomes: %w", err)
	}

	if len(outcomes) == 0 {
		state := uc.adaptive.Stats()
		return dto.TrainingResponse{
			SamplesTrained:  0,
			TrainingSamples: state.TrainingSamples,
			Weights:         state.Weights,
			StatePersisted:  true,
		}, nil
	}

	state := uc.adaptive.TrainFromHistory(outcomes)

	uc.logger.InfoContext(ctx, "batch training complete",
		"samples_trained", len(outcomes),
		"training_samples", state.TrainingSamples,
	)

	statePersisted := true
	if err := uc.stateRepo.Save(ctx, state); err != nil {
		statePersisted = false
		uc.logger.WarnContext(ctx, "failed to persist model state after batch training", "error", err)
	}

	if err := uc.publisher.Publish(ctx, event.NewModelTrained(state)); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish training event", "error", err)
	}

	return dto.TrainingResponse{
		SamplesTrained:  len(outcomes),
		TrainingSamples: state.TrainingSamples,
		Weights:         state.Weights,
		StatePersisted:  statePersisted,
	}, nil
}
