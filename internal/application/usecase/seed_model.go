package usecase

import (
	"context"
	"log/slog"

	"github.com/altcred/trustengine/internal/application/dto"
	"github.com/altcred/trustengine/internal/domain/event"
	"github.com/altcred/trustengine/internal/domain/port"
	"github.com/altcred/trustengine/internal/domain/service"
)

// SeedModelUseCase warm-starts a fresh adaptive model from the synthetic
// four-band dataset, so the engine has a trained model before any real
// repayment outcomes exist.
type SeedModelUseCase struct {
	adaptive  *service.AdaptiveModel
	stateRepo port.ModelStateRepository
	publisher port.EventPublisher
	seed      int64
	logger    *slog.Logger
}

// NewSeedModelUseCase wires dependencies. The seed fixes the synthetic
// dataset, making repeated seeding runs reproducible.
func NewSeedModelUseCase(
	adaptive *service.AdaptiveModel,
	stateRepo port.ModelStateRepository,
	publisher port.EventPublisher,
	seed int64,
	logger *slog.Logger,
) *SeedModelUseCase {
	return &SeedModelUseCase{
		adaptive:  adaptive,
		stateRepo: stateRepo,
		publisher: publisher,
		seed:      seed,
		logger:    logger,
	}
}

// Execute trains the model on the synthetic dataset. A model that already
// has training history is left untouched.
func (uc *SeedModelUseCase) Execute(ctx context.Context) (dto.TrainingResponse, error) {
	if samples := uc.adaptive.TrainingSamples(); samples > 0 {
		state := uc.adaptive.Stats()
		uc.logger.InfoContext(ctx, "model already trained, skipping seed", "training_samples", samples)
		return dto.TrainingResponse{
			SamplesTrained:  0,
			TrainingSamples: state.TrainingSamples,
			Weights:         state.Weights,
			StatePersisted:  true,
		}, nil
	}

	outcomes := service.SeedDataset(uc.seed)
	state := uc.adaptive.TrainFromHistory(outcomes)

	uc.logger.InfoContext(ctx, "model seeded from synthetic dataset",
		"samples_trained", len(outcomes),
		"weights_utility", state.Weights.Utility,
		"weights_upi", state.Weights.UPI,
		"weights_location", state.Weights.Location,
		"weights_social", state.Weights.Social,
	)

	statePersisted := true
	if err := uc.stateRepo.Save(ctx, state); err != nil {
		statePersisted = false
		uc.logger.WarnContext(ctx, "failed to persist seeded model state", "error", err)
	}

	if err := uc.publisher.Publish(ctx, event.NewModelTrained(state)); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish seed training event", "error", err)
	}

	return dto.TrainingResponse{
		SamplesTrained:  len(outcomes),
		TrainingSamples: state.TrainingSamples,
		Weights:         state.Weights,
		StatePersisted:  statePersisted,
	}, nil
}
