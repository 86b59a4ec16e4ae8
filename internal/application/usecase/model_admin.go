package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/altcred/trustengine/internal/application/dto"
	"github.com/altcred/trustengine/internal/domain/event"
	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/port"
	"github.com/altcred/trustengine/internal/domain/service"
)

// ResetModelUseCase returns the adaptive model to priors. Administrative
// operation; the only way training history is ever discarded.
type ResetModelUseCase struct {
	adaptive  *service.AdaptiveModel
	stateRepo port.ModelStateRepository
	publisher port.EventPublisher
	cfg       service.AdaptiveConfig
	logger    *slog.Logger
}

// NewResetModelUseCase wires dependencies.
func NewResetModelUseCase(
	adaptive *service.AdaptiveModel,
	stateRepo port.ModelStateRepository,
	publisher port.EventPublisher,
	cfg service.AdaptiveConfig,
	logger *slog.Logger,
) *ResetModelUseCase {
	return &ResetModelUseCase{
		adaptive:  adaptive,
		stateRepo: stateRepo,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Execute resets the model and persists the fresh state.
func (uc *ResetModelUseCase) Execute(ctx context.Context) (dto.ModelStatsResponse, error) {
	state := uc.adaptive.Reset()

	uc.logger.InfoContext(ctx, "adaptive model reset to priors")

	if err := uc.stateRepo.Save(ctx, state); err != nil {
		return dto.ModelStatsResponse{}, fmt.Errorf("persist reset state: %w", err)
	}

	if err := uc.publisher.Publish(ctx, event.NewModelReset(state)); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish model reset event", "error", err)
	}

	return statsResponse(state, uc.cfg, model.SourceRuleBased), nil
}

// GetModelStatsUseCase exposes a read-only snapshot of the adaptive model
// for observability.
type GetModelStatsUseCase struct {
	adaptive *service.AdaptiveModel
	policy   service.SelectionPolicy
	cfg      service.AdaptiveConfig
}

// NewGetModelStatsUseCase wires dependencies.
func NewGetModelStatsUseCase(adaptive *service.AdaptiveModel, policy service.SelectionPolicy, cfg service.AdaptiveConfig) *GetModelStatsUseCase {
	return &GetModelStatsUseCase{adaptive: adaptive, policy: policy, cfg: cfg}
}

// Execute returns current model statistics and the scorer the policy would
// pick for the next request.
func (uc *GetModelStatsUseCase) Execute(_ context.Context) (dto.ModelStatsResponse, error) {
	state := uc.adaptive.Stats()
	return statsResponse(state, uc.cfg, uc.policy.Decide(state.TrainingSamples)), nil
}

func statsResponse(state model.ModelState, cfg service.AdaptiveConfig, wouldUse model.ScorerSource) dto.ModelStatsResponse {
	return dto.ModelStatsResponse{
		Weights:         state.Weights,
		Coefficients:    state.Coefficients,
		TrainingSamples: state.TrainingSamples,
		Version:         state.Version,
		LearningRate:    cfg.LearningRate,
		Confidence:      math.Min(float64(state.TrainingSamples)/float64(cfg.ConfidenceTargetSamples), 1),
		WouldUse:        wouldUse,
		UpdatedAt:       state.UpdatedAt,
	}
}
