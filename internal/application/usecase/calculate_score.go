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
	"github.com/altcred/trustengine/internal/domain/valueobject"
)

// ExternalScorer tries a third-party AI scorer with a built-in deterministic
// fallback. It never fails: any provider problem yields the rule-based
// result with Source set accordingly.
type ExternalScorer interface {
	Score(ctx context.Context, features valueobject.FeatureRecord) model.ScoreResult
}

// CalculateScoreUseCase orchestrates one scoring run: scorer selection,
// scoring, eligibility translation, persistence, and event publication.
type CalculateScoreUseCase struct {
	ruleScorer *service.RuleScorer
	adaptive   *service.AdaptiveModel
	external   ExternalScorer
	policy     service.SelectionPolicy
	translator *service.EligibilityTranslator
	scoreRepo  port.ScoreRepository
	publisher  port.EventPublisher
	logger     *slog.Logger
}

// NewCalculateScoreUseCase wires dependencies.
func NewCalculateScoreUseCase(
	ruleScorer *service.RuleScorer,
	adaptive *service.AdaptiveModel,
	external ExternalScorer,
	policy service.SelectionPolicy,
	translator *service.EligibilityTranslator,
	scoreRepo port.ScoreRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *CalculateScoreUseCase {
	return &CalculateScoreUseCase{
		ruleScorer: ruleScorer,
		adaptive:   adaptive,
		external:   external,
		policy:     policy,
		translator: translator,
		scoreRepo:  scoreRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute computes a trust score for the given features. An error is only
// returned for invalid input; once a feature record is accepted some score
// is always produced, persistence problems are reported on the response.
func (uc *CalculateScoreUseCase) Execute(ctx context.Context, req dto.CalculateScoreRequest) (dto.ScoreResponse, error) {
	if req.UserID == "" {
		return dto.ScoreResponse{}, fmt.Errorf("user_id is required")
	}

	// 1. Validate the feature record at the boundary; scorers assume
	// well-formed input.
	features, err := valueobject.NewFeatureRecord(req.Utility, req.UPI, req.Location, req.Social)
	if err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("invalid features: %w", err)
	}

	// 2. Pick a scorer. The rule-based result is always computed: it is the
	// fallback, the source of explanations, and it feeds the eligibility
	// translator even when the adaptive model supplies the headline number.
	ruleResult := uc.ruleScorer.Score(features)
	result := ruleResult
	eligibility := uc.translator.Translate(ruleResult.TrustScore, ruleResult.Confidence)

	switch uc.policy.Decide(uc.adaptive.TrainingSamples()) {
	case model.SourceExternalAI:
		result = uc.external.Score(ctx, features)
		eligibility = uc.translator.Translate(result.TrustScore, result.Confidence)
	case model.SourceAdaptive:
		result = uc.adaptive.Predict(features)
		result.Explanations = ruleResult.Explanations
	default:
		// rule-based, already in place
	}

	uc.logger.InfoContext(ctx, "trust score calculated",
		"user_id", req.UserID,
		"trust_score", result.TrustScore,
		"risk_category", result.RiskCategory,
		"source", result.Source,
		"confidence", result.Confidence,
	)

	snapshot := model.ScoreSnapshot{
		UserID:      req.UserID,
		Result:      result,
		Eligibility: eligibility,
		Features:    features,
		CreatedAt:   time.Now().UTC(),
	}

	// 3. Persist: calculation snapshot, append-only history, current
	// profile. Failures here never withhold the score from the caller.
	persisted := true
	var persistErr string
	saves := []struct {
		name string
		fn   func(context.Context, model.ScoreSnapshot) error
	}{
		{"snapshot", uc.scoreRepo.SaveSnapshot},
		{"history", uc.scoreRepo.AppendHistory},
		{"profile", uc.scoreRepo.UpdateProfile},
	}
	for _, step := range saves {
		name, save := step.name, step.fn
		if err := save(ctx, snapshot); err != nil {
			persisted = false
			persistErr = fmt.Sprintf("save %s: %v", name, err)
			uc.logger.WarnContext(ctx, "score computed but not fully persisted",
				"user_id", req.UserID, "step", name, "error", err)
		}
	}

	// 4. Publish, best effort.
	if err := uc.publisher.Publish(ctx, event.NewScoreCalculated(req.UserID, result, persisted)); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish score event", "user_id", req.UserID, "error", err)
	}

	return dto.ScoreResponse{
		UserID:           req.UserID,
		Result:           result,
		Eligibility:      eligibility,
		Persisted:        persisted,
		PersistenceError: persistErr,
		CreatedAt:        snapshot.CreatedAt,
	}, nil
}

// WouldUse reports which scorer the policy would pick right now, without
// scoring anything.
func (uc *CalculateScoreUseCase) WouldUse() model.ScorerSource {
	return uc.policy.Decide(uc.adaptive.TrainingSamples())
}
