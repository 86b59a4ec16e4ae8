package event

import (
	"github.com/shopspring/decimal"

	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Scoring events
// ---------------------------------------------------------------------------

// ScoreCalculated is raised after a trust score has been computed for a user.
type ScoreCalculated struct {
	events.BaseEvent
	TrustScore   int                `json:"trust_score"`
	RiskCategory string             `json:"risk_category"`
	Source       model.ScorerSource `json:"source"`
	Confidence   float64            `json:"confidence"`
	Persisted    bool               `json:"persisted"`
}

// NewScoreCalculated builds the event from a finished scoring run.
func NewScoreCalculated(userID string, result model.ScoreResult, persisted bool) ScoreCalculated {
	return ScoreCalculated{
		BaseEvent:    events.NewBaseEvent("scoring.score.calculated", userID, "TrustScore"),
		TrustScore:   result.TrustScore,
		RiskCategory: result.RiskCategory.String(),
		Source:       result.Source,
		Confidence:   result.Confidence,
		Persisted:    persisted,
	}
}

// ---------------------------------------------------------------------------
// Training events
// ---------------------------------------------------------------------------

// LoanOutcomeRecorded is raised when a labelled repayment outcome enters the
// training feed.
type LoanOutcomeRecorded struct {
	events.BaseEvent
	TrustScore int             `json:"trust_score"`
	LoanAmount decimal.Decimal `json:"loan_amount"`
	Repaid     bool            `json:"repaid"`
}

// NewLoanOutcomeRecorded builds the event from a recorded outcome.
func NewLoanOutcomeRecorded(outcome model.LoanOutcome) LoanOutcomeRecorded {
	return LoanOutcomeRecorded{
		BaseEvent:  events.NewBaseEvent("scoring.outcome.recorded", outcome.UserID, "LoanOutcome"),
		TrustScore: outcome.TrustScore,
		LoanAmount: outcome.LoanAmount,
		Repaid:     outcome.Repaid,
	}
}

// ModelTrained is raised after the adaptive model has learned from one or
// more outcomes.
type ModelTrained struct {
	events.BaseEvent
	TrainingSamples int                    `json:"training_samples"`
	Weights         model.ComponentWeights `json:"weights"`
	Version         string                 `json:"version"`
}

// NewModelTrained builds the event from the post-training model state.
func NewModelTrained(state model.ModelState) ModelTrained {
	return ModelTrained{
		BaseEvent:       events.NewBaseEvent("scoring.model.trained", state.Version, "AdaptiveModel"),
		TrainingSamples: state.TrainingSamples,
		Weights:         state.Weights,
		Version:         state.Version,
	}
}

// ModelReset is raised when an operator resets the adaptive model to priors.
type ModelReset struct {
	events.BaseEvent
	Version string `json:"version"`
}

// NewModelReset builds the event from the freshly reset state.
func NewModelReset(state model.ModelState) ModelReset {
	return ModelReset{
		BaseEvent: events.NewBaseEvent("scoring.model.reset", state.Version, "AdaptiveModel"),
		Version:   state.Version,
	}
}
