package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CalculateScoreRequest carries a user's extracted behavioural features.
type CalculateScoreRequest struct {
	UserID   string                       `json:"user_id"`
	Utility  valueobject.UtilityFeatures  `json:"utility"`
	UPI      valueobject.UPIFeatures      `json:"upi"`
	Location valueobject.LocationFeatures `json:"location"`
	Social   valueobject.SocialFeatures   `json:"social"`
}

// RecordOutcomeRequest carries one labelled loan repayment outcome.
type RecordOutcomeRequest struct {
	UserID          string                `json:"user_id"`
	TrustScore      int                   `json:"trust_score"`
	ComponentScores model.ComponentScores `json:"component_scores"`
	LoanAmount      decimal.Decimal       `json:"loan_amount"`
	Repaid          bool                  `json:"repaid"`
	RepaymentRate   float64               `json:"repayment_rate,omitempty"`
	CreatedAt       time.Time             `json:"created_at,omitempty"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ScoreResponse is the external representation of a finished scoring run.
type ScoreResponse struct {
	UserID      string                `json:"user_id"`
	Result      model.ScoreResult     `json:"result"`
	Eligibility model.LoanEligibility `json:"eligibility"`
	// Persisted reports whether the score snapshot was durably saved. A
	// score is always returned even when saving failed; callers distinguish
	// "scored but not saved" from "failed to score" through this flag.
	Persisted        bool      `json:"persisted"`
	PersistenceError string    `json:"persistence_error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ScoreHistoryEntry is one point of a user's score history.
type ScoreHistoryEntry struct {
	TrustScore      int                   `json:"trust_score"`
	ComponentScores model.ComponentScores `json:"component_scores"`
	Source          model.ScorerSource    `json:"source"`
	CreatedAt       time.Time             `json:"created_at"`
}

// OutcomeResponse reports the result of recording one loan outcome.
type OutcomeResponse struct {
	UserID          string `json:"user_id"`
	TrainingSamples int    `json:"training_samples"`
	// OutcomePersisted and StatePersisted distinguish partial persistence
	// failures; the model update itself always happens.
	OutcomePersisted bool `json:"outcome_persisted"`
	StatePersisted   bool `json:"state_persisted"`
}

// TrainingResponse reports a batch training run.
type TrainingResponse struct {
	SamplesTrained  int                    `json:"samples_trained"`
	TrainingSamples int                    `json:"training_samples"`
	Weights         model.ComponentWeights `json:"weights"`
	StatePersisted  bool                   `json:"state_persisted"`
}

// ModelStatsResponse is a read-only snapshot of the adaptive model plus the
// selection policy's current decision.
type ModelStatsResponse struct {
	Weights         model.ComponentWeights `json:"weights"`
	Coefficients    model.Coefficients     `json:"coefficients"`
	TrainingSamples int                    `json:"training_samples"`
	Version         string                 `json:"version"`
	LearningRate    float64                `json:"learning_rate"`
	Confidence      float64                `json:"confidence"`
	WouldUse        model.ScorerSource     `json:"would_use"`
	UpdatedAt       time.Time              `json:"updated_at"`
}
