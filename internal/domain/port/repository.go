package port

import (
	"context"
	"errors"

	"github.com/altcred/trustengine/internal/domain/event"
	"github.com/altcred/trustengine/internal/domain/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// ModelStateRepository persists the adaptive model's learned state. Losing
// this state degrades to a fresh start from priors, which is an accepted
// (and documented) degradation mode.
type ModelStateRepository interface {
	Load(ctx context.Context) (model.ModelState, error)
	Save(ctx context.Context, state model.ModelState) error
}

// ScoreRepository persists scoring runs: a calculation snapshot, an
// append-only score history, and the profile's current score.
type ScoreRepository interface {
	SaveSnapshot(ctx context.Context, snapshot model.ScoreSnapshot) error
	AppendHistory(ctx context.Context, snapshot model.ScoreSnapshot) error
	UpdateProfile(ctx context.Context, snapshot model.ScoreSnapshot) error
	LatestSnapshot(ctx context.Context, userID string) (model.ScoreSnapshot, error)
	History(ctx context.Context, userID string) ([]model.ScoreSnapshot, error)
}

// OutcomeRepository persists labelled loan outcomes for the training feed.
type OutcomeRepository interface {
	Save(ctx context.Context, outcome model.LoanOutcome) error
	// ListAll returns every outcome ordered by creation time ascending, the
	// order batch training replays them in.
	ListAll(ctx context.Context) ([]model.LoanOutcome, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// AIProvider generates a raw text assessment from a scoring prompt. Provider
// implementations (Gemini, Grok) are interchangeable and selected by
// configuration.
type AIProvider interface {
	// Name identifies the provider in logs.
	Name() string
	// Ready reports whether the provider has usable credentials.
	Ready() bool
	// GenerateAssessment submits the prompt and returns the raw model text.
	GenerateAssessment(ctx context.Context, prompt string) (string, error)
}
