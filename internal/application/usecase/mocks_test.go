package usecase_test

import (
	"context"

	"github.com/altcred/trustengine/internal/domain/event"
	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/port"
	"github.com/altcred/trustengine/internal/domain/valueobject"
)

// mockScoreRepo implements port.ScoreRepository with function fields so each
// test overrides only what it needs.
type mockScoreRepo struct {
	saveSnapshotFunc   func(ctx context.Context, snapshot model.ScoreSnapshot) error
	appendHistoryFunc  func(ctx context.Context, snapshot model.ScoreSnapshot) error
	updateProfileFunc  func(ctx context.Context, snapshot model.ScoreSnapshot) error
	latestSnapshotFunc func(ctx context.Context, userID string) (model.ScoreSnapshot, error)
	historyFunc        func(ctx context.Context, userID string) ([]model.ScoreSnapshot, error)
}

func (m *mockScoreRepo) SaveSnapshot(ctx context.Context, s model.ScoreSnapshot) error {
	if m.saveSnapshotFunc != nil {
		return m.saveSnapshotFunc(ctx, s)
	}
	return nil
}

func (m *mockScoreRepo) AppendHistory(ctx context.Context, s model.ScoreSnapshot) error {
	if m.appendHistoryFunc != nil {
		return m.appendHistoryFunc(ctx, s)
	}
	return nil
}

func (m *mockScoreRepo) UpdateProfile(ctx context.Context, s model.ScoreSnapshot) error {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, s)
	}
	return nil
}

func (m *mockScoreRepo) LatestSnapshot(ctx context.Context, userID string) (model.ScoreSnapshot, error) {
	if m.latestSnapshotFunc != nil {
		return m.latestSnapshotFunc(ctx, userID)
	}
	return model.ScoreSnapshot{}, port.ErrNotFound
}

func (m *mockScoreRepo) History(ctx context.Context, userID string) ([]model.ScoreSnapshot, error) {
	if m.historyFunc != nil {
		return m.historyFunc(ctx, userID)
	}
	return nil, nil
}

// mockStateRepo implements port.ModelStateRepository.
type mockStateRepo struct {
	loadFunc func(ctx context.Context) (model.ModelState, error)
	saveFunc func(ctx context.Context, state model.ModelState) error
	saved    []model.ModelState
}

func (m *mockStateRepo) Load(ctx context.Context) (model.ModelState, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx)
	}
	return model.ModelState{}, port.ErrNotFound
}

func (m *mockStateRepo) Save(ctx context.Context, state model.ModelState) error {
	m.saved = append(m.saved, state)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, state)
	}
	return nil
}

// mockOutcomeRepo implements port.OutcomeRepository.
type mockOutcomeRepo struct {
	saveFunc    func(ctx context.Context, outcome model.LoanOutcome) error
	listAllFunc func(ctx context.Context) ([]model.LoanOutcome, error)
	saved       []model.LoanOutcome
}

func (m *mockOutcomeRepo) Save(ctx context.Context, outcome model.LoanOutcome) error {
	m.saved = append(m.saved, outcome)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, outcome)
	}
	return nil
}

func (m *mockOutcomeRepo) ListAll(ctx context.Context) ([]model.LoanOutcome, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, nil
}

// mockPublisher implements port.EventPublisher and records what was
// published.
type mockPublisher struct {
	publishFunc func(ctx context.Context, events ...event.DomainEvent) error
	published   []event.DomainEvent
}

func (m *mockPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	m.published = append(m.published, events...)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, events...)
	}
	return nil
}

// mockExternalScorer implements usecase.ExternalScorer.
type mockExternalScorer struct {
	scoreFunc func(ctx context.Context, features valueobject.FeatureRecord) model.ScoreResult
	calls     int
}

func (m *mockExternalScorer) Score(ctx context.Context, features valueobject.FeatureRecord) model.ScoreResult {
	m.calls++
	return m.scoreFunc(ctx, features)
}
