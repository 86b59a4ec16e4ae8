package usecase

import (
	"context"
	"fmt"

	"github.com/altcred/trustengine/internal/application/dto"
	"github.com/altcred/trustengine/internal/domain/port"
)

// GetScoreUseCase retrieves a user's most recent score snapshot.
type GetScoreUseCase struct {
	scoreRepo port.ScoreRepository
}

// NewGetScoreUseCase wires dependencies.
func NewGetScoreUseCase(scoreRepo port.ScoreRepository) *GetScoreUseCase {
	return &GetScoreUseCase{scoreRepo: scoreRepo}
}

// Execute returns the latest snapshot for the user, or port.ErrNotFound.
func (uc *GetScoreUseCase) Execute(ctx context.Context, userID string) (dto.ScoreResponse, error) {
	if userID == "" {
		return dto.ScoreResponse{}, fmt.Errorf("user_id is required")
	}

	snapshot, err := uc.scoreRepo.LatestSnapshot(ctx, userID)
	if err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("load latest snapshot: %w", err)
	}

	return dto.ScoreResponse{
		UserID:      snapshot.UserID,
		Result:      snapshot.Result,
		Eligibility: snapshot.Eligibility,
		Persisted:   true,
		CreatedAt:   snapshot.CreatedAt,
	}, nil
}

// GetScoreHistoryUseCase retrieves a user's score history, oldest first.
type GetScoreHistoryUseCase struct {
	scoreRepo port.ScoreRepository
}

// NewGetScoreHistoryUseCase wires dependencies.
func NewGetScoreHistoryUseCase(scoreRepo port.ScoreRepository) *GetScoreHistoryUseCase {
	return &GetScoreHistoryUseCase{scoreRepo: scoreRepo}
}

// Execute returns the user's score history in ascending time order.
func (uc *GetScoreHistoryUseCase) Execute(ctx context.Context, userID string) ([]dto.ScoreHistoryEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	snapshots, err := uc.scoreRepo.History(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load score history: %w", err)
	}

	entries := make([]dto.ScoreHistoryEntry, 0, len(snapshots))
	for _, s := range snapshots {
		entries = append(entries, dto.ScoreHistoryEntry{
			TrustScore:      s.Result.TrustScore,
			ComponentScores: s.Result.ComponentScores,
			Source:          s.Result.Source,
			CreatedAt:       s.CreatedAt,
		})
	}
	return entries, nil
}
