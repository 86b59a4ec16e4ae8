package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/port"
	pkgpostgres "github.com/altcred/trustengine/pkg/postgres"
)

// ScoreRepo implements port.ScoreRepository across three tables: a full
// calculation snapshot, a compact append-only history log, and the profile's
// current score.
type ScoreRepo struct {
	db pkgpostgres.Querier
}

// NewScoreRepo creates a new PostgreSQL-backed score repository. The Querier
// is normally a pool; passing a transaction scopes every method to it.
func NewScoreRepo(db pkgpostgres.Querier) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// SaveSnapshot stores the full scoring run, result and input features
// included, as JSONB documents.
func (r *ScoreRepo) SaveSnapshot(ctx context.Context, snapshot model.ScoreSnapshot) error {
	result, err := json.Marshal(snapshot.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	eligibility, err := json.Marshal(snapshot.Eligibility)
	if err != nil {
		return fmt.Errorf("marshal eligibility: %w", err)
	}
	features, err := json.Marshal(snapshot.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	query := `
		INSERT INTO score_snapshots (id, user_id, result, eligibility, features, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.Exec(ctx, query,
		uuid.New(), snapshot.UserID, result, eligibility, features, snapshot.CreatedAt,
	); err != nil {
		return fmt.Errorf("save score snapshot: %w", err)
	}
	return nil
}

// AppendHistory appends one compact history row for the scoring run.
func (r *ScoreRepo) AppendHistory(ctx context.Context, snapshot model.ScoreSnapshot) error {
	query := `
		INSERT INTO score_history (
			id, user_id, trust_score,
			utility_score, upi_score, location_score, social_score,
			source, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	c := snapshot.Result.ComponentScores
	if _, err := r.db.Exec(ctx, query,
		uuid.New(), snapshot.UserID, snapshot.Result.TrustScore,
		c.Utility, c.UPI, c.Location, c.Social,
		string(snapshot.Result.Source), snapshot.CreatedAt,
	); err != nil {
		return fmt.Errorf("append score history: %w", err)
	}
	return nil
}

// UpdateProfile upserts the user's current score on their profile record.
func (r *ScoreRepo) UpdateProfile(ctx context.Context, snapshot model.ScoreSnapshot) error {
	query := `
		INSERT INTO score_profiles (
			user_id, trust_score, risk_category, confidence, source,
			min_amount, max_amount, interest_rate_annual_pct, tenure_months,
			updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (user_id) DO UPDATE SET
			trust_score              = EXCLUDED.trust_score,
			risk_category            = EXCLUDED.risk_category,
			confidence               = EXCLUDED.confidence,
			source                   = EXCLUDED.source,
			min_amount               = EXCLUDED.min_amount,
			max_amount               = EXCLUDED.max_amount,
			interest_rate_annual_pct = EXCLUDED.interest_rate_annual_pct,
			tenure_months            = EXCLUDED.tenure_months,
			updated_at               = EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, query,
		snapshot.UserID, snapshot.Result.TrustScore, snapshot.Result.RiskCategory.String(),
		snapshot.Result.Confidence, string(snapshot.Result.Source),
		snapshot.Eligibility.MinAmount, snapshot.Eligibility.MaxAmount,
		snapshot.Eligibility.InterestRateAnnualPct, snapshot.Eligibility.RecommendedTenureMonths,
		snapshot.CreatedAt,
	); err != nil {
		return fmt.Errorf("update score profile: %w", err)
	}
	return nil
}

// LatestSnapshot retrieves the most recent full snapshot for a user.
func (r *ScoreRepo) LatestSnapshot(ctx context.Context, userID string) (model.ScoreSnapshot, error) {
	query := `
		SELECT user_id, result, eligibility, features, created_at
		FROM score_snapshots
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	snapshot, err := scanSnapshotRow(r.db.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ScoreSnapshot{}, port.ErrNotFound
	}
	if err != nil {
		return model.ScoreSnapshot{}, fmt.Errorf("load latest snapshot: %w", err)
	}
	return snapshot, nil
}

// History retrieves all snapshots for a user, oldest first.
func (r *ScoreRepo) History(ctx context.Context, userID string) ([]model.ScoreSnapshot, error) {
	query := `
		SELECT user_id, result, eligibility, features, created_at
		FROM score_snapshots
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query score history: %w", err)
	}
	defer rows.Close()

	var snapshots []model.ScoreSnapshot
	for rows.Next() {
		snapshot, err := scanSnapshotRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan score history: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSnapshotRow(s scannable) (model.ScoreSnapshot, error) {
	var (
		snapshot    model.ScoreSnapshot
		result      []byte
		eligibility []byte
		features    []byte
	)
	if err := s.Scan(&snapshot.UserID, &result, &eligibility, &features, &snapshot.CreatedAt); err != nil {
		return model.ScoreSnapshot{}, err
	}
	if err := json.Unmarshal(result, &snapshot.Result); err != nil {
		return model.ScoreSnapshot{}, fmt.Errorf("unmarshal result: %w", err)
	}
	if err := json.Unmarshal(eligibility, &snapshot.Eligibility); err != nil {
		return model.ScoreSnapshot{}, fmt.Errorf("unmarshal eligibility: %w", err)
	}
	if err := json.Unmarshal(features, &snapshot.Features); err != nil {
		return model.ScoreSnapshot{}, fmt.Errorf("unmarshal features: %w", err)
	}
	return snapshot, nil
}
