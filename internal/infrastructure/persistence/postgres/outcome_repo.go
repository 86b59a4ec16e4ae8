package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/altcred/trustengine/internal/domain/model"
	pkgpostgres "github.com/altcred/trustengine/pkg/postgres"
)

// OutcomeRepo implements port.OutcomeRepository.
type OutcomeRepo struct {
	db pkgpostgres.Querier
}

// NewOutcomeRepo creates a new PostgreSQL-backed loan outcome repository.
func NewOutcomeRepo(db pkgpostgres.Querier) *OutcomeRepo {
	return &OutcomeRepo{db: db}
}

// Save persists one labelled loan outcome.
func (r *OutcomeRepo) Save(ctx context.Context, outcome model.LoanOutcome) error {
	query := `
		INSERT INTO loan_outcomes (
			id, user_id, trust_score,
			utility_score, upi_score, location_score, social_score,
			loan_amount, repaid, repayment_rate, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	c := outcome.ComponentScores
	if _, err := r.db.Exec(ctx, query,
		uuid.New(), outcome.UserID, outcome.TrustScore,
		c.Utility, c.UPI, c.Location, c.Social,
		outcome.LoanAmount, outcome.Repaid, outcome.RepaymentRate, outcome.CreatedAt,
	); err != nil {
		return fmt.Errorf("save loan outcome: %w", err)
	}
	return nil
}

// ListAll returns every outcome ordered by creation time ascending. Batch
// training replays outcomes in this order so retraining is reproducible.
func (r *OutcomeRepo) ListAll(ctx context.Context) ([]model.LoanOutcome, error) {
	query := `
		SELECT user_id, trust_score,
		       utility_score, upi_score, location_score, social_score,
		       loan_amount, repaid, repayment_rate, created_at
		FROM loan_outcomes
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query loan outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []model.LoanOutcome
	for rows.Next() {
		var o model.LoanOutcome
		if err := rows.Scan(
			&o.UserID, &o.TrustScore,
			&o.ComponentScores.Utility, &o.ComponentScores.UPI,
			&o.ComponentScores.Location, &o.ComponentScores.Social,
			&o.LoanAmount, &o.Repaid, &o.RepaymentRate, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan loan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
