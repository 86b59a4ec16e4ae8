package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/port"
	pkgpostgres "github.com/altcred/trustengine/pkg/postgres"
)

// ModelStateRepo implements port.ModelStateRepository. The adaptive model is
// process-wide, so its state lives in a single row.
type ModelStateRepo struct {
	db pkgpostgres.Querier
}

// NewModelStateRepo creates a new PostgreSQL-backed model state repository.
func NewModelStateRepo(db pkgpostgres.Querier) *ModelStateRepo {
	return &ModelStateRepo{db: db}
}

// Load retrieves the persisted model state. Returns port.ErrNotFound when no
// state has been saved yet; callers start from priors in that case.
func (r *ModelStateRepo) Load(ctx context.Context) (model.ModelState, error) {
	query := `
		SELECT weight_utility, weight_upi, weight_location, weight_social,
		       coef_intercept, coef_utility, coef_upi, coef_location, coef_social,
		       training_samples, version, updated_at
		FROM adaptive_model_state
		WHERE id = 1
	`
	var state model.ModelState
	err := r.db.QueryRow(ctx, query).Scan(
		&state.Weights.Utility, &state.Weights.UPI, &state.Weights.Location, &state.Weights.Social,
		&state.Coefficients.Intercept, &state.Coefficients.Utility, &state.Coefficients.UPI,
		&state.Coefficients.Location, &state.Coefficients.Social,
		&state.TrainingSamples, &state.Version, &state.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ModelState{}, port.ErrNotFound
	}
	if err != nil {
		return model.ModelState{}, fmt.Errorf("load model state: %w", err)
	}
	return state, nil
}

// Save upserts the singleton model state row.
func (r *ModelStateRepo) Save(ctx context.Context, state model.ModelState) error {
	query := `
		INSERT INTO adaptive_model_state (
			id, weight_utility, weight_upi, weight_location, weight_social,
			coef_intercept, coef_utility, coef_upi, coef_location, coef_social,
			training_samples, version, updated_at
		) VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			weight_utility   = EXCLUDED.weight_utility,
			weight_upi       = EXCLUDED.weight_upi,
			weight_location  = EXCLUDED.weight_location,
			weight_social    = EXCLUDED.weight_social,
			coef_intercept   = EXCLUDED.coef_intercept,
			coef_utility     = EXCLUDED.coef_utility,
			coef_upi         = EXCLUDED.coef_upi,
			coef_location    = EXCLUDED.coef_location,
			coef_social      = EXCLUDED.coef_social,
			training_samples = EXCLUDED.training_samples,
			version          = EXCLUDED.version,
			updated_at       = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		state.Weights.Utility, state.Weights.UPI, state.Weights.Location, state.Weights.Social,
		state.Coefficients.Intercept, state.Coefficients.Utility, state.Coefficients.UPI,
		state.Coefficients.Location, state.Coefficients.Social,
		state.TrainingSamples, state.Version, state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save model state: %w", err)
	}
	return nil
}
