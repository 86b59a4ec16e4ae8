package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/altcred/trustengine/internal/application/dto"
	"github.com/altcred/trustengine/internal/application/usecase"
	"github.com/altcred/trustengine/internal/domain/port"
	"github.com/altcred/trustengine/pkg/observability"
)

// ScoringHandler serves the trust scoring REST API.
type ScoringHandler struct {
	calculateUC *usecase.CalculateScoreUseCase
	getScoreUC  *usecase.GetScoreUseCase
	historyUC   *usecase.GetScoreHistoryUseCase
	outcomeUC   *usecase.RecordOutcomeUseCase
	trainUC     *usecase.TrainFromHistoryUseCase
	seedUC      *usecase.SeedModelUseCase
	resetUC     *usecase.ResetModelUseCase
	statsUC     *usecase.GetModelStatsUseCase
	metrics     *observability.ScoringMetrics
	logger      *slog.Logger
}

// NewScoringHandler creates the scoring API handler.
func NewScoringHandler(
	calculateUC *usecase.CalculateScoreUseCase,
	getScoreUC *usecase.GetScoreUseCase,
	historyUC *usecase.GetScoreHistoryUseCase,
	outcomeUC *usecase.RecordOutcomeUseCase,
	trainUC *usecase.TrainFromHistoryUseCase,
	seedUC *usecase.SeedModelUseCase,
	resetUC *usecase.ResetModelUseCase,
	statsUC *usecase.GetModelStatsUseCase,
	metrics *observability.ScoringMetrics,
	logger *slog.Logger,
) *ScoringHandler {
	return &ScoringHandler{
		calculateUC: calculateUC,
		getScoreUC:  getScoreUC,
		historyUC:   historyUC,
		outcomeUC:   outcomeUC,
		trainUC:     trainUC,
		seedUC:      seedUC,
		resetUC:     resetUC,
		statsUC:     statsUC,
		metrics:     metrics,
		logger:      logger,
	}
}

// RegisterRoutes attaches the scoring API routes to the given mux.
func (h *ScoringHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/scores", h.calculateScore)
	mux.HandleFunc("GET /api/v1/scores/{user_id}", h.getScore)
	mux.HandleFunc("GET /api/v1/scores/{user_id}/history", h.getHistory)

	mux.HandleFunc("POST /api/v1/outcomes", h.recordOutcome)

	mux.HandleFunc("POST /api/v1/model/train", h.trainModel)
	mux.HandleFunc("POST /api/v1/model/seed", h.seedModel)
	mux.HandleFunc("POST /api/v1/model/reset", h.resetModel)
	mux.HandleFunc("GET /api/v1/model/stats", h.modelStats)
}

func (h *ScoringHandler) calculateScore(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculateScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.calculateUC.Execute(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.metrics.ScoresComputed.WithLabelValues(string(resp.Result.Source)).Inc()

	writeJSON(w, http.StatusOK, resp)
}

func (h *ScoringHandler) getScore(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")

	resp, err := h.getScoreUC.Execute(r.Context(), userID)
	if errors.Is(err, port.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no score found for user")
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "get score failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load score")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ScoringHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")

	entries, err := h.historyUC.Execute(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "get score history failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load score history")
		return
	}
	if entries == nil {
		entries = []dto.ScoreHistoryEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"history": entries,
	})
}

func (h *ScoringHandler) recordOutcome(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordOutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.outcomeUC.Execute(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.metrics.OutcomesLearned.Inc()
	h.metrics.TrainingSamples.Set(float64(resp.TrainingSamples))

	writeJSON(w, http.StatusOK, resp)
}

func (h *ScoringHandler) trainModel(w http.ResponseWriter, r *http.Request) {
	resp, err := h.trainUC.Execute(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "batch training failed", "error", err)
		writeError(w, http.StatusInternalServerError, "batch training failed")
		return
	}

	h.metrics.TrainingSamples.Set(float64(resp.TrainingSamples))

	writeJSON(w, http.StatusOK, resp)
}

func (h *ScoringHandler) seedModel(w http.ResponseWriter, r *http.Request) {
	resp, err := h.seedUC.Execute(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "model seeding failed", "error", err)
		writeError(w, http.StatusInternalServerError, "model seeding failed")
		return
	}

	h.metrics.TrainingSamples.Set(float64(resp.TrainingSamples))

	writeJSON(w, http.StatusOK, resp)
}

func (h *ScoringHandler) resetModel(w http.ResponseWriter, r *http.Request) {
	resp, err := h.resetUC.Execute(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "model reset failed", "error", err)
		writeError(w, http.StatusInternalServerError, "model reset failed")
		return
	}

	h.metrics.TrainingSamples.Set(float64(resp.TrainingSamples))

	writeJSON(w, http.StatusOK, resp)
}

func (h *ScoringHandler) modelStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.statsUC.Execute(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read model stats")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
