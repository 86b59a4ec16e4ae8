package service

import (
	"math"
	"sync"
	"time"

	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// AdaptiveModel – online-learning trust scorer
// ---------------------------------------------------------------------------

// AdaptiveConfig tunes the online-learning model.
type AdaptiveConfig struct {
	// LearningRate is the fixed step size of each gradient update.
	LearningRate float64
	// ConfidenceTargetSamples is the sample count at which model confidence
	// reaches 1.0.
	ConfidenceTargetSamples int
}

// DefaultAdaptiveConfig returns the standard tuning.
func DefaultAdaptiveConfig() AdaptiveConfig {
	return AdaptiveConfig{
		LearningRate:            0.01,
		ConfidenceTargetSamples: 1000,
	}
}

// AdaptiveModel maintains a weight vector and logistic-regression
// coefficients that adapt from observed loan repayment outcomes.
//
// Learn and Reset mutate the state and are serialized behind a write lock:
// the update-then-renormalize sequence is not atomic, and unsynchronized
// updates would break the weight-sum invariant. Predict and Stats read a
// stable snapshot under a read lock.
type AdaptiveModel struct {
	mu     sync.RWMutex
	state  model.ModelState
	cfg    AdaptiveConfig
	scorer *RuleScorer
}

// NewAdaptiveModel creates a model from previously persisted state. Pass
// model.NewModelState() to start fresh from priors.
func NewAdaptiveModel(state model.ModelState, cfg AdaptiveConfig, scorer *RuleScorer) *AdaptiveModel {
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = DefaultAdaptiveConfig().LearningRate
	}
	if cfg.ConfidenceTargetSamples <= 0 {
		cfg.ConfidenceTargetSamples = DefaultAdaptiveConfig().ConfidenceTargetSamples
	}
	return &AdaptiveModel{state: state, cfg: cfg, scorer: scorer}
}

// Predict scores a feature record using the learned weights and reports the
// predicted default probability. Confidence reflects the model's training
// maturity, not this request's data completeness.
func (m *AdaptiveModel) Predict(features valueobject.FeatureRecord) model.ScoreResult {
	m.mu.RLock()
	state := m.state
	target := m.cfg.ConfidenceTargetSamples
	m.mu.RUnlock()

	components := m.scorer.ComponentScores(features)
	normalized := components.Normalized()

	weighted := normalized.Utility*state.Weights.Utility +
		normalized.UPI*state.Weights.UPI +
		normalized.Location*state.Weights.Location +
		normalized.Social*state.Weights.Social

	trustScore := int(math.Round(300 + weighted*600))

	defaultProb := 1 - repaymentProbability(state.Coefficients, normalized)

	return model.ScoreResult{
		TrustScore:         trustScore,
		ComponentScores:    components,
		RiskCategory:       valueobject.RiskFromScoreAndDefault(trustScore, defaultProb),
		Confidence:         math.Min(float64(state.TrainingSamples)/float64(target), 1),
		DefaultProbability: defaultProb,
		Source:             model.SourceAdaptive,
	}
}

// Learn updates the model from one labelled loan outcome.
//
// The update rule is single-sample gradient descent with a thresholded
// prediction error: error = label - (p_repay >= 0.5 ? 1 : 0). This is the
// engine's documented behaviour and is kept as-is rather than replaced with
// the log-loss gradient. After the weight update the four weights are
// re-normalized to sum to exactly 1.
func (m *AdaptiveModel) Learn(outcome model.LoanOutcome) model.ModelState {
	m.mu.Lock()
	defer m.mu.Unlock()

	x := outcome.ComponentScores.Normalized()
	label := outcome.Label()

	pRepay := repaymentProbability(m.state.Coefficients, x)
	var predicted float64
	if pRepay >= 0.5 {
		predicted = 1
	}
	errSignal := label - predicted
	lr := m.cfg.LearningRate

	w := &m.state.Weights
	w.Utility += lr * errSignal * x.Utility
	w.UPI += lr * errSignal * x.UPI
	w.Location += lr * errSignal * x.Location
	w.Social += lr * errSignal * x.Social

	// Invariant: weights sum to 1 after every update.
	total := w.Sum()
	w.Utility /= total
	w.UPI /= total
	w.Location /= total
	w.Social /= total

	c := &m.state.Coefficients
	c.Utility += lr * errSignal * x.Utility
	c.UPI += lr * errSignal * x.UPI
	c.Location += lr * errSignal * x.Location
	c.Social += lr * errSignal * x.Social
	c.Intercept += lr * errSignal

	m.state.TrainingSamples++
	m.state.UpdatedAt = time.Now().UTC()

	return m.state
}

// TrainFromHistory replays outcomes through Learn in the given order.
// Learning is online, so order affects the final weights; callers needing
// reproducibility must order by outcome creation time ascending.
func (m *AdaptiveModel) TrainFromHistory(outcomes []model.LoanOutcome) model.ModelState {
	var state model.ModelState
	for _, outcome := range outcomes {
		state = m.Learn(outcome)
	}
	if len(outcomes) == 0 {
		return m.Stats()
	}
	return state
}

// Reset returns the model to priors with zero training samples.
func (m *AdaptiveModel) Reset() model.ModelState {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = model.NewModelState()
	m.state.UpdatedAt = time.Now().UTC()
	return m.state
}

// Stats returns a read-only snapshot of the model state.
func (m *AdaptiveModel) Stats() model.ModelState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// TrainingSamples returns the current sample count.
func (m *AdaptiveModel) TrainingSamples() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.TrainingSamples
}

// repaymentProbability applies the logistic function to the linear
// combination of coefficients and normalized component scores.
func repaymentProbability(c model.Coefficients, x model.ComponentScores) float64 {
	z := c.Intercept +
		c.Utility*x.Utility +
		c.UPI*x.UPI +
		c.Location*x.Location +
		c.Social*x.Social
	return 1 / (1 + math.Exp(-z))
}
