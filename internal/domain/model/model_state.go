package model

import "time"

// ComponentWeights holds the per-group weights of the composite score.
// The four weights are non-negative and sum to 1.
type ComponentWeights struct {
	Utility  float64 `json:"utility"`
	UPI      float64 `json:"upi"`
	Location float64 `json:"location"`
	Social   float64 `json:"social"`
}

// Sum returns the total of the four weights.
func (w ComponentWeights) Sum() float64 {
	return w.Utility + w.UPI + w.Location + w.Social
}

// Coefficients holds the logistic-regression parameters of the adaptive
// model. Unlike the weights they are unconstrained.
type Coefficients struct {
	Intercept float64 `json:"intercept"`
	Utility   float64 `json:"utility"`
	UPI       float64 `json:"upi"`
	Location  float64 `json:"location"`
	Social    float64 `json:"social"`
}

// PriorWeights are the fixed priors the adaptive model starts from. They are
// also the canonical weight set of the rule-based scorer, so both scorers
// share one prior.
func PriorWeights() ComponentWeights {
	return ComponentWeights{Utility: 0.35, UPI: 0.30, Location: 0.20, Social: 0.15}
}

// PriorCoefficients returns the initial logistic-regression parameters.
func PriorCoefficients() Coefficients {
	return Coefficients{Intercept: 0, Utility: 0.35, UPI: 0.30, Location: 0.20, Social: 0.15}
}

// ModelState is the persisted, mutable state of the adaptive scorer.
type ModelState struct {
	Weights         ComponentWeights `json:"weights"`
	Coefficients    Coefficients     `json:"coefficients"`
	TrainingSamples int              `json:"training_samples"`
	Version         string           `json:"version"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ModelVersion tags the current adaptive model revision.
const ModelVersion = "1.0-adaptive"

// NewModelState returns a state initialized to priors with zero samples.
func NewModelState() ModelState {
	return ModelState{
		Weights:         PriorWeights(),
		Coefficients:    PriorCoefficients(),
		TrainingSamples: 0,
		Version:         ModelVersion,
	}
}
