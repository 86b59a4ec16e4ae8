package service

import "github.com/altcred/trustengine/internal/domain/model"

// ---------------------------------------------------------------------------
// SelectionPolicy – which scorer handles a request
// ---------------------------------------------------------------------------

// DefaultSampleThreshold is the training-sample count at which the adaptive
// scorer takes over from the rule-based one. Tunable, not a hard law.
const DefaultSampleThreshold = 10

// SelectionPolicy decides, per request, which scorer produces the headline
// trust score. It is queryable without side effects so callers can observe
// the decision without scoring.
type SelectionPolicy struct {
	// SampleThreshold is the minimum adaptive training history before the
	// adaptive scorer is preferred.
	SampleThreshold int
	// AIEnabled makes the external-AI scorer the first choice; on failure it
	// falls back to rule-based.
	AIEnabled bool
	// DemoMode forces rule-based scoring for deterministic demos and tests.
	DemoMode bool
}

// NewSelectionPolicy builds a policy with the default threshold applied when
// the given one is not positive.
func NewSelectionPolicy(sampleThreshold int, aiEnabled, demoMode bool) SelectionPolicy {
	if sampleThreshold <= 0 {
		sampleThreshold = DefaultSampleThreshold
	}
	return SelectionPolicy{
		SampleThreshold: sampleThreshold,
		AIEnabled:       aiEnabled,
		DemoMode:        demoMode,
	}
}

// Decide returns the scorer that would handle a request given the adaptive
// model's current training history.
func (p SelectionPolicy) Decide(trainingSamples int) model.ScorerSource {
	if p.DemoMode {
		return model.SourceRuleBased
	}
	if p.AIEnabled {
		return model.SourceExternalAI
	}
	if trainingSamples >= p.SampleThreshold {
		return model.SourceAdaptive
	}
	return model.SourceRuleBased
}
