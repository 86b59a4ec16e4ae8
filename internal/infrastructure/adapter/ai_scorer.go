package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/port"
	"github.com/altcred/trustengine/internal/domain/service"
	"github.com/altcred/trustengine/internal/domain/valueobject"
)

// AIScorerConfig holds configuration for the external AI scorer.
type AIScorerConfig struct {
	// Timeout bounds one provider call end to end.
	Timeout time.Duration
}

// DefaultAIScorerConfig returns sensible defaults.
func DefaultAIScorerConfig() AIScorerConfig {
	return AIScorerConfig{Timeout: 10 * time.Second}
}

// AIScorer delegates scoring to a generative-text provider and falls back to
// the deterministic rule-based scorer on any failure. It implements
// usecase.ExternalScorer: Score never returns an error, a single failed
// attempt is enough to trigger fallback, and no retries are performed.
type AIScorer struct {
	provider   port.AIProvider
	ruleScorer *service.RuleScorer
	config     AIScorerConfig
	logger     *slog.Logger

	// OnFallback, when set, is invoked once per call that fell back to the
	// rule-based scorer.
	OnFallback func()
}

// NewAIScorer creates a scorer backed by the given provider. A nil provider
// is valid and means every call falls back immediately.
func NewAIScorer(provider port.AIProvider, ruleScorer *service.RuleScorer, config AIScorerConfig, logger *slog.Logger) *AIScorer {
	return &AIScorer{
		provider:   provider,
		ruleScorer: ruleScorer,
		config:     config,
		logger:     logger,
	}
}

// aiAssessment is the strict JSON shape expected back from the provider.
// Pointer fields distinguish absent from zero during validation.
type aiAssessment struct {
	TrustScore    *int     `json:"trust_score"`
	UtilityScore  *float64 `json:"utility_score"`
	UPIScore      *float64 `json:"upi_score"`
	LocationScore *float64 `json:"location_score"`
	SocialScore   *float64 `json:"social_score"`
	Explanations  *struct {
		Utility  *string `json:"utility"`
		UPI      *string `json:"upi"`
		Location *string `json:"location"`
		Social   *string `json:"social"`
	} `json:"explanations"`
}

// Score asks the provider for an assessment of the features. On any failure
// (no provider, unusable credentials, transport error, unparseable or
// out-of-range response) it returns exactly what the rule-based scorer
// produces for the same features, with source "rule-based".
func (s *AIScorer) Score(ctx context.Context, features valueobject.FeatureRecord) model.ScoreResult {
	if s.provider == nil || !s.provider.Ready() {
		s.logger.InfoContext(ctx, "ai provider not configured, using rule-based fallback")
		return s.fallback(features)
	}

	result, err := s.tryProvider(ctx, features)
	if err != nil {
		s.logger.WarnContext(ctx, "ai scoring failed, using rule-based fallback",
			"provider", s.provider.Name(), "error", err)
		return s.fallback(features)
	}

	s.logger.InfoContext(ctx, "ai scoring succeeded",
		"provider", s.provider.Name(), "trust_score", result.TrustScore)
	return result
}

func (s *AIScorer) fallback(features valueobject.FeatureRecord) model.ScoreResult {
	if s.OnFallback != nil {
		s.OnFallback()
	}
	return s.ruleScorer.Score(features)
}

func (s *AIScorer) tryProvider(ctx context.Context, features valueobject.FeatureRecord) (model.ScoreResult, error) {
	prompt, err := buildScoringPrompt(features)
	if err != nil {
		return model.ScoreResult{}, fmt.Errorf("build prompt: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	raw, err := s.provider.GenerateAssessment(callCtx, prompt)
	if err != nil {
		return model.ScoreResult{}, fmt.Errorf("generate assessment: %w", err)
	}

	jsonText, ok := extractJSONObject(raw)
	if !ok {
		return model.ScoreResult{}, fmt.Errorf("no JSON object found in provider response")
	}

	var assessment aiAssessment
	if err := json.Unmarshal([]byte(jsonText), &assessment); err != nil {
		return model.ScoreResult{}, fmt.Errorf("parse assessment JSON: %w", err)
	}

	if err := assessment.validate(); err != nil {
		return model.ScoreResult{}, fmt.Errorf("invalid assessment: %w", err)
	}

	return model.ScoreResult{
		TrustScore: *assessment.TrustScore,
		ComponentScores: model.ComponentScores{
			Utility:  *assessment.UtilityScore * 100,
			UPI:      *assessment.UPIScore * 100,
			Location: *assessment.LocationScore * 100,
			Social:   *assessment.SocialScore * 100,
		},
		RiskCategory: valueobject.RiskFromScore(*assessment.TrustScore),
		Explanations: model.Explanations{
			Utility:  *assessment.Explanations.Utility,
			UPI:      *assessment.Explanations.UPI,
			Location: *assessment.Explanations.Location,
			Social:   *assessment.Explanations.Social,
		},
		Confidence: s.ruleScorer.Confidence(features),
		Source:     model.SourceExternalAI,
	}, nil
}

func (a aiAssessment) validate() error {
	if a.TrustScore == nil {
		return fmt.Errorf("trust_score missing")
	}
	if *a.TrustScore < valueobject.ScoreFloor || *a.TrustScore > valueobject.ScoreCeiling {
		return fmt.Errorf("trust_score %d outside [%d,%d]", *a.TrustScore, valueobject.ScoreFloor, valueobject.ScoreCeiling)
	}
	subScores := []struct {
		name  string
		value *float64
	}{
		{"utility_score", a.UtilityScore},
		{"upi_score", a.UPIScore},
		{"location_score", a.LocationScore},
		{"social_score", a.SocialScore},
	}
	for _, sub := range subScores {
		if sub.value == nil {
			return fmt.Errorf("%s missing", sub.name)
		}
		if *sub.value < 0 || *sub.value > 1 {
			return fmt.Errorf("%s %v outside [0,1]", sub.name, *sub.value)
		}
	}
	if a.Explanations == nil {
		return fmt.Errorf("explanations missing")
	}
	explanations := []struct {
		name  string
		value *string
	}{
		{"utility", a.Explanations.Utility},
		{"upi", a.Explanations.UPI},
		{"location", a.Explanations.Location},
		{"social", a.Explanations.Social},
	}
	for _, e := range explanations {
		if e.value == nil {
			return fmt.Errorf("explanation %q missing", e.name)
		}
	}
	return nil
}

// buildScoringPrompt embeds the feature record into a fixed assessment prompt
// with explicit scoring guidelines and the required output shape.
func buildScoringPrompt(features valueobject.FeatureRecord) (string, error) {
	data, err := json.MarshalIndent(features, "", "  ")
	if err != nil {
		return "", err
	}

	return `You are a financial risk assessment engine for a micro-lending platform.

Given the following behavioral financial signals, evaluate the user's creditworthiness conservatively.

TASKS:
1. Generate a Trust Score between 300 and 900
2. Generate sub-scores (0.00 to 1.00) for:
   - utility_score: Utility bill payment discipline
   - upi_score: Payment-app transaction stability
   - location_score: Residential stability
   - social_score: Social trust network
3. Provide 1 short explanation sentence per category (max 15 words each)

RULES:
- Be conservative in scoring
- Penalize volatility and inconsistency
- Reward consistency and stability
- Do NOT invent data
- Base scores ONLY on the provided data
- Lower scores for missing or insufficient data

INPUT DATA:
` + string(data) + `

SCORING GUIDELINES:
- Utility: high on_time_ratio (>0.8) = good score, missed payments = penalty
- UPI: low variance + high income consistency = good score
- Location: higher months_at_location and stability_score = better
- Social: higher network_strength and connections = better

Return output STRICTLY in this JSON format (no markdown, no extra text):
{
  "trust_score": 742,
  "utility_score": 0.88,
  "upi_score": 0.72,
  "location_score": 0.90,
  "social_score": 0.79,
  "explanations": {
    "utility": "Consistent on-time utility bill payments",
    "upi": "Stable transaction activity with moderate variance",
    "location": "Strong residential stability over time",
    "social": "Connected to a long-standing trusted network"
  }
}`, nil
}

// extractJSONObject locates the first well-formed JSON object in text.
// Providers frequently wrap the JSON in a fenced code block or surround it
// with prose; both are tolerated.
func extractJSONObject(text string) (string, bool) {
	// Prefer the contents of a fenced code block when one is present.
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			if obj, ok := firstBalancedObject(rest[:end]); ok {
				return obj, true
			}
		}
	}
	return firstBalancedObject(text)
}

// firstBalancedObject scans for the first balanced {...} span that parses as
// JSON. Brace counting skips string literals so embedded braces do not
// confuse the scan.
func firstBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := text[start : i+1]
				if json.Valid([]byte(candidate)) {
					return candidate, true
				}
				return "", false
			}
		}
	}
	return "", false
}
