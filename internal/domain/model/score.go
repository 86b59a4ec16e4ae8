package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/altcred/trustengine/internal/domain/valueobject"
)

// ScorerSource identifies which scorer produced a result.
type ScorerSource string

const (
	SourceRuleBased  ScorerSource = "rule-based"
	SourceAdaptive   ScorerSource = "adaptive"
	SourceExternalAI ScorerSource = "external-ai"
)

// ComponentScores holds the four 0-100 sub-scores feeding the composite.
type ComponentScores struct {
	Utility  float64 `json:"utility"`
	UPI      float64 `json:"upi"`
	Location float64 `json:"location"`
	Social   float64 `json:"social"`
}

// Normalized returns the component scores scaled to [0,1].
func (c ComponentScores) Normalized() ComponentScores {
	return ComponentScores{
		Utility:  c.Utility / 100,
		UPI:      c.UPI / 100,
		Location: c.Location / 100,
		Social:   c.Social / 100,
	}
}

// Explanations carries one short human-readable sentence per component.
type Explanations struct {
	Utility  string `json:"utility"`
	UPI      string `json:"upi"`
	Location string `json:"location"`
	Social   string `json:"social"`
}

// ScoreResult is the output of any scorer.
type ScoreResult struct {
	TrustScore      int                      `json:"trust_score"`
	ComponentScores ComponentScores          `json:"component_scores"`
	RiskCategory    valueobject.RiskCategory `json:"risk_category"`
	Explanations    Explanations             `json:"explanations"`
	Confidence      float64                  `json:"confidence"`
	// DefaultProbability is only populated by the adaptive scorer.
	DefaultProbability float64      `json:"default_probability,omitempty"`
	Source             ScorerSource `json:"source"`
}

// LoanEligibility is derived from a final trust score and confidence; it is
// never stored independently of the score result it was derived from.
type LoanEligibility struct {
	MinAmount               decimal.Decimal `json:"min_amount"`
	MaxAmount               decimal.Decimal `json:"max_amount"`
	InterestRateAnnualPct   float64         `json:"interest_rate_annual_pct"`
	RecommendedTenureMonths int             `json:"recommended_tenure_months"`
}

// ScoreSnapshot is the persisted record of one scoring run for a user.
type ScoreSnapshot struct {
	UserID      string                    `json:"user_id"`
	Result      ScoreResult               `json:"result"`
	Eligibility LoanEligibility           `json:"eligibility"`
	Features    valueobject.FeatureRecord `json:"features"`
	CreatedAt   time.Time                 `json:"created_at"`
}
