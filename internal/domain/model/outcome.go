package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanOutcome is a labelled repayment observation consumed by the training
// feed. It originates outside the engine, from repayment tracking.
type LoanOutcome struct {
	UserID          string          `json:"user_id"`
	TrustScore      int             `json:"trust_score"`
	ComponentScores ComponentScores `json:"component_scores"`
	LoanAmount      decimal.Decimal `json:"loan_amount"`
	Repaid          bool            `json:"repaid"`
	// RepaymentRate is the fraction of the loan repaid; optional, zero when
	// not reported.
	RepaymentRate float64   `json:"repayment_rate,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Validate checks range constraints on a loan outcome before it reaches the
// adaptive model.
func (o LoanOutcome) Validate() error {
	if o.UserID == "" {
		return fmt.Errorf("outcome user_id is required")
	}
	if o.TrustScore < 0 {
		return fmt.Errorf("outcome trust_score must not be negative")
	}
	for name, s := range map[string]float64{
		"utility":  o.ComponentScores.Utility,
		"upi":      o.ComponentScores.UPI,
		"location": o.ComponentScores.Location,
		"social":   o.ComponentScores.Social,
	} {
		if s < 0 || s > 100 {
			return fmt.Errorf("outcome component score %s must be in [0,100], got %v", name, s)
		}
	}
	if o.LoanAmount.IsNegative() {
		return fmt.Errorf("outcome loan_amount must not be negative")
	}
	if o.RepaymentRate < 0 || o.RepaymentRate > 1 {
		return fmt.Errorf("outcome repayment_rate must be in [0,1], got %v", o.RepaymentRate)
	}
	return nil
}

// Label returns the supervised learning label: 1 for repaid, 0 for default.
func (o LoanOutcome) Label() float64 {
	if o.Repaid {
		return 1
	}
	return 0
}
