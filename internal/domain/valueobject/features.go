package valueobject

import "fmt"

// Tier is a coarse low/medium/high classification used by several
// behavioural feature groups.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// ParseTier validates a tier string. The empty string maps to TierLow so
// that absent data degrades to the lowest tier instead of failing.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierLow, TierMedium, TierHigh:
		return Tier(s), nil
	case "":
		return TierLow, nil
	default:
		return "", fmt.Errorf("invalid tier %q", s)
	}
}

// UtilityFeatures captures utility-bill payment discipline.
type UtilityFeatures struct {
	OnTimeRatio      float64 `json:"on_time_ratio"`
	MissedPayments   int     `json:"missed_payments"`
	MonthsTracked    int     `json:"months_tracked"`
	AvgPaymentAmount float64 `json:"avg_payment_amount"`
}

// Validate checks range constraints on utility features.
func (u UtilityFeatures) Validate() error {
	if u.OnTimeRatio < 0 || u.OnTimeRatio > 1 {
		return fmt.Errorf("utility on_time_ratio must be in [0,1], got %v", u.OnTimeRatio)
	}
	if u.MissedPayments < 0 {
		return fmt.Errorf("utility missed_payments must not be negative")
	}
	if u.MonthsTracked < 0 {
		return fmt.Errorf("utility months_tracked must not be negative")
	}
	if u.AvgPaymentAmount < 0 {
		return fmt.Errorf("utility avg_payment_amount must not be negative")
	}
	return nil
}

// UPIFeatures captures payment-app transaction behaviour.
type UPIFeatures struct {
	AvgTransactionsPerDay float64 `json:"avg_transactions_per_day"`
	TransactionVariance   Tier    `json:"transaction_variance"`
	IncomeConsistency     Tier    `json:"income_consistency"`
	AvgMonthlyIncome      float64 `json:"avg_monthly_income"`
	AvgMonthlyExpense     float64 `json:"avg_monthly_expense"`
}

// Validate checks range constraints on UPI features.
func (u UPIFeatures) Validate() error {
	if u.AvgTransactionsPerDay < 0 {
		return fmt.Errorf("upi avg_transactions_per_day must not be negative")
	}
	if _, err := ParseTier(string(u.TransactionVariance)); err != nil {
		return fmt.Errorf("upi transaction_variance: %w", err)
	}
	if _, err := ParseTier(string(u.IncomeConsistency)); err != nil {
		return fmt.Errorf("upi income_consistency: %w", err)
	}
	if u.AvgMonthlyIncome < 0 {
		return fmt.Errorf("upi avg_monthly_income must not be negative")
	}
	if u.AvgMonthlyExpense < 0 {
		return fmt.Errorf("upi avg_monthly_expense must not be negative")
	}
	return nil
}

// LocationFeatures captures residential stability.
type LocationFeatures struct {
	StabilityScore   float64 `json:"stability_score"`
	MonthsAtLocation int     `json:"months_at_location"`
}

// Validate checks range constraints on location features.
func (l LocationFeatures) Validate() error {
	if l.StabilityScore < 0 || l.StabilityScore > 1 {
		return fmt.Errorf("location stability_score must be in [0,1], got %v", l.StabilityScore)
	}
	if l.MonthsAtLocation < 0 {
		return fmt.Errorf("location months_at_location must not be negative")
	}
	return nil
}

// SocialFeatures captures the social trust network.
type SocialFeatures struct {
	NetworkStrength  Tier `json:"network_strength"`
	ReferralsCount   int  `json:"referrals_count"`
	TrustConnections int  `json:"trust_connections"`
}

// Validate checks range constraints on social features.
func (s SocialFeatures) Validate() error {
	if _, err := ParseTier(string(s.NetworkStrength)); err != nil {
		return fmt.Errorf("social network_strength: %w", err)
	}
	if s.ReferralsCount < 0 {
		return fmt.Errorf("social referrals_count must not be negative")
	}
	if s.TrustConnections < 0 {
		return fmt.Errorf("social trust_connections must not be negative")
	}
	return nil
}

// FeatureRecord is the immutable snapshot of behavioural signals consumed by
// every scorer. A zero-value record is a valid "no data" input: each group
// scores as its lowest tier rather than erroring.
type FeatureRecord struct {
	Utility  UtilityFeatures  `json:"utility"`
	UPI      UPIFeatures      `json:"upi"`
	Location LocationFeatures `json:"location"`
	Social   SocialFeatures   `json:"social"`
}

// NewFeatureRecord validates all four groups and normalises empty tier
// strings to the lowest tier. Scorers downstream may assume a record
// returned from here is well formed.
func NewFeatureRecord(utility UtilityFeatures, upi UPIFeatures, location LocationFeatures, social SocialFeatures) (FeatureRecord, error) {
	if err := utility.Validate(); err != nil {
		return FeatureRecord{}, err
	}
	if err := upi.Validate(); err != nil {
		return FeatureRecord{}, err
	}
	if err := location.Validate(); err != nil {
		return FeatureRecord{}, err
	}
	if err := social.Validate(); err != nil {
		return FeatureRecord{}, err
	}

	upi.TransactionVariance, _ = ParseTier(string(upi.TransactionVariance))
	upi.IncomeConsistency, _ = ParseTier(string(upi.IncomeConsistency))
	social.NetworkStrength, _ = ParseTier(string(social.NetworkStrength))

	return FeatureRecord{
		Utility:  utility,
		UPI:      upi,
		Location: location,
		Social:   social,
	}, nil
}
