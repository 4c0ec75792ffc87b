package config

// BugWeights are the per-defect weights of the defect provider
type BugWeights struct {
	Unassigned float64
	Attribute  float64
	Component  float64
	Capability float64
}

// ChurnWeights are the weights of the change-churn provider
type ChurnWeights struct {
	PerCheckin float64
}

// CoverageWeights are the weights of the test-coverage provider.
// PerTestCase is expected to be negative: coverage mitigates risk.
type CoverageWeights struct {
	PerTestCase float64
}

// StaticWeights control the inherent risk provider
type StaticWeights struct {
	// Divisor normalises (impact+1)*(rate+1) so the maximum is 1.0
	Divisor float64
}

// RiskConfig holds the tunable weights of every risk provider
type RiskConfig struct {
	Bug      BugWeights
	Churn    ChurnWeights
	Coverage CoverageWeights
	Static   StaticWeights
}

// DefaultRiskConfig returns the stock weights
func DefaultRiskConfig() *RiskConfig {
	return &RiskConfig{
		Bug: BugWeights{
			Unassigned: 0.00,
			Attribute:  0.25,
			Component:  0.25,
			Capability: 1.00,
		},
		Churn: ChurnWeights{
			PerCheckin: 0.20,
		},
		Coverage: CoverageWeights{
			PerTestCase: -0.15,
		},
		Static: StaticWeights{
			Divisor: 16.0,
		},
	}
}
