package types

// RiskLevel is the qualitative label of an inherent risk score
type RiskLevel string

const (
	RiskLevelNA     RiskLevel = "n/a"
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

// RiskLevelOf maps a score to its label: <=0 is n/a, below 0.25 Low, below 0.75 Medium, otherwise High.
func RiskLevelOf(score float64) RiskLevel {
	switch {
	case score <= 0:
		return RiskLevelNA
	case score < 0.25:
		return RiskLevelLow
	case score < 0.75:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

// String returns the string representation of the risk level
func (l RiskLevel) String() string {
	return string(l)
}
