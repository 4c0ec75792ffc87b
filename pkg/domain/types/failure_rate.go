package types

import "github.com/m-mizutani/goerr/v2"

// FailureRate is how often a capability is expected to fail. The levels are
// ordered from least to most severe; FailureRateNA is not part of the scale.
type FailureRate string

const (
	FailureRateNA           FailureRate = "NA"
	FailureRateVeryRarely   FailureRate = "VERY_RARELY"
	FailureRateSeldom       FailureRate = "SELDOM"
	FailureRateOccasionally FailureRate = "OCCASIONALLY"
	FailureRateOften        FailureRate = "OFTEN"
)

// AllFailureRates returns every failure rate, NA first and then in ascending severity
func AllFailureRates() []FailureRate {
	return []FailureRate{
		FailureRateNA,
		FailureRateVeryRarely,
		FailureRateSeldom,
		FailureRateOccasionally,
		FailureRateOften,
	}
}

// IsValid checks if the failure rate is a known value
func (f FailureRate) IsValid() bool {
	switch f {
	case FailureRateNA,
		FailureRateVeryRarely,
		FailureRateSeldom,
		FailureRateOccasionally,
		FailureRateOften:
		return true
	default:
		return false
	}
}

// Ordinal returns the position of f on the severity scale starting at 0.
// ok is false for FailureRateNA and for unknown values.
func (f FailureRate) Ordinal() (ordinal int, ok bool) {
	switch f {
	case FailureRateVeryRarely:
		return 0, true
	case FailureRateSeldom:
		return 1, true
	case FailureRateOccasionally:
		return 2, true
	case FailureRateOften:
		return 3, true
	default:
		return 0, false
	}
}

// Description returns a human readable phrase for the failure rate
func (f FailureRate) Description() string {
	switch f {
	case FailureRateVeryRarely:
		return "fails very rarely"
	case FailureRateSeldom:
		return "fails seldom"
	case FailureRateOccasionally:
		return "fails occasionally"
	case FailureRateOften:
		return "fails often"
	default:
		return "failure rate not applicable"
	}
}

// String returns the string representation of the failure rate
func (f FailureRate) String() string {
	return string(f)
}

// ParseFailureRate parses a string into a FailureRate. An empty string is NA.
func ParseFailureRate(s string) (FailureRate, error) {
	if s == "" {
		return FailureRateNA, nil
	}
	f := FailureRate(s)
	if !f.IsValid() {
		return "", goerr.New("invalid failure rate", goerr.V("value", s), goerr.V("allowed", AllFailureRates()))
	}
	return f, nil
}
