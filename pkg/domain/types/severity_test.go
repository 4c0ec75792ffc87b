package types_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

func TestFailureRate_Ordinal(t *testing.T) {
	tests := []struct {
		name   string
		rate   types.FailureRate
		want   int
		wantOK bool
	}{
		{"NA is off the scale", types.FailureRateNA, 0, false},
		{"very rarely", types.FailureRateVeryRarely, 0, true},
		{"seldom", types.FailureRateSeldom, 1, true},
		{"occasionally", types.FailureRateOccasionally, 2, true},
		{"often", types.FailureRateOften, 3, true},
		{"unknown", types.FailureRate("SOMETIMES"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rate.Ordinal()
			gt.Value(t, ok).Equal(tt.wantOK)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestUserImpact_Ordinal(t *testing.T) {
	prev := -1
	for _, impact := range types.AllUserImpacts() {
		ord, ok := impact.Ordinal()
		if impact == types.UserImpactNA {
			gt.Bool(t, ok).False()
			continue
		}
		gt.Bool(t, ok).True()
		gt.Value(t, ord).Equal(prev + 1)
		prev = ord
	}
	gt.Value(t, prev).Equal(3)
}

func TestParseFailureRate(t *testing.T) {
	t.Run("empty string is NA", func(t *testing.T) {
		f, err := types.ParseFailureRate("")
		gt.NoError(t, err)
		gt.Value(t, f).Equal(types.FailureRateNA)
	})

	t.Run("known value", func(t *testing.T) {
		f, err := types.ParseFailureRate("OFTEN")
		gt.NoError(t, err)
		gt.Value(t, f).Equal(types.FailureRateOften)
	})

	t.Run("unknown value", func(t *testing.T) {
		_, err := types.ParseFailureRate("always")
		gt.Error(t, err)
		gt.Value(t, goerr.Values(err)["allowed"]).Equal(any(types.AllFailureRates()))
	})
}

func TestParseUserImpact(t *testing.T) {
	u, err := types.ParseUserImpact("SOME")
	gt.NoError(t, err)
	gt.Value(t, u).Equal(types.UserImpactSome)

	_, err = types.ParseUserImpact("HUGE")
	gt.Error(t, err)
	gt.Value(t, goerr.Values(err)["allowed"]).Equal(any(types.AllUserImpacts()))
}

func TestRiskLevelOf(t *testing.T) {
	tests := []struct {
		score float64
		want  types.RiskLevel
	}{
		{0, types.RiskLevelNA},
		{-0.5, types.RiskLevelNA},
		{0.0625, types.RiskLevelLow},
		{0.25, types.RiskLevelMedium},
		{0.5625, types.RiskLevelMedium},
		{0.75, types.RiskLevelHigh},
		{1.0, types.RiskLevelHigh},
	}

	for _, tt := range tests {
		gt.Value(t, types.RiskLevelOf(tt.score)).Equal(tt.want)
	}
}

func TestIDs_IsSet(t *testing.T) {
	gt.Bool(t, types.AttributeID(0).IsSet()).False()
	gt.Bool(t, types.ComponentID(3).IsSet()).True()
	gt.Bool(t, types.CapabilityID(-1).IsSet()).False()
	gt.Value(t, types.ProjectID(42).String()).Equal("42")
}
