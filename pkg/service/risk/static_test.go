package risk_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/model/config"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/service/risk"
)

func TestStaticProvider_NAIsZero(t *testing.T) {
	p := risk.NewStaticProvider(config.DefaultRiskConfig().Static)
	cell := newCell(t, 1, 2, nil,
		model.Capability{ID: 10, FailureRate: types.FailureRateNA, UserImpact: types.UserImpactMaximal},
		model.Capability{ID: 11, FailureRate: types.FailureRateOften, UserImpact: types.UserImpactNA},
		model.Capability{ID: 12},
	)

	gt.NoError(t, p.Initialize(context.Background(), []*model.GridCell{cell}))
	gt.Value(t, p.CalculateRisk(cell)).Equal(0.0)

	detail := p.Detail(cell)
	gt.Array(t, detail.Entries).Length(3).Required()
	for _, e := range detail.Entries {
		gt.Value(t, e.Level).Equal(types.RiskLevelNA)
	}
}

func TestStaticProvider_Ceiling(t *testing.T) {
	p := risk.NewStaticProvider(config.DefaultRiskConfig().Static)
	top := model.Capability{FailureRate: types.FailureRateOften, UserImpact: types.UserImpactMaximal}
	gt.Value(t, p.CapabilityRisk(top)).Equal(1.0)

	bottom := model.Capability{FailureRate: types.FailureRateVeryRarely, UserImpact: types.UserImpactMinimal}
	gt.Value(t, p.CapabilityRisk(bottom)).Equal(1.0 / 16.0)
}

func TestStaticProvider_Monotonic(t *testing.T) {
	p := risk.NewStaticProvider(config.DefaultRiskConfig().Static)
	rates := []types.FailureRate{
		types.FailureRateVeryRarely,
		types.FailureRateSeldom,
		types.FailureRateOccasionally,
		types.FailureRateOften,
	}
	impacts := []types.UserImpact{
		types.UserImpactMinimal,
		types.UserImpactSome,
		types.UserImpactConsiderable,
		types.UserImpactMaximal,
	}

	for _, impact := range impacts {
		for i := 1; i < len(rates); i++ {
			lower := p.CapabilityRisk(model.Capability{FailureRate: rates[i-1], UserImpact: impact})
			higher := p.CapabilityRisk(model.Capability{FailureRate: rates[i], UserImpact: impact})
			gt.Bool(t, higher > lower).True()
		}
	}
	for _, rate := range rates {
		for i := 1; i < len(impacts); i++ {
			lower := p.CapabilityRisk(model.Capability{FailureRate: rate, UserImpact: impacts[i-1]})
			higher := p.CapabilityRisk(model.Capability{FailureRate: rate, UserImpact: impacts[i]})
			gt.Bool(t, higher > lower).True()
		}
	}
}

func TestStaticProvider_SumsCapabilities(t *testing.T) {
	p := risk.NewStaticProvider(config.StaticWeights{})
	cell := newCell(t, 1, 2, nil,
		model.Capability{ID: 10, Name: "login", FailureRate: types.FailureRateOften, UserImpact: types.UserImpactMaximal},
		model.Capability{ID: 11, Name: "logout", FailureRate: types.FailureRateSeldom, UserImpact: types.UserImpactSome},
	)

	// 16/16 + 4/16
	assertScore(t, p.CalculateRisk(cell), 1.25)

	detail := p.Detail(cell)
	gt.Value(t, detail.Provider).Equal(risk.NameStatic)
	gt.Array(t, detail.Entries).Length(2).Required()
	gt.Value(t, detail.Entries[0].Subject).Equal("login")
	gt.Value(t, detail.Entries[0].Level).Equal(types.RiskLevelHigh)
	gt.String(t, detail.Entries[0].Label).Contains("fails often")
	gt.Value(t, detail.Entries[1].Level).Equal(types.RiskLevelMedium)
}
