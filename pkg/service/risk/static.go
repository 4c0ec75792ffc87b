package risk

import (
	"context"
	"fmt"

	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/model/config"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// StaticProvider scores a cell from capability metadata alone
type StaticProvider struct {
	divisor float64
}

var _ interfaces.RiskProvider = &StaticProvider{}

func NewStaticProvider(weights config.StaticWeights) *StaticProvider {
	divisor := weights.Divisor
	if divisor <= 0 {
		divisor = config.DefaultRiskConfig().Static.Divisor
	}
	return &StaticProvider{divisor: divisor}
}

func (p *StaticProvider) Name() string {
	return NameStatic
}

// Initialize does nothing; the provider needs no external data
func (p *StaticProvider) Initialize(ctx context.Context, cells []*model.GridCell) error {
	return nil
}

func (p *StaticProvider) Snapshot() model.IndexSnapshot {
	return model.IndexSnapshot{Version: NameStatic}
}

// CapabilityRisk is (impact+1)*(rate+1)/divisor, or 0 when either dimension is NA
func (p *StaticProvider) CapabilityRisk(c model.Capability) float64 {
	impact, ok := c.UserImpact.Ordinal()
	if !ok {
		return 0
	}
	rate, ok := c.FailureRate.Ordinal()
	if !ok {
		return 0
	}
	return float64((impact+1)*(rate+1)) / p.divisor
}

func (p *StaticProvider) CalculateRisk(cell *model.GridCell) float64 {
	var total float64
	for _, c := range cell.Capabilities() {
		total += p.CapabilityRisk(c)
	}
	return total
}

func (p *StaticProvider) Detail(cell *model.GridCell) *model.RiskDetail {
	detail := &model.RiskDetail{
		Provider: p.Name(),
		Score:    p.CalculateRisk(cell),
	}

	for _, c := range cell.Capabilities() {
		level := types.RiskLevelOf(p.CapabilityRisk(c))
		detail.Entries = append(detail.Entries, model.RiskEntry{
			Section: model.RiskSectionCapability,
			Subject: c.Name,
			Level:   level,
			Label:   fmt.Sprintf("%s risk: %s, %s", level, c.FailureRate.Description(), c.UserImpact.Description()),
		})
	}

	return detail
}
