package model

import "github.com/secmon-lab/riskgrid/pkg/domain/types"

// ProviderScore is the contribution of one provider to a cell
type ProviderScore struct {
	Provider string
	Score    float64
}

// CellScore is the folded score of one grid cell
type CellScore struct {
	AttributeID   types.AttributeID
	AttributeName string
	ComponentID   types.ComponentID
	ComponentName string
	Capabilities  int
	// Scores are listed in provider registration order
	Scores []ProviderScore
	Total  float64
}

// GridSummary holds descriptive statistics over the cell totals
type GridSummary struct {
	Cells  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// ProviderSnapshot pairs a provider with its installed index
type ProviderSnapshot struct {
	Provider string
	IndexSnapshot
}

// GridScore is the scored grid of one project
type GridScore struct {
	ProjectID types.ProjectID
	Cells     []CellScore
	Summary   GridSummary
	Snapshots []ProviderSnapshot
}
