package interfaces

import (
	"context"

	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// RiskProvider is one scoring strategy over grid cells.
//
// CalculateRisk and Detail read the index installed by the last successful
// Initialize and are safe for concurrent use. Initialize replaces the index
// in one step; a failed Initialize keeps the previous one.
type RiskProvider interface {
	// Name is a short display label
	Name() string

	// Initialize fetches the provider's data for the project of cells and rebuilds its index
	Initialize(ctx context.Context, cells []*model.GridCell) error

	// CalculateRisk returns the contribution of this provider to the cell.
	// Positive is risk, negative is mitigation, 0 is negligible.
	CalculateRisk(cell *model.GridCell) float64

	// Detail returns the evidence behind CalculateRisk
	Detail(cell *model.GridCell) *model.RiskDetail

	// Snapshot describes the currently installed index
	Snapshot() model.IndexSnapshot
}

// BugFetcher returns every defect of a project
type BugFetcher func(ctx context.Context, projectID types.ProjectID) ([]*model.Bug, error)

// CheckinFetcher returns every checkin of a project
type CheckinFetcher func(ctx context.Context, projectID types.ProjectID) ([]*model.Checkin, error)

// TestCaseFetcher returns every test case of a project
type TestCaseFetcher func(ctx context.Context, projectID types.ProjectID) ([]*model.TestCase, error)
