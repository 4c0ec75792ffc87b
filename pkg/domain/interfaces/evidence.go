package interfaces

import (
	"context"

	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// Evidence records are keyed by (project, external ID). SaveMany is an upsert:
// a record with a known external ID replaces the stored one.

type BugRepository interface {
	SaveMany(ctx context.Context, projectID types.ProjectID, bugs []*model.Bug) error
	List(ctx context.Context, projectID types.ProjectID) ([]*model.Bug, error)
	Delete(ctx context.Context, projectID types.ProjectID, externalID int64) error
}

type CheckinRepository interface {
	SaveMany(ctx context.Context, projectID types.ProjectID, checkins []*model.Checkin) error
	List(ctx context.Context, projectID types.ProjectID) ([]*model.Checkin, error)
	Delete(ctx context.Context, projectID types.ProjectID, externalID int64) error
}

type TestCaseRepository interface {
	SaveMany(ctx context.Context, projectID types.ProjectID, testCases []*model.TestCase) error
	List(ctx context.Context, projectID types.ProjectID) ([]*model.TestCase, error)
	Delete(ctx context.Context, projectID types.ProjectID, externalID int64) error
}
