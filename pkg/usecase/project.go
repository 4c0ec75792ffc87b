package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// getProject reports a repository miss as ErrProjectNotFound. Other failures
// keep their cause so they surface as internal errors.
func getProject(ctx context.Context, repo interfaces.Repository, projectID types.ProjectID) (*model.Project, error) {
	project, err := repo.Project().Get(ctx, projectID)
	if errors.Is(err, interfaces.ErrNotFound) {
		return nil, goerr.Wrap(ErrProjectNotFound, "project not found", goerr.V(ProjectIDKey, projectID))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get project", goerr.V(ProjectIDKey, projectID))
	}
	return project, nil
}
