package interfaces

import (
	"context"

	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

type ProjectRepository interface {
	// Create creates a new project with auto-generated ID
	Create(ctx context.Context, project *model.Project) (*model.Project, error)

	// Get retrieves a project by ID
	Get(ctx context.Context, id types.ProjectID) (*model.Project, error)

	// List retrieves all projects
	List(ctx context.Context) ([]*model.Project, error)

	// Delete deletes a project by ID. Child entities are not removed.
	Delete(ctx context.Context, id types.ProjectID) error
}
