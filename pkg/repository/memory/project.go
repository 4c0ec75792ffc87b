package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

type projectRepository struct {
	mu       sync.RWMutex
	projects map[types.ProjectID]*model.Project
	nextID   types.ProjectID
}

func newProjectRepository() *projectRepository {
	return &projectRepository{
		projects: make(map[types.ProjectID]*model.Project),
		nextID:   1,
	}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := &model.Project{
		ID:          r.nextID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.nextID++

	r.projects[created.ID] = created
	copied := *created
	return &copied, nil
}

func (r *projectRepository) Get(ctx context.Context, id types.ProjectID) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, exists := r.projects[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
	}

	// Return a copy to prevent external modification
	copied := *project
	return &copied, nil
}

func (r *projectRepository) List(ctx context.Context) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*model.Project, 0, len(r.projects))
	for _, project := range r.projects {
		copied := *project
		projects = append(projects, &copied)
	}
	slices.SortFunc(projects, func(a, b *model.Project) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return projects, nil
}

func (r *projectRepository) Delete(ctx context.Context, id types.ProjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[id]; !exists {
		return goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
	}

	delete(r.projects, id)
	return nil
}
