package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

type componentRepository struct {
	mu         sync.RWMutex
	components map[types.ComponentID]*model.Component
	nextID     types.ComponentID
}

func newComponentRepository() *componentRepository {
	return &componentRepository{
		components: make(map[types.ComponentID]*model.Component),
		nextID:     1,
	}
}

func (r *componentRepository) Create(ctx context.Context, component *model.Component) (*model.Component, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := component.Clone()
	created.ID = r.nextID
	r.nextID++

	r.components[created.ID] = &created
	copied := created.Clone()
	return &copied, nil
}

func (r *componentRepository) Get(ctx context.Context, projectID types.ProjectID, id types.ComponentID) (*model.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	component, exists := r.components[id]
	if !exists || component.ProjectID != projectID {
		return nil, goerr.Wrap(ErrNotFound, "component not found",
			goerr.V("project_id", projectID),
			goerr.V("id", id))
	}

	copied := component.Clone()
	return &copied, nil
}

func (r *componentRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var components []*model.Component
	for _, component := range r.components {
		if component.ProjectID != projectID {
			continue
		}
		copied := component.Clone()
		components = append(components, &copied)
	}
	slices.SortFunc(components, func(a, b *model.Component) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return components, nil
}

func (r *componentRepository) Update(ctx context.Context, component *model.Component) (*model.Component, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.components[component.ID]
	if !exists || existing.ProjectID != component.ProjectID {
		return nil, goerr.Wrap(ErrNotFound, "component not found",
			goerr.V("project_id", component.ProjectID),
			goerr.V("id", component.ID))
	}

	updated := component.Clone()
	r.components[updated.ID] = &updated
	copied := updated.Clone()
	return &copied, nil
}

func (r *componentRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.ComponentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	component, exists := r.components[id]
	if !exists || component.ProjectID != projectID {
		return goerr.Wrap(ErrNotFound, "component not found",
			goerr.V("project_id", projectID),
			goerr.V("id", id))
	}

	delete(r.components, id)
	return nil
}
