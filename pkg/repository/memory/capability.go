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

type capabilityRepository struct {
	mu           sync.RWMutex
	capabilities map[types.CapabilityID]*model.Capability
	nextID       types.CapabilityID
}

func newCapabilityRepository() *capabilityRepository {
	return &capabilityRepository{
		capabilities: make(map[types.CapabilityID]*model.Capability),
		nextID:       1,
	}
}

func (r *capabilityRepository) Create(ctx context.Context, capability *model.Capability) (*model.Capability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *capability
	created.ID = r.nextID
	r.nextID++

	r.capabilities[created.ID] = &created
	copied := created
	return &copied, nil
}

func (r *capabilityRepository) Get(ctx context.Context, projectID types.ProjectID, id types.CapabilityID) (*model.Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	capability, exists := r.capabilities[id]
	if !exists || capability.ProjectID != projectID {
		return nil, goerr.Wrap(ErrNotFound, "capability not found",
			goerr.V("project_id", projectID),
			goerr.V("id", id))
	}

	copied := *capability
	return &copied, nil
}

func (r *capabilityRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var capabilities []*model.Capability
	for _, capability := range r.capabilities {
		if capability.ProjectID != projectID {
			continue
		}
		copied := *capability
		capabilities = append(capabilities, &copied)
	}
	slices.SortFunc(capabilities, func(a, b *model.Capability) int {
		return cmp.Or(
			cmp.Compare(a.AttributeID, b.AttributeID),
			cmp.Compare(a.ComponentID, b.ComponentID),
			cmp.Compare(a.ID, b.ID),
		)
	})

	return capabilities, nil
}

func (r *capabilityRepository) Update(ctx context.Context, capability *model.Capability) (*model.Capability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.capabilities[capability.ID]
	if !exists || existing.ProjectID != capability.ProjectID {
		return nil, goerr.Wrap(ErrNotFound, "capability not found",
			goerr.V("project_id", capability.ProjectID),
			goerr.V("id", capability.ID))
	}

	updated := *capability
	r.capabilities[updated.ID] = &updated
	copied := updated
	return &copied, nil
}

func (r *capabilityRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.CapabilityID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	capability, exists := r.capabilities[id]
	if !exists || capability.ProjectID != projectID {
		return goerr.Wrap(ErrNotFound, "capability not found",
			goerr.V("project_id", projectID),
			goerr.V("id", id))
	}

	delete(r.capabilities, id)
	return nil
}
