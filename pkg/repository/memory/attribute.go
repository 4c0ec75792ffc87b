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

type attributeRepository struct {
	mu         sync.RWMutex
	attributes map[types.AttributeID]*model.Attribute
	nextID     types.AttributeID
}

func newAttributeRepository() *attributeRepository {
	return &attributeRepository{
		attributes: make(map[types.AttributeID]*model.Attribute),
		nextID:     1,
	}
}

func (r *attributeRepository) Create(ctx context.Context, attribute *model.Attribute) (*model.Attribute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *attribute
	created.ID = r.nextID
	r.nextID++

	r.attributes[created.ID] = &created
	copied := created
	return &copied, nil
}

func (r *attributeRepository) Get(ctx context.Context, projectID types.ProjectID, id types.AttributeID) (*model.Attribute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	attribute, exists := r.attributes[id]
	if !exists || attribute.ProjectID != projectID {
		return nil, goerr.Wrap(ErrNotFound, "attribute not found",
			goerr.V("project_id", projectID),
			goerr.V("id", id))
	}

	copied := *attribute
	return &copied, nil
}

func (r *attributeRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.Attribute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var attributes []*model.Attribute
	for _, attribute := range r.attributes {
		if attribute.ProjectID != projectID {
			continue
		}
		copied := *attribute
		attributes = append(attributes, &copied)
	}
	slices.SortFunc(attributes, func(a, b *model.Attribute) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return attributes, nil
}

func (r *attributeRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.AttributeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	attribute, exists := r.attributes[id]
	if !exists || attribute.ProjectID != projectID {
		return goerr.Wrap(ErrNotFound, "attribute not found",
			goerr.V("project_id", projectID),
			goerr.V("id", id))
	}

	delete(r.attributes, id)
	return nil
}
