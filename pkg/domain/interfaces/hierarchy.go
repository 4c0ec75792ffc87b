package interfaces

import (
	"context"

	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// AttributeRepository stores attributes. IDs are unique across projects.
type AttributeRepository interface {
	Create(ctx context.Context, attribute *model.Attribute) (*model.Attribute, error)
	Get(ctx context.Context, projectID types.ProjectID, id types.AttributeID) (*model.Attribute, error)
	List(ctx context.Context, projectID types.ProjectID) ([]*model.Attribute, error)
	Delete(ctx context.Context, projectID types.ProjectID, id types.AttributeID) error
}

// ComponentRepository stores components and their watched directories
type ComponentRepository interface {
	Create(ctx context.Context, component *model.Component) (*model.Component, error)
	Get(ctx context.Context, projectID types.ProjectID, id types.ComponentID) (*model.Component, error)
	List(ctx context.Context, projectID types.ProjectID) ([]*model.Component, error)
	Update(ctx context.Context, component *model.Component) (*model.Component, error)
	Delete(ctx context.Context, projectID types.ProjectID, id types.ComponentID) error
}

// CapabilityRepository stores capabilities. List orders by attribute, then
// component, then ID.
type CapabilityRepository interface {
	Create(ctx context.Context, capability *model.Capability) (*model.Capability, error)
	Get(ctx context.Context, projectID types.ProjectID, id types.CapabilityID) (*model.Capability, error)
	List(ctx context.Context, projectID types.ProjectID) ([]*model.Capability, error)
	Update(ctx context.Context, capability *model.Capability) (*model.Capability, error)
	Delete(ctx context.Context, projectID types.ProjectID, id types.CapabilityID) error
}
