package model

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// ErrInvalidCell is returned when a capability does not belong to the cell it is placed in
var ErrInvalidCell = goerr.New("invalid grid cell")

// GridCell is one Attribute x Component intersection with the capabilities
// that sit in it. A cell is immutable once built; accessors return copies.
type GridCell struct {
	attribute    Attribute
	component    Component
	capabilities []Capability
}

// NewGridCell builds a cell. Every capability must point at the given
// attribute and component.
func NewGridCell(attribute Attribute, component Component, capabilities ...Capability) (*GridCell, error) {
	for _, c := range capabilities {
		if c.AttributeID != attribute.ID || c.ComponentID != component.ID {
			return nil, goerr.Wrap(ErrInvalidCell, "capability parent mismatch",
				goerr.V("capability_id", c.ID),
				goerr.V("attribute_id", attribute.ID),
				goerr.V("component_id", component.ID),
				goerr.V("capability_attribute_id", c.AttributeID),
				goerr.V("capability_component_id", c.ComponentID),
			)
		}
	}

	return &GridCell{
		attribute:    attribute,
		component:    component.Clone(),
		capabilities: slices.Clone(capabilities),
	}, nil
}

func (c *GridCell) Attribute() Attribute {
	return c.attribute
}

func (c *GridCell) Component() Component {
	return c.component.Clone()
}

func (c *GridCell) AttributeID() types.AttributeID {
	return c.attribute.ID
}

func (c *GridCell) ComponentID() types.ComponentID {
	return c.component.ID
}

// ProjectID is the project of the cell's component
func (c *GridCell) ProjectID() types.ProjectID {
	return c.component.ProjectID
}

// Capabilities returns the capabilities of the cell in their original order
func (c *GridCell) Capabilities() []Capability {
	return slices.Clone(c.capabilities)
}

// WatchedDirectories returns the directories owned by the cell's component
func (c *GridCell) WatchedDirectories() []string {
	return slices.Clone(c.component.WatchedDirectories)
}
