package model

import (
	"slices"

	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// Component is a functional area of the system under test.
// WatchedDirectories lists the source directories the component owns; change
// churn under any of them counts against the component.
type Component struct {
	ID                 types.ComponentID
	ProjectID          types.ProjectID
	Name               string
	Description        string
	DisplayOrder       int
	WatchedDirectories []string
}

// Clone returns a deep copy of the component
func (c Component) Clone() Component {
	c.WatchedDirectories = slices.Clone(c.WatchedDirectories)
	return c
}
