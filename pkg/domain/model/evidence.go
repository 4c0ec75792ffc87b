package model

import "github.com/secmon-lab/riskgrid/pkg/domain/types"

// Association links an evidence record to at most one of each grid dimension.
// A record with none of them set is unassigned.
type Association struct {
	AttributeID  types.AttributeID
	ComponentID  types.ComponentID
	CapabilityID types.CapabilityID
}

// IsUnassigned returns true when no dimension is set
func (a Association) IsUnassigned() bool {
	return !a.AttributeID.IsSet() && !a.ComponentID.IsSet() && !a.CapabilityID.IsSet()
}
