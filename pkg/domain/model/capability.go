package model

import "github.com/secmon-lab/riskgrid/pkg/domain/types"

// Capability is a testable claim that a component satisfies an attribute
type Capability struct {
	ID          types.CapabilityID
	ProjectID   types.ProjectID
	AttributeID types.AttributeID
	ComponentID types.ComponentID
	Name        string
	Description string
	FailureRate types.FailureRate
	UserImpact  types.UserImpact
}
