package model

import "github.com/secmon-lab/riskgrid/pkg/domain/types"

// Attribute is a cross-cutting quality goal such as "Fast" or "Secure"
type Attribute struct {
	ID           types.AttributeID
	ProjectID    types.ProjectID
	Name         string
	Description  string
	DisplayOrder int
}
