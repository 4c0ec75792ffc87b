package model

import (
	"time"

	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// Project is the unit that owns attributes, components, capabilities and evidence
type Project struct {
	ID          types.ProjectID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
