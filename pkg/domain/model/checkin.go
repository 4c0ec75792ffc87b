package model

import (
	"slices"
	"time"

	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// Checkin is a submitted code change and the directories it touched
type Checkin struct {
	ExternalID  int64
	ProjectID   types.ProjectID
	Summary     string
	Directories []string
	ChangeURL   string
	State       string
	Association
	SubmittedAt time.Time
}

// Clone returns a deep copy of the checkin
func (c *Checkin) Clone() *Checkin {
	copied := *c
	copied.Directories = slices.Clone(c.Directories)
	return &copied
}
