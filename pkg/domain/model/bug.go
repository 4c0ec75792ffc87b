package model

import (
	"time"

	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// Bug is a defect reported against a project
type Bug struct {
	ExternalID int64
	ProjectID  types.ProjectID
	Title      string
	Path       string
	Severity   int
	Priority   int
	State      string
	URL        string
	Association
	CreatedAt time.Time
}
