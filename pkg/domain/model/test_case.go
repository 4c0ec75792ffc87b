package model

import (
	"slices"
	"time"

	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// TestCase is a test and the free-text tags that say what it covers.
// Coverage tags have the form "<Kind>:<id>", e.g. "Capability:12".
type TestCase struct {
	ExternalID int64
	ProjectID  types.ProjectID
	Title      string
	Tags       []string
	URL        string
	State      string
	UpdatedAt  time.Time
}

// Clone returns a deep copy of the test case
func (t *TestCase) Clone() *TestCase {
	copied := *t
	copied.Tags = slices.Clone(t.Tags)
	return &copied
}
