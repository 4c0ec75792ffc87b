package model

import (
	"time"

	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// RiskSection groups entries of a RiskDetail
type RiskSection string

const (
	RiskSectionComponent  RiskSection = "component"
	RiskSectionAttribute  RiskSection = "attribute"
	RiskSectionCapability RiskSection = "capability"
	RiskSectionUnassigned RiskSection = "unassigned"
	RiskSectionDirectory  RiskSection = "directory"
	RiskSectionTestCase   RiskSection = "test_case"
)

// RiskEntry is one line of evidence behind a cell's score
type RiskEntry struct {
	Section RiskSection
	// Subject names what the entry is attached to, e.g. a capability name
	Subject    string
	ExternalID int64
	Label      string
	URL        string
	Level      types.RiskLevel
	// Count is set on count-only entries
	Count int
}

// RiskDetail is the drill-down of one provider for one cell
type RiskDetail struct {
	Provider string
	Score    float64
	Entries  []RiskEntry
}

// IndexSnapshot describes an index built by a risk provider
type IndexSnapshot struct {
	Version   string
	ProjectID types.ProjectID
	BuiltAt   time.Time
	Records   int
}
