package memory

import (
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	project    *projectRepository
	attribute  *attributeRepository
	component  *componentRepository
	capability *capabilityRepository
	bug        *bugRepository
	checkin    *checkinRepository
	testCase   *testCaseRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		project:    newProjectRepository(),
		attribute:  newAttributeRepository(),
		component:  newComponentRepository(),
		capability: newCapabilityRepository(),
		bug:        newBugRepository(),
		checkin:    newCheckinRepository(),
		testCase:   newTestCaseRepository(),
	}
}

func (m *Memory) Project() interfaces.ProjectRepository {
	return m.project
}

func (m *Memory) Attribute() interfaces.AttributeRepository {
	return m.attribute
}

func (m *Memory) Component() interfaces.ComponentRepository {
	return m.component
}

func (m *Memory) Capability() interfaces.CapabilityRepository {
	return m.capability
}

func (m *Memory) Bug() interfaces.BugRepository {
	return m.bug
}

func (m *Memory) Checkin() interfaces.CheckinRepository {
	return m.checkin
}

func (m *Memory) TestCase() interfaces.TestCaseRepository {
	return m.testCase
}

func (m *Memory) Close() error {
	return nil
}
