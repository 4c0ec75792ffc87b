package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Project() ProjectRepository
	Attribute() AttributeRepository
	Component() ComponentRepository
	Capability() CapabilityRepository
	Bug() BugRepository
	Checkin() CheckinRepository
	TestCase() TestCaseRepository

	Close() error
}
