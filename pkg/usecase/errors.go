package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrProjectNotFound  = errors.New("project not found")
	ErrCellNotFound     = errors.New("grid cell not found")
	ErrUnknownProvider  = errors.New("unknown risk provider")
	ErrDatasetNotLoaded = errors.New("dataset could not be loaded")

	// Input errors
	ErrInvalidDiff      = errors.New("invalid unified diff")
	ErrInvalidCheckin   = errors.New("invalid checkin")
	ErrSourceNotEnabled = errors.New("source is not configured")
)

// Context keys for error values
const (
	ProjectIDKey   = "project_id"
	AttributeIDKey = "attribute_id"
	ComponentIDKey = "component_id"
	ProviderKey    = "provider"
)
