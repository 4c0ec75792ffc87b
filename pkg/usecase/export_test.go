package usecase

// TouchedDirectories is exported for testing
var TouchedDirectories = touchedDirectories

// BuildReportBlocks is exported for testing
var BuildReportBlocks = buildReportBlocks

// LabelAssociation is exported for testing
var LabelAssociation = labelAssociation
