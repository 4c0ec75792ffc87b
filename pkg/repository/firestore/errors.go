package firestore

import "github.com/secmon-lab/riskgrid/pkg/domain/interfaces"

// ErrNotFound is returned when the requested document does not exist
var ErrNotFound = interfaces.ErrNotFound
