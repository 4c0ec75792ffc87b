// Package risk implements the scoring strategies behind the risk grid.
//
// Every data-backed provider builds an immutable index in Initialize and
// publishes it with a single atomic store. Readers load the pointer once per
// call, so a score is computed entirely against either the old or the new
// index.
package risk

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// Provider names
const (
	NameStatic   = "static"
	NameBugs     = "bugs"
	NameChurn    = "churn"
	NameCoverage = "coverage"
)

// current holds the installed index of a provider. The zero value holds nil.
type current[T any] struct {
	ptr atomic.Pointer[T]
}

func (c *current[T]) load() *T {
	return c.ptr.Load()
}

func (c *current[T]) swap(v *T) {
	c.ptr.Store(v)
}

// multiIndex maps one dimension key to the records associated with it
type multiIndex[K comparable, V any] map[K][]V

func (m multiIndex[K, V]) add(key K, v V) {
	m[key] = append(m[key], v)
}

func (m multiIndex[K, V]) get(key K) []V {
	return m[key]
}

// projectOf returns the project of the first cell
func projectOf(cells []*model.GridCell) (types.ProjectID, bool) {
	if len(cells) == 0 || cells[0] == nil {
		return 0, false
	}
	return cells[0].ProjectID(), true
}

func newSnapshot(projectID types.ProjectID, records int) model.IndexSnapshot {
	version := uuid.Must(uuid.NewV7()).String()
	return model.IndexSnapshot{
		Version:   version,
		ProjectID: projectID,
		BuiltAt:   time.Now().UTC(),
		Records:   records,
	}
}
