package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

type evidenceKey struct {
	projectID  types.ProjectID
	externalID int64
}

// evidenceStore keeps externally sourced records keyed by (project, external ID).
// clone must return a deep copy.
type evidenceStore[T any] struct {
	mu      sync.RWMutex
	records map[evidenceKey]*T
	kind    string
	clone   func(*T) *T
	keyOf   func(*T) int64
	setProj func(*T, types.ProjectID)
}

func (s *evidenceStore[T]) saveMany(projectID types.ProjectID, records []*T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		if record == nil {
			continue
		}
		stored := s.clone(record)
		s.setProj(stored, projectID)
		s.records[evidenceKey{projectID: projectID, externalID: s.keyOf(stored)}] = stored
	}
}

func (s *evidenceStore[T]) list(projectID types.ProjectID) []*T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*T
	for key, record := range s.records {
		if key.projectID == projectID {
			result = append(result, s.clone(record))
		}
	}
	slices.SortFunc(result, func(a, b *T) int {
		return cmp.Compare(s.keyOf(a), s.keyOf(b))
	})
	return result
}

func (s *evidenceStore[T]) delete(projectID types.ProjectID, externalID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := evidenceKey{projectID: projectID, externalID: externalID}
	if _, exists := s.records[key]; !exists {
		return goerr.Wrap(ErrNotFound, s.kind+" not found",
			goerr.V("project_id", projectID),
			goerr.V("external_id", externalID))
	}
	delete(s.records, key)
	return nil
}

type bugRepository struct {
	store evidenceStore[model.Bug]
}

func newBugRepository() *bugRepository {
	return &bugRepository{
		store: evidenceStore[model.Bug]{
			records: make(map[evidenceKey]*model.Bug),
			kind:    "bug",
			clone: func(b *model.Bug) *model.Bug {
				copied := *b
				return &copied
			},
			keyOf:   func(b *model.Bug) int64 { return b.ExternalID },
			setProj: func(b *model.Bug, id types.ProjectID) { b.ProjectID = id },
		},
	}
}

func (r *bugRepository) SaveMany(ctx context.Context, projectID types.ProjectID, bugs []*model.Bug) error {
	r.store.saveMany(projectID, bugs)
	return nil
}

func (r *bugRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.Bug, error) {
	return r.store.list(projectID), nil
}

func (r *bugRepository) Delete(ctx context.Context, projectID types.ProjectID, externalID int64) error {
	return r.store.delete(projectID, externalID)
}

type checkinRepository struct {
	store evidenceStore[model.Checkin]
}

func newCheckinRepository() *checkinRepository {
	return &checkinRepository{
		store: evidenceStore[model.Checkin]{
			records: make(map[evidenceKey]*model.Checkin),
			kind:    "checkin",
			clone:   (*model.Checkin).Clone,
			keyOf:   func(c *model.Checkin) int64 { return c.ExternalID },
			setProj: func(c *model.Checkin, id types.ProjectID) { c.ProjectID = id },
		},
	}
}

func (r *checkinRepository) SaveMany(ctx context.Context, projectID types.ProjectID, checkins []*model.Checkin) error {
	r.store.saveMany(projectID, checkins)
	return nil
}

func (r *checkinRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.Checkin, error) {
	return r.store.list(projectID), nil
}

func (r *checkinRepository) Delete(ctx context.Context, projectID types.ProjectID, externalID int64) error {
	return r.store.delete(projectID, externalID)
}

type testCaseRepository struct {
	store evidenceStore[model.TestCase]
}

func newTestCaseRepository() *testCaseRepository {
	return &testCaseRepository{
		store: evidenceStore[model.TestCase]{
			records: make(map[evidenceKey]*model.TestCase),
			kind:    "test case",
			clone:   (*model.TestCase).Clone,
			keyOf:   func(tc *model.TestCase) int64 { return tc.ExternalID },
			setProj: func(tc *model.TestCase, id types.ProjectID) { tc.ProjectID = id },
		},
	}
}

func (r *testCaseRepository) SaveMany(ctx context.Context, projectID types.ProjectID, testCases []*model.TestCase) error {
	r.store.saveMany(projectID, testCases)
	return nil
}

func (r *testCaseRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.TestCase, error) {
	return r.store.list(projectID), nil
}

func (r *testCaseRepository) Delete(ctx context.Context, projectID types.ProjectID, externalID int64) error {
	return r.store.delete(projectID, externalID)
}
