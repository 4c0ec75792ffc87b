package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

type associationFields struct {
	AttributeID  int64 `firestore:"attribute_id"`
	ComponentID  int64 `firestore:"component_id"`
	CapabilityID int64 `firestore:"capability_id"`
}

func toAssociationFields(a model.Association) associationFields {
	return associationFields{
		AttributeID:  int64(a.AttributeID),
		ComponentID:  int64(a.ComponentID),
		CapabilityID: int64(a.CapabilityID),
	}
}

func (f associationFields) toModel() model.Association {
	return model.Association{
		AttributeID:  types.AttributeID(f.AttributeID),
		ComponentID:  types.ComponentID(f.ComponentID),
		CapabilityID: types.CapabilityID(f.CapabilityID),
	}
}

// evidenceCollection stores documents D keyed by external ID under a project
type evidenceCollection[D any] struct {
	client *firestore.Client
	paths  *collectionPaths
	name   string
	kind   string
}

func (c *evidenceCollection[D]) collection(projectID types.ProjectID) *firestore.CollectionRef {
	return c.paths.underProject(projectID, c.name)
}

// saveMany upserts docs with a BulkWriter. keys[i] is the external ID of docs[i].
func (c *evidenceCollection[D]) saveMany(ctx context.Context, projectID types.ProjectID, keys []int64, docs []*D) error {
	if len(docs) == 0 {
		return nil
	}

	bulkWriter := c.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for i, doc := range docs {
		job, err := bulkWriter.Set(c.collection(projectID).Doc(docID(keys[i])), doc)
		if err != nil {
			bulkWriter.End()
			return goerr.Wrap(err, "failed to enqueue "+c.kind,
				goerr.V("project_id", projectID),
				goerr.V("external_id", keys[i]))
		}
		jobs = append(jobs, job)
	}
	bulkWriter.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "failed to save "+c.kind,
				goerr.V("project_id", projectID),
				goerr.V("external_id", keys[i]))
		}
	}
	return nil
}

func (c *evidenceCollection[D]) list(ctx context.Context, projectID types.ProjectID) ([]*D, error) {
	docs, err := listDocuments[D](ctx, c.collection(projectID).OrderBy("external_id", firestore.Asc), c.name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list "+c.name, goerr.V("project_id", projectID))
	}
	return docs, nil
}

func (c *evidenceCollection[D]) delete(ctx context.Context, projectID types.ProjectID, externalID int64) error {
	return deleteDocument(ctx, c.collection(projectID).Doc(docID(externalID)), c.kind)
}

type bugDocument struct {
	ExternalID  int64             `firestore:"external_id"`
	ProjectID   int64             `firestore:"project_id"`
	Title       string            `firestore:"title"`
	Path        string            `firestore:"path"`
	Severity    int               `firestore:"severity"`
	Priority    int               `firestore:"priority"`
	State       string            `firestore:"state"`
	URL         string            `firestore:"url"`
	Association associationFields `firestore:"association"`
	CreatedAt   time.Time         `firestore:"created_at"`
}

type bugRepository struct {
	docs evidenceCollection[bugDocument]
}

func newBugRepository(client *firestore.Client, paths *collectionPaths) *bugRepository {
	return &bugRepository{
		docs: evidenceCollection[bugDocument]{client: client, paths: paths, name: "bugs", kind: "bug"},
	}
}

func (r *bugRepository) SaveMany(ctx context.Context, projectID types.ProjectID, bugs []*model.Bug) error {
	keys := make([]int64, 0, len(bugs))
	docs := make([]*bugDocument, 0, len(bugs))
	for _, b := range bugs {
		if b == nil {
			continue
		}
		keys = append(keys, b.ExternalID)
		docs = append(docs, &bugDocument{
			ExternalID:  b.ExternalID,
			ProjectID:   int64(projectID),
			Title:       b.Title,
			Path:        b.Path,
			Severity:    b.Severity,
			Priority:    b.Priority,
			State:       b.State,
			URL:         b.URL,
			Association: toAssociationFields(b.Association),
			CreatedAt:   b.CreatedAt,
		})
	}
	return r.docs.saveMany(ctx, projectID, keys, docs)
}

func (r *bugRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.Bug, error) {
	docs, err := r.docs.list(ctx, projectID)
	if err != nil {
		return nil, err
	}

	bugs := make([]*model.Bug, 0, len(docs))
	for _, d := range docs {
		bugs = append(bugs, &model.Bug{
			ExternalID:  d.ExternalID,
			ProjectID:   types.ProjectID(d.ProjectID),
			Title:       d.Title,
			Path:        d.Path,
			Severity:    d.Severity,
			Priority:    d.Priority,
			State:       d.State,
			URL:         d.URL,
			Association: d.Association.toModel(),
			CreatedAt:   d.CreatedAt,
		})
	}
	return bugs, nil
}

func (r *bugRepository) Delete(ctx context.Context, projectID types.ProjectID, externalID int64) error {
	return r.docs.delete(ctx, projectID, externalID)
}

type checkinDocument struct {
	ExternalID  int64             `firestore:"external_id"`
	ProjectID   int64             `firestore:"project_id"`
	Summary     string            `firestore:"summary"`
	Directories []string          `firestore:"directories"`
	ChangeURL   string            `firestore:"change_url"`
	State       string            `firestore:"state"`
	Association associationFields `firestore:"association"`
	SubmittedAt time.Time         `firestore:"submitted_at"`
}

type checkinRepository struct {
	docs evidenceCollection[checkinDocument]
}

func newCheckinRepository(client *firestore.Client, paths *collectionPaths) *checkinRepository {
	return &checkinRepository{
		docs: evidenceCollection[checkinDocument]{client: client, paths: paths, name: "checkins", kind: "checkin"},
	}
}

func (r *checkinRepository) SaveMany(ctx context.Context, projectID types.ProjectID, checkins []*model.Checkin) error {
	keys := make([]int64, 0, len(checkins))
	docs := make([]*checkinDocument, 0, len(checkins))
	for _, c := range checkins {
		if c == nil {
			continue
		}
		keys = append(keys, c.ExternalID)
		docs = append(docs, &checkinDocument{
			ExternalID:  c.ExternalID,
			ProjectID:   int64(projectID),
			Summary:     c.Summary,
			Directories: c.Directories,
			ChangeURL:   c.ChangeURL,
			State:       c.State,
			Association: toAssociationFields(c.Association),
			SubmittedAt: c.SubmittedAt,
		})
	}
	return r.docs.saveMany(ctx, projectID, keys, docs)
}

func (r *checkinRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.Checkin, error) {
	docs, err := r.docs.list(ctx, projectID)
	if err != nil {
		return nil, err
	}

	checkins := make([]*model.Checkin, 0, len(docs))
	for _, d := range docs {
		checkins = append(checkins, &model.Checkin{
			ExternalID:  d.ExternalID,
			ProjectID:   types.ProjectID(d.ProjectID),
			Summary:     d.Summary,
			Directories: d.Directories,
			ChangeURL:   d.ChangeURL,
			State:       d.State,
			Association: d.Association.toModel(),
			SubmittedAt: d.SubmittedAt,
		})
	}
	return checkins, nil
}

func (r *checkinRepository) Delete(ctx context.Context, projectID types.ProjectID, externalID int64) error {
	return r.docs.delete(ctx, projectID, externalID)
}

type testCaseDocument struct {
	ExternalID int64     `firestore:"external_id"`
	ProjectID  int64     `firestore:"project_id"`
	Title      string    `firestore:"title"`
	Tags       []string  `firestore:"tags"`
	URL        string    `firestore:"url"`
	State      string    `firestore:"state"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

type testCaseRepository struct {
	docs evidenceCollection[testCaseDocument]
}

func newTestCaseRepository(client *firestore.Client, paths *collectionPaths) *testCaseRepository {
	return &testCaseRepository{
		docs: evidenceCollection[testCaseDocument]{client: client, paths: paths, name: "test_cases", kind: "test case"},
	}
}

func (r *testCaseRepository) SaveMany(ctx context.Context, projectID types.ProjectID, testCases []*model.TestCase) error {
	keys := make([]int64, 0, len(testCases))
	docs := make([]*testCaseDocument, 0, len(testCases))
	for _, tc := range testCases {
		if tc == nil {
			continue
		}
		keys = append(keys, tc.ExternalID)
		docs = append(docs, &testCaseDocument{
			ExternalID: tc.ExternalID,
			ProjectID:  int64(projectID),
			Title:      tc.Title,
			Tags:       tc.Tags,
			URL:        tc.URL,
			State:      tc.State,
			UpdatedAt:  tc.UpdatedAt,
		})
	}
	return r.docs.saveMany(ctx, projectID, keys, docs)
}

func (r *testCaseRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.TestCase, error) {
	docs, err := r.docs.list(ctx, projectID)
	if err != nil {
		return nil, err
	}

	testCases := make([]*model.TestCase, 0, len(docs))
	for _, d := range docs {
		testCases = append(testCases, &model.TestCase{
			ExternalID: d.ExternalID,
			ProjectID:  types.ProjectID(d.ProjectID),
			Title:      d.Title,
			Tags:       d.Tags,
			URL:        d.URL,
			State:      d.State,
			UpdatedAt:  d.UpdatedAt,
		})
	}
	return testCases, nil
}

func (r *testCaseRepository) Delete(ctx context.Context, projectID types.ProjectID, externalID int64) error {
	return r.docs.delete(ctx, projectID, externalID)
}
