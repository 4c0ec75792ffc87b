package firestore

import (
	"context"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

// Layout:
//
//	projects/{projectID}
//	projects/{projectID}/attributes/{id}
//	projects/{projectID}/components/{id}
//	projects/{projectID}/capabilities/{id}
//	projects/{projectID}/bugs/{externalID}
//	projects/{projectID}/checkins/{externalID}
//	projects/{projectID}/test_cases/{externalID}
//	counters/{kind}_counter
type Firestore struct {
	client     *firestore.Client
	paths      *collectionPaths
	project    *projectRepository
	attribute  *attributeRepository
	component  *componentRepository
	capability *capabilityRepository
	bug        *bugRepository
	checkin    *checkinRepository
	testCase   *testCaseRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every top level collection, e.g. for tests
// sharing one database.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.paths.prefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	paths := &collectionPaths{client: client}
	f := &Firestore{
		client:     client,
		paths:      paths,
		project:    &projectRepository{client: client, paths: paths},
		attribute:  &attributeRepository{client: client, paths: paths},
		component:  &componentRepository{client: client, paths: paths},
		capability: &capabilityRepository{client: client, paths: paths},
		bug:        newBugRepository(client, paths),
		checkin:    newCheckinRepository(client, paths),
		testCase:   newTestCaseRepository(client, paths),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Project() interfaces.ProjectRepository {
	return f.project
}

func (f *Firestore) Attribute() interfaces.AttributeRepository {
	return f.attribute
}

func (f *Firestore) Component() interfaces.ComponentRepository {
	return f.component
}

func (f *Firestore) Capability() interfaces.CapabilityRepository {
	return f.capability
}

func (f *Firestore) Bug() interfaces.BugRepository {
	return f.bug
}

func (f *Firestore) Checkin() interfaces.CheckinRepository {
	return f.checkin
}

func (f *Firestore) TestCase() interfaces.TestCaseRepository {
	return f.testCase
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// collectionPaths resolves collection references under the configured prefix
type collectionPaths struct {
	client *firestore.Client
	prefix string
}

func (p *collectionPaths) root(name string) *firestore.CollectionRef {
	if p.prefix != "" {
		return p.client.Collection(p.prefix + "_" + name)
	}
	return p.client.Collection(name)
}

func (p *collectionPaths) projects() *firestore.CollectionRef {
	return p.root("projects")
}

func (p *collectionPaths) underProject(projectID types.ProjectID, name string) *firestore.CollectionRef {
	return p.projects().Doc(docID(int64(projectID))).Collection(name)
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}
