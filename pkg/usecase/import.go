package usecase

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
)

// Dataset is a complete project in TOML form. Hierarchy entries are
// referenced by their Key because IDs are allocated on import.
type Dataset struct {
	Project      DatasetProject      `toml:"project"`
	Attributes   []DatasetAttribute  `toml:"attributes"`
	Components   []DatasetComponent  `toml:"components"`
	Capabilities []DatasetCapability `toml:"capabilities"`
	Bugs         []DatasetBug        `toml:"bugs"`
	Checkins     []DatasetCheckin    `toml:"checkins"`
	TestCases    []DatasetTestCase   `toml:"test_cases"`
}

type DatasetProject struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

type DatasetAttribute struct {
	Key         string `toml:"key"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Order       int    `toml:"order"`
}

type DatasetComponent struct {
	Key         string   `toml:"key"`
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Order       int      `toml:"order"`
	Directories []string `toml:"directories"`
}

type DatasetCapability struct {
	Key         string `toml:"key"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Attribute   string `toml:"attribute"`
	Component   string `toml:"component"`
	FailureRate string `toml:"failure_rate"`
	UserImpact  string `toml:"user_impact"`
}

// DatasetAssociation references at most one entry of each hierarchy level by key
type DatasetAssociation struct {
	Attribute  string `toml:"attribute"`
	Component  string `toml:"component"`
	Capability string `toml:"capability"`
}

type DatasetBug struct {
	ID       int64     `toml:"id"`
	Title    string    `toml:"title"`
	Path     string    `toml:"path"`
	Severity int       `toml:"severity"`
	Priority int       `toml:"priority"`
	State    string    `toml:"state"`
	URL      string    `toml:"url"`
	Created  time.Time `toml:"created_at"`
	DatasetAssociation
}

type DatasetCheckin struct {
	ID          int64     `toml:"id"`
	Summary     string    `toml:"summary"`
	Directories []string  `toml:"directories"`
	URL         string    `toml:"url"`
	State       string    `toml:"state"`
	Submitted   time.Time `toml:"submitted_at"`
	DatasetAssociation
}

// DatasetTestCase lists what a test case covers by key. Each key becomes a
// "<Kind>:<id>" tag; Tags are stored verbatim after them.
type DatasetTestCase struct {
	ID           int64    `toml:"id"`
	Title        string   `toml:"title"`
	URL          string   `toml:"url"`
	State        string   `toml:"state"`
	Attributes   []string `toml:"attributes"`
	Components   []string `toml:"components"`
	Capabilities []string `toml:"capabilities"`
	Tags         []string `toml:"tags"`
}

// ImportResult reports what an import created
type ImportResult struct {
	Project      *model.Project
	Attributes   int
	Components   int
	Capabilities int
	Bugs         int
	Checkins     int
	TestCases    int
}

// ImportUseCase loads datasets into the repository
type ImportUseCase struct {
	repo interfaces.Repository
}

func NewImportUseCase(repo interfaces.Repository) *ImportUseCase {
	return &ImportUseCase{repo: repo}
}

// ParseDataset decodes a TOML dataset. Unknown fields are rejected.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&ds); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrDatasetNotLoaded, err), "failed to parse dataset")
	}
	if ds.Project.Name == "" {
		return nil, goerr.Wrap(ErrDatasetNotLoaded, "project name is required")
	}
	return &ds, nil
}

// keyMap resolves dataset keys to allocated IDs
type keyMap struct {
	attributes   map[string]types.AttributeID
	components   map[string]types.ComponentID
	capabilities map[string]types.CapabilityID
}

func (m *keyMap) association(a DatasetAssociation) (model.Association, error) {
	var result model.Association
	if a.Attribute != "" {
		id, ok := m.attributes[a.Attribute]
		if !ok {
			return result, goerr.Wrap(ErrDatasetNotLoaded, "unknown attribute key", goerr.V("key", a.Attribute))
		}
		result.AttributeID = id
	}
	if a.Component != "" {
		id, ok := m.components[a.Component]
		if !ok {
			return result, goerr.Wrap(ErrDatasetNotLoaded, "unknown component key", goerr.V("key", a.Component))
		}
		result.ComponentID = id
	}
	if a.Capability != "" {
		id, ok := m.capabilities[a.Capability]
		if !ok {
			return result, goerr.Wrap(ErrDatasetNotLoaded, "unknown capability key", goerr.V("key", a.Capability))
		}
		result.CapabilityID = id
	}
	return result, nil
}

func (m *keyMap) tags(tc DatasetTestCase) ([]string, error) {
	var tags []string
	for _, key := range tc.Attributes {
		id, ok := m.attributes[key]
		if !ok {
			return nil, goerr.Wrap(ErrDatasetNotLoaded, "unknown attribute key", goerr.V("key", key), goerr.V("test_case_id", tc.ID))
		}
		tags = append(tags, model.Tag{Kind: model.TagKindAttribute, ID: int64(id)}.String())
	}
	for _, key := range tc.Components {
		id, ok := m.components[key]
		if !ok {
			return nil, goerr.Wrap(ErrDatasetNotLoaded, "unknown component key", goerr.V("key", key), goerr.V("test_case_id", tc.ID))
		}
		tags = append(tags, model.Tag{Kind: model.TagKindComponent, ID: int64(id)}.String())
	}
	for _, key := range tc.Capabilities {
		id, ok := m.capabilities[key]
		if !ok {
			return nil, goerr.Wrap(ErrDatasetNotLoaded, "unknown capability key", goerr.V("key", key), goerr.V("test_case_id", tc.ID))
		}
		tags = append(tags, model.Tag{Kind: model.TagKindCapability, ID: int64(id)}.String())
	}
	return append(tags, tc.Tags...), nil
}

// Import creates a new project from the dataset with all of its hierarchy
// and evidence. The import is not transactional; a failure leaves the
// entries created so far in place.
func (uc *ImportUseCase) Import(ctx context.Context, ds *Dataset) (*ImportResult, error) {
	now := time.Now().UTC()
	project, err := uc.repo.Project().Create(ctx, &model.Project{
		Name:        ds.Project.Name,
		Description: ds.Project.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create project")
	}

	result := &ImportResult{Project: project}
	keys := &keyMap{
		attributes:   make(map[string]types.AttributeID),
		components:   make(map[string]types.ComponentID),
		capabilities: make(map[string]types.CapabilityID),
	}

	for _, a := range ds.Attributes {
		if _, dup := keys.attributes[a.Key]; dup || a.Key == "" {
			return nil, goerr.Wrap(ErrDatasetNotLoaded, "attribute key must be unique and non-empty", goerr.V("key", a.Key))
		}
		created, err := uc.repo.Attribute().Create(ctx, &model.Attribute{
			ProjectID:    project.ID,
			Name:         a.Name,
			Description:  a.Description,
			DisplayOrder: a.Order,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create attribute", goerr.V("key", a.Key))
		}
		keys.attributes[a.Key] = created.ID
		result.Attributes++
	}

	for _, c := range ds.Components {
		if _, dup := keys.components[c.Key]; dup || c.Key == "" {
			return nil, goerr.Wrap(ErrDatasetNotLoaded, "component key must be unique and non-empty", goerr.V("key", c.Key))
		}
		created, err := uc.repo.Component().Create(ctx, &model.Component{
			ProjectID:          project.ID,
			Name:               c.Name,
			Description:        c.Description,
			DisplayOrder:       c.Order,
			WatchedDirectories: c.Directories,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create component", goerr.V("key", c.Key))
		}
		keys.components[c.Key] = created.ID
		result.Components++
	}

	for _, c := range ds.Capabilities {
		if _, dup := keys.capabilities[c.Key]; dup || c.Key == "" {
			return nil, goerr.Wrap(ErrDatasetNotLoaded, "capability key must be unique and non-empty", goerr.V("key", c.Key))
		}
		attrID, ok := keys.attributes[c.Attribute]
		if !ok {
			return nil, goerr.Wrap(ErrDatasetNotLoaded, "capability refers to unknown attribute", goerr.V("key", c.Key), goerr.V("attribute", c.Attribute))
		}
		compID, ok := keys.components[c.Component]
		if !ok {
			return nil, goerr.Wrap(ErrDatasetNotLoaded, "capability refers to unknown component", goerr.V("key", c.Key), goerr.V("component", c.Component))
		}
		rate, err := types.ParseFailureRate(c.FailureRate)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid capability", goerr.V("key", c.Key))
		}
		impact, err := types.ParseUserImpact(c.UserImpact)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid capability", goerr.V("key", c.Key))
		}

		created, err := uc.repo.Capability().Create(ctx, &model.Capability{
			ProjectID:   project.ID,
			AttributeID: attrID,
			ComponentID: compID,
			Name:        c.Name,
			Description: c.Description,
			FailureRate: rate,
			UserImpact:  impact,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create capability", goerr.V("key", c.Key))
		}
		keys.capabilities[c.Key] = created.ID
		result.Capabilities++
	}

	bugs := make([]*model.Bug, 0, len(ds.Bugs))
	for _, b := range ds.Bugs {
		assoc, err := keys.association(b.DatasetAssociation)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid bug", goerr.V("bug_id", b.ID))
		}
		bugs = append(bugs, &model.Bug{
			ExternalID:  b.ID,
			ProjectID:   project.ID,
			Title:       b.Title,
			Path:        b.Path,
			Severity:    b.Severity,
			Priority:    b.Priority,
			State:       b.State,
			URL:         b.URL,
			Association: assoc,
			CreatedAt:   b.Created,
		})
	}
	if len(bugs) > 0 {
		if err := uc.repo.Bug().SaveMany(ctx, project.ID, bugs); err != nil {
			return nil, goerr.Wrap(err, "failed to save bugs")
		}
	}
	result.Bugs = len(bugs)

	checkins := make([]*model.Checkin, 0, len(ds.Checkins))
	for _, c := range ds.Checkins {
		assoc, err := keys.association(c.DatasetAssociation)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid checkin", goerr.V("checkin_id", c.ID))
		}
		checkins = append(checkins, &model.Checkin{
			ExternalID:  c.ID,
			ProjectID:   project.ID,
			Summary:     c.Summary,
			Directories: c.Directories,
			ChangeURL:   c.URL,
			State:       c.State,
			Association: assoc,
			SubmittedAt: c.Submitted,
		})
	}
	if len(checkins) > 0 {
		if err := uc.repo.Checkin().SaveMany(ctx, project.ID, checkins); err != nil {
			return nil, goerr.Wrap(err, "failed to save checkins")
		}
	}
	result.Checkins = len(checkins)

	testCases := make([]*model.TestCase, 0, len(ds.TestCases))
	for _, tc := range ds.TestCases {
		tags, err := keys.tags(tc)
		if err != nil {
			return nil, err
		}
		testCases = append(testCases, &model.TestCase{
			ExternalID: tc.ID,
			ProjectID:  project.ID,
			Title:      tc.Title,
			Tags:       tags,
			URL:        tc.URL,
			State:      tc.State,
			UpdatedAt:  now,
		})
	}
	if len(testCases) > 0 {
		if err := uc.repo.TestCase().SaveMany(ctx, project.ID, testCases); err != nil {
			return nil, goerr.Wrap(err, "failed to save test cases")
		}
	}
	result.TestCases = len(testCases)

	logging.From(ctx).Info("dataset imported",
		ProjectIDKey, project.ID,
		"attributes", result.Attributes,
		"components", result.Components,
		"capabilities", result.Capabilities,
		"bugs", result.Bugs,
		"checkins", result.Checkins,
		"test_cases", result.TestCases,
	)

	return result, nil
}
