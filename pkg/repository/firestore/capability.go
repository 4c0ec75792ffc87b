package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

type capabilityDocument struct {
	ID          int64  `firestore:"id"`
	ProjectID   int64  `firestore:"project_id"`
	AttributeID int64  `firestore:"attribute_id"`
	ComponentID int64  `firestore:"component_id"`
	Name        string `firestore:"name"`
	Description string `firestore:"description"`
	FailureRate string `firestore:"failure_rate"`
	UserImpact  string `firestore:"user_impact"`
}

func toCapabilityDocument(c *model.Capability) *capabilityDocument {
	return &capabilityDocument{
		ID:          int64(c.ID),
		ProjectID:   int64(c.ProjectID),
		AttributeID: int64(c.AttributeID),
		ComponentID: int64(c.ComponentID),
		Name:        c.Name,
		Description: c.Description,
		FailureRate: string(c.FailureRate),
		UserImpact:  string(c.UserImpact),
	}
}

func (d *capabilityDocument) toModel() *model.Capability {
	return &model.Capability{
		ID:          types.CapabilityID(d.ID),
		ProjectID:   types.ProjectID(d.ProjectID),
		AttributeID: types.AttributeID(d.AttributeID),
		ComponentID: types.ComponentID(d.ComponentID),
		Name:        d.Name,
		Description: d.Description,
		FailureRate: types.FailureRate(d.FailureRate),
		UserImpact:  types.UserImpact(d.UserImpact),
	}
}

type capabilityRepository struct {
	client *firestore.Client
	paths  *collectionPaths
}

func (r *capabilityRepository) collection(projectID types.ProjectID) *firestore.CollectionRef {
	return r.paths.underProject(projectID, "capabilities")
}

func (r *capabilityRepository) Create(ctx context.Context, capability *model.Capability) (*model.Capability, error) {
	id, err := nextID(ctx, r.client, r.paths, "capability")
	if err != nil {
		return nil, err
	}

	doc := toCapabilityDocument(capability)
	doc.ID = id
	if _, err := r.collection(capability.ProjectID).Doc(docID(id)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create capability",
			goerr.V("project_id", capability.ProjectID),
			goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *capabilityRepository) Get(ctx context.Context, projectID types.ProjectID, id types.CapabilityID) (*model.Capability, error) {
	doc, err := getDocument[capabilityDocument](ctx, r.collection(projectID).Doc(docID(int64(id))), "capability")
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *capabilityRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.Capability, error) {
	docs, err := listDocuments[capabilityDocument](ctx, r.collection(projectID).
		OrderBy("attribute_id", firestore.Asc).
		OrderBy("component_id", firestore.Asc).
		OrderBy("id", firestore.Asc), "capabilities")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list capabilities", goerr.V("project_id", projectID))
	}

	capabilities := make([]*model.Capability, 0, len(docs))
	for _, doc := range docs {
		capabilities = append(capabilities, doc.toModel())
	}
	return capabilities, nil
}

func (r *capabilityRepository) Update(ctx context.Context, capability *model.Capability) (*model.Capability, error) {
	doc := toCapabilityDocument(capability)
	if err := updateDocument(ctx, r.collection(capability.ProjectID).Doc(docID(doc.ID)), "capability", doc); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *capabilityRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.CapabilityID) error {
	return deleteDocument(ctx, r.collection(projectID).Doc(docID(int64(id))), "capability")
}
