package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

type attributeDocument struct {
	ID           int64  `firestore:"id"`
	ProjectID    int64  `firestore:"project_id"`
	Name         string `firestore:"name"`
	Description  string `firestore:"description"`
	DisplayOrder int    `firestore:"display_order"`
}

func toAttributeDocument(a *model.Attribute) *attributeDocument {
	return &attributeDocument{
		ID:           int64(a.ID),
		ProjectID:    int64(a.ProjectID),
		Name:         a.Name,
		Description:  a.Description,
		DisplayOrder: a.DisplayOrder,
	}
}

func (d *attributeDocument) toModel() *model.Attribute {
	return &model.Attribute{
		ID:           types.AttributeID(d.ID),
		ProjectID:    types.ProjectID(d.ProjectID),
		Name:         d.Name,
		Description:  d.Description,
		DisplayOrder: d.DisplayOrder,
	}
}

type attributeRepository struct {
	client *firestore.Client
	paths  *collectionPaths
}

func (r *attributeRepository) collection(projectID types.ProjectID) *firestore.CollectionRef {
	return r.paths.underProject(projectID, "attributes")
}

func (r *attributeRepository) Create(ctx context.Context, attribute *model.Attribute) (*model.Attribute, error) {
	id, err := nextID(ctx, r.client, r.paths, "attribute")
	if err != nil {
		return nil, err
	}

	doc := toAttributeDocument(attribute)
	doc.ID = id
	if _, err := r.collection(attribute.ProjectID).Doc(docID(id)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create attribute",
			goerr.V("project_id", attribute.ProjectID),
			goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *attributeRepository) Get(ctx context.Context, projectID types.ProjectID, id types.AttributeID) (*model.Attribute, error) {
	doc, err := getDocument[attributeDocument](ctx, r.collection(projectID).Doc(docID(int64(id))), "attribute")
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *attributeRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.Attribute, error) {
	docs, err := listDocuments[attributeDocument](ctx, r.collection(projectID).OrderBy("id", firestore.Asc), "attributes")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list attributes", goerr.V("project_id", projectID))
	}

	attributes := make([]*model.Attribute, 0, len(docs))
	for _, doc := range docs {
		attributes = append(attributes, doc.toModel())
	}
	return attributes, nil
}

func (r *attributeRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.AttributeID) error {
	return deleteDocument(ctx, r.collection(projectID).Doc(docID(int64(id))), "attribute")
}
