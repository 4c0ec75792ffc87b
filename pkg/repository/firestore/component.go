package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

type componentDocument struct {
	ID                 int64    `firestore:"id"`
	ProjectID          int64    `firestore:"project_id"`
	Name               string   `firestore:"name"`
	Description        string   `firestore:"description"`
	DisplayOrder       int      `firestore:"display_order"`
	WatchedDirectories []string `firestore:"watched_directories"`
}

func toComponentDocument(c *model.Component) *componentDocument {
	return &componentDocument{
		ID:                 int64(c.ID),
		ProjectID:          int64(c.ProjectID),
		Name:               c.Name,
		Description:        c.Description,
		DisplayOrder:       c.DisplayOrder,
		WatchedDirectories: c.WatchedDirectories,
	}
}

func (d *componentDocument) toModel() *model.Component {
	return &model.Component{
		ID:                 types.ComponentID(d.ID),
		ProjectID:          types.ProjectID(d.ProjectID),
		Name:               d.Name,
		Description:        d.Description,
		DisplayOrder:       d.DisplayOrder,
		WatchedDirectories: d.WatchedDirectories,
	}
}

type componentRepository struct {
	client *firestore.Client
	paths  *collectionPaths
}

func (r *componentRepository) collection(projectID types.ProjectID) *firestore.CollectionRef {
	return r.paths.underProject(projectID, "components")
}

func (r *componentRepository) Create(ctx context.Context, component *model.Component) (*model.Component, error) {
	id, err := nextID(ctx, r.client, r.paths, "component")
	if err != nil {
		return nil, err
	}

	doc := toComponentDocument(component)
	doc.ID = id
	if _, err := r.collection(component.ProjectID).Doc(docID(id)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create component",
			goerr.V("project_id", component.ProjectID),
			goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *componentRepository) Get(ctx context.Context, projectID types.ProjectID, id types.ComponentID) (*model.Component, error) {
	doc, err := getDocument[componentDocument](ctx, r.collection(projectID).Doc(docID(int64(id))), "component")
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *componentRepository) List(ctx context.Context, projectID types.ProjectID) ([]*model.Component, error) {
	docs, err := listDocuments[componentDocument](ctx, r.collection(projectID).OrderBy("id", firestore.Asc), "components")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list components", goerr.V("project_id", projectID))
	}

	components := make([]*model.Component, 0, len(docs))
	for _, doc := range docs {
		components = append(components, doc.toModel())
	}
	return components, nil
}

func (r *componentRepository) Update(ctx context.Context, component *model.Component) (*model.Component, error) {
	doc := toComponentDocument(component)
	if err := updateDocument(ctx, r.collection(component.ProjectID).Doc(docID(doc.ID)), "component", doc); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *componentRepository) Delete(ctx context.Context, projectID types.ProjectID, id types.ComponentID) error {
	return deleteDocument(ctx, r.collection(projectID).Doc(docID(int64(id))), "component")
}
