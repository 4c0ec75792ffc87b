package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type projectDocument struct {
	ID          int64     `firestore:"id"`
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func (d *projectDocument) toModel() *model.Project {
	return &model.Project{
		ID:          types.ProjectID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type projectRepository struct {
	client *firestore.Client
	paths  *collectionPaths
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) (*model.Project, error) {
	id, err := nextID(ctx, r.client, r.paths, "project")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &projectDocument{
		ID:          id,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.paths.projects().Doc(docID(id)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create project", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *projectRepository) Get(ctx context.Context, id types.ProjectID) (*model.Project, error) {
	snap, err := r.paths.projects().Doc(docID(int64(id))).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get project", goerr.V("id", id))
	}

	var doc projectDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal project", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *projectRepository) List(ctx context.Context) ([]*model.Project, error) {
	iter := r.paths.projects().OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var projects []*model.Project
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate projects")
		}

		var doc projectDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal project", goerr.V("doc_id", snap.Ref.ID))
		}
		projects = append(projects, doc.toModel())
	}

	return projects, nil
}

func (r *projectRepository) Delete(ctx context.Context, id types.ProjectID) error {
	docRef := r.paths.projects().Doc(docID(int64(id)))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get project", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete project", goerr.V("id", id))
	}

	return nil
}
