package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

func runProjectRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns increasing IDs", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p1, err := repo.Project().Create(ctx, &model.Project{Name: "Checkout", Description: "web store"})
		gt.NoError(t, err).Required()
		p2, err := repo.Project().Create(ctx, &model.Project{Name: "Search"})
		gt.NoError(t, err).Required()

		gt.Bool(t, p1.ID.IsSet()).True()
		gt.Bool(t, p2.ID > p1.ID).True()
		gt.Value(t, p1.Name).Equal("Checkout")
		gt.Bool(t, p1.CreatedAt.IsZero()).False()
	})

	t.Run("Get and List return stored projects", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Project().Create(ctx, &model.Project{Name: "Checkout"})
		gt.NoError(t, err).Required()
		_, err = repo.Project().Create(ctx, &model.Project{Name: "Search"})
		gt.NoError(t, err).Required()

		got, err := repo.Project().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Checkout")

		projects, err := repo.Project().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, projects).Length(2).Required()
		gt.Value(t, projects[0].ID).Equal(created.ID)
	})

	t.Run("Get and Delete of unknown project return ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Project().Get(ctx, types.ProjectID(999))
		gt.Bool(t, isNotFound(err)).True()
		gt.Bool(t, isNotFound(repo.Project().Delete(ctx, types.ProjectID(999)))).True()
	})

	t.Run("Delete removes project", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Project().Create(ctx, &model.Project{Name: "Checkout"})
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Project().Delete(ctx, created.ID)).Required()

		_, err = repo.Project().Get(ctx, created.ID)
		gt.Bool(t, isNotFound(err)).True()
	})
}
