package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

func runHierarchyRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	setup := func(t *testing.T, repo interfaces.Repository) *model.Project {
		project, err := repo.Project().Create(context.Background(), &model.Project{Name: "Checkout"})
		gt.NoError(t, err).Required()
		return project
	}

	t.Run("attributes are scoped by project", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		project := setup(t, repo)
		other := setup(t, repo)

		fast, err := repo.Attribute().Create(ctx, &model.Attribute{ProjectID: project.ID, Name: "Fast", DisplayOrder: 1})
		gt.NoError(t, err).Required()
		_, err = repo.Attribute().Create(ctx, &model.Attribute{ProjectID: other.ID, Name: "Secure"})
		gt.NoError(t, err).Required()

		list, err := repo.Attribute().List(ctx, project.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(1).Required()
		gt.Value(t, list[0].Name).Equal("Fast")
		gt.Value(t, list[0].DisplayOrder).Equal(1)

		_, err = repo.Attribute().Get(ctx, other.ID, fast.ID)
		gt.Bool(t, isNotFound(err)).True()

		gt.NoError(t, repo.Attribute().Delete(ctx, project.ID, fast.ID)).Required()
		gt.Bool(t, isNotFound(repo.Attribute().Delete(ctx, project.ID, fast.ID))).True()
	})

	t.Run("components keep watched directories", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		project := setup(t, repo)

		created, err := repo.Component().Create(ctx, &model.Component{
			ProjectID:          project.ID,
			Name:               "Cart",
			WatchedDirectories: []string{"//depot/cart", "//depot/shared/cart"},
		})
		gt.NoError(t, err).Required()

		got, err := repo.Component().Get(ctx, project.ID, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.WatchedDirectories).Equal([]string{"//depot/cart", "//depot/shared/cart"})

		got.WatchedDirectories = []string{"//depot/cart2"}
		got.Name = "Basket"
		updated, err := repo.Component().Update(ctx, got)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Name).Equal("Basket")

		got, err = repo.Component().Get(ctx, project.ID, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.WatchedDirectories).Equal([]string{"//depot/cart2"})

		_, err = repo.Component().Update(ctx, &model.Component{ID: 999, ProjectID: project.ID})
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("capabilities keep severity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		project := setup(t, repo)

		created, err := repo.Capability().Create(ctx, &model.Capability{
			ProjectID:   project.ID,
			AttributeID: 1,
			ComponentID: 2,
			Name:        "Cart total is correct",
			FailureRate: types.FailureRateSeldom,
			UserImpact:  types.UserImpactMaximal,
		})
		gt.NoError(t, err).Required()

		got, err := repo.Capability().Get(ctx, project.ID, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.FailureRate).Equal(types.FailureRateSeldom)
		gt.Value(t, got.UserImpact).Equal(types.UserImpactMaximal)
		gt.Value(t, got.AttributeID).Equal(types.AttributeID(1))

		got.UserImpact = types.UserImpactNA
		_, err = repo.Capability().Update(ctx, got)
		gt.NoError(t, err).Required()

		list, err := repo.Capability().List(ctx, project.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(1).Required()
		gt.Value(t, list[0].UserImpact).Equal(types.UserImpactNA)

		gt.NoError(t, repo.Capability().Delete(ctx, project.ID, created.ID)).Required()
		list, err = repo.Capability().List(ctx, project.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(0)
	})
}
