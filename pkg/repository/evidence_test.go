package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
)

func runEvidenceRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	const projectID types.ProjectID = 1
	const otherProjectID types.ProjectID = 2

	t.Run("bugs are upserted by external ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Bug().SaveMany(ctx, projectID, []*model.Bug{
			{ExternalID: 20, Title: "crash", Association: model.Association{ComponentID: 3}},
			{ExternalID: 10, Title: "slow", State: "open"},
		})).Required()
		gt.NoError(t, repo.Bug().SaveMany(ctx, projectID, []*model.Bug{
			{ExternalID: 10, Title: "slow page", State: "closed"},
		})).Required()
		gt.NoError(t, repo.Bug().SaveMany(ctx, otherProjectID, []*model.Bug{
			{ExternalID: 10, Title: "other"},
		})).Required()

		bugs, err := repo.Bug().List(ctx, projectID)
		gt.NoError(t, err).Required()
		gt.Array(t, bugs).Length(2).Required()
		gt.Value(t, bugs[0].ExternalID).Equal(int64(10))
		gt.Value(t, bugs[0].Title).Equal("slow page")
		gt.Value(t, bugs[0].State).Equal("closed")
		gt.Value(t, bugs[0].ProjectID).Equal(projectID)
		gt.Value(t, bugs[1].ComponentID).Equal(types.ComponentID(3))

		gt.NoError(t, repo.Bug().Delete(ctx, projectID, 20)).Required()
		gt.Bool(t, isNotFound(repo.Bug().Delete(ctx, projectID, 20))).True()

		bugs, err = repo.Bug().List(ctx, projectID)
		gt.NoError(t, err).Required()
		gt.Array(t, bugs).Length(1)
	})

	t.Run("checkins keep directories", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		submitted := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		gt.NoError(t, repo.Checkin().SaveMany(ctx, projectID, []*model.Checkin{
			{ExternalID: 1, Summary: "fix cart", Directories: []string{"depot/cart", "depot/shared"}, ChangeURL: "https://review.example.com/1", SubmittedAt: submitted},
		})).Required()

		checkins, err := repo.Checkin().List(ctx, projectID)
		gt.NoError(t, err).Required()
		gt.Array(t, checkins).Length(1).Required()
		gt.Value(t, checkins[0].Directories).Equal([]string{"depot/cart", "depot/shared"})
		gt.Value(t, checkins[0].ChangeURL).Equal("https://review.example.com/1")
		gt.Bool(t, checkins[0].SubmittedAt.Equal(submitted)).True()

		none, err := repo.Checkin().List(ctx, otherProjectID)
		gt.NoError(t, err).Required()
		gt.Array(t, none).Length(0)
	})

	t.Run("test cases keep tags", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.TestCase().SaveMany(ctx, projectID, []*model.TestCase{
			{ExternalID: 5, Title: "checkout e2e", Tags: []string{"Component:3", "Capability:9"}},
		})).Required()
		gt.NoError(t, repo.TestCase().SaveMany(ctx, projectID, nil)).Required()

		testCases, err := repo.TestCase().List(ctx, projectID)
		gt.NoError(t, err).Required()
		gt.Array(t, testCases).Length(1).Required()
		gt.Value(t, testCases[0].Tags).Equal([]string{"Component:3", "Capability:9"})
	})

	t.Run("stored records do not alias input", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		input := []*model.TestCase{{ExternalID: 5, Tags: []string{"Component:3"}}}
		gt.NoError(t, repo.TestCase().SaveMany(ctx, projectID, input)).Required()
		input[0].Tags[0] = "Component:4"

		testCases, err := repo.TestCase().List(ctx, projectID)
		gt.NoError(t, err).Required()
		gt.Array(t, testCases).Length(1).Required()
		gt.Value(t, testCases[0].Tags[0]).Equal("Component:3")
	})
}
