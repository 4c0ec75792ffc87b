package usecase_test

import (
	"context"
	"iter"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/repository/memory"
	"github.com/secmon-lab/riskgrid/pkg/service/github"
	"github.com/secmon-lab/riskgrid/pkg/service/notion"
	"github.com/secmon-lab/riskgrid/pkg/service/slack"
	goslack "github.com/slack-go/slack"
)

// fixture is a two by two grid with evidence in most cells
type fixture struct {
	project    *model.Project
	fast       *model.Attribute
	secure     *model.Attribute
	checkout   *model.Component
	search     *model.Component
	payment    *model.Capability
	unassessed *model.Capability
}

func seedGrid(t *testing.T, repo *memory.Memory) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{}

	var err error
	f.project, err = repo.Project().Create(ctx, &model.Project{Name: "Shop"})
	gt.NoError(t, err).Required()

	f.fast, err = repo.Attribute().Create(ctx, &model.Attribute{ProjectID: f.project.ID, Name: "Fast", DisplayOrder: 1})
	gt.NoError(t, err).Required()
	f.secure, err = repo.Attribute().Create(ctx, &model.Attribute{ProjectID: f.project.ID, Name: "Secure", DisplayOrder: 2})
	gt.NoError(t, err).Required()

	f.checkout, err = repo.Component().Create(ctx, &model.Component{
		ProjectID:          f.project.ID,
		Name:               "Checkout",
		DisplayOrder:       1,
		WatchedDirectories: []string{"//depot/checkout"},
	})
	gt.NoError(t, err).Required()
	f.search, err = repo.Component().Create(ctx, &model.Component{
		ProjectID:          f.project.ID,
		Name:               "Search",
		DisplayOrder:       2,
		WatchedDirectories: []string{"//depot/search"},
	})
	gt.NoError(t, err).Required()

	f.payment, err = repo.Capability().Create(ctx, &model.Capability{
		ProjectID:   f.project.ID,
		AttributeID: f.fast.ID,
		ComponentID: f.checkout.ID,
		Name:        "Payment completes within 2s",
		FailureRate: types.FailureRateOften,
		UserImpact:  types.UserImpactMaximal,
	})
	gt.NoError(t, err).Required()
	f.unassessed, err = repo.Capability().Create(ctx, &model.Capability{
		ProjectID:   f.project.ID,
		AttributeID: f.secure.ID,
		ComponentID: f.search.ID,
		Name:        "Queries are escaped",
		FailureRate: types.FailureRateNA,
		UserImpact:  types.UserImpactSome,
	})
	gt.NoError(t, err).Required()

	gt.NoError(t, repo.Bug().SaveMany(ctx, f.project.ID, []*model.Bug{
		{ExternalID: 1, Title: "slow payment", Association: model.Association{CapabilityID: f.payment.ID}},
		{ExternalID: 2, Title: "latency regression", Association: model.Association{AttributeID: f.fast.ID}},
		{ExternalID: 3, Title: "typo"},
	})).Required()

	gt.NoError(t, repo.Checkin().SaveMany(ctx, f.project.ID, []*model.Checkin{
		{ExternalID: 10, Summary: "refactor cart", Directories: []string{"//depot/checkout/cart"}},
		{ExternalID: 11, Summary: "retry payment", Directories: []string{"//depot/checkout/api"}},
		{ExternalID: 12, Summary: "ranking tweak", Directories: []string{"//depot/search"}},
	})).Required()

	gt.NoError(t, repo.TestCase().SaveMany(ctx, f.project.ID, []*model.TestCase{
		{ExternalID: 100, Title: "payment e2e", Tags: []string{model.Tag{Kind: model.TagKindCapability, ID: int64(f.payment.ID)}.String()}},
	})).Required()

	return f
}

type mockGitHubService struct {
	issues []*github.Issue
	prs    []*github.PullRequest
	err    error
}

func (m *mockGitHubService) FetchIssues(ctx context.Context, owner, repo string, since time.Time) iter.Seq2[*github.Issue, error] {
	return func(yield func(*github.Issue, error) bool) {
		for _, issue := range m.issues {
			if !yield(issue, nil) {
				return
			}
		}
		if m.err != nil {
			yield(nil, m.err)
		}
	}
}

func (m *mockGitHubService) FetchMergedPullRequests(ctx context.Context, owner, repo string, since time.Time) iter.Seq2[*github.PullRequest, error] {
	return func(yield func(*github.PullRequest, error) bool) {
		for _, pr := range m.prs {
			if !yield(pr, nil) {
				return
			}
		}
	}
}

type notionResult struct {
	row *notion.TestCaseRow
	err error
}

type mockNotionService struct {
	results []notionResult
	gotDB   string
	gotF    notion.TestCaseFields
}

func (m *mockNotionService) QueryTestCases(ctx context.Context, dbID string, fields notion.TestCaseFields, since time.Time) iter.Seq2[*notion.TestCaseRow, error] {
	m.gotDB = dbID
	m.gotF = fields
	return func(yield func(*notion.TestCaseRow, error) bool) {
		for _, r := range m.results {
			if !yield(r.row, r.err) {
				return
			}
		}
	}
}

type mockSlackService struct {
	mu       sync.Mutex
	channels map[string]string
	posted   []postedMessage
}

type postedMessage struct {
	channelID string
	blocks    []goslack.Block
	text      string
}

func (m *mockSlackService) ListJoinedChannels(ctx context.Context) ([]slack.Channel, error) {
	var result []slack.Channel
	for name, id := range m.channels {
		result = append(result, slack.Channel{ID: id, Name: name})
	}
	return result, nil
}

func (m *mockSlackService) ResolveChannel(ctx context.Context, nameOrID string) (string, error) {
	if id, ok := m.channels[nameOrID]; ok {
		return id, nil
	}
	return nameOrID, nil
}

func (m *mockSlackService) PostMessage(ctx context.Context, channelID string, blocks []goslack.Block, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posted = append(m.posted, postedMessage{channelID: channelID, blocks: blocks, text: text})
	return "1700000000.000100", nil
}
