package usecase

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/service/github"
	"github.com/secmon-lab/riskgrid/pkg/service/notion"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
)

const saveBatchSize = 200

// SyncUseCase pulls evidence from external sources into the repository
type SyncUseCase struct {
	repo   interfaces.Repository
	github github.Service
	notion notion.Service
}

func NewSyncUseCase(repo interfaces.Repository, githubService github.Service, notionService notion.Service) *SyncUseCase {
	return &SyncUseCase{
		repo:   repo,
		github: githubService,
		notion: notionService,
	}
}

// GitHubSyncInput selects the repository to read and how its paths are rooted
type GitHubSyncInput struct {
	ProjectID types.ProjectID
	Owner     string
	Repo      string
	Since     time.Time
	// PathPrefix is joined in front of every changed directory, e.g. "//depot/app"
	PathPrefix string
	// SkipIssues and SkipPullRequests disable one half of the sync
	SkipIssues       bool
	SkipPullRequests bool
}

// SyncResult counts the records written by a sync
type SyncResult struct {
	Bugs      int
	Checkins  int
	TestCases int
	Skipped   int
}

// labelAssociation reads "<Kind>:<id>" labels into an association. The first
// label of each kind wins. Labels with a known kind prefix that do not parse
// are logged and skipped; other labels are ignored.
func labelAssociation(ctx context.Context, recordKind string, id int, labels []string) model.Association {
	var assoc model.Association
	for _, label := range labels {
		kind, _, found := strings.Cut(label, ":")
		if !found {
			continue
		}
		switch model.TagKind(kind) {
		case model.TagKindAttribute, model.TagKindComponent, model.TagKindCapability:
		default:
			continue
		}

		tag, err := model.ParseTag(label)
		if err != nil {
			logging.From(ctx).Warn("skipping malformed association label",
				"record", recordKind,
				"number", id,
				"label", label,
			)
			continue
		}

		switch tag.Kind {
		case model.TagKindAttribute:
			if !assoc.AttributeID.IsSet() {
				assoc.AttributeID = types.AttributeID(tag.ID)
			}
		case model.TagKindComponent:
			if !assoc.ComponentID.IsSet() {
				assoc.ComponentID = types.ComponentID(tag.ID)
			}
		case model.TagKindCapability:
			if !assoc.CapabilityID.IsSet() {
				assoc.CapabilityID = types.CapabilityID(tag.ID)
			}
		}
	}
	return assoc
}

// labelLevel returns n for the first label of the form "<prefix><n>", e.g.
// "P1" or "S2", and 0 when there is none.
func labelLevel(prefix string, labels []string) int {
	for _, label := range labels {
		rest, ok := strings.CutPrefix(label, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 {
			return n
		}
	}
	return 0
}

func issueToBug(ctx context.Context, projectID types.ProjectID, issue *github.Issue) *model.Bug {
	return &model.Bug{
		ExternalID:  int64(issue.Number),
		ProjectID:   projectID,
		Title:       issue.Title,
		Severity:    labelLevel("S", issue.Labels),
		Priority:    labelLevel("P", issue.Labels),
		State:       issue.State,
		URL:         issue.URL,
		Association: labelAssociation(ctx, "issue", issue.Number, issue.Labels),
		CreatedAt:   issue.CreatedAt,
	}
}

func pullRequestToCheckin(ctx context.Context, projectID types.ProjectID, prefix string, pr *github.PullRequest) *model.Checkin {
	return &model.Checkin{
		ExternalID:  int64(pr.Number),
		ProjectID:   projectID,
		Summary:     pr.Title,
		Directories: touchedDirectories(prefix, pr.Files),
		ChangeURL:   pr.URL,
		State:       pr.State,
		Association: labelAssociation(ctx, "pull_request", pr.Number, pr.Labels),
		SubmittedAt: pr.MergedAt,
	}
}

func saveInBatches[T any](ctx context.Context, records []*T, save func(context.Context, types.ProjectID, []*T) error, projectID types.ProjectID) error {
	for batch := range slices.Chunk(records, saveBatchSize) {
		if err := save(ctx, projectID, batch); err != nil {
			return err
		}
	}
	return nil
}

// SyncGitHub stores issues as bugs and merged pull requests as checkins
func (uc *SyncUseCase) SyncGitHub(ctx context.Context, input GitHubSyncInput) (*SyncResult, error) {
	if uc.github == nil {
		return nil, goerr.Wrap(ErrSourceNotEnabled, "GitHub is not configured")
	}
	if _, err := getProject(ctx, uc.repo, input.ProjectID); err != nil {
		return nil, err
	}

	result := &SyncResult{}

	if !input.SkipIssues {
		var bugs []*model.Bug
		for issue, err := range uc.github.FetchIssues(ctx, input.Owner, input.Repo, input.Since) {
			if err != nil {
				return nil, goerr.Wrap(err, "failed to fetch issues",
					goerr.V(ProjectIDKey, input.ProjectID), goerr.V("owner", input.Owner), goerr.V("repo", input.Repo))
			}
			bugs = append(bugs, issueToBug(ctx, input.ProjectID, issue))
		}
		if err := saveInBatches(ctx, bugs, uc.repo.Bug().SaveMany, input.ProjectID); err != nil {
			return nil, goerr.Wrap(err, "failed to save bugs",
				goerr.V(ProjectIDKey, input.ProjectID), goerr.V("owner", input.Owner), goerr.V("repo", input.Repo))
		}
		result.Bugs = len(bugs)
	}

	if !input.SkipPullRequests {
		var checkins []*model.Checkin
		for pr, err := range uc.github.FetchMergedPullRequests(ctx, input.Owner, input.Repo, input.Since) {
			if err != nil {
				return nil, goerr.Wrap(err, "failed to fetch pull requests",
					goerr.V(ProjectIDKey, input.ProjectID), goerr.V("owner", input.Owner), goerr.V("repo", input.Repo))
			}
			checkin := pullRequestToCheckin(ctx, input.ProjectID, input.PathPrefix, pr)
			if len(checkin.Directories) == 0 {
				result.Skipped++
				continue
			}
			checkins = append(checkins, checkin)
		}
		if err := saveInBatches(ctx, checkins, uc.repo.Checkin().SaveMany, input.ProjectID); err != nil {
			return nil, goerr.Wrap(err, "failed to save checkins",
				goerr.V(ProjectIDKey, input.ProjectID), goerr.V("owner", input.Owner), goerr.V("repo", input.Repo))
		}
		result.Checkins = len(checkins)
	}

	logging.From(ctx).Info("GitHub sync completed",
		ProjectIDKey, input.ProjectID,
		"owner", input.Owner,
		"repo", input.Repo,
		"bugs", result.Bugs,
		"checkins", result.Checkins,
		"skipped", result.Skipped,
	)

	return result, nil
}

// NotionSyncInput selects the test case database to read
type NotionSyncInput struct {
	ProjectID  types.ProjectID
	DatabaseID string
	Fields     notion.TestCaseFields
	Since      time.Time
}

// SyncNotion stores database rows as test cases. Rows without a usable ID
// are logged and skipped.
func (uc *SyncUseCase) SyncNotion(ctx context.Context, input NotionSyncInput) (*SyncResult, error) {
	if uc.notion == nil {
		return nil, goerr.Wrap(ErrSourceNotEnabled, "Notion is not configured")
	}
	if _, err := getProject(ctx, uc.repo, input.ProjectID); err != nil {
		return nil, err
	}

	dbID, err := model.ParseNotionID(input.DatabaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid database ID or URL", goerr.V("input", input.DatabaseID))
	}

	fields := input.Fields
	if fields == (notion.TestCaseFields{}) {
		fields = notion.DefaultTestCaseFields()
	}

	result := &SyncResult{}
	var testCases []*model.TestCase
	for row, err := range uc.notion.QueryTestCases(ctx, dbID, fields, input.Since) {
		if err != nil {
			if errors.Is(err, notion.ErrInvalidRow) {
				logging.From(ctx).Warn("skipping invalid test case row", "error", err)
				result.Skipped++
				continue
			}
			return nil, goerr.Wrap(err, "failed to query test cases",
				goerr.V(ProjectIDKey, input.ProjectID),
				goerr.V("database_id", dbID))
		}

		testCases = append(testCases, &model.TestCase{
			ExternalID: row.ID,
			ProjectID:  input.ProjectID,
			Title:      row.Title,
			Tags:       row.Tags,
			URL:        row.URL,
			State:      row.State,
			UpdatedAt:  row.LastEditedTime,
		})
	}

	if err := saveInBatches(ctx, testCases, uc.repo.TestCase().SaveMany, input.ProjectID); err != nil {
		return nil, goerr.Wrap(err, "failed to save test cases", goerr.V(ProjectIDKey, input.ProjectID))
	}
	result.TestCases = len(testCases)

	logging.From(ctx).Info("Notion sync completed",
		ProjectIDKey, input.ProjectID,
		"database_id", dbID,
		"test_cases", result.TestCases,
		"skipped", result.Skipped,
	)

	return result, nil
}
