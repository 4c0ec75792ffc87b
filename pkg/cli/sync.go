package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/cli/config"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/service/notion"
	"github.com/secmon-lab/riskgrid/pkg/usecase"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSyncGitHub() *cli.Command {
	var projectID int64
	var since time.Duration
	var pathPrefix string
	var skipIssues, skipPRs bool
	var githubCfg config.GitHub
	var repoCfg config.Repository

	flags := []cli.Flag{
		projectIDFlag(&projectID),
		&cli.DurationFlag{
			Name:        "since",
			Usage:       "Read issues updated and pull requests merged within this period",
			Value:       90 * 24 * time.Hour,
			Destination: &since,
		},
		&cli.StringFlag{
			Name:        "path-prefix",
			Usage:       "Prefix joined in front of every changed directory, e.g. //depot/app",
			Destination: &pathPrefix,
		},
		&cli.BoolFlag{
			Name:        "skip-issues",
			Usage:       "Do not import issues as bugs",
			Destination: &skipIssues,
		},
		&cli.BoolFlag{
			Name:        "skip-pull-requests",
			Usage:       "Do not import merged pull requests as checkins",
			Destination: &skipPRs,
		},
	}
	flags = append(flags, githubCfg.SyncFlags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "sync-github",
		Usage: "Import GitHub issues as bugs and merged pull requests as checkins",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := githubCfg.Validate(); err != nil {
				return err
			}
			owner, name, err := githubCfg.Repository()
			if err != nil {
				return err
			}
			logging.Default().Info("Syncing from GitHub", "github", slog.GroupValue(githubCfg.LogAttrs()...))

			githubSvc, err := githubCfg.Configure()
			if err != nil {
				return err
			}
			if githubSvc == nil {
				return goerr.Wrap(usecase.ErrSourceNotEnabled, "GitHub App flags are required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, usecase.WithGitHub(githubSvc))
			result, err := uc.Sync.SyncGitHub(ctx, usecase.GitHubSyncInput{
				ProjectID:        types.ProjectID(projectID),
				Owner:            owner,
				Repo:             name,
				Since:            time.Now().Add(-since),
				PathPrefix:       pathPrefix,
				SkipIssues:       skipIssues,
				SkipPullRequests: skipPRs,
			})
			if err != nil {
				return err
			}

			logging.Default().Info("GitHub sync done",
				"bugs", result.Bugs,
				"checkins", result.Checkins,
				"skipped", result.Skipped)
			return nil
		},
	}
}

func cmdSyncNotion() *cli.Command {
	var projectID int64
	var databaseID string
	var since time.Duration
	var fields notion.TestCaseFields
	var notionCfg config.Notion
	var repoCfg config.Repository

	defaults := notion.DefaultTestCaseFields()
	flags := []cli.Flag{
		projectIDFlag(&projectID),
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Notion database ID or URL holding the test cases",
			Required:    true,
			Sources:     cli.EnvVars("RISKGRID_NOTION_DATABASE"),
			Destination: &databaseID,
		},
		&cli.DurationFlag{
			Name:        "since",
			Usage:       "Only read rows edited within this period (0 reads everything)",
			Destination: &since,
		},
		&cli.StringFlag{
			Name:        "id-property",
			Usage:       "Number property holding the test case ID",
			Category:    "Notion",
			Value:       defaults.ID,
			Destination: &fields.ID,
		},
		&cli.StringFlag{
			Name:        "title-property",
			Usage:       "Title property",
			Category:    "Notion",
			Value:       defaults.Title,
			Destination: &fields.Title,
		},
		&cli.StringFlag{
			Name:        "tags-property",
			Usage:       "Multi-select or text property holding coverage tags",
			Category:    "Notion",
			Value:       defaults.Tags,
			Destination: &fields.Tags,
		},
		&cli.StringFlag{
			Name:        "state-property",
			Usage:       "Select or status property",
			Category:    "Notion",
			Value:       defaults.State,
			Destination: &fields.State,
		},
	}
	flags = append(flags, notionCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "sync-notion",
		Usage: "Import Notion database rows as test cases",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			notionSvc, err := notionCfg.Configure()
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			var sinceTime time.Time
			if since > 0 {
				sinceTime = time.Now().Add(-since)
			}

			uc := usecase.New(repo, usecase.WithNotion(notionSvc))
			result, err := uc.Sync.SyncNotion(ctx, usecase.NotionSyncInput{
				ProjectID:  types.ProjectID(projectID),
				DatabaseID: databaseID,
				Fields:     fields,
				Since:      sinceTime,
			})
			if err != nil {
				return err
			}

			logging.Default().Info("Notion sync done",
				"test_cases", result.TestCases,
				"skipped", result.Skipped)
			return nil
		},
	}
}
