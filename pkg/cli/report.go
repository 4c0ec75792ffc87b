package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/cli/config"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/usecase"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdReport() *cli.Command {
	var projectID int64
	var channel, baseURL string
	var top int
	var appCfg config.AppConfig
	var slackCfg config.Slack
	var repoCfg config.Repository

	flags := []cli.Flag{
		projectIDFlag(&projectID),
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Channel ID or #name to post the report to",
			Required:    true,
			Category:    "Slack",
			Sources:     cli.EnvVars("RISKGRID_SLACK_CHANNEL"),
			Destination: &channel,
		},
		&cli.IntFlag{
			Name:        "top",
			Usage:       "Number of highest-risk cells to list",
			Value:       10,
			Destination: &top,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Public URL of the riskgrid server, used to link cell details",
			Sources:     cli.EnvVars("RISKGRID_BASE_URL"),
			Destination: &baseURL,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "report",
		Usage: "Post the highest-risk cells of a project to Slack",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			riskCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load risk configuration")
			}

			slackSvc, err := slackCfg.Configure()
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

			uc := usecase.New(repo, usecase.WithRiskConfig(riskCfg), usecase.WithSlack(slackSvc))
			ts, err := uc.Report.Post(ctx, usecase.ReportInput{
				ProjectID: types.ProjectID(projectID),
				Channel:   channel,
				Top:       top,
				BaseURL:   baseURL,
			})
			if err != nil {
				return err
			}

			logging.Default().Info("Report posted", "channel", channel, "ts", ts)
			return nil
		},
	}
}
