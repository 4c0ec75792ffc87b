package cli

import (
	"context"

	"github.com/secmon-lab/riskgrid/pkg/cli/config"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	flags := loggerCfg.Flags()
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "riskgrid",
		Usage:   "Attribute x Component risk grid fed by defects, code churn and test coverage",
		Version: version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Info("Starting riskgrid", "logger", loggerCfg, "sentry", sentryCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdMigrate(),
			cmdImport(),
			cmdSyncGitHub(),
			cmdSyncNotion(),
			cmdCheckin(),
			cmdReport(),
			cmdScore(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

// projectIDFlag is the --project-id flag shared by project scoped commands
func projectIDFlag(dst *int64) cli.Flag {
	return &cli.Int64Flag{
		Name:        "project-id",
		Aliases:     []string{"p"},
		Usage:       "Project ID",
		Required:    true,
		Sources:     cli.EnvVars("RISKGRID_PROJECT_ID"),
		Destination: dst,
	}
}
