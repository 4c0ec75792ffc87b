package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/cli/config"
	"github.com/secmon-lab/riskgrid/pkg/usecase"
	"github.com/secmon-lab/riskgrid/pkg/utils/input"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdImport() *cli.Command {
	var file string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Dataset (TOML) with project, hierarchy and evidence: a path or gs://bucket/object",
			Required:    true,
			Destination: &file,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "import",
		Usage: "Import a project dataset into the repository (use with the firestore backend)",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			return importDatasetFile(ctx, usecase.New(repo), file)
		},
	}
}

func importDatasetFile(ctx context.Context, uc *usecase.UseCases, file string) error {
	data, err := input.Read(ctx, file)
	if err != nil {
		return goerr.Wrap(err, "failed to read dataset", goerr.V("file", file))
	}

	ds, err := usecase.ParseDataset(data)
	if err != nil {
		return goerr.Wrap(err, "invalid dataset", goerr.V("file", file))
	}

	result, err := uc.Import.Import(ctx, ds)
	if err != nil {
		return goerr.Wrap(err, "failed to import dataset", goerr.V("file", file))
	}

	logging.Default().Info("Dataset imported",
		"file", file,
		"project_id", result.Project.ID,
		"project", result.Project.Name)
	return nil
}
