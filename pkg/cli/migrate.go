package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/cli/config"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var dryRun bool
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Print the index changes without applying them",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.FirestoreFlags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create the Firestore composite indexes riskgrid queries need",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			projectID, databaseID, err := repoCfg.FirestoreTarget()
			if err != nil {
				return err
			}
			logger := logging.Default().With("project_id", projectID, "database_id", databaseID, "dry_run", dryRun)

			client, err := fireconf.New(ctx, projectID, databaseID, firestoreIndexes(),
				fireconf.WithDryRun(dryRun),
				fireconf.WithLogger(logger),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if err := client.Migrate(ctx); err != nil {
				return goerr.Wrap(err, "failed to migrate Firestore indexes")
			}

			if dryRun {
				logger.Info("Dry run finished, no index was changed")
			} else {
				logger.Info("Firestore indexes are up to date")
			}
			return nil
		},
	}
}

// firestoreIndexes lists composite indexes. Lists ordered by a single field
// are served by Firestore's automatic indexes.
func firestoreIndexes() *fireconf.Config {
	asc := func(path string) fireconf.IndexField {
		return fireconf.IndexField{Path: path, Order: fireconf.OrderAscending}
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				// Capability list order
				Name: "capabilities",
				Indexes: []fireconf.Index{
					{Fields: []fireconf.IndexField{asc("attribute_id"), asc("component_id"), asc("id")}},
				},
			},
		},
	}
}
