package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/domain/interfaces"
	"github.com/secmon-lab/riskgrid/pkg/repository/firestore"
	"github.com/secmon-lab/riskgrid/pkg/repository/memory"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"

	defaultFirestoreDatabaseID = "(default)"
)

// Repository selects where projects, hierarchy and evidence are stored
type Repository struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
}

func (r *Repository) Flags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Storage backend [memory|firestore]. memory keeps data for the life of the process",
			Category:    "Repository",
			Value:       BackendMemory,
			Sources:     cli.EnvVars("RISKGRID_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix for top level Firestore collections",
			Category:    "Repository",
			Sources:     cli.EnvVars("RISKGRID_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
	}, r.FirestoreFlags()...)
}

// FirestoreFlags returns only the flags locating the Firestore database
func (r *Repository) FirestoreFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project ID of the Firestore database",
			Category:    "Repository",
			Sources:     cli.EnvVars("RISKGRID_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID, (default) when empty",
			Category:    "Repository",
			Sources:     cli.EnvVars("RISKGRID_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("firestore_project_id", r.projectID),
		slog.String("firestore_database_id", r.databaseID),
		slog.String("collection_prefix", r.collectionPrefix),
	)
}

// FirestoreTarget returns the Firestore project and database IDs
func (r *Repository) FirestoreTarget() (projectID, databaseID string, err error) {
	if r.projectID == "" {
		return "", "", goerr.Wrap(ErrInvalidConfig, "firestore-project-id is required")
	}
	databaseID = r.databaseID
	if databaseID == "" {
		databaseID = defaultFirestoreDatabaseID
	}
	return r.projectID, databaseID, nil
}

// Configure opens the selected backend. The caller closes the repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case BackendFirestore:
		projectID, databaseID, err := r.FirestoreTarget()
		if err != nil {
			return nil, err
		}

		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, projectID, databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.From(ctx).Info("Using Firestore repository", "repository", r)
		return repo, nil

	case BackendMemory:
		logging.From(ctx).Info("Using in-memory repository, data is lost on exit")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "unknown repository backend", goerr.V("backend", r.backend))
	}
}
