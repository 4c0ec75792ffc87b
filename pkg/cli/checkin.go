package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/cli/config"
	"github.com/secmon-lab/riskgrid/pkg/domain/model"
	"github.com/secmon-lab/riskgrid/pkg/domain/types"
	"github.com/secmon-lab/riskgrid/pkg/usecase"
	"github.com/secmon-lab/riskgrid/pkg/utils/input"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdCheckin() *cli.Command {
	var projectID, checkinID int64
	var attributeID, componentID, capabilityID int64
	var summary, url, diffFile, pathPrefix string
	var submittedAt time.Time
	var repoCfg config.Repository

	flags := []cli.Flag{
		projectIDFlag(&projectID),
		&cli.Int64Flag{
			Name:        "id",
			Usage:       "External checkin ID (changelist or pull request number)",
			Required:    true,
			Destination: &checkinID,
		},
		&cli.StringFlag{
			Name:        "diff",
			Aliases:     []string{"d"},
			Usage:       "Unified diff of the change: a path, gs://bucket/object or '-' for standard input",
			Value:       "-",
			Destination: &diffFile,
		},
		&cli.StringFlag{
			Name:        "summary",
			Usage:       "One line description of the change",
			Destination: &summary,
		},
		&cli.StringFlag{
			Name:        "url",
			Usage:       "Link to the change",
			Destination: &url,
		},
		&cli.StringFlag{
			Name:        "path-prefix",
			Usage:       "Prefix joined in front of every changed directory, e.g. //depot/app",
			Destination: &pathPrefix,
		},
		&cli.TimestampFlag{
			Name:        "submitted-at",
			Usage:       "Submission time (RFC3339), defaults to now",
			Config:      cli.TimestampConfig{Layouts: []string{time.RFC3339}},
			Destination: &submittedAt,
		},
		&cli.Int64Flag{
			Name:        "attribute-id",
			Usage:       "Attribute the change is associated with",
			Category:    "Association",
			Destination: &attributeID,
		},
		&cli.Int64Flag{
			Name:        "component-id",
			Usage:       "Component the change is associated with",
			Category:    "Association",
			Destination: &componentID,
		},
		&cli.Int64Flag{
			Name:        "capability-id",
			Usage:       "Capability the change is associated with",
			Category:    "Association",
			Destination: &capabilityID,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "checkin",
		Usage: "Record a code change from a unified diff",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			data, err := input.Read(ctx, diffFile)
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

			uc := usecase.New(repo)
			checkin, err := uc.Checkin.Record(ctx, usecase.CheckinInput{
				ProjectID:  types.ProjectID(projectID),
				ExternalID: checkinID,
				Summary:    summary,
				URL:        url,
				PathPrefix: pathPrefix,
				Diff:       data,
				Association: model.Association{
					AttributeID:  types.AttributeID(attributeID),
					ComponentID:  types.ComponentID(componentID),
					CapabilityID: types.CapabilityID(capabilityID),
				},
				SubmittedAt: submittedAt,
			})
			if err != nil {
				return err
			}

			logging.Default().Info("Checkin recorded",
				"checkin_id", checkin.ExternalID,
				"directories", checkin.Directories)
			return nil
		},
	}
}
