package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/service/notion"
	"github.com/urfave/cli/v3"
)

// Notion holds CLI flags for the Notion test case source
type Notion struct {
	token string
}

func (x *Notion) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notion-api-token",
			Usage:       "Notion API token for the test case database",
			Category:    "Notion",
			Destination: &x.token,
			Sources:     cli.EnvVars("RISKGRID_NOTION_API_TOKEN"),
		},
	}
}

func (x Notion) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("token.len", len(x.token)),
	)
}

// Configure creates a Notion service
func (x *Notion) Configure() (notion.Service, error) {
	if x.token == "" {
		return nil, goerr.New("notion-api-token is required")
	}

	svc, err := notion.New(x.token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Notion service")
	}
	return svc, nil
}
