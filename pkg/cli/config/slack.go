package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the Slack report integration
type Slack struct {
	botToken string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (chat:write scope)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("RISKGRID_SLACK_BOT_TOKEN"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
	)
}

// IsConfigured returns true if the bot token is set
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// Configure creates a Slack service. Returns nil when no token is configured.
func (x *Slack) Configure() (slack.Service, error) {
	if !x.IsConfigured() {
		return nil, nil
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack service")
	}
	return svc, nil
}
