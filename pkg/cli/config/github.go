package config

import (
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskgrid/pkg/service/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds the GitHub App credentials and the repository sync-github reads
type GitHub struct {
	appID          int
	installationID int
	privateKey     string
	repository     string
}

// Flags returns CLI flags for GitHub App configuration
func (g *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Category:    "GitHub",
			Sources:     cli.EnvVars("RISKGRID_GITHUB_APP_ID"),
			Destination: &g.appID,
		},
		&cli.IntFlag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App Installation ID",
			Category:    "GitHub",
			Sources:     cli.EnvVars("RISKGRID_GITHUB_APP_INSTALLATION_ID"),
			Destination: &g.installationID,
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App Private Key (PEM string or file path)",
			Category:    "GitHub",
			Sources:     cli.EnvVars("RISKGRID_GITHUB_APP_PRIVATE_KEY"),
			Destination: &g.privateKey,
		},
	}
}

// SyncFlags returns the App flags plus the repository to read from
func (g *GitHub) SyncFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:        "repository",
			Aliases:     []string{"r"},
			Usage:       "GitHub repository in owner/repo form",
			Category:    "GitHub",
			Required:    true,
			Sources:     cli.EnvVars("RISKGRID_GITHUB_REPOSITORY"),
			Destination: &g.repository,
		},
	}, g.Flags()...)
}

// Validate rejects a partially configured App and a malformed repository.
// Leaving every App flag empty is valid and disables GitHub.
func (g *GitHub) Validate() error {
	var missing []string
	if g.appID == 0 {
		missing = append(missing, "github-app-id")
	}
	if g.installationID == 0 {
		missing = append(missing, "github-app-installation-id")
	}
	if g.privateKey == "" {
		missing = append(missing, "github-app-private-key")
	}
	if len(missing) > 0 && len(missing) < 3 {
		return goerr.Wrap(ErrInvalidConfig, "GitHub App is partially configured", goerr.V("missing", missing))
	}

	if g.repository != "" {
		if _, _, err := ParseRepository(g.repository); err != nil {
			return err
		}
	}
	return nil
}

// Repository returns the owner and name given by --repository
func (g *GitHub) Repository() (owner, repo string, err error) {
	return ParseRepository(g.repository)
}

// LogAttrs returns log attributes for the GitHub configuration (secrets hidden)
func (g *GitHub) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("app_id", g.appID),
		slog.Int("installation_id", g.installationID),
		slog.String("repository", g.repository),
	}
}

// IsConfigured returns true if all required GitHub App flags are set
func (g *GitHub) IsConfigured() bool {
	return g.appID != 0 && g.installationID != 0 && g.privateKey != ""
}

// Configure creates a new GitHub Service from the configured flags.
// Returns nil if not all flags are configured (GitHub features will be disabled).
func (g *GitHub) Configure() (github.Service, error) {
	if !g.IsConfigured() {
		return nil, nil
	}

	svc, err := github.New(int64(g.appID), int64(g.installationID), g.privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub service")
	}

	return svc, nil
}

// ParseRepository splits an "owner/repo" string
func ParseRepository(s string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", goerr.Wrap(ErrInvalidConfig, "repository must be in owner/repo form", goerr.V("repository", s))
	}
	return owner, repo, nil
}
