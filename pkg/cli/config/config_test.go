package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadAppConfiguration(t *testing.T) {
	t.Run("partial overrides keep defaults", func(t *testing.T) {
		path := writeConfig(t, `
[bug]
capability = 2.0

[coverage]
per_test_case = -0.5
`)
		cfg, err := config.LoadAppConfiguration(path)
		gt.NoError(t, err).Required()

		risk := cfg.ToDomainRiskConfig()
		gt.Value(t, risk.Bug.Capability).Equal(2.0)
		gt.Value(t, risk.Bug.Attribute).Equal(0.25)
		gt.Value(t, risk.Bug.Component).Equal(0.25)
		gt.Value(t, risk.Bug.Unassigned).Equal(0.0)
		gt.Value(t, risk.Coverage.PerTestCase).Equal(-0.5)
		gt.Value(t, risk.Churn.PerCheckin).Equal(0.20)
		gt.Value(t, risk.Static.Divisor).Equal(16.0)
	})

	t.Run("empty file yields defaults", func(t *testing.T) {
		cfg, err := config.LoadAppConfiguration(writeConfig(t, ""))
		gt.NoError(t, err).Required()
		risk := cfg.ToDomainRiskConfig()
		gt.Value(t, risk.Churn.PerCheckin).Equal(0.20)
	})

	t.Run("positive coverage weight is rejected", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(writeConfig(t, "[coverage]\nper_test_case = 0.3\n"))
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
	})

	t.Run("zero divisor is rejected", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(writeConfig(t, "[static]\ndivisor = 0.0\n"))
		gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
	})

	t.Run("negative bug weight is rejected", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(writeConfig(t, "[bug]\ncomponent = -1.0\n"))
		gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Bool(t, errors.Is(err, config.ErrConfigNotFound)).True()
	})

	t.Run("broken TOML", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(writeConfig(t, "[bug\n"))
		gt.Error(t, err)
	})
}

func TestParseRepository(t *testing.T) {
	owner, repo, err := config.ParseRepository("secmon-lab/riskgrid")
	gt.NoError(t, err).Required()
	gt.Value(t, owner).Equal("secmon-lab")
	gt.Value(t, repo).Equal("riskgrid")

	for _, bad := range []string{"", "riskgrid", "/riskgrid", "secmon-lab/", "a/b/c"} {
		_, _, err := config.ParseRepository(bad)
		gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
	}
}

func parseFlags(t *testing.T, flags []cli.Flag, args ...string) {
	t.Helper()
	cmd := &cli.Command{
		Name:   "test",
		Flags:  flags,
		Action: func(context.Context, *cli.Command) error { return nil },
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...))).Required()
}

func TestGitHub_Validate(t *testing.T) {
	t.Run("app disabled", func(t *testing.T) {
		var cfg config.GitHub
		parseFlags(t, cfg.SyncFlags(), "-r", "secmon-lab/riskgrid")
		gt.NoError(t, cfg.Validate())
		gt.Bool(t, cfg.IsConfigured()).False()

		owner, repo, err := cfg.Repository()
		gt.NoError(t, err).Required()
		gt.Value(t, owner).Equal("secmon-lab")
		gt.Value(t, repo).Equal("riskgrid")
	})

	t.Run("fully configured", func(t *testing.T) {
		var cfg config.GitHub
		parseFlags(t, cfg.SyncFlags(), "-r", "secmon-lab/riskgrid",
			"--github-app-id", "1",
			"--github-app-installation-id", "2",
			"--github-app-private-key", "key")
		gt.NoError(t, cfg.Validate())
		gt.Bool(t, cfg.IsConfigured()).True()
	})

	t.Run("partially configured", func(t *testing.T) {
		var cfg config.GitHub
		parseFlags(t, cfg.SyncFlags(), "-r", "secmon-lab/riskgrid", "--github-app-id", "1")
		gt.Bool(t, errors.Is(cfg.Validate(), config.ErrInvalidConfig)).True()
	})

	t.Run("malformed repository", func(t *testing.T) {
		var cfg config.GitHub
		parseFlags(t, cfg.SyncFlags(), "-r", "riskgrid")
		gt.Bool(t, errors.Is(cfg.Validate(), config.ErrInvalidConfig)).True()
	})
}

func TestRepository_FirestoreTarget(t *testing.T) {
	t.Run("default database", func(t *testing.T) {
		var cfg config.Repository
		parseFlags(t, cfg.FirestoreFlags(), "--firestore-project-id", "my-project")
		projectID, databaseID, err := cfg.FirestoreTarget()
		gt.NoError(t, err).Required()
		gt.Value(t, projectID).Equal("my-project")
		gt.Value(t, databaseID).Equal("(default)")
	})

	t.Run("named database", func(t *testing.T) {
		var cfg config.Repository
		parseFlags(t, cfg.FirestoreFlags(), "--firestore-project-id", "my-project", "--firestore-database-id", "riskgrid")
		_, databaseID, err := cfg.FirestoreTarget()
		gt.NoError(t, err).Required()
		gt.Value(t, databaseID).Equal("riskgrid")
	})

	t.Run("project required", func(t *testing.T) {
		var cfg config.Repository
		parseFlags(t, cfg.FirestoreFlags())
		_, _, err := cfg.FirestoreTarget()
		gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
	})
}
