package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/riskgrid/pkg/domain/model/config"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the risk weight configuration file
type AppConfig struct {
	path string

	Bug      *BugWeights      `toml:"bug"`
	Churn    *ChurnWeights    `toml:"churn"`
	Coverage *CoverageWeights `toml:"coverage"`
	Static   *StaticWeights   `toml:"static"`
}

// BugWeights overrides the defect provider weights
type BugWeights struct {
	Unassigned *float64 `toml:"unassigned"`
	Attribute  *float64 `toml:"attribute"`
	Component  *float64 `toml:"component"`
	Capability *float64 `toml:"capability"`
}

// ChurnWeights overrides the change-churn provider weights
type ChurnWeights struct {
	PerCheckin *float64 `toml:"per_checkin"`
}

// CoverageWeights overrides the test-coverage provider weights
type CoverageWeights struct {
	PerTestCase *float64 `toml:"per_test_case"`
}

// StaticWeights overrides the inherent risk provider settings
type StaticWeights struct {
	Divisor *float64 `toml:"divisor"`
}

// Flags returns CLI flags for the configuration file
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to risk weight configuration file (TOML). Defaults are used when omitted",
			Sources:     cli.EnvVars("RISKGRID_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.Static != nil && a.Static.Divisor != nil && *a.Static.Divisor <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "static divisor must be positive", goerr.V("divisor", *a.Static.Divisor))
	}
	if a.Coverage != nil && a.Coverage.PerTestCase != nil && *a.Coverage.PerTestCase > 0 {
		return goerr.Wrap(ErrInvalidConfig, "coverage weight must not be positive", goerr.V("per_test_case", *a.Coverage.PerTestCase))
	}
	if a.Churn != nil && a.Churn.PerCheckin != nil && *a.Churn.PerCheckin < 0 {
		return goerr.Wrap(ErrInvalidConfig, "churn weight must not be negative", goerr.V("per_checkin", *a.Churn.PerCheckin))
	}
	if a.Bug != nil {
		for name, w := range map[string]*float64{
			"unassigned": a.Bug.Unassigned,
			"attribute":  a.Bug.Attribute,
			"component":  a.Bug.Component,
			"capability": a.Bug.Capability,
		} {
			if w != nil && *w < 0 {
				return goerr.Wrap(ErrInvalidConfig, "bug weight must not be negative", goerr.V("weight", name), goerr.V("value", *w))
			}
		}
	}
	return nil
}

// LoadAppConfiguration loads the risk weight configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}
	config.path = path

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// Configure loads the file given by --config and returns the resulting risk
// configuration. Without --config the defaults are returned.
func (a *AppConfig) Configure() (*domainConfig.RiskConfig, error) {
	if a.path == "" {
		return domainConfig.DefaultRiskConfig(), nil
	}

	loaded, err := LoadAppConfiguration(a.path)
	if err != nil {
		return nil, err
	}
	return loaded.ToDomainRiskConfig(), nil
}

// ToDomainRiskConfig applies the overrides on top of the default weights
func (a *AppConfig) ToDomainRiskConfig() *domainConfig.RiskConfig {
	cfg := domainConfig.DefaultRiskConfig()

	if a.Bug != nil {
		override(&cfg.Bug.Unassigned, a.Bug.Unassigned)
		override(&cfg.Bug.Attribute, a.Bug.Attribute)
		override(&cfg.Bug.Component, a.Bug.Component)
		override(&cfg.Bug.Capability, a.Bug.Capability)
	}
	if a.Churn != nil {
		override(&cfg.Churn.PerCheckin, a.Churn.PerCheckin)
	}
	if a.Coverage != nil {
		override(&cfg.Coverage.PerTestCase, a.Coverage.PerTestCase)
	}
	if a.Static != nil {
		override(&cfg.Static.Divisor, a.Static.Divisor)
	}

	return cfg
}

func override(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
