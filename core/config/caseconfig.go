// Package config loads and validates per-case ranking configuration.
// A case file names the scenarios to run, the weight and rank methods,
// and per-scenario parameters such as the damping factor and the Katz
// attenuation factor.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/causaltools/looprank/core/rank"
)

var (
	// ErrInvalidConfig indicates a structurally invalid case configuration.
	ErrInvalidConfig = errors.New("invalid case configuration")
)

// Settings is a named bundle of input-selection switches shared between
// scenarios.
type Settings struct {
	// UseConnections selects an explicit connection matrix file; when
	// false a fully connected scheme is generated.
	UseConnections bool `yaml:"use_connections"`
	// UseBias selects an explicit bias vector file; when false an
	// equal-weight prior is generated.
	UseBias bool `yaml:"use_bias"`
	// Dummies toggles dummy-node creation in the backward transform.
	Dummies bool `yaml:"dummies"`
}

// BoxIndexes selects which time-window boxes to rank: either every box
// found on disk ("all") or an explicit zero-based index list.
type BoxIndexes struct {
	All     bool
	Indexes []int
}

// UnmarshalYAML accepts either the string "all" or a list of integers.
func (b *BoxIndexes) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		if s != "all" {
			return fmt.Errorf("%w: boxindexes must be \"all\" or an index list, got %q", ErrInvalidConfig, s)
		}
		b.All = true
		return nil
	}
	return value.Decode(&b.Indexes)
}

// Scenario holds the per-scenario parameters.
type Scenario struct {
	// Settings names the Settings bundle this scenario uses.
	Settings string `yaml:"settings"`
	// M is the damping factor in (0,1].
	M float64 `yaml:"m"`
	// Alpha is the Katz attenuation factor; required only when the
	// katz rank method is configured.
	Alpha *float64 `yaml:"alpha"`
	// Data names the time-series file the variable list is read from.
	Data string `yaml:"data"`
	// Connections names the connection matrix file.
	Connections string `yaml:"connections"`
	// BiasVector names the bias vector file.
	BiasVector string `yaml:"biasvector"`
	// BoxIndexes selects the time-window boxes to rank.
	BoxIndexes BoxIndexes `yaml:"boxindexes"`
	// DummyWeight overrides the gain placed on dummy edges. Zero means
	// the built-in default.
	DummyWeight float64 `yaml:"dummyweight"`
}

// CaseConfig is one case file: the full cross product of scenarios,
// weight methods and rank methods is ranked.
type CaseConfig struct {
	Scenarios     []string            `yaml:"scenarios"`
	WeightMethods []string            `yaml:"weight_methods"`
	RankMethods   []string            `yaml:"rank_methods"`
	Datatype      string              `yaml:"datatype"`
	Settings      map[string]Settings `yaml:"settings"`
	ScenarioConf  map[string]Scenario `yaml:"scenario_configs"`
}

// Load reads and validates the case configuration for a case. The file
// is <case>_noderank.yaml inside the case-config directory. Rank methods
// are resolved against the engine registry here, at load time, so an
// unknown method fails before any computation begins.
func Load(caseConfigDir, caseName string) (*CaseConfig, error) {
	path := filepath.Join(caseConfigDir, caseName+"_noderank.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read case config: %w", err)
	}

	var cfg CaseConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks internal consistency of the configuration.
func (c *CaseConfig) Validate() error {
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("%w: no scenarios", ErrInvalidConfig)
	}
	if len(c.RankMethods) == 0 {
		return fmt.Errorf("%w: no rank methods", ErrInvalidConfig)
	}
	if len(c.WeightMethods) == 0 {
		return fmt.Errorf("%w: no weight methods", ErrInvalidConfig)
	}

	katz := false
	for _, name := range c.RankMethods {
		method, err := rank.ParseMethod(name)
		if err != nil {
			return err
		}
		if method == rank.MethodKatz {
			katz = true
		}
	}

	for _, name := range c.Scenarios {
		scenario, ok := c.ScenarioConf[name]
		if !ok {
			return fmt.Errorf("%w: scenario %q has no configuration", ErrInvalidConfig, name)
		}
		if _, ok := c.Settings[scenario.Settings]; !ok {
			return fmt.Errorf("%w: scenario %q references unknown settings %q",
				ErrInvalidConfig, name, scenario.Settings)
		}
		if scenario.M <= 0 || scenario.M > 1 {
			return fmt.Errorf("%w: scenario %q damping factor %v outside (0,1]",
				ErrInvalidConfig, name, scenario.M)
		}
		if katz && scenario.Alpha == nil {
			return fmt.Errorf("%w: scenario %q configures katz without alpha",
				rank.ErrMissingParameter, name)
		}
	}
	return nil
}

// ScenarioSettings returns a scenario's configuration and its resolved
// settings bundle.
func (c *CaseConfig) ScenarioSettings(name string) (Scenario, Settings, error) {
	scenario, ok := c.ScenarioConf[name]
	if !ok {
		return Scenario{}, Settings{}, fmt.Errorf("%w: unknown scenario %q", ErrInvalidConfig, name)
	}
	return scenario, c.Settings[scenario.Settings], nil
}
