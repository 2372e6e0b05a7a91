// Package orchestrator drives the full ranking batch: it enumerates the
// scenario / rank-method / weight-method / signal-type / embedding /
// window cross product as explicit work items, runs the pure ranking
// pipeline for each, and routes the resulting artifacts to disk. All
// file I/O happens here, at the boundary; the ranking core below it is
// side-effect free.
package orchestrator

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/causaltools/looprank/core/causal"
	"github.com/causaltools/looprank/core/config"
	"github.com/causaltools/looprank/core/persist"
	"github.com/causaltools/looprank/core/rank"
	"github.com/causaltools/looprank/core/storage"
)

// Config selects what one orchestrator run covers.
type Config struct {
	// Mode selects the configuration namespace ("tests" or a
	// production mode resolved through the locations file).
	Mode string
	// Case names the scenario bundle to rank.
	Case string
	// WriteOutput toggles artifact persistence.
	WriteOutput bool
	// Preprocess toggles the experimental gain-matrix mean rescaling.
	// Leave off outside development analysis.
	Preprocess bool
	// Workers bounds concurrent window computations. Zero means one.
	Workers int
	// Logger receives progress and per-unit failure reports. Nil uses
	// the default logger.
	Logger *slog.Logger
}

// Orchestrator runs the ranking batch for one case.
type Orchestrator struct {
	cfg     Config
	caseCfg *config.CaseConfig
	dirs    *storage.Dirs
	engine  *rank.Engine
	logger  *slog.Logger
	runID   string
}

// scenarioInputs holds one scenario's immutable inputs.
type scenarioInputs struct {
	network  *causal.Network
	settings config.Settings
	scenario config.Scenario
}

// New resolves directories and loads the case configuration.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dirs, err := storage.Resolve(cfg.Mode, cfg.Case)
	if err != nil {
		return nil, err
	}
	caseCfg, err := config.Load(dirs.CaseConfig, cfg.Case)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:     cfg,
		caseCfg: caseCfg,
		dirs:    dirs,
		engine:  rank.NewEngine(),
		logger:  logger,
		runID:   uuid.New().String(),
	}, nil
}

// Run executes every work unit of the case. Unit failures are logged and
// isolated: the rest of the batch proceeds and only failed units yield
// no artifacts.
func (o *Orchestrator) Run() error {
	started := time.Now().UTC()
	o.logger.Info("starting noderank run",
		"run_id", o.runID, "case", o.cfg.Case, "mode", o.cfg.Mode)

	if o.cfg.WriteOutput {
		root := filepath.Join(o.dirs.Save, "noderank")
		if err := storage.EnsureDir(root); err != nil {
			return err
		}
		info := map[string]any{
			"run_id":  o.runID,
			"case":    o.cfg.Case,
			"mode":    o.cfg.Mode,
			"started": started.Format(time.RFC3339),
		}
		if err := persist.WriteDictionaryJSON(filepath.Join(root, "runinfo.json"), info); err != nil {
			return err
		}
	}

	for _, scenarioName := range o.caseCfg.Scenarios {
		inputs, err := o.loadScenario(scenarioName)
		if err != nil {
			o.logger.Error("skipping scenario", "scenario", scenarioName, "error", err)
			continue
		}
		o.logger.Info("running scenario",
			"scenario", scenarioName, "tags", len(inputs.network.Variables))

		for _, methodName := range o.caseCfg.RankMethods {
			method, err := rank.ParseMethod(methodName)
			if err != nil {
				return err
			}
			for _, weightMethod := range o.caseCfg.WeightMethods {
				o.runWeightMethod(scenarioName, inputs, method, weightMethod)
			}
		}
	}
	return nil
}

// loadScenario reads the scenario's variable list, connection matrix and
// bias vector once; they are immutable for the scenario's whole run.
func (o *Orchestrator) loadScenario(name string) (*scenarioInputs, error) {
	scenario, settings, err := o.caseCfg.ScenarioSettings(name)
	if err != nil {
		return nil, err
	}

	variables, err := causal.ReadVariables(
		filepath.Join(o.dirs.CaseData, "data", scenario.Data))
	if err != nil {
		return nil, err
	}
	n := len(variables)

	var conn *mat.Dense
	if settings.UseConnections {
		_, conn, err = causal.ReadConnectionMatrix(
			filepath.Join(o.dirs.CaseData, "connections", scenario.Connections))
		if err != nil {
			return nil, err
		}
	} else {
		conn = causal.FullyConnected(n)
	}

	var bias causal.BiasVector
	if settings.UseBias {
		_, bias, err = causal.ReadBiasVector(
			filepath.Join(o.dirs.CaseData, "biasvectors", scenario.BiasVector))
		if err != nil {
			return nil, err
		}
	} else {
		bias = causal.UniformBias(n)
	}

	network := &causal.Network{Variables: variables, Connection: conn, Bias: bias}
	if err := network.Validate(); err != nil {
		return nil, err
	}
	return &scenarioInputs{network: network, settings: settings, scenario: scenario}, nil
}

// runWeightMethod walks the signal-type / embedding directory tree under
// one (scenario, weight method) pair and ranks every weight-array type.
func (o *Orchestrator) runWeightMethod(
	scenarioName string,
	inputs *scenarioInputs,
	method rank.Method,
	weightMethod string,
) {
	baseDir := o.dirs.WeightDataDir(o.cfg.Case, scenarioName, weightMethod)
	sigTypes, err := storage.ListSubdirs(baseDir)
	if err != nil {
		o.logger.Error("no weight data", "dir", baseDir, "error", err)
		return
	}

	for _, sigType := range sigTypes {
		embedTypes, err := storage.ListSubdirs(filepath.Join(baseDir, sigType))
		if err != nil {
			o.logger.Error("no embedding types", "sigtype", sigType, "error", err)
			continue
		}
		for _, embedType := range embedTypes {
			dataDir := filepath.Join(baseDir, sigType, embedType)
			for _, typeName := range weightTypeNames(weightMethod, sigType) {
				o.rankTypeName(inputs, method, dataDir, typeName)
			}
		}
	}
}

// weightTypeNames returns the weight-array directory names produced by a
// weight method. Transfer entropy estimators emit absolute and
// directional variants; significance-tested runs add sigweight arrays.
func weightTypeNames(weightMethod, sigType string) []string {
	var names []string
	if strings.HasPrefix(weightMethod, "transfer_entropy") {
		names = []string{"weight_absolute_arrays", "weight_directional_arrays"}
		if sigType == "sigtest" {
			names = append(names,
				"sigweight_absolute_arrays", "sigweight_directional_arrays")
		}
		return names
	}
	names = []string{"weight_arrays"}
	if sigType == "sigtest" {
		names = append(names, "sigweight_arrays")
	}
	return names
}

// boxFileName maps a weight-array type to the per-box matrix file name.
func boxFileName(typeName string) string {
	if strings.HasPrefix(typeName, "sigweight") {
		return "sigweight_array.csv"
	}
	return "weight_array.csv"
}
