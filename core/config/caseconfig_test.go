package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/causaltools/looprank/core/rank"
)

const validCase = `
scenarios: [alpha_plant]
weight_methods: [transfer_entropy_kernel]
rank_methods: [eigenvector, katz]
datatype: file
settings:
  default:
    use_connections: true
    use_bias: false
    dummies: true
scenario_configs:
  alpha_plant:
    settings: default
    m: 0.85
    alpha: 0.5
    data: data.csv
    connections: conn.csv
    boxindexes: all
`

func writeCase(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "demo_noderank.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeCase(t, validCase)

	cfg, err := Load(dir, "demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Scenarios) != 1 || cfg.Scenarios[0] != "alpha_plant" {
		t.Errorf("scenarios: got %v", cfg.Scenarios)
	}

	scenario, settings, err := cfg.ScenarioSettings("alpha_plant")
	if err != nil {
		t.Fatalf("ScenarioSettings: %v", err)
	}
	if scenario.M != 0.85 {
		t.Errorf("m: got %v", scenario.M)
	}
	if scenario.Alpha == nil || *scenario.Alpha != 0.5 {
		t.Errorf("alpha: got %v", scenario.Alpha)
	}
	if !settings.Dummies || settings.UseBias {
		t.Errorf("settings: got %+v", settings)
	}
	if !scenario.BoxIndexes.All {
		t.Error("boxindexes: want all")
	}
}

func TestLoad_ExplicitBoxIndexes(t *testing.T) {
	content := `
scenarios: [s]
weight_methods: [cross_correlation]
rank_methods: [pagerank]
datatype: file
settings:
  plain: {use_connections: false, use_bias: false, dummies: false}
scenario_configs:
  s:
    settings: plain
    m: 0.9
    data: data.csv
    boxindexes: [0, 2, 5]
`
	dir := writeCase(t, content)
	cfg, err := Load(dir, "demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	scenario, _, _ := cfg.ScenarioSettings("s")
	if scenario.BoxIndexes.All {
		t.Error("boxindexes: want explicit list")
	}
	if len(scenario.BoxIndexes.Indexes) != 3 || scenario.BoxIndexes.Indexes[2] != 5 {
		t.Errorf("indexes: got %v", scenario.BoxIndexes.Indexes)
	}
}

func TestLoad_UnknownRankMethod(t *testing.T) {
	content := `
scenarios: [s]
weight_methods: [w]
rank_methods: [betweenness]
datatype: file
settings:
  plain: {use_connections: false, use_bias: false, dummies: false}
scenario_configs:
  s: {settings: plain, m: 0.85, data: d.csv, boxindexes: all}
`
	dir := writeCase(t, content)
	_, err := Load(dir, "demo")
	if !errors.Is(err, rank.ErrUnsupportedMethod) {
		t.Errorf("got %v, want ErrUnsupportedMethod", err)
	}
}

func TestLoad_KatzNeedsAlpha(t *testing.T) {
	content := `
scenarios: [s]
weight_methods: [w]
rank_methods: [katz]
datatype: file
settings:
  plain: {use_connections: false, use_bias: false, dummies: false}
scenario_configs:
  s: {settings: plain, m: 0.85, data: d.csv, boxindexes: all}
`
	dir := writeCase(t, content)
	_, err := Load(dir, "demo")
	if !errors.Is(err, rank.ErrMissingParameter) {
		t.Errorf("got %v, want ErrMissingParameter", err)
	}
}

func TestLoad_BadDamping(t *testing.T) {
	content := `
scenarios: [s]
weight_methods: [w]
rank_methods: [pagerank]
datatype: file
settings:
  plain: {use_connections: false, use_bias: false, dummies: false}
scenario_configs:
  s: {settings: plain, m: 1.5, data: d.csv, boxindexes: all}
`
	dir := writeCase(t, content)
	_, err := Load(dir, "demo")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("got %v, want ErrInvalidConfig", err)
	}
}
