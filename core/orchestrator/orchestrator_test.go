package orchestrator

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test, restoring the
// previous working directory on cleanup (t.Chdir needs Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Error(err)
		}
	})
}

const fixtureCase = `
scenarios: [flowloop]
weight_methods: [cross_correlation]
rank_methods: [eigenvector, pagerank]
datatype: file
settings:
  default:
    use_connections: true
    use_bias: false
    dummies: false
scenario_configs:
  flowloop:
    settings: default
    m: 0.85
    data: data.csv
    connections: conn.csv
    boxindexes: all
`

// writeFixture lays out a minimal two-box test case in the current
// directory: case config plus the weightdata tree the rank run reads.
func writeFixture(t *testing.T) {
	t.Helper()

	dirs := []string{
		filepath.Join("test_configs", "unit", "data"),
		filepath.Join("test_configs", "unit", "connections"),
	}
	boxRoot := filepath.Join("test_exports", "weightdata", "unit", "flowloop",
		"cross_correlation", "nosigtest", "embed1", "weight_arrays")
	dirs = append(dirs,
		filepath.Join(boxRoot, "box001"),
		filepath.Join(boxRoot, "box002"))
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}

	files := map[string]string{
		filepath.Join("test_configs", "unit_noderank.yaml"):              fixtureCase,
		filepath.Join("test_configs", "unit", "data", "data.csv"):        "Time,A,B\n0,1.0,2.0\n",
		filepath.Join("test_configs", "unit", "connections", "conn.csv"): ",A,B\nA,0,1\nB,1,0\n",
		filepath.Join(boxRoot, "box001", "weight_array.csv"):             "0,1\n1,0\n",
		filepath.Join(boxRoot, "box002", "weight_array.csv"):             "0,0.5\n1,0\n",
	}
	for path, content := range files {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestRun_EndToEnd(t *testing.T) {
	chdir(t, t.TempDir())
	writeFixture(t)

	orch, err := New(Config{
		Mode:        "tests",
		Case:        "unit",
		WriteOutput: true,
		Workers:     2,
	})
	require.NoError(t, err)
	require.NoError(t, orch.Run())

	saveDir := filepath.Join("test_exports", "noderank", "unit", "flowloop",
		"cross_correlation", "nosigtest", "embed1", "weight")

	// Both boxes of both methods produced ranking tables.
	for _, name := range []string{
		"importances_eigenvector_nodummies_box001.csv",
		"importances_eigenvector_nodummies_box002.csv",
		"importances_pagerank_nodummies_box001.csv",
		"graph_eigenvector_nodummies_box001.dot",
		"graph_pagerank_nodummies_box002.dot",
	} {
		assert.FileExists(t, filepath.Join(saveDir, name))
	}
	assert.FileExists(t, filepath.Join("test_exports", "noderank", "runinfo.json"))

	// The symmetric two-node cycle splits importance evenly.
	f, err := os.Open(filepath.Join(saveDir, "importances_eigenvector_nodummies_box001.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	score, err := strconv.ParseFloat(rows[0][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-9)

	// Trajectories cover both variables across both boxes.
	raw, err := os.ReadFile(filepath.Join(saveDir, "boxrankdict_eigenvector.json"))
	require.NoError(t, err)
	var boxrank map[string][]float64
	require.NoError(t, json.Unmarshal(raw, &boxrank))
	assert.Len(t, boxrank, 2)
	assert.Len(t, boxrank["A"], 2)

	raw, err = os.ReadFile(filepath.Join(saveDir, "rel_boxrankdict_eigenvector.json"))
	require.NoError(t, err)
	var relBoxrank map[string][]float64
	require.NoError(t, json.Unmarshal(raw, &relBoxrank))
	assert.InDelta(t, 1.0, relBoxrank["A"][0], 1e-9)
}

func TestRun_NoOutput(t *testing.T) {
	chdir(t, t.TempDir())
	writeFixture(t)

	orch, err := New(Config{Mode: "tests", Case: "unit", WriteOutput: false})
	require.NoError(t, err)
	require.NoError(t, orch.Run())

	assert.NoDirExists(t, filepath.Join("test_exports", "noderank"))
}

func TestNew_UnknownCase(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := New(Config{Mode: "tests", Case: "missing"})
	assert.Error(t, err)
}

func TestWeightTypeNames(t *testing.T) {
	got := weightTypeNames("transfer_entropy_kernel", "sigtest")
	assert.Equal(t, []string{
		"weight_absolute_arrays", "weight_directional_arrays",
		"sigweight_absolute_arrays", "sigweight_directional_arrays",
	}, got)

	got = weightTypeNames("cross_correlation", "nosigtest")
	assert.Equal(t, []string{"weight_arrays"}, got)

	got = weightTypeNames("cross_correlation", "sigtest")
	assert.Equal(t, []string{"weight_arrays", "sigweight_arrays"}, got)
}

func TestBoxFileName(t *testing.T) {
	assert.Equal(t, "weight_array.csv", boxFileName("weight_absolute_arrays"))
	assert.Equal(t, "sigweight_array.csv", boxFileName("sigweight_arrays"))
}
