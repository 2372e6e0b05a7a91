package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/causaltools/looprank/core/rank"
)

func TestWriteRankingCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "ranking.csv")
	list := rank.RankingList{
		{Variable: "B", Value: 0.6},
		{Variable: "A", Value: 0.4},
	}

	if err := WriteRankingCSV(path, list); err != nil {
		t.Fatalf("WriteRankingCSV: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0] != "B,0.6" {
		t.Errorf("first row: got %q", lines[0])
	}
}

func TestWriteMatrixCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.csv")
	m := mat.NewDense(2, 2, []float64{0, 1.5, -2, 0})

	if err := WriteMatrixCSV(path, m); err != nil {
		t.Fatalf("WriteMatrixCSV: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if got := strings.TrimSpace(string(raw)); got != "0,1.5\n-2,0" {
		t.Errorf("got %q", got)
	}
}

func TestWriteDictionaryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxrank.json")
	mapping := map[string][]float64{"A": {0.5, 0.4}, "B": {0.5, 0.6}}

	if err := WriteDictionaryJSON(path, mapping); err != nil {
		t.Fatalf("WriteDictionaryJSON: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string][]float64
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(decoded["A"]) != 2 || decoded["A"][1] != 0.4 {
		t.Errorf("got %v", decoded)
	}
}
