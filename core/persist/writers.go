// Package persist writes ranking artifacts to disk: ranking tables and
// matrices as CSV, per-variable trajectory mappings as JSON, and
// annotated influence graphs as Graphviz DOT files.
package persist

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/causaltools/looprank/core/graphs"
	"github.com/causaltools/looprank/core/rank"
)

// WriteRankingCSV writes a sorted ranking list as (variable, score) rows.
func WriteRankingCSV(path string, list rank.RankingList) error {
	rows := make([][]string, 0, len(list))
	for _, score := range list {
		rows = append(rows, []string{
			score.Variable,
			strconv.FormatFloat(score.Value, 'g', -1, 64),
		})
	}
	return writeCSV(path, rows)
}

// WriteMatrixCSV writes a matrix as bare numeric CSV rows.
func WriteMatrixCSV(path string, m *mat.Dense) error {
	rows, cols := m.Dims()
	records := make([][]string, rows)
	for i := 0; i < rows; i++ {
		record := make([]string, cols)
		for j := 0; j < cols; j++ {
			record[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		records[i] = record
	}
	return writeCSV(path, records)
}

// WriteDictionaryJSON persists any variable-keyed mapping as indented JSON.
func WriteDictionaryJSON(path string, mapping any) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(mapping); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// WriteGraphDOT persists an annotated influence graph in DOT form.
func WriteGraphDOT(path string, g *graphs.Graph) error {
	data, err := g.DOT()
	if err != nil {
		return fmt.Errorf("render graph for %s: %w", path, err)
	}
	if err := ensureParent(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, records [][]string) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func ensureParent(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
