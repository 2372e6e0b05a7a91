package orchestrator

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/causaltools/looprank/core/causal"
	"github.com/causaltools/looprank/core/graphs"
	"github.com/causaltools/looprank/core/persist"
	"github.com/causaltools/looprank/core/rank"
	"github.com/causaltools/looprank/core/storage"
)

// boxOutcome is the pure result of ranking one time-window box.
type boxOutcome struct {
	box        int
	ranking    rank.RankingMap
	list       rank.RankingList
	suppressed rank.RankingList
	backward   *causal.Network
	origGain   *mat.Dense
	modGain    *mat.Dense
}

// rankTypeName ranks every box of one weight-array type. Boxes are
// independent pure computations and run concurrently; results are
// collected in window order because the transient deltas depend on it.
func (o *Orchestrator) rankTypeName(
	inputs *scenarioInputs,
	method rank.Method,
	dataDir, typeName string,
) {
	typeDir := filepath.Join(dataDir, typeName)

	var boxes []int
	var err error
	if inputs.scenario.BoxIndexes.All {
		boxes, err = storage.DiscoverBoxes(typeDir)
	} else {
		boxes = inputs.scenario.BoxIndexes.Indexes
	}
	if err != nil || len(boxes) == 0 {
		o.logger.Error("no boxes to rank", "dir", typeDir, "error", err)
		return
	}

	gains := make([]*mat.Dense, len(boxes))
	for i, box := range boxes {
		path := filepath.Join(storage.BoxDir(typeDir, box), boxFileName(typeName))
		gains[i], err = causal.ReadGainMatrix(path)
		if err != nil {
			o.logger.Error("reading gain matrix", "path", path, "error", err)
			return
		}
	}

	outcomes := make([]*boxOutcome, len(boxes))
	failures := make([]error, len(boxes))
	sem := make(chan struct{}, o.cfg.Workers)
	var wg sync.WaitGroup
	for i := range boxes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i], failures[i] = o.processBox(inputs, method, gains[i], boxes[i])
		}(i)
	}
	wg.Wait()

	saveDir := filepath.Join(
		storage.NoderankDir(dataDir), strings.TrimSuffix(typeName, "_arrays"))

	windows := make([]rank.RankingMap, 0, len(boxes))
	complete := true
	for i, outcome := range outcomes {
		if failures[i] != nil {
			complete = false
			o.logger.Error("ranking unit failed",
				"method", method.String(), "type", typeName,
				"box", boxes[i], "error", failures[i])
			continue
		}
		windows = append(windows, outcome.ranking)
		if o.cfg.WriteOutput {
			if err := o.persistBox(saveDir, inputs, method, outcome); err != nil {
				o.logger.Error("writing box artifacts",
					"box", outcome.box, "error", err)
			}
		}
	}

	if !complete {
		o.logger.Warn("transient importances skipped: not all boxes ranked",
			"method", method.String(), "type", typeName)
		return
	}

	report, err := rank.ComputeTransients(windows, inputs.network.Variables)
	if err != nil {
		o.logger.Error("computing transient importances", "error", err)
		return
	}
	if o.cfg.WriteOutput {
		if err := o.persistTransients(saveDir, method, report); err != nil {
			o.logger.Error("writing transient importances", "error", err)
		}
	}
}

// processBox is the pure per-window pipeline: optional preprocessing,
// backward transform, influence matrix construction, centrality, and
// dummy suppression. No I/O.
func (o *Orchestrator) processBox(
	inputs *scenarioInputs,
	method rank.Method,
	gain *mat.Dense,
	box int,
) (*boxOutcome, error) {
	outcome := &boxOutcome{box: box}

	working := gain
	if o.cfg.Preprocess {
		mod, _, err := causal.PreprocessGain(gain)
		if err != nil {
			return nil, err
		}
		outcome.origGain = gain
		outcome.modGain = mod
		working = mod
	}

	transformer := &causal.DummyAppender{
		Weight:  dummyWeight(inputs.scenario.DummyWeight),
		Enabled: inputs.settings.Dummies,
	}
	backward, err := transformer.Transform(&causal.Network{
		Variables:  inputs.network.Variables,
		Connection: inputs.network.Connection,
		Gain:       working,
		Bias:       inputs.network.Bias,
	})
	if err != nil {
		return nil, fmt.Errorf("backward transform: %w", err)
	}
	outcome.backward = backward

	matrices, err := rank.BuildInfluenceMatrices(
		backward.Gain, backward.Bias, inputs.scenario.M)
	if err != nil {
		return nil, err
	}

	in := &rank.Input{
		Variables: backward.Variables,
		Matrices:  matrices,
		Damping:   inputs.scenario.M,
		Alpha:     inputs.scenario.Alpha,
	}
	outcome.ranking, outcome.list, err = o.engine.Rank(method, in)
	if err != nil {
		return nil, err
	}

	if inputs.settings.Dummies {
		outcome.suppressed, err = rank.SuppressAndRenormalize(
			outcome.ranking, inputs.network.Variables)
		if err != nil {
			return nil, err
		}
	}
	return outcome, nil
}

// persistBox writes one box's artifacts: the ranking table, the annotated
// importance graph, the dummy-suppressed variants when dummies are in
// play, and the preprocessing matrices when preprocessing ran.
func (o *Orchestrator) persistBox(
	saveDir string,
	inputs *scenarioInputs,
	method rank.Method,
	outcome *boxOutcome,
) error {
	status := "nodummies"
	if inputs.settings.Dummies {
		status = "withdummies"
	}
	boxTag := fmt.Sprintf("box%03d", outcome.box+1)

	name := fmt.Sprintf("importances_%s_%s_%s.csv", method, status, boxTag)
	if err := persist.WriteRankingCSV(filepath.Join(saveDir, name), outcome.list); err != nil {
		return err
	}

	closed, _, err := graphs.BuildImportanceGraphs(
		outcome.backward.Variables,
		outcome.backward.Connection, outcome.backward.Connection,
		outcome.backward.Gain, outcome.ranking)
	if err != nil {
		return err
	}
	name = fmt.Sprintf("graph_%s_%s_%s.dot", method, status, boxTag)
	if err := persist.WriteGraphDOT(filepath.Join(saveDir, name), closed.Reverse()); err != nil {
		return err
	}

	if inputs.settings.Dummies {
		name = fmt.Sprintf("importances_%s_dumsup_%s.csv", method, boxTag)
		if err := persist.WriteRankingCSV(filepath.Join(saveDir, name), outcome.suppressed); err != nil {
			return err
		}

		// The suppressed view keeps the ranking orientation, so the
		// original connection and gain matrices are transposed here.
		connT := mat.DenseCopyOf(inputs.network.Connection.T())
		var gainT *mat.Dense
		if outcome.modGain != nil {
			gainT = mat.DenseCopyOf(outcome.modGain.T())
		} else {
			gainT = mat.DenseCopyOf(outcome.backward.Gain.Slice(
				0, len(inputs.network.Variables),
				0, len(inputs.network.Variables)).T())
		}
		closed, _, err := graphs.BuildImportanceGraphs(
			inputs.network.Variables, connT, connT, gainT, outcome.ranking)
		if err != nil {
			return err
		}
		name = fmt.Sprintf("graph_%s_dumsup_%s.dot", method, boxTag)
		if err := persist.WriteGraphDOT(filepath.Join(saveDir, name), closed.Reverse()); err != nil {
			return err
		}
	}

	if outcome.modGain != nil {
		if err := persist.WriteMatrixCSV(
			filepath.Join(saveDir, fmt.Sprintf("modgainmatrix_%s.csv", boxTag)),
			outcome.modGain); err != nil {
			return err
		}
		if err := persist.WriteMatrixCSV(
			filepath.Join(saveDir, fmt.Sprintf("originalgainmatrix_%s.csv", boxTag)),
			outcome.origGain); err != nil {
			return err
		}
	}
	return nil
}

// persistTransients writes the four trajectory dictionaries.
func (o *Orchestrator) persistTransients(
	saveDir string,
	method rank.Method,
	report *rank.TransientReport,
) error {
	files := map[string]any{
		fmt.Sprintf("transientdict_%s.json", method):   report.Deltas,
		fmt.Sprintf("basevaldict_%s.json", method):     report.Base,
		fmt.Sprintf("boxrankdict_%s.json", method):     report.Absolute,
		fmt.Sprintf("rel_boxrankdict_%s.json", method): report.Relative,
	}
	for name, mapping := range files {
		if err := persist.WriteDictionaryJSON(filepath.Join(saveDir, name), mapping); err != nil {
			return err
		}
	}
	return nil
}

// dummyWeight resolves the configured dummy edge gain.
func dummyWeight(configured float64) float64 {
	if configured > 0 {
		return configured
	}
	return causal.DefaultDummyWeight
}
