package rank

import "fmt"

// TransientReport tracks how variable importance evolves across an
// ordered sequence of time windows ("boxes"). Each field maps a variable
// to its per-window values.
type TransientReport struct {
	// Deltas holds consecutive score differences, entry i being the
	// change from window i to window i+1. Empty with a single window.
	Deltas map[string][]float64 `json:"transient"`

	// Base holds the first window's score per variable. Adding the
	// deltas back onto it reconstructs every window's score.
	Base map[string]float64 `json:"baseval"`

	// Absolute holds each window's raw score per variable.
	Absolute map[string][]float64 `json:"boxrank"`

	// Relative holds each window's score divided by that window's own
	// maximum score across all variables.
	Relative map[string][]float64 `json:"rel_boxrank"`
}

// ComputeTransients derives the transient importance report from the
// per-window rankings, in window order. All rankings must contain every
// tracked variable; rankings may carry extra keys (dummy nodes) which are
// ignored for the trajectories but do participate in each window's
// maximum.
func ComputeTransients(windows []RankingMap, variables []string) (*TransientReport, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: no ranking windows", ErrDegenerateInput)
	}
	for i, window := range windows {
		for _, variable := range variables {
			if _, ok := window[variable]; !ok {
				return nil, fmt.Errorf("%w: %q in window %d", ErrMissingVariable, variable, i)
			}
		}
	}

	maxima := make([]float64, len(windows))
	for i, window := range windows {
		for _, score := range window {
			if score > maxima[i] {
				maxima[i] = score
			}
		}
	}

	report := &TransientReport{
		Deltas:   make(map[string][]float64, len(variables)),
		Base:     make(map[string]float64, len(variables)),
		Absolute: make(map[string][]float64, len(variables)),
		Relative: make(map[string][]float64, len(variables)),
	}

	for _, variable := range variables {
		deltas := make([]float64, len(windows)-1)
		absolute := make([]float64, len(windows))
		relative := make([]float64, len(windows))

		report.Base[variable] = windows[0][variable]
		prev := windows[0][variable]
		for i, window := range windows {
			score := window[variable]
			absolute[i] = score
			if maxima[i] != 0 {
				relative[i] = score / maxima[i]
			}
			if i > 0 {
				deltas[i-1] = score - prev
			}
			prev = score
		}

		report.Deltas[variable] = deltas
		report.Absolute[variable] = absolute
		report.Relative[variable] = relative
	}
	return report, nil
}
