package causal

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PreprocessGain rescales the nonzero gain entries so that their mean
// becomes 1, leaving zero entries (absent edges) untouched. It returns
// the rescaled matrix and the mean of the original nonzero entries.
//
// This is an experimental transform: it generally destroys magnitude
// information and should stay disabled outside development analysis.
func PreprocessGain(gain *mat.Dense) (*mat.Dense, float64, error) {
	rows, cols := gain.Dims()

	count := 0
	sum := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := gain.At(i, j); v != 0 {
				sum += v
				count++
			}
		}
	}
	if count == 0 {
		return nil, 0, fmt.Errorf("%w: gain matrix has no nonzero entries", ErrDegenerateInput)
	}
	mean := sum / float64(count)
	if mean == 0 {
		return nil, 0, fmt.Errorf("%w: nonzero gains average to zero", ErrDegenerateInput)
	}

	scaled := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := gain.At(i, j); v != 0 {
				scaled.Set(i, j, v/mean)
			}
		}
	}
	return scaled, mean, nil
}
