package rank

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

const (
	eigenMaxIter = 1000
	eigenTol     = 1e-12
)

// EigenvectorRanker computes eigenvector centrality over the fully
// connected personalized weight matrix. The weight matrix is already
// oriented for the reversed-edge analysis (see BuildInfluenceMatrices),
// so the score vector is the dominant eigenvector of Weight itself,
// obtained by power iteration. Component signs are discarded: only
// centrality magnitudes are meaningful.
type EigenvectorRanker struct{}

// Rank implements Ranker.
func (r *EigenvectorRanker) Rank(in *Input) (RankingMap, error) {
	n := len(in.Variables)
	w := in.Matrices.Weight

	x := make([]float64, n)
	next := make([]float64, n)
	for i := range x {
		x[i] = 1.0 / float64(n)
	}

	for iter := 0; iter < eigenMaxIter; iter++ {
		norm := 0.0
		for i := 0; i < n; i++ {
			s := 0.0
			for j := 0; j < n; j++ {
				s += w.At(i, j) * x[j]
			}
			next[i] = s
			norm += math.Abs(s)
		}
		if norm == 0 {
			return nil, fmt.Errorf("%w: weight matrix annihilated the iterate", ErrDegenerateInput)
		}
		diff := 0.0
		for i := 0; i < n; i++ {
			next[i] /= norm
			diff += math.Abs(next[i] - x[i])
		}
		x, next = next, x
		if diff < float64(n)*eigenTol {
			return vectorToRanking(in.Variables, x), nil
		}
	}
	return nil, fmt.Errorf("%w: power iteration exceeded %d iterations", ErrNoConvergence, eigenMaxIter)
}

// EigenvectorDirect solves the dominant eigenvector of the weight matrix
// through a full eigendecomposition instead of power iteration. It exists
// to cross-check EigenvectorRanker and is only suitable for small systems.
func EigenvectorDirect(variables []string, weight *mat.Dense) (RankingMap, error) {
	rows, cols := weight.Dims()
	if rows != cols || rows != len(variables) {
		return nil, fmt.Errorf("%w: weight matrix is %dx%d for %d variables",
			ErrShapeMismatch, rows, cols, len(variables))
	}

	var eig mat.Eigen
	if ok := eig.Factorize(weight, mat.EigenRight); !ok {
		return nil, fmt.Errorf("%w: eigendecomposition failed", ErrNoConvergence)
	}

	values := eig.Values(nil)
	maxIdx := 0
	for i, v := range values {
		if real(v) > real(values[maxIdx]) {
			maxIdx = i
		}
	}

	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	x := make([]float64, rows)
	for i := 0; i < rows; i++ {
		x[i] = cmplx.Abs(vectors.At(i, maxIdx))
	}
	return vectorToRanking(variables, x), nil
}

// vectorToRanking maps absolute component values onto variables,
// normalized to sum 1.
func vectorToRanking(variables []string, x []float64) RankingMap {
	ranking := make(RankingMap, len(variables))
	for i, v := range variables {
		ranking[v] = math.Abs(x[i])
	}
	return normalizeMap(ranking)
}
