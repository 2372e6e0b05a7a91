// Package rank computes node importance rankings over weighted causal
// networks. Matrices follow the convention that columns are causes and
// rows are effects.
package rank

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// InfluenceMatrices holds the two matrix representations derived from a
// gain matrix and a personalization (bias) vector.
type InfluenceMatrices struct {
	// Weight is the transposed, column-renormalized personalized weight
	// matrix consumed by eigenvector centrality.
	Weight *mat.Dense

	// SparseGain is the transposed, column-renormalized gain matrix.
	// Its nonzero entries define the sparse graph consumed by Katz and
	// PageRank centrality.
	SparseGain *mat.Dense
}

// BuildInfluenceMatrices constructs the personalized weight matrix and the
// sparse gain matrix from a raw gain matrix, a bias vector, and a damping
// factor m in (0,1].
//
// The gain matrix columns are first normalized by their absolute sums
// (columns that sum to zero are passed through untouched). The normalized
// gains are mixed with the reset matrix built from the bias vector,
// transposed, and renormalized; the normalized gains are independently
// transposed and renormalized for the sparse representation.
func BuildInfluenceMatrices(gain *mat.Dense, bias []float64, m float64) (*InfluenceMatrices, error) {
	rows, cols := gain.Dims()
	if rows != cols {
		return nil, fmt.Errorf("%w: gain matrix is %dx%d, want square", ErrShapeMismatch, rows, cols)
	}
	if len(bias) != rows {
		return nil, fmt.Errorf("%w: bias vector has length %d, gain matrix has %d rows", ErrShapeMismatch, len(bias), rows)
	}
	if m <= 0 || m > 1 {
		return nil, fmt.Errorf("%w: damping factor %v outside (0,1]", ErrDegenerateInput, m)
	}

	biasSum := floats.Sum(bias)
	if biasSum == 0 {
		return nil, fmt.Errorf("%w: bias vector sums to zero", ErrDegenerateInput)
	}

	n := rows

	normGain := mat.DenseCopyOf(gain)
	normalizeColumns(normGain)

	// The reset matrix repeats the normalized bias vector along every row,
	// so each column j carries the constant teleport share bias[j]/sum.
	weight := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			weight.Set(i, j, m*normGain.At(i, j)+(1-m)*bias[j]/biasSum)
		}
	}

	// Rank is computed over the opposite edge direction, so both matrices
	// are transposed and renormalized before use.
	weightT := mat.DenseCopyOf(weight.T())
	normalizeColumns(weightT)

	sparseGain := mat.DenseCopyOf(normGain.T())
	normalizeColumns(sparseGain)

	return &InfluenceMatrices{Weight: weightT, SparseGain: sparseGain}, nil
}

// normalizeColumns divides each column by the sum of its absolute values.
// A column summing to zero is left unchanged rather than filled uniformly.
func normalizeColumns(a *mat.Dense) {
	rows, cols := a.Dims()
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += math.Abs(a.At(i, j))
		}
		if sum == 0 {
			continue
		}
		for i := 0; i < rows; i++ {
			a.Set(i, j, a.At(i, j)/sum)
		}
	}
}
