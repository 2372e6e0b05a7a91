// Package causal holds the input representations of a causal network:
// the boolean connection matrix, the signed gain matrix, and the bias
// (personalization) vector, together with their file readers and the
// backward dummy-node transform.
//
// All matrices follow one index convention: entry [row,col] describes the
// influence of the column variable (cause) on the row variable (effect).
package causal

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShapeMismatch indicates disagreeing matrix or vector dimensions.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrDegenerateInput indicates input without enough structure to
	// operate on, such as an all-zero gain matrix.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrBadFormat indicates a malformed matrix or vector file.
	ErrBadFormat = errors.New("malformed matrix file")
)

// BiasVector is the per-variable personalization prior. Entries are
// non-negative and the vector must not sum to zero.
type BiasVector []float64

// Network bundles one scenario's causal inputs over a shared variable set.
type Network struct {
	Variables  []string
	Connection *mat.Dense
	Gain       *mat.Dense
	Bias       BiasVector
}

// Validate checks that all parts of the network agree on the variable count.
func (n *Network) Validate() error {
	count := len(n.Variables)
	if err := checkSquare("connection", n.Connection, count); err != nil {
		return err
	}
	if err := checkSquare("gain", n.Gain, count); err != nil {
		return err
	}
	if n.Bias != nil && len(n.Bias) != count {
		return fmt.Errorf("%w: bias vector has %d entries for %d variables",
			ErrShapeMismatch, len(n.Bias), count)
	}
	return nil
}

func checkSquare(name string, m *mat.Dense, n int) error {
	if m == nil {
		return nil
	}
	rows, cols := m.Dims()
	if rows != cols || rows != n {
		return fmt.Errorf("%w: %s matrix is %dx%d for %d variables",
			ErrShapeMismatch, name, rows, cols, n)
	}
	return nil
}

// FullyConnected returns an all-ones connection matrix for n variables,
// used when a scenario defines no explicit connection scheme.
func FullyConnected(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, 1)
		}
	}
	return m
}

// UniformBias returns an equal-weight bias vector for n variables, used
// when a scenario defines no explicit prior.
func UniformBias(n int) BiasVector {
	b := make(BiasVector, n)
	for i := range b {
		b[i] = 1
	}
	return b
}
