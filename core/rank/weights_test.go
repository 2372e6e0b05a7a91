package rank

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestBuildInfluenceMatrices_ColumnStochastic(t *testing.T) {
	gain := mat.NewDense(3, 3, []float64{
		0, 2, 1,
		3, 0, 1,
		1, 1, 0,
	})
	bias := []float64{1, 1, 1}

	matrices, err := BuildInfluenceMatrices(gain, bias, 0.85)
	if err != nil {
		t.Fatalf("BuildInfluenceMatrices: %v", err)
	}

	for j := 0; j < 3; j++ {
		sum := 0.0
		for i := 0; i < 3; i++ {
			sum += math.Abs(matrices.Weight.At(i, j))
		}
		if math.Abs(sum-1.0) > 1e-12 {
			t.Errorf("weight column %d sums to %v, want 1", j, sum)
		}
	}
}

func TestBuildInfluenceMatrices_ZeroColumnPassthrough(t *testing.T) {
	// Variable 2 influences nothing: its source column is all zero and
	// must stay zero instead of being filled uniformly.
	gain := mat.NewDense(3, 3, []float64{
		0, 1, 0,
		1, 0, 0,
		1, 1, 0,
	})
	bias := []float64{1, 1, 1}

	matrices, err := BuildInfluenceMatrices(gain, bias, 1.0)
	if err != nil {
		t.Fatalf("BuildInfluenceMatrices: %v", err)
	}

	// With m=1 the reset matrix drops out; the transposed weight matrix
	// has the zero column as row 2, and the sparse gain matrix keeps a
	// zero row 2 as well.
	for j := 0; j < 3; j++ {
		if v := matrices.SparseGain.At(2, j); v != 0 {
			t.Errorf("sparse gain [2,%d] = %v, want 0", j, v)
		}
	}
}

func TestBuildInfluenceMatrices_ResetMixing(t *testing.T) {
	// A zero gain matrix leaves only the reset component, so before the
	// final transpose every column j holds bias[j]/sum(bias).
	gain := mat.NewDense(2, 2, nil)
	bias := []float64{3, 1}

	matrices, err := BuildInfluenceMatrices(gain, bias, 0.5)
	if err != nil {
		t.Fatalf("BuildInfluenceMatrices: %v", err)
	}

	// Weight is transposed and renormalized: the bias shares survive on
	// the rows, renormalized within each column of the transpose.
	got := matrices.Weight.At(0, 0)
	if math.Abs(got-0.75) > 1e-12 {
		t.Errorf("weight [0,0] = %v, want 0.75", got)
	}
}

func TestBuildInfluenceMatrices_Errors(t *testing.T) {
	square := mat.NewDense(2, 2, []float64{0, 1, 1, 0})

	tests := []struct {
		name string
		gain *mat.Dense
		bias []float64
		m    float64
		want error
	}{
		{"zero bias sum", square, []float64{0, 0}, 0.85, ErrDegenerateInput},
		{"bias length", square, []float64{1}, 0.85, ErrShapeMismatch},
		{"non-square", mat.NewDense(2, 3, nil), []float64{1, 1}, 0.85, ErrShapeMismatch},
		{"damping zero", square, []float64{1, 1}, 0, ErrDegenerateInput},
		{"damping above one", square, []float64{1, 1}, 1.5, ErrDegenerateInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildInfluenceMatrices(tt.gain, tt.bias, tt.m)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
