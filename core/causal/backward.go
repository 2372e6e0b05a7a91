package causal

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultDummyWeight is the gain assigned to dummy inbound edges when no
// explicit weight is configured.
const DefaultDummyWeight = 10.0

// BackwardTransformer prepares a network for backward ranking, optionally
// introducing synthetic dummy nodes so every real variable has inbound
// structure. The ranking engine never learns which variables are dummies;
// callers keep the original variable list for later suppression.
type BackwardTransformer interface {
	Transform(n *Network) (*Network, error)
}

// DummyAppender is the default backward transform. When enabled it
// appends one dummy source node per real variable, pointing at that
// variable with the configured gain and carrying zero bias so the dummies
// attract no teleport mass of their own.
type DummyAppender struct {
	// Weight is the gain on every dummy edge.
	Weight float64

	// Enabled toggles dummy creation. When false the network passes
	// through unchanged.
	Enabled bool
}

// NewDummyAppender returns a DummyAppender with the default edge weight.
func NewDummyAppender(enabled bool) *DummyAppender {
	return &DummyAppender{Weight: DefaultDummyWeight, Enabled: enabled}
}

// Transform implements BackwardTransformer.
func (d *DummyAppender) Transform(n *Network) (*Network, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if !d.Enabled {
		return n, nil
	}
	if d.Weight == 0 {
		return nil, fmt.Errorf("%w: dummy weight is zero", ErrDegenerateInput)
	}

	real := len(n.Variables)
	total := real * 2

	variables := make([]string, 0, total)
	variables = append(variables, n.Variables...)
	for _, v := range n.Variables {
		variables = append(variables, v+"_dummy")
	}

	conn := mat.NewDense(total, total, nil)
	gain := mat.NewDense(total, total, nil)
	for i := 0; i < real; i++ {
		for j := 0; j < real; j++ {
			conn.Set(i, j, n.Connection.At(i, j))
			gain.Set(i, j, n.Gain.At(i, j))
		}
	}
	// Dummy k sits at column real+k and points only at variable k.
	for k := 0; k < real; k++ {
		conn.Set(k, real+k, 1)
		gain.Set(k, real+k, d.Weight)
	}

	bias := make(BiasVector, total)
	copy(bias, n.Bias)

	return &Network{
		Variables:  variables,
		Connection: conn,
		Gain:       gain,
		Bias:       bias,
	}, nil
}
