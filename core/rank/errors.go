package rank

import "errors"

var (
	// ErrUnsupportedMethod indicates an unknown ranking method name.
	ErrUnsupportedMethod = errors.New("unsupported ranking method")

	// ErrMissingParameter indicates a required method parameter was not supplied.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrDegenerateInput indicates input that makes the computation undefined,
	// such as a bias vector summing to zero.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrShapeMismatch indicates disagreeing matrix or vector dimensions.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrMissingVariable indicates a variable absent from a ranking map.
	ErrMissingVariable = errors.New("variable missing from ranking")

	// ErrNoConvergence indicates an iterative solver failed to converge.
	ErrNoConvergence = errors.New("iteration failed to converge")
)
