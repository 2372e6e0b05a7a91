package rank

import (
	"fmt"
	"sort"
)

// Method identifies a centrality algorithm.
type Method int

const (
	// MethodEigenvector ranks nodes by eigenvector centrality over the
	// fully connected personalized weight matrix.
	MethodEigenvector Method = iota
	// MethodKatz ranks nodes by Katz centrality over the sparse gain graph.
	MethodKatz
	// MethodPageRank ranks nodes by PageRank over the sparse gain graph.
	MethodPageRank
)

var methodNames = map[Method]string{
	MethodEigenvector: "eigenvector",
	MethodKatz:        "katz",
	MethodPageRank:    "pagerank",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMethod resolves a method name to its Method value.
func ParseMethod(name string) (Method, error) {
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, name)
}

// RankingMap associates each variable with a non-negative importance score.
// Scores sum to 1 over the variable set the ranking was computed on.
type RankingMap map[string]float64

// Score is one (variable, score) entry of a ranking list.
type Score struct {
	Variable string
	Value    float64
}

// RankingList is a ranking sorted by descending score. Equal scores are
// ordered by ascending variable name so the output is deterministic.
type RankingList []Score

// Input carries everything a Ranker needs for one ranking computation.
type Input struct {
	// Variables indexes the matrix rows and columns.
	Variables []string

	// Matrices are the derived influence representations, see
	// BuildInfluenceMatrices.
	Matrices *InfluenceMatrices

	// Damping is the PageRank damping factor m.
	Damping float64

	// Alpha is the Katz attenuation factor. Nil when not configured.
	Alpha *float64
}

func (in *Input) validate() error {
	if in.Matrices == nil || in.Matrices.Weight == nil || in.Matrices.SparseGain == nil {
		return fmt.Errorf("%w: influence matrices not built", ErrDegenerateInput)
	}
	rows, cols := in.Matrices.Weight.Dims()
	if rows != cols || rows != len(in.Variables) {
		return fmt.Errorf("%w: weight matrix is %dx%d for %d variables",
			ErrShapeMismatch, rows, cols, len(in.Variables))
	}
	return nil
}

// Ranker computes one centrality measure. Implementations are pure: the
// ranking is a function of the input alone.
type Ranker interface {
	Rank(in *Input) (RankingMap, error)
}

// Engine dispatches ranking requests to registered Ranker implementations.
// The registry is fixed at construction so unknown methods are rejected
// before any computation starts.
type Engine struct {
	rankers map[Method]Ranker
}

// NewEngine returns an engine with all built-in methods registered.
func NewEngine() *Engine {
	return &Engine{
		rankers: map[Method]Ranker{
			MethodEigenvector: &EigenvectorRanker{},
			MethodKatz:        &KatzRanker{},
			MethodPageRank:    &PageRankRanker{},
		},
	}
}

// Rank computes the ranking for the requested method and returns both the
// score map and its sorted list form.
func (e *Engine) Rank(method Method, in *Input) (RankingMap, RankingList, error) {
	ranker, ok := e.rankers[method]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
	if err := in.validate(); err != nil {
		return nil, nil, err
	}
	ranking, err := ranker.Rank(in)
	if err != nil {
		return nil, nil, fmt.Errorf("%s ranking: %w", method, err)
	}
	return ranking, ToSortedList(ranking), nil
}

// normalizeMap scales map values to sum to 1.
func normalizeMap(m RankingMap) RankingMap {
	total := 0.0
	for _, v := range m {
		total += v
	}
	out := make(RankingMap, len(m))
	for k, v := range m {
		if total == 0 {
			out[k] = v
			continue
		}
		out[k] = v / total
	}
	return out
}

// sortScores orders scores descending by value, ties broken by name.
func sortScores(scores RankingList) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Value != scores[j].Value {
			return scores[i].Value > scores[j].Value
		}
		return scores[i].Variable < scores[j].Variable
	})
}
