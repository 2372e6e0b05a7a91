package rank

import (
	"fmt"
	"math"
)

const (
	pagerankMaxIter = 200
	pagerankTol     = 1e-9
)

// PageRankRanker computes PageRank with damping factor m over the same
// sparse reversed gain graph Katz uses. Teleportation is uniform; the
// personalization prior only enters through the weight matrix path used
// by eigenvector centrality, not here.
type PageRankRanker struct{}

// Rank implements Ranker.
func (r *PageRankRanker) Rank(in *Input) (RankingMap, error) {
	m := in.Damping
	if m <= 0 || m >= 1 {
		return nil, fmt.Errorf("%w: pagerank damping factor %v outside (0,1)", ErrDegenerateInput, m)
	}

	n := len(in.Variables)
	g := sparseReversedGraph(in)
	edges := weightedEdges(g)
	out := outWeights(n, edges)

	x := make([]float64, n)
	next := make([]float64, n)
	for i := range x {
		x[i] = 1.0 / float64(n)
	}

	for iter := 0; iter < pagerankMaxIter; iter++ {
		// Dangling nodes spread their mass uniformly.
		dangling := 0.0
		for i, w := range out {
			if w == 0 {
				dangling += x[i]
			}
		}
		base := (1-m)/float64(n) + m*dangling/float64(n)
		for i := range next {
			next[i] = base
		}
		for _, e := range edges {
			from := e.From().ID()
			next[e.To().ID()] += m * x[from] * e.Weight() / out[from]
		}
		diff := 0.0
		for i := range next {
			diff += math.Abs(next[i] - x[i])
		}
		x, next = next, x
		if diff < float64(n)*pagerankTol {
			return sliceToRanking(in.Variables, x), nil
		}
	}
	return nil, fmt.Errorf("%w: pagerank exceeded %d iterations", ErrNoConvergence, pagerankMaxIter)
}
