package rank

import (
	"fmt"
	"math"
)

const (
	katzMaxIter = 1000
	katzTol     = 1e-10
)

// KatzRanker computes Katz centrality over the sparse reversed gain graph:
//
//	x = alpha * A^T x + 1
//
// where A is the reversed-graph adjacency. The attenuation factor alpha
// must be configured; there is no usable default because valid values
// depend on the spectral radius of the gain graph.
type KatzRanker struct{}

// Rank implements Ranker.
func (r *KatzRanker) Rank(in *Input) (RankingMap, error) {
	if in.Alpha == nil {
		return nil, fmt.Errorf("%w: katz attenuation factor alpha", ErrMissingParameter)
	}
	alpha := *in.Alpha

	n := len(in.Variables)
	g := sparseReversedGraph(in)
	edges := weightedEdges(g)

	x := make([]float64, n)
	next := make([]float64, n)
	for iter := 0; iter < katzMaxIter; iter++ {
		for i := range next {
			next[i] = 1
		}
		// Each edge feeds the attenuated source score into its target.
		for _, e := range edges {
			next[e.To().ID()] += alpha * e.Weight() * x[e.From().ID()]
		}
		diff := 0.0
		for i := range next {
			diff += math.Abs(next[i] - x[i])
		}
		x, next = next, x
		if diff < float64(n)*katzTol {
			return sliceToRanking(in.Variables, x), nil
		}
	}
	return nil, fmt.Errorf("%w: katz iteration exceeded %d iterations (alpha too large?)", ErrNoConvergence, katzMaxIter)
}

// sliceToRanking maps raw scores onto variables normalized to sum 1,
// preserving sign.
func sliceToRanking(variables []string, x []float64) RankingMap {
	ranking := make(RankingMap, len(variables))
	for i, v := range variables {
		ranking[v] = x[i]
	}
	return normalizeMap(ranking)
}
