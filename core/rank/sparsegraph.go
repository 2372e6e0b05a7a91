package rank

import (
	"gonum.org/v1/gonum/graph/simple"
)

// sparseReversedGraph builds the sparse influence graph from the nonzero
// entries of the transposed gain matrix, with every edge already flipped.
// In the forward graph an entry SparseGain[i,j] is the edge i->j (source
// row, sink column after the transpose); Katz and PageRank analyse the
// reversed direction, so the returned graph carries j->i with that weight.
// Every variable is present as a node even when fully isolated.
func sparseReversedGraph(in *Input) *simple.WeightedDirectedGraph {
	g := simple.NewWeightedDirectedGraph(0, 0)
	n := len(in.Variables)
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	gain := in.Matrices.SparseGain
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				// Self loops are dropped, matching the simple
				// digraph model used throughout.
				continue
			}
			if w := gain.At(i, j); w != 0 {
				g.SetWeightedEdge(simple.WeightedEdge{
					F: simple.Node(j),
					T: simple.Node(i),
					W: w,
				})
			}
		}
	}
	return g
}

// weightedEdges materializes the edge set of g once so iterative solvers
// do not rebuild iterators every sweep.
func weightedEdges(g *simple.WeightedDirectedGraph) []simple.WeightedEdge {
	var edges []simple.WeightedEdge
	it := g.WeightedEdges()
	for it.Next() {
		e := it.WeightedEdge().(simple.WeightedEdge)
		edges = append(edges, e)
	}
	return edges
}

// outWeights sums outgoing edge weights per node.
func outWeights(n int, edges []simple.WeightedEdge) []float64 {
	out := make([]float64, n)
	for _, e := range edges {
		out[e.From().ID()] += e.Weight()
	}
	return out
}
