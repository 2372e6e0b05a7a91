// Package graphs builds annotated directed-graph views of a ranked causal
// network: node importance from a ranking, edge weights from the gain
// matrix, and a flag marking connections that exist only in the closed
// (control) connectivity.
package graphs

import (
	"errors"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"

	"github.com/causaltools/looprank/core/rank"
)

// ErrMissingImportance indicates the ranking lacks a score for a graph node.
var ErrMissingImportance = errors.New("node has no importance score")

// VarNode is a graph node for one process variable. Importance is only
// attached on closed-graph nodes.
type VarNode struct {
	id            int64
	Name          string
	Importance    float64
	HasImportance bool
}

// ID implements graph.Node.
func (n *VarNode) ID() int64 { return n.id }

// DOTID names the node by its variable in DOT output.
func (n *VarNode) DOTID() string { return n.Name }

// Attributes implements encoding.Attributer.
func (n *VarNode) Attributes() []encoding.Attribute {
	if !n.HasImportance {
		return nil
	}
	return []encoding.Attribute{{
		Key:   "importance",
		Value: strconv.FormatFloat(n.Importance, 'g', -1, 64),
	}}
}

// InfluenceEdge is a weighted cause->effect edge. ControlLoop is set on
// closed-graph edges absent from the open graph.
type InfluenceEdge struct {
	F, T        graph.Node
	W           float64
	ControlLoop bool
	flagged     bool
}

// From implements graph.Edge.
func (e *InfluenceEdge) From() graph.Node { return e.F }

// To implements graph.Edge.
func (e *InfluenceEdge) To() graph.Node { return e.T }

// ReversedEdge implements graph.Edge.
func (e *InfluenceEdge) ReversedEdge() graph.Edge {
	re := *e
	re.F, re.T = e.T, e.F
	return &re
}

// Weight implements graph.WeightedEdge.
func (e *InfluenceEdge) Weight() float64 { return e.W }

// Attributes implements encoding.Attributer.
func (e *InfluenceEdge) Attributes() []encoding.Attribute {
	attrs := []encoding.Attribute{{
		Key:   "weight",
		Value: strconv.FormatFloat(e.W, 'g', -1, 64),
	}}
	if e.flagged {
		flag := "0"
		if e.ControlLoop {
			flag = "1"
		}
		attrs = append(attrs, encoding.Attribute{Key: "controlloop", Value: flag})
	}
	return attrs
}

// Graph is a directed influence graph over one variable set.
type Graph struct {
	*simple.WeightedDirectedGraph
	name  string
	nodes map[string]*VarNode
}

func newGraph(name string, variables []string) *Graph {
	g := &Graph{
		WeightedDirectedGraph: simple.NewWeightedDirectedGraph(0, 0),
		name:                  name,
		nodes:                 make(map[string]*VarNode, len(variables)),
	}
	for i, v := range variables {
		node := &VarNode{id: int64(i), Name: v}
		g.nodes[v] = node
		g.AddNode(node)
	}
	return g
}

// VarByName returns the node for a variable, or nil.
func (g *Graph) VarByName(name string) *VarNode { return g.nodes[name] }

// DOT renders the graph in Graphviz DOT form.
func (g *Graph) DOT() ([]byte, error) {
	return dot.Marshal(g, g.name, "", "  ")
}

// Reverse returns a copy of the graph with every edge flipped, keeping
// all node and edge attributes.
func (g *Graph) Reverse() *Graph {
	rev := &Graph{
		WeightedDirectedGraph: simple.NewWeightedDirectedGraph(0, 0),
		name:                  g.name,
		nodes:                 g.nodes,
	}
	it := g.Nodes()
	for it.Next() {
		rev.AddNode(it.Node())
	}
	edges := g.Edges()
	for edges.Next() {
		e := edges.Edge().(*InfluenceEdge)
		flipped := *e
		flipped.F, flipped.T = e.T, e.F
		rev.SetWeightedEdge(&flipped)
	}
	return rev
}

// BuildImportanceGraphs constructs the open and closed influence graphs
// for a variable set. Edges run cause to effect: connection[row,col]
// nonzero adds the edge col->row weighted by gain[row,col]. Every closed
// edge carries a controlloop flag marking it absent from the open graph,
// and every closed node carries its ranking score as importance.
func BuildImportanceGraphs(
	variables []string,
	closedConn, openConn, gain *mat.Dense,
	ranking rank.RankingMap,
) (closed, open *Graph, err error) {
	n := len(variables)
	for _, m := range []*mat.Dense{closedConn, openConn, gain} {
		rows, cols := m.Dims()
		if rows != n || cols != n {
			return nil, nil, fmt.Errorf("graph matrices must be %dx%d, got %dx%d", n, n, rows, cols)
		}
	}

	open = newGraph("open", variables)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if openConn.At(row, col) == 0 || row == col {
				continue
			}
			open.SetWeightedEdge(&InfluenceEdge{
				F: open.nodes[variables[col]],
				T: open.nodes[variables[row]],
				W: gain.At(row, col),
			})
		}
	}

	closed = newGraph("closed", variables)
	for _, v := range variables {
		score, ok := ranking[v]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrMissingImportance, v)
		}
		node := closed.nodes[v]
		node.Importance = score
		node.HasImportance = true
	}
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if closedConn.At(row, col) == 0 || row == col {
				continue
			}
			from := closed.nodes[variables[col]]
			to := closed.nodes[variables[row]]
			inOpen := open.HasEdgeFromTo(int64(col), int64(row))
			closed.SetWeightedEdge(&InfluenceEdge{
				F:           from,
				T:           to,
				W:           gain.At(row, col),
				ControlLoop: !inOpen,
				flagged:     true,
			})
		}
	}
	return closed, open, nil
}
