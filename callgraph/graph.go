// Package callgraph builds whole-program call graphs over the ir
// package's class hierarchy: a standalone CHA construction, and the
// dispatch primitive the on-the-fly pointer-analysis solver
// (package pta) uses to resolve virtual and interface calls against
// a concrete receiver type.
package callgraph

import "github.com/aclements/staticauditor/ir"

// Edge is one call-graph edge: a call site, classified by kind,
// targeting a resolved method.
type Edge struct {
	Kind   ir.CallKind
	Site   *ir.Invoke
	Caller *ir.Method
	Callee *ir.Method
}

// Graph is a plain (context-insensitive) call graph, the output of
// standalone CHA or of the CI pointer analysis.
type Graph struct {
	Reachable map[*ir.Method]bool
	Edges     []Edge

	outEdges map[*ir.Method][]Edge
}

func NewGraph() *Graph {
	return &Graph{Reachable: map[*ir.Method]bool{}, outEdges: map[*ir.Method][]Edge{}}
}

// AddReachableMethod marks m reachable, reporting whether it was
// newly added.
func (g *Graph) AddReachableMethod(m *ir.Method) bool {
	if g.Reachable[m] {
		return false
	}
	g.Reachable[m] = true
	return true
}

// AddEdge records a call-graph edge, reporting whether it is new.
func (g *Graph) AddEdge(kind ir.CallKind, site *ir.Invoke, caller, callee *ir.Method) bool {
	for _, e := range g.outEdges[caller] {
		if e.Site == site && e.Callee == callee {
			return false
		}
	}
	e := Edge{Kind: kind, Site: site, Caller: caller, Callee: callee}
	g.Edges = append(g.Edges, e)
	g.outEdges[caller] = append(g.outEdges[caller], e)
	return true
}

func (g *Graph) OutEdges(m *ir.Method) []Edge { return g.outEdges[m] }
