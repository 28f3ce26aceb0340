package pta

import "github.com/aclements/staticauditor/ir"

// CallGraphEdge is a context-sensitive call-graph edge: a call site
// (in its caller's context) targeting a context-qualified callee.
type CallGraphEdge struct {
	Kind   ir.CallKind
	Site   *CSCallSite
	Caller *CSMethod
	Callee *CSMethod
}

// CallGraph is the pointer analysis's own call graph, over CSMethod
// nodes. Edges and reachable methods are both added monotonically and
// idempotently.
type CallGraph struct {
	reachable map[*CSMethod]bool
	edgeSet   map[edgeKey]bool
	edges     []CallGraphEdge
	outEdges  map[*CSMethod][]CallGraphEdge
}

type edgeKey struct {
	site   *CSCallSite
	callee *CSMethod
}

func NewCallGraph() *CallGraph {
	return &CallGraph{
		reachable: map[*CSMethod]bool{},
		edgeSet:   map[edgeKey]bool{},
		outEdges:  map[*CSMethod][]CallGraphEdge{},
	}
}

// AddReachableMethod marks csMethod reachable, reporting whether it
// was newly added.
func (g *CallGraph) AddReachableMethod(csMethod *CSMethod) bool {
	if g.reachable[csMethod] {
		return false
	}
	g.reachable[csMethod] = true
	return true
}

func (g *CallGraph) IsReachable(csMethod *CSMethod) bool { return g.reachable[csMethod] }

// AddEdge records (kind, site, callee) from caller, reporting whether
// it is new.
func (g *CallGraph) AddEdge(kind ir.CallKind, site *CSCallSite, caller, callee *CSMethod) bool {
	k := edgeKey{site, callee}
	if g.edgeSet[k] {
		return false
	}
	g.edgeSet[k] = true
	e := CallGraphEdge{Kind: kind, Site: site, Caller: caller, Callee: callee}
	g.edges = append(g.edges, e)
	g.outEdges[caller] = append(g.outEdges[caller], e)
	return true
}

// Edges returns every call-graph edge added so far.
func (g *CallGraph) Edges() []CallGraphEdge { return g.edges }

// OutEdges returns the edges whose caller is csMethod.
func (g *CallGraph) OutEdges(csMethod *CSMethod) []CallGraphEdge { return g.outEdges[csMethod] }

// ReachableMethods returns every CSMethod marked reachable.
func (g *CallGraph) ReachableMethods() []*CSMethod {
	out := make([]*CSMethod, 0, len(g.reachable))
	for m := range g.reachable {
		out = append(out, m)
	}
	return out
}
