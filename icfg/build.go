// Package icfg builds the inter-procedural control-flow graph over a
// call graph and per-method CFGs, and runs inter-procedural constant
// propagation over it — including the alias-aware field and array
// extension driven by a context-insensitive points-to result.
package icfg

import (
	"github.com/aclements/staticauditor/callgraph"
	"github.com/aclements/staticauditor/ir"
)

type graph struct {
	nodes    []ir.Stmt
	entryOf  map[*ir.Method]ir.Stmt
	out      map[ir.Stmt][]ir.ICFGEdge
	in       map[ir.Stmt][]ir.ICFGEdge
	owner    map[ir.Stmt]*ir.Method
}

func (g *graph) Nodes() []ir.Stmt                    { return g.nodes }
func (g *graph) EntryOf(m *ir.Method) ir.Stmt         { return g.entryOf[m] }
func (g *graph) OutEdges(s ir.Stmt) []ir.ICFGEdge     { return g.out[s] }
func (g *graph) InEdges(s ir.Stmt) []ir.ICFGEdge      { return g.in[s] }
func (g *graph) ContainingMethod(s ir.Stmt) *ir.Method { return g.owner[s] }

func (g *graph) addEdge(kind ir.ICFGEdgeKind, from, to ir.Stmt) {
	e := ir.ICFGEdge{Kind: kind, From: from, To: to}
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
}

// Build assembles an ir.ICFG from cg's reachable methods and a
// per-method CFG provider. Every non-call statement's intra edges
// become NORMAL; a call statement's intra successor becomes
// CALL_TO_RETURN instead, and each resolved callee contributes a CALL
// edge (call site -> callee entry) and a RETURN edge (callee exit ->
// the caller's call-to-return successor).
func Build(cg *callgraph.Graph, cfgFor func(*ir.Method) ir.CFG) ir.ICFG {
	g := &graph{
		entryOf: map[*ir.Method]ir.Stmt{},
		out:     map[ir.Stmt][]ir.ICFGEdge{},
		in:      map[ir.Stmt][]ir.ICFGEdge{},
		owner:   map[ir.Stmt]*ir.Method{},
	}

	cfgs := map[*ir.Method]ir.CFG{}
	for m := range cg.Reachable {
		cfg := cfgFor(m)
		cfgs[m] = cfg
		g.entryOf[m] = cfg.Entry()
		for _, s := range cfg.Stmts() {
			g.nodes = append(g.nodes, s)
			g.owner[s] = m
		}
	}

	for m := range cg.Reachable {
		cfg := cfgs[m]
		for _, s := range cfg.Stmts() {
			if _, isCall := s.(*ir.Invoke); isCall {
				for _, succ := range cfg.Succs(s) {
					g.addEdge(ir.CallToReturn, s, succ)
				}
				continue
			}
			for _, succ := range cfg.Succs(s) {
				g.addEdge(ir.Normal, s, succ)
			}
		}
	}

	for m := range cg.Reachable {
		cfg := cfgs[m]
		for _, e := range cg.OutEdges(m) {
			calleeCFG, ok := cfgs[e.Callee]
			if !ok {
				continue
			}
			g.addEdge(ir.Call, e.Site, calleeCFG.Entry())
			for _, succ := range cfg.Succs(e.Site) {
				g.addEdge(ir.ReturnEdge, calleeCFG.Exit(), succ)
			}
		}
	}

	return g
}

// callSiteFor returns the *ir.Invoke whose CALL_TO_RETURN edge targets
// n, if any. A RETURN edge's originating call site isn't carried on
// the edge itself (ir.ICFGEdge only has Kind/From/To), but it is
// always recoverable this way: n's call-to-return predecessor, if one
// exists, is exactly the call site that also produced n's RETURN
// edges.
func callSiteFor(g ir.ICFG, n ir.Stmt) *ir.Invoke {
	for _, e := range g.InEdges(n) {
		if e.Kind == ir.CallToReturn {
			if inv, ok := e.From.(*ir.Invoke); ok {
				return inv
			}
		}
	}
	return nil
}
