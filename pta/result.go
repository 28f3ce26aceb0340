package pta

import "github.com/aclements/staticauditor/ir"

// Result is the output of a Solver run: the final PFG, call graph, and
// every canonicalized entity the CSManager minted, plus a small
// key-value store for auxiliary results (such as a taint pipeline's
// findings are stashed here under a fixed key, so callers that only
// want points-to facts never need to know taint ran).
type Result struct {
	Mgr *CSManager
	CG  *CallGraph

	aux map[string]interface{}
}

func newResult(s *Solver) *Result {
	return &Result{Mgr: s.Mgr, CG: s.CG, aux: map[string]interface{}{}}
}

// PointsTo returns the objects VarPtr(ctx, v) points to. Passing
// EmptyContext against a CS result answers "what does v point to in
// the outermost context", which is rarely what a caller wants; use
// PointsToMerged for a context-insensitive view of a CS result.
func (r *Result) PointsTo(ctx Context, v *ir.Var) []*CSObj {
	return r.Mgr.VarPtr(ctx, v).PointsTo().Slice()
}

// PointsToMerged returns the union of v's points-to set across every
// context the solver analyzed it in — the natural query against a
// context-sensitive result when the caller (e.g. a report or a
// dead-code check) only cares about "could v ever point to o",
// matching how a CI result is queried.
func (r *Result) PointsToMerged(v *ir.Var) []*ir.Obj {
	seen := map[*ir.Obj]bool{}
	var out []*ir.Obj
	for _, p := range r.Mgr.VarPtrsOf(v) {
		p.PointsTo().Each(func(o *CSObj) {
			if !seen[o.Obj] {
				seen[o.Obj] = true
				out = append(out, o.Obj)
			}
		})
	}
	return out
}

// Vars returns every variable the solver created at least one VarPtr
// for — i.e. every variable that was actually live in a reachable
// method.
func (r *Result) Vars() []*ir.Var {
	var out []*ir.Var
	for v := range r.Mgr.varPtrsOf {
		out = append(out, v)
	}
	return out
}

// ReachableMethods returns every CSMethod the analysis found
// reachable from the entry point.
func (r *Result) ReachableMethods() []*CSMethod { return r.CG.ReachableMethods() }

// CallGraphEdges returns every call-graph edge the analysis added.
func (r *Result) CallGraphEdges() []CallGraphEdge { return r.CG.Edges() }

// SetAux stashes an auxiliary result (e.g. taint findings) under key.
func (r *Result) SetAux(key string, val interface{}) { r.aux[key] = val }

// Aux retrieves an auxiliary result previously stored under key.
func (r *Result) Aux(key string) (interface{}, bool) {
	v, ok := r.aux[key]
	return v, ok
}

// SolveCI runs the analysis with the context-insensitive selector —
// every CSMethod and CSObj carries EmptyContext, so the result's
// per-context queries degenerate to the ordinary CI points-to facts,
// while PointsToMerged is still always valid.
func SolveCI(ch ir.ClassHierarchy, heap ir.HeapModel, entry *ir.Method) *Result {
	return NewSolver(CIContextSelector, ch, heap).Solve(entry)
}

// SolveCS runs the analysis with a k-call-site-sensitive selector.
func SolveCS(k int, ch ir.ClassHierarchy, heap ir.HeapModel, entry *ir.Method) *Result {
	return NewSolver(NewCallStringSelector(k), ch, heap).Solve(entry)
}
