package icfg

import (
	"github.com/aclements/staticauditor/cp"
	"github.com/aclements/staticauditor/ir"
	"github.com/aclements/staticauditor/lattice"
)

// Result holds the in/out fact at every ICFG node.
type Result struct {
	In, Out map[ir.Stmt]*lattice.CPFact
}

func (r *Result) InFact(s ir.Stmt) *lattice.CPFact  { return r.In[s] }
func (r *Result) OutFact(s ir.Stmt) *lattice.CPFact { return r.Out[s] }

// Solve runs inter-procedural constant propagation over g.
// entryPoints are the program's true entry methods
// (methods with no caller in g) — their ICFG entry node is seeded
// with cp.BoundaryFact in addition to whatever ordinary predecessor
// edges it has (none, for a true entry method, but the same seeding
// mechanism works uniformly if a caller later reaches it too).
//
// When alias is non-nil, instance/static/array load and store
// statements use it instead of the plain intra-procedural identity
// (stores) / NAC (loads) treatment, per the alias-aware extension.
func Solve(g ir.ICFG, entryPoints []*ir.Method, alias *AliasState) *Result {
	nodes := g.Nodes()
	res := &Result{In: map[ir.Stmt]*lattice.CPFact{}, Out: map[ir.Stmt]*lattice.CPFact{}}
	for _, s := range nodes {
		res.In[s] = lattice.NewFact()
		res.Out[s] = lattice.NewFact()
	}

	boundary := map[ir.Stmt]*lattice.CPFact{}
	for _, m := range entryPoints {
		boundary[g.EntryOf(m)] = cp.BoundaryFact(m)
	}

	worklist := append([]ir.Stmt(nil), nodes...)
	inWorklist := make(map[ir.Stmt]bool, len(nodes))
	for _, s := range nodes {
		inWorklist[s] = true
	}
	push := func(s ir.Stmt) {
		if !inWorklist[s] {
			inWorklist[s] = true
			worklist = append(worklist, s)
		}
	}

	for len(worklist) > 0 {
		s := worklist[0]
		worklist = worklist[1:]
		inWorklist[s] = false

		in := lattice.NewFact()
		if b, ok := boundary[s]; ok {
			in.MeetInto(b)
		}
		for _, e := range g.InEdges(s) {
			in.MeetInto(edgeTransfer(g, e, res.Out[e.From]))
		}
		res.In[s] = in

		out, extra := nodeOut(s, in, alias)
		for _, x := range extra {
			push(x)
		}
		if !out.Equals(res.Out[s]) {
			res.Out[s] = out
			for _, e := range g.OutEdges(s) {
				push(e.To)
			}
		}
	}
	return res
}

// nodeOut computes a node's out-fact from its in-fact: identity at a
// call node (parameter passing is the CALL/RETURN edges' job), the
// alias-aware rules at field/array load and store statements when
// alias is non-nil, and the plain intra-procedural transfer
// otherwise. It also returns any additional statements that must be
// re-enqueued because an update to alias's global maps may have
// changed their value independent of any ICFG-edge change.
func nodeOut(s ir.Stmt, in *lattice.CPFact, alias *AliasState) (*lattice.CPFact, []ir.Stmt) {
	if _, isCall := s.(*ir.Invoke); isCall {
		return in.Copy(), nil
	}
	if alias != nil {
		switch st := s.(type) {
		case *ir.InstanceStore:
			return in.Copy(), alias.instanceStore(st, in)
		case *ir.StaticStore:
			return in.Copy(), alias.staticStore(st, in)
		case *ir.ArrayStore:
			return in.Copy(), alias.arrayStore(st, in)
		case *ir.InstanceLoad:
			out := in.Copy()
			out.Update(st.LHS, alias.instanceLoadValue(st))
			return out, nil
		case *ir.StaticLoad:
			out := in.Copy()
			out.Update(st.LHS, alias.staticLoadValue(st))
			return out, nil
		case *ir.ArrayLoad:
			out := in.Copy()
			out.Update(st.LHS, alias.arrayLoadValue(st, in))
			return out, nil
		}
	}
	return cp.TransferStmt(s, in), nil
}

// edgeTransfer applies the edge-kind-specific transfer to an edge's
// source out-fact, producing the contribution it makes to the
// target's in-fact.
func edgeTransfer(g ir.ICFG, e ir.ICFGEdge, out *lattice.CPFact) *lattice.CPFact {
	switch e.Kind {
	case ir.Normal:
		return out.Copy()

	case ir.CallToReturn:
		call := e.From.(*ir.Invoke)
		f := out.Copy()
		if v, ok := call.DefVar(); ok {
			f.Remove(v)
		}
		return f

	case ir.Call:
		call := e.From.(*ir.Invoke)
		callee := g.ContainingMethod(e.To)
		f := lattice.NewFact()
		for i, arg := range call.Args {
			if i >= len(callee.Params) {
				break
			}
			p := callee.Params[i]
			if p.Type.CanHoldInt() {
				f.Update(p, out.Get(arg))
			}
		}
		return f

	case ir.ReturnEdge:
		f := lattice.NewFact()
		call := callSiteFor(g, e.To)
		if call == nil {
			return f
		}
		lhs, ok := call.DefVar()
		if !ok {
			return f
		}
		callee := g.ContainingMethod(e.From)
		v := lattice.Undef
		for _, r := range callee.Rets {
			v = lattice.Meet(v, out.Get(r))
		}
		f.Update(lhs, v)
		return f
	}
	return lattice.NewFact()
}
