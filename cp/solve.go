package cp

import (
	"github.com/aclements/staticauditor/ir"
	"github.com/aclements/staticauditor/lattice"
)

// Result holds the in/out fact at every statement of a single CFG.
type Result struct {
	In, Out map[ir.Stmt]*lattice.CPFact
}

func (r *Result) InFact(s ir.Stmt) *lattice.CPFact  { return r.In[s] }
func (r *Result) OutFact(s ir.Stmt) *lattice.CPFact { return r.Out[s] }

// BoundaryFact builds the entry fact for m: every parameter that can
// hold an integer maps to NAC, everything else is absent (UNDEF).
func BoundaryFact(m *ir.Method) *lattice.CPFact {
	f := lattice.NewFact()
	for _, p := range m.Params {
		if p.Type.CanHoldInt() {
			f.Update(p, lattice.NAC)
		}
	}
	return f
}

// TransferStmt applies the intra-procedural transfer function for a
// single statement: a definition lhs := rhs propagates evaluate(rhs)
// (or UNDEF if lhs cannot hold an integer); anything else is the
// identity. Returns the new out-fact; callers compare it against the
// statement's previous out-fact themselves to detect a change.
func TransferStmt(s ir.Stmt, in *lattice.CPFact) *lattice.CPFact {
	out := in.Copy()
	v, ok := s.DefVar()
	if !ok {
		return out
	}
	if !v.Type.CanHoldInt() {
		out.Update(v, lattice.Undef)
		return out
	}
	out.Update(v, Evaluate(s.Expr(), in))
	return out
}

// Solve runs the forward worklist solver over cfg to a fixed point:
// entry gets BoundaryFact, every other node starts at the initial
// (empty) fact, and a node's in-fact is the meet of all its
// predecessors' out-facts.
func Solve(cfg ir.CFG) *Result {
	stmts := cfg.Stmts()
	res := &Result{In: map[ir.Stmt]*lattice.CPFact{}, Out: map[ir.Stmt]*lattice.CPFact{}}
	for _, s := range stmts {
		res.In[s] = lattice.NewFact()
		res.Out[s] = lattice.NewFact()
	}
	entry := cfg.Entry()
	res.In[entry] = BoundaryFact(cfg.Method())

	worklist := append([]ir.Stmt(nil), stmts...)
	inWorklist := make(map[ir.Stmt]bool, len(stmts))
	for _, s := range stmts {
		inWorklist[s] = true
	}

	for len(worklist) > 0 {
		s := worklist[0]
		worklist = worklist[1:]
		inWorklist[s] = false

		in := res.In[s]
		if s != entry {
			in = lattice.NewFact()
			for _, pred := range cfg.Preds(s) {
				in.MeetInto(res.Out[pred])
			}
			res.In[s] = in
		}

		out := TransferStmt(s, in)
		if !out.Equals(res.Out[s]) {
			res.Out[s] = out
			for _, succ := range cfg.Succs(s) {
				if !inWorklist[succ] {
					inWorklist[succ] = true
					worklist = append(worklist, succ)
				}
			}
		}
	}
	return res
}
