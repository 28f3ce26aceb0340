// Package deadcode runs the post-CP dead-code passes: unreachable-code
// and unreachable-branch detection by DFS over a method's CFG, and
// dead-assignment detection driven by a backward live-variable
// analysis over a statement-indexed CFG. Liveness here is the classic
// backward dataflow fact: the set of variables whose current value
// some reachable successor statement may still read.
package deadcode

import "github.com/aclements/staticauditor/ir"

// LiveSet is the live-variable fact at one CFG node: the set of
// variables live at that point, keyed by *ir.Var identity.
type LiveSet map[*ir.Var]bool

func (s LiveSet) has(v *ir.Var) bool { return v != nil && s[v] }

func (s LiveSet) clone() LiveSet {
	out := make(LiveSet, len(s))
	for v := range s {
		out[v] = true
	}
	return out
}

func (s LiveSet) equal(o LiveSet) bool {
	if len(s) != len(o) {
		return false
	}
	for v := range s {
		if !o[v] {
			return false
		}
	}
	return true
}

// Liveness holds the live-out fact computed at every node of a CFG.
type Liveness struct {
	out map[ir.Stmt]LiveSet
}

// LiveOut returns the set of variables live immediately after s.
func (l *Liveness) LiveOut(s ir.Stmt) LiveSet { return l.out[s] }

// Live reports whether v is live immediately after s.
func (l *Liveness) Live(s ir.Stmt, v *ir.Var) bool { return l.out[s].has(v) }

// AnalyzeLiveness runs backward live-variable analysis to a fixed
// point over cfg: live-in[s] = uses(s) ∪ (live-out[s] \ defs(s));
// live-out[s] = union of live-in over s's successors. The exit node's
// live-out is empty (no caller-visible use of any local beyond the
// return value, which is itself a use recorded at the Return
// statement).
func AnalyzeLiveness(cfg ir.CFG) *Liveness {
	stmts := cfg.Stmts()
	in := make(map[ir.Stmt]LiveSet, len(stmts))
	out := make(map[ir.Stmt]LiveSet, len(stmts))
	for _, s := range stmts {
		in[s] = LiveSet{}
		out[s] = LiveSet{}
	}

	worklist := append([]ir.Stmt{}, stmts...)
	onWorklist := make(map[ir.Stmt]bool, len(stmts))
	for _, s := range stmts {
		onWorklist[s] = true
	}

	for len(worklist) > 0 {
		s := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		onWorklist[s] = false

		newOut := LiveSet{}
		for _, succ := range cfg.Succs(s) {
			for v := range in[succ] {
				newOut[v] = true
			}
		}

		newIn := newOut.clone()
		if def, ok := s.DefVar(); ok {
			delete(newIn, def)
		}
		for _, v := range uses(s) {
			newIn[v] = true
		}

		changed := !newIn.equal(in[s]) || !newOut.equal(out[s])
		in[s] = newIn
		out[s] = newOut
		if !changed {
			continue
		}
		for _, pred := range cfg.Preds(s) {
			if !onWorklist[pred] {
				onWorklist[pred] = true
				worklist = append(worklist, pred)
			}
		}
	}

	return &Liveness{out: out}
}

// uses returns the variables s reads, beyond what its Expr() already
// exposes for statement kinds Expr doesn't cover (field/array
// base/index, call receiver/arguments, branch subjects).
func uses(s ir.Stmt) []*ir.Var {
	var vs []*ir.Var
	add := func(v *ir.Var) {
		if v != nil {
			vs = append(vs, v)
		}
	}
	addExpr := func(e ir.Expr) {
		vs = append(vs, exprVars(e)...)
	}

	switch s := s.(type) {
	case *ir.New:
		// no uses
	case *ir.Copy:
		add(s.RHS)
	case *ir.Assign:
		addExpr(s.RHS)
	case *ir.StaticLoad:
		// no uses
	case *ir.StaticStore:
		add(s.RHS)
	case *ir.InstanceLoad:
		add(s.Base)
	case *ir.InstanceStore:
		add(s.Base)
		add(s.RHS)
	case *ir.ArrayLoad:
		add(s.Base)
		addExpr(s.Index)
	case *ir.ArrayStore:
		add(s.Base)
		addExpr(s.Index)
		add(s.RHS)
	case *ir.Invoke:
		add(s.Base)
		for _, a := range s.Args {
			add(a)
		}
	case *ir.Return:
		add(s.Value)
	case *ir.If:
		addExpr(s.Cond)
	case *ir.Switch:
		addExpr(s.Value)
	case *ir.Nop:
		// no uses
	}
	return vs
}

func exprVars(e ir.Expr) []*ir.Var {
	switch e := e.(type) {
	case ir.VarRef:
		return []*ir.Var{e.Var}
	case ir.BinExpr:
		return append(exprVars(e.X), exprVars(e.Y)...)
	default:
		return nil
	}
}
