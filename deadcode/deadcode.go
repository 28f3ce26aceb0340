package deadcode

import (
	"github.com/aclements/staticauditor/cp"
	"github.com/aclements/staticauditor/ir"
	"github.com/aclements/staticauditor/lattice"
)

// Facts is the subset of cp.Result and icfg.Result's query surface
// this package needs: the in-fact at a statement, for deciding
// statically-resolved branches.
type Facts interface {
	InFact(ir.Stmt) *lattice.CPFact
}

// Reason classifies why a statement was reported.
type Reason int

const (
	UnreachableCode Reason = iota
	UnreachableBranch
	DeadAssignment
)

func (r Reason) String() string {
	switch r {
	case UnreachableCode:
		return "unreachable code"
	case UnreachableBranch:
		return "unreachable branch"
	case DeadAssignment:
		return "dead assignment"
	}
	return "?"
}

// Finding is one reported dead-code statement.
type Finding struct {
	Stmt   ir.Stmt
	Reason Reason
}

// Analyze runs all three dead-code passes over cfg and returns
// findings ordered by cfg.Stmts() position. facts drives the
// unreachable-branch pass; live drives the dead-assignment pass.
// Entry and exit are never reported.
func Analyze(cfg ir.CFG, facts Facts, live *Liveness) []Finding {
	order := make(map[ir.Stmt]int, len(cfg.Stmts()))
	for i, s := range cfg.Stmts() {
		order[s] = i
	}
	reasons := map[ir.Stmt]Reason{}

	plainVisited := dfs(cfg.Entry(), func(s ir.Stmt) []ir.Stmt { return cfg.Succs(s) })
	for _, s := range cfg.Stmts() {
		if !plainVisited[s] {
			reasons[s] = UnreachableCode
		}
	}

	branchVisited := dfs(cfg.Entry(), func(s ir.Stmt) []ir.Stmt {
		return decidedSuccs(cfg, facts, s)
	})
	for _, s := range cfg.Stmts() {
		if _, already := reasons[s]; already {
			continue
		}
		if !branchVisited[s] {
			reasons[s] = UnreachableBranch
		}
	}

	for _, s := range cfg.Stmts() {
		if _, already := reasons[s]; already {
			continue
		}
		if isDeadAssignment(s, live) {
			reasons[s] = DeadAssignment
		}
	}

	delete(reasons, cfg.Entry())
	delete(reasons, cfg.Exit())

	var out []Finding
	for s, r := range reasons {
		out = append(out, Finding{Stmt: s, Reason: r})
	}
	sortByOrder(out, order)
	return out
}

// decidedSuccs returns s's successors, pruned to the statically
// decided branch when s is an If with a constant condition or a
// Switch with a constant subject. Any other statement, or an If/Switch
// whose value is UNDEF/NAC, takes every CFG successor.
func decidedSuccs(cfg ir.CFG, facts Facts, s ir.Stmt) []ir.Stmt {
	succs := cfg.Succs(s)
	in := facts.InFact(s)
	if in == nil {
		return succs
	}
	switch s := s.(type) {
	case *ir.If:
		// CFG convention: Succs(s) = [trueTarget, falseTarget].
		if len(succs) != 2 {
			return succs
		}
		c, ok := cp.Evaluate(s.Cond, in).Int()
		if !ok {
			return succs
		}
		if c != 0 {
			return succs[:1]
		}
		return succs[1:2]
	case *ir.Switch:
		// CFG convention: Succs(s) = one per Cases entry, in order,
		// followed by the default target.
		if len(succs) != len(s.Cases)+1 {
			return succs
		}
		c, ok := cp.Evaluate(s.Value, in).Int()
		if !ok {
			return succs
		}
		for i, cs := range s.Cases {
			if cs == c {
				return succs[i : i+1]
			}
		}
		return succs[len(succs)-1:]
	default:
		return succs
	}
}

// isDeadAssignment reports whether s is a definition whose RHS is
// side-effect-free and whose defined variable is not live on out.
func isDeadAssignment(s ir.Stmt, live *Liveness) bool {
	def, ok := s.DefVar()
	if !ok || !sideEffectFree(s) {
		return false
	}
	return !live.Live(s, def)
}

// sideEffectFree reports whether s's right-hand side can be dropped
// without changing program behavior: not new, not cast, not field or
// array access; an arithmetic expression is side-effect-free iff its
// operator is not / or %.
func sideEffectFree(s ir.Stmt) bool {
	switch s := s.(type) {
	case *ir.Copy:
		return true
	case *ir.Assign:
		return exprSideEffectFree(s.RHS)
	default:
		// New, StaticLoad, InstanceLoad, ArrayLoad, Invoke: all
		// excluded by the predicate (allocation, or a field/array
		// access, or may have arbitrary effects).
		return false
	}
}

func exprSideEffectFree(e ir.Expr) bool {
	switch e := e.(type) {
	case ir.VarRef, ir.IntLit:
		return true
	case ir.BinExpr:
		if e.Op == ir.OpDiv || e.Op == ir.OpRem {
			return false
		}
		return exprSideEffectFree(e.X) && exprSideEffectFree(e.Y)
	default:
		return false
	}
}

func dfs(start ir.Stmt, succs func(ir.Stmt) []ir.Stmt) map[ir.Stmt]bool {
	visited := map[ir.Stmt]bool{}
	var walk func(ir.Stmt)
	walk = func(s ir.Stmt) {
		if visited[s] {
			return
		}
		visited[s] = true
		for _, t := range succs(s) {
			walk(t)
		}
	}
	walk(start)
	return visited
}

func sortByOrder(findings []Finding, order map[ir.Stmt]int) {
	for i := 1; i < len(findings); i++ {
		for j := i; j > 0 && order[findings[j].Stmt] < order[findings[j-1].Stmt]; j-- {
			findings[j], findings[j-1] = findings[j-1], findings[j]
		}
	}
}
