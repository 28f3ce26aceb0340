package deadcode_test

import (
	"testing"

	"github.com/aclements/staticauditor/cp"
	"github.com/aclements/staticauditor/deadcode"
	"github.com/aclements/staticauditor/internal/toyir"
	"github.com/aclements/staticauditor/ir"
)

func TestAnalyzeUnreachableCode(t *testing.T) {
	b := toyir.NewBuilder()
	m := b.Method(b.Class("Main"), "main", nil, ir.Type{})
	x := &ir.Var{Name: "x", Type: ir.Type{Kind: ir.KindInt}, Method: m}

	live := &ir.Assign{LHS: x, RHS: ir.IntLit{Value: 1}}
	ret := &ir.Return{Value: x}
	dead := &ir.Assign{LHS: x, RHS: ir.IntLit{Value: 2}}
	m.Stmts = []ir.Stmt{live, ret, dead}
	m.Finish()

	cb := toyir.NewCFG(m)
	cb.SetSuccs(live, ret)
	cfg := cb.Build()

	facts := cp.Solve(cfg)
	liveness := deadcode.AnalyzeLiveness(cfg)
	findings := deadcode.Analyze(cfg, facts, liveness)

	if len(findings) != 1 || findings[0].Stmt != dead || findings[0].Reason != deadcode.UnreachableCode {
		t.Fatalf("findings = %+v, want exactly one UnreachableCode finding for dead", findings)
	}
}

func TestAnalyzeUnreachableBranch(t *testing.T) {
	b := toyir.NewBuilder()
	m := b.Method(b.Class("Main"), "main", nil, ir.Type{})
	x := &ir.Var{Name: "x", Type: ir.Type{Kind: ir.KindInt}, Method: m}

	setConst := &ir.Assign{LHS: x, RHS: ir.IntLit{Value: 1}}
	branch := &ir.If{Cond: ir.BinExpr{Op: ir.OpEq, X: ir.VarRef{Var: x}, Y: ir.IntLit{Value: 1}}}
	thenStmt := &ir.Nop{}
	elseStmt := &ir.Nop{}
	ret := &ir.Return{}
	m.Stmts = []ir.Stmt{setConst, branch, thenStmt, elseStmt, ret}
	m.Finish()

	cb := toyir.NewCFG(m)
	cb.SetSuccs(branch, thenStmt, elseStmt)
	cb.SetSuccs(thenStmt, ret)
	cb.SetSuccs(elseStmt, ret)
	cfg := cb.Build()

	facts := cp.Solve(cfg)
	liveness := deadcode.AnalyzeLiveness(cfg)
	findings := deadcode.Analyze(cfg, facts, liveness)

	var got []deadcode.Reason
	for _, f := range findings {
		if f.Stmt == elseStmt {
			got = append(got, f.Reason)
		}
	}
	if len(got) != 1 || got[0] != deadcode.UnreachableBranch {
		t.Fatalf("elseStmt findings = %v, want exactly one UnreachableBranch", got)
	}
}

func TestAnalyzeDeadAssignment(t *testing.T) {
	b := toyir.NewBuilder()
	m := b.Method(b.Class("Main"), "main", nil, ir.Type{})
	x := &ir.Var{Name: "x", Type: ir.Type{Kind: ir.KindInt}, Method: m}
	y := &ir.Var{Name: "y", Type: ir.Type{Kind: ir.KindInt}, Method: m}

	deadAssign := &ir.Assign{LHS: x, RHS: ir.IntLit{Value: 5}}
	useY := &ir.Assign{LHS: y, RHS: ir.VarRef{Var: y}}
	m.Stmts = []ir.Stmt{deadAssign, useY, &ir.Return{Value: y}}
	m.Finish()

	cfg := toyir.NewCFG(m).Build()
	facts := cp.Solve(cfg)
	liveness := deadcode.AnalyzeLiveness(cfg)
	findings := deadcode.Analyze(cfg, facts, liveness)

	found := false
	for _, f := range findings {
		if f.Stmt == deadAssign && f.Reason == deadcode.DeadAssignment {
			found = true
		}
	}
	if !found {
		t.Fatalf("findings = %+v, want a DeadAssignment finding for deadAssign", findings)
	}
}
