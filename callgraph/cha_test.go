package callgraph_test

import (
	"testing"

	"github.com/aclements/staticauditor/callgraph"
	"github.com/aclements/staticauditor/internal/toyir"
	"github.com/aclements/staticauditor/ir"
)

// buildDiamond builds: A (abstract m()), B extends A (m()), C extends
// A (m()); entry calls x.m() virtually where x's static type is A.
func buildDiamond(b *toyir.Builder) (*ir.Method, *ir.Invoke) {
	a := b.Class("A")
	a.IsAbstract = true
	mAbstract := b.Method(a, "m", nil, ir.Type{Kind: ir.KindInt})
	mAbstract.IsAbstract = true

	bClass := b.Class("B")
	bClass.Super = a
	mB := b.Method(bClass, "m", nil, ir.Type{Kind: ir.KindInt})
	mB.Stmts = []ir.Stmt{&ir.Return{Value: nil}}
	mB.Finish()

	cClass := b.Class("C")
	cClass.Super = a
	mC := b.Method(cClass, "m", nil, ir.Type{Kind: ir.KindInt})
	mC.Stmts = []ir.Stmt{&ir.Return{Value: nil}}
	mC.Finish()

	entry := b.Method(b.Class("Main"), "main", nil, ir.Type{})
	x := &ir.Var{Name: "x", Type: ir.Type{Class: a}, Method: entry}
	inv := &ir.Invoke{Kind: ir.CallVirtual, Base: x, Callee: mAbstract, Sig: mAbstract.Subsignature()}
	entry.Stmts = []ir.Stmt{inv, &ir.Return{}}
	entry.Finish()

	return entry, inv
}

func TestCHAVirtualFanOut(t *testing.T) {
	b := toyir.NewBuilder()
	entry, inv := buildDiamond(b)
	g := callgraph.BuildCHA(b.Hierarchy(), entry)

	var callees []string
	for _, e := range g.OutEdges(entry) {
		if e.Site == inv {
			callees = append(callees, e.Callee.String())
		}
	}
	if len(callees) != 2 {
		t.Fatalf("expected 2 call edges for virtual call over abstract method, got %d: %v", len(callees), callees)
	}
}

func TestCHAAbstractWithNoImplementors(t *testing.T) {
	b := toyir.NewBuilder()
	a := b.Class("A")
	a.IsAbstract = true
	mAbstract := b.Method(a, "m", nil, ir.Type{})
	mAbstract.IsAbstract = true

	entry := b.Method(b.Class("Main"), "main", nil, ir.Type{})
	x := &ir.Var{Name: "x", Type: ir.Type{Class: a}, Method: entry}
	inv := &ir.Invoke{Kind: ir.CallVirtual, Base: x, Callee: mAbstract, Sig: mAbstract.Subsignature()}
	entry.Stmts = []ir.Stmt{inv, &ir.Return{}}
	entry.Finish()

	g := callgraph.BuildCHA(b.Hierarchy(), entry)
	if len(g.OutEdges(entry)) != 0 {
		t.Fatalf("dispatch miss over an abstract method with no implementors must be silently skipped, got %v", g.OutEdges(entry))
	}
}
