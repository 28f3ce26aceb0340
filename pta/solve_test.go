package pta_test

import (
	"testing"

	"github.com/aclements/staticauditor/internal/toyir"
	"github.com/aclements/staticauditor/ir"
	"github.com/aclements/staticauditor/pta"
)

// buildMerge builds: A (abstract m()), Sub1 extends A (m()), Sub2
// extends A (m()); entry allocates one of each, copies both into a
// single variable z (so pts(z) merges both allocations, as two
// branches of an if would in a real front end), then calls z.m()
// virtually. This exercises virtual-call dispatch over a merged
// points-to set: two allocations merging
// at a virtual call site, fanning out to both overriders.
func buildMerge(b *toyir.Builder) (entry *ir.Method, newSub1, newSub2 *ir.New, call *ir.Invoke) {
	a := b.Class("A")
	a.IsAbstract = true
	mAbstract := b.Method(a, "m", nil, ir.Type{Kind: ir.KindInt})
	mAbstract.IsAbstract = true

	sub1 := b.Class("Sub1")
	sub1.Super = a
	m1 := b.Method(sub1, "m", nil, ir.Type{Kind: ir.KindInt})
	m1.Stmts = []ir.Stmt{&ir.Return{Value: nil}}
	m1.Finish()

	sub2 := b.Class("Sub2")
	sub2.Super = a
	m2 := b.Method(sub2, "m", nil, ir.Type{Kind: ir.KindInt})
	m2.Stmts = []ir.Stmt{&ir.Return{Value: nil}}
	m2.Finish()

	entry = b.Method(b.Class("Main"), "main", nil, ir.Type{})
	n1 := &ir.Var{Name: "n1", Type: ir.Type{Class: sub1}, Method: entry}
	n2 := &ir.Var{Name: "n2", Type: ir.Type{Class: sub2}, Method: entry}
	z := &ir.Var{Name: "z", Type: ir.Type{Class: a}, Method: entry}

	newSub1 = &ir.New{LHS: n1, Type: sub1}
	newSub2 = &ir.New{LHS: n2, Type: sub2}
	copy1 := &ir.Copy{LHS: z, RHS: n1}
	copy2 := &ir.Copy{LHS: z, RHS: n2}
	call = &ir.Invoke{Base: z, Kind: ir.CallVirtual, Callee: mAbstract, Sig: mAbstract.Subsignature()}

	entry.Stmts = []ir.Stmt{newSub1, newSub2, copy1, copy2, call, &ir.Return{}}
	entry.Finish()
	return entry, newSub1, newSub2, call
}

func TestSolveCIMergeFansOutToBothOverriders(t *testing.T) {
	b := toyir.NewBuilder()
	entry, _, _, call := buildMerge(b)

	result := pta.SolveCI(b.Hierarchy(), b.HeapModel(), entry)

	pts := result.PointsTo(pta.EmptyContext, call.Base)
	if len(pts) != 2 {
		t.Fatalf("expected z to point to 2 objects after the merge, got %d: %v", len(pts), pts)
	}

	var calleeNames []string
	for _, e := range result.CallGraphEdges() {
		if e.Site.Site == call {
			calleeNames = append(calleeNames, e.Callee.Method.String())
		}
	}
	if len(calleeNames) != 2 {
		t.Fatalf("expected the virtual call to fan out to both overriders, got %d: %v", len(calleeNames), calleeNames)
	}
}

func TestSolveCIReachesBothOverriderBodies(t *testing.T) {
	b := toyir.NewBuilder()
	entry, _, _, _ := buildMerge(b)

	result := pta.SolveCI(b.Hierarchy(), b.HeapModel(), entry)

	reachableNames := map[string]bool{}
	for _, m := range result.ReachableMethods() {
		reachableNames[m.Method.String()] = true
	}
	if !reachableNames["Sub1.m()"] || !reachableNames["Sub2.m()"] {
		t.Fatalf("expected both Sub1.m and Sub2.m reachable, got %v", reachableNames)
	}
}

// TestSolveCSSeparatesAllocationsByCallString exercises the
// context-sensitive selector: a helper method "id" that simply copies
// its parameter to its return value, called twice from distinct call
// sites with distinct allocations, must not merge the two allocations
// in a 1-call-site-sensitive analysis, even though they would merge
// under SolveCI.
func TestSolveCSSeparatesAllocationsByCallString(t *testing.T) {
	b := toyir.NewBuilder()
	helperClass := b.Class("Helper")
	obj := b.Class("Obj")

	id := b.Method(helperClass, "id", []ir.Type{{Class: obj}}, ir.Type{Class: obj})
	id.Stmts = []ir.Stmt{&ir.Return{Value: id.Params[0]}}
	id.Finish()

	entry := b.Method(b.Class("Main"), "main", nil, ir.Type{})
	n1 := &ir.Var{Name: "n1", Type: ir.Type{Class: obj}, Method: entry}
	n2 := &ir.Var{Name: "n2", Type: ir.Type{Class: obj}, Method: entry}
	r1 := &ir.Var{Name: "r1", Type: ir.Type{Class: obj}, Method: entry}
	r2 := &ir.Var{Name: "r2", Type: ir.Type{Class: obj}, Method: entry}

	newN1 := &ir.New{LHS: n1, Type: obj}
	newN2 := &ir.New{LHS: n2, Type: obj}
	call1 := &ir.Invoke{LHS: r1, Kind: ir.CallStatic, Callee: id, Args: []*ir.Var{n1}}
	call2 := &ir.Invoke{LHS: r2, Kind: ir.CallStatic, Callee: id, Args: []*ir.Var{n2}}

	entry.Stmts = []ir.Stmt{newN1, newN2, call1, call2, &ir.Return{}}
	entry.Finish()

	ciResult := pta.SolveCI(b.Hierarchy(), b.HeapModel(), entry)
	if len(ciResult.PointsToMerged(id.Params[0])) != 2 {
		t.Fatalf("CI analysis should merge both allocations into id's parameter")
	}

	csResult := pta.SolveCS(1, b.Hierarchy(), b.HeapModel(), entry)
	if len(csResult.PointsToMerged(id.Params[0])) != 2 {
		t.Fatalf("1-call-site-sensitive analysis should still see both allocations across id's two contexts combined")
	}
	if len(csResult.PointsToMerged(r1)) != 1 || len(csResult.PointsToMerged(r2)) != 1 {
		t.Fatalf("context sensitivity should keep r1 and r2 each pointing to exactly one allocation, got r1=%v r2=%v",
			csResult.PointsToMerged(r1), csResult.PointsToMerged(r2))
	}
}
