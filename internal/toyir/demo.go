package toyir

import (
	"github.com/aclements/staticauditor/ir"
	"github.com/aclements/staticauditor/taint"
)

// Demo bundles an entry method with the collaborators it needs to run
// the whole pipeline: the class hierarchy and heap model PTA needs,
// and, for demos that exercise the taint pipeline, a ready-made
// taint.Config. It exists purely to drive cmd/staticauditor and the
// package tests without a real front end, standing in for the IR a
// parser would otherwise hand the engine.
type Demo struct {
	Name        string
	Entry       *ir.Method
	Hierarchy   ir.ClassHierarchy
	Heap        ir.HeapModel
	TaintConfig *taint.Config // nil unless the demo exercises taint
}

// CFGFor builds m's CFG the way every demo and test in this
// repository does: a straight-line fallthrough CFG via CFGBuilder,
// with Return statements wired to the synthetic exit node.
func CFGFor(m *ir.Method) ir.CFG { return NewCFG(m).Build() }

// Demos lists every built-in demo by name, for cmd/staticauditor's
// -demo flag.
var Demos = map[string]func() *Demo{
	"merge": BuildMergeDemo,
	"alias": BuildAliasDemo,
	"taint": BuildTaintDemo,
}

// BuildMergeDemo builds a program where two allocations of sibling
// subclasses B and C merge into a single variable x at a virtual
// call to x.m(), fanning the call out to both overriders and forcing
// the result to NAC.
func BuildMergeDemo() *Demo {
	b := NewBuilder()
	a := b.Class("A")
	a.IsAbstract = true
	mDecl := b.Method(a, "m", nil, ir.Type{Kind: ir.KindInt})
	mDecl.IsAbstract = true

	classB := b.Class("B")
	classB.Super = a
	mB := b.Method(classB, "m", nil, ir.Type{Kind: ir.KindInt})
	retB := &ir.Var{Name: "r", Type: ir.Type{Kind: ir.KindInt}, Method: mB}
	mB.Stmts = []ir.Stmt{&ir.Assign{LHS: retB, RHS: ir.IntLit{Value: 1}}, &ir.Return{Value: retB}}
	mB.Finish()

	classC := b.Class("C")
	classC.Super = a
	mC := b.Method(classC, "m", nil, ir.Type{Kind: ir.KindInt})
	retC := &ir.Var{Name: "r", Type: ir.Type{Kind: ir.KindInt}, Method: mC}
	mC.Stmts = []ir.Stmt{&ir.Assign{LHS: retC, RHS: ir.IntLit{Value: 2}}, &ir.Return{Value: retC}}
	mC.Finish()

	main := b.Method(b.Class("Main"), "main", nil, ir.Type{})
	nb := &ir.Var{Name: "nb", Type: ir.Type{Class: classB}, Method: main}
	nc := &ir.Var{Name: "nc", Type: ir.Type{Class: classC}, Method: main}
	x := &ir.Var{Name: "x", Type: ir.Type{Class: a}, Method: main}
	r := &ir.Var{Name: "r", Type: ir.Type{Kind: ir.KindInt}, Method: main}

	newB := &ir.New{LHS: nb, Type: classB}
	newC := &ir.New{LHS: nc, Type: classC}
	copyB := &ir.Copy{LHS: x, RHS: nb}
	copyC := &ir.Copy{LHS: x, RHS: nc}
	call := &ir.Invoke{LHS: r, Base: x, Kind: ir.CallVirtual, Callee: mDecl, Sig: mDecl.Subsignature()}
	main.Stmts = []ir.Stmt{newB, newC, copyB, copyC, call, &ir.Return{}}
	main.Finish()

	return &Demo{Name: "merge", Entry: main, Hierarchy: b.Hierarchy(), Heap: b.HeapModel()}
}

// BuildAliasDemo builds a program where a1 and a2 alias the same
// allocation, a store through a1.f is visible reading through a2.f,
// and a divide by a constant zero with a NAC dividend resolves to
// UNDEF rather than propagating NAC.
func BuildAliasDemo() *Demo {
	b := NewBuilder()
	boxClass := b.Class("Box")
	f := &ir.Field{Name: "f", Type: ir.Type{Kind: ir.KindInt}}
	boxClass.AddField(f)

	readMethod := b.Method(b.Class("Input"), "read", nil, ir.Type{Kind: ir.KindInt})
	readMethod.Finish()

	main := b.Method(b.Class("Main"), "main", nil, ir.Type{})
	a1 := &ir.Var{Name: "a1", Type: ir.Type{Class: boxClass}, Method: main}
	a2 := &ir.Var{Name: "a2", Type: ir.Type{Class: boxClass}, Method: main}
	seven := &ir.Var{Name: "seven", Type: ir.Type{Kind: ir.KindInt}, Method: main}
	v := &ir.Var{Name: "v", Type: ir.Type{Kind: ir.KindInt}, Method: main}
	av := &ir.Var{Name: "a", Type: ir.Type{Kind: ir.KindInt}, Method: main}
	bv := &ir.Var{Name: "b", Type: ir.Type{Kind: ir.KindInt}, Method: main}

	newBox := &ir.New{LHS: a1, Type: boxClass}
	aliasA2 := &ir.Copy{LHS: a2, RHS: a1}
	setSeven := &ir.Assign{LHS: seven, RHS: ir.IntLit{Value: 7}}
	store := &ir.InstanceStore{Base: a1, Field: f, RHS: seven}
	load := &ir.InstanceLoad{LHS: v, Base: a2, Field: f}
	readA := &ir.Invoke{LHS: av, Kind: ir.CallStatic, Callee: readMethod}
	divZero := &ir.Assign{LHS: bv, RHS: ir.BinExpr{Op: ir.OpDiv, X: ir.VarRef{Var: av}, Y: ir.IntLit{Value: 0}}}

	main.Stmts = []ir.Stmt{newBox, aliasA2, setSeven, store, load, readA, divZero, &ir.Return{}}
	main.Finish()

	return &Demo{Name: "alias", Entry: main, Hierarchy: b.Hierarchy(), Heap: b.HeapModel()}
}

// BuildTaintDemo builds a program where a tainted value flows from a
// source call, through an argument-to-result transfer, into a sink's
// argument.
func BuildTaintDemo() *Demo {
	b := NewBuilder()
	lib := b.Class("Lib")
	objClass := b.Class("Obj")

	getSecret := b.Method(lib, "getSecret", nil, ir.Type{Class: objClass})
	getSecret.Finish()
	wrap := b.Method(lib, "wrap", []ir.Type{{Class: objClass}}, ir.Type{Class: objClass})
	wrap.Finish()
	logM := b.Method(lib, "log", []ir.Type{{Class: objClass}}, ir.Type{})
	logM.Finish()

	main := b.Method(b.Class("Main"), "main", nil, ir.Type{})
	x := &ir.Var{Name: "x", Type: ir.Type{Class: objClass}, Method: main}
	y := &ir.Var{Name: "y", Type: ir.Type{Class: objClass}, Method: main}
	callSecret := &ir.Invoke{LHS: x, Kind: ir.CallStatic, Callee: getSecret}
	callWrap := &ir.Invoke{LHS: y, Kind: ir.CallStatic, Callee: wrap, Args: []*ir.Var{x}}
	callLog := &ir.Invoke{Kind: ir.CallStatic, Callee: logM, Args: []*ir.Var{y}}
	main.Stmts = []ir.Stmt{callSecret, callWrap, callLog, &ir.Return{}}
	main.Finish()

	cfg := &taint.Config{
		Sources:   []taint.SourceConfig{{Method: getSecret.String(), Type: "SECRET"}},
		Transfers: []taint.TransferConfig{{Method: wrap.String(), From: 0, To: taint.ArgResult, Type: "SECRET"}},
		Sinks:     []taint.SinkConfig{{Method: logM.String(), Index: 0}},
	}

	return &Demo{Name: "taint", Entry: main, Hierarchy: b.Hierarchy(), Heap: b.HeapModel(), TaintConfig: cfg}
}
