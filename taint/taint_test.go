package taint_test

import (
	"testing"

	"github.com/aclements/staticauditor/internal/toyir"
	"github.com/aclements/staticauditor/ir"
	"github.com/aclements/staticauditor/pta"
	"github.com/aclements/staticauditor/taint"
)

// TestPipelineFindsSourceToSinkThroughTransfer builds
// main() { t = getTainted(); w = wrap(t); sink(w) } with getTainted as
// a source, wrap as an argument(0)->result transfer, and sink's
// argument 0 as a sink, and checks exactly one flow is reported.
func TestPipelineFindsSourceToSinkThroughTransfer(t *testing.T) {
	b := toyir.NewBuilder()
	lib := b.Class("Lib")
	obj := b.Class("Obj")

	getTainted := b.Method(lib, "getTainted", nil, ir.Type{Class: obj})
	getTainted.Finish()
	wrap := b.Method(lib, "wrap", []ir.Type{{Class: obj}}, ir.Type{Class: obj})
	wrap.Finish()
	sinkM := b.Method(lib, "sink", []ir.Type{{Class: obj}}, ir.Type{})
	sinkM.Finish()

	main := b.Method(b.Class("Main"), "main", nil, ir.Type{})
	tv := &ir.Var{Name: "t", Type: ir.Type{Class: obj}, Method: main}
	w := &ir.Var{Name: "w", Type: ir.Type{Class: obj}, Method: main}
	call1 := &ir.Invoke{LHS: tv, Kind: ir.CallStatic, Callee: getTainted}
	call2 := &ir.Invoke{LHS: w, Kind: ir.CallStatic, Callee: wrap, Args: []*ir.Var{tv}}
	call3 := &ir.Invoke{Kind: ir.CallStatic, Callee: sinkM, Args: []*ir.Var{w}}
	main.Stmts = []ir.Stmt{call1, call2, call3, &ir.Return{}}
	main.Finish()

	cfg := &taint.Config{
		Sources: []taint.SourceConfig{{Method: getTainted.String(), Type: "TAINTED"}},
		Transfers: []taint.TransferConfig{
			{Method: wrap.String(), From: 0, To: taint.ArgResult, Type: "TAINTED"},
		},
		Sinks: []taint.SinkConfig{{Method: sinkM.String(), Index: 0}},
	}

	solver := pta.NewSolver(pta.NewCallStringSelector(1), b.Hierarchy(), b.HeapModel())
	pipeline := taint.NewPipeline(solver, cfg)
	solver.Solve(main)

	if len(pipeline.Flows) != 1 {
		t.Fatalf("expected 1 taint flow, got %d: %+v", len(pipeline.Flows), pipeline.Flows)
	}
	flow := pipeline.Flows[0]
	if flow.SourceSite != call1 || flow.SinkSite != call3 || flow.ArgIndex != 0 || flow.SourceType != "TAINTED" {
		t.Fatalf("unexpected flow: %+v", flow)
	}
}

// TestPipelineNoFlowWithoutTransfer checks that without a configured
// transfer rule, wrap's argument taint does not silently reach its
// result — the call's own (empty) body is all that would propagate it.
func TestPipelineNoFlowWithoutTransfer(t *testing.T) {
	b := toyir.NewBuilder()
	lib := b.Class("Lib")
	obj := b.Class("Obj")

	getTainted := b.Method(lib, "getTainted", nil, ir.Type{Class: obj})
	getTainted.Finish()
	wrap := b.Method(lib, "wrap", []ir.Type{{Class: obj}}, ir.Type{Class: obj})
	wrap.Finish()
	sinkM := b.Method(lib, "sink", []ir.Type{{Class: obj}}, ir.Type{})
	sinkM.Finish()

	main := b.Method(b.Class("Main"), "main", nil, ir.Type{})
	tv := &ir.Var{Name: "t", Type: ir.Type{Class: obj}, Method: main}
	w := &ir.Var{Name: "w", Type: ir.Type{Class: obj}, Method: main}
	call1 := &ir.Invoke{LHS: tv, Kind: ir.CallStatic, Callee: getTainted}
	call2 := &ir.Invoke{LHS: w, Kind: ir.CallStatic, Callee: wrap, Args: []*ir.Var{tv}}
	call3 := &ir.Invoke{Kind: ir.CallStatic, Callee: sinkM, Args: []*ir.Var{w}}
	main.Stmts = []ir.Stmt{call1, call2, call3, &ir.Return{}}
	main.Finish()

	cfg := &taint.Config{
		Sources: []taint.SourceConfig{{Method: getTainted.String(), Type: "TAINTED"}},
		Sinks:   []taint.SinkConfig{{Method: sinkM.String(), Index: 0}},
	}

	solver := pta.NewSolver(pta.NewCallStringSelector(1), b.Hierarchy(), b.HeapModel())
	pipeline := taint.NewPipeline(solver, cfg)
	solver.Solve(main)

	if len(pipeline.Flows) != 0 {
		t.Fatalf("expected no taint flows without a transfer rule, got %+v", pipeline.Flows)
	}
}
