package pta

import (
	"fmt"

	"github.com/aclements/staticauditor/callgraph"
	"github.com/aclements/staticauditor/ir"
)

// Solver runs the pointer-analysis fixed-point algorithm. The CI and CS
// analyses are the same Solver, differing only in the ContextSelector:
// CI plugs in CIContextSelector (a one-element context universe) and
// CS plugs in a real policy such as NewCallStringSelector.
type Solver struct {
	Mgr  *CSManager
	PFG  *PFG
	CG   *CallGraph
	Sel  ContextSelector
	CH   ir.ClassHierarchy
	Heap ir.HeapModel

	wl worklist

	// OnCallProcessed, if set, is invoked once per resolved callee each
	// time a call site's receiver gains a new points-to object (or,
	// for static calls, once when the call's method becomes
	// reachable). The taint package hooks this to co-iterate
	// source/transfer/sink rules without pta depending on taint.
	OnCallProcessed func(site *CSCallSite, caller *CSMethod, recv *CSObj, callee *CSMethod)

	// OnVarPtrGrow, if set, is invoked with the newly added members
	// whenever a VarPtr's points-to set grows.
	OnVarPtrGrow func(ctx Context, v *ir.Var, delta *PointsToSet)
}

// NewSolver constructs a Solver ready to analyze from some entry
// method: a context-sensitivity policy, a class hierarchy, and a heap
// abstraction.
func NewSolver(sel ContextSelector, ch ir.ClassHierarchy, heap ir.HeapModel) *Solver {
	return &Solver{
		Mgr:  NewCSManager(),
		PFG:  NewPFG(),
		CG:   NewCallGraph(),
		Sel:  sel,
		CH:   ch,
		Heap: heap,
	}
}

// Solve runs the analysis to a fixed point starting from entry in the
// empty context, and returns the result.
func (s *Solver) Solve(entry *ir.Method) *Result {
	entryCS := s.Mgr.CSMethodOf(s.Sel.EmptyContext(), entry)
	s.addReachable(entryCS)
	s.drain()
	return newResult(s)
}

// addReachable marks csMethod reachable, if it is not already, and
// visits every statement in its body exactly once. New, Copy,
// static-field, and static-call rules take
// effect immediately; non-static field/array statements and dynamic
// calls are deliberately left for processVarDelta, once the relevant
// receiver variable's points-to set actually gains an object.
func (s *Solver) addReachable(csMethod *CSMethod) {
	if !s.CG.AddReachableMethod(csMethod) {
		return
	}
	ctx := csMethod.Context
	for _, stmt := range csMethod.Method.Stmts {
		switch st := stmt.(type) {
		case *ir.New:
			obj := s.Heap.CanonicalObj(st)
			heapCtx := s.Sel.SelectHeapContext(csMethod, obj)
			csObj := s.Mgr.CSObjOf(heapCtx, obj)
			vp := s.Mgr.VarPtr(ctx, st.LHS)
			s.enqueue(vp, NewPointsToSet(s.Mgr, csObj))
		case *ir.Copy:
			s.addPFGEdge(s.Mgr.VarPtr(ctx, st.RHS), s.Mgr.VarPtr(ctx, st.LHS))
		case *ir.StaticStore:
			s.addPFGEdge(s.Mgr.VarPtr(ctx, st.RHS), s.Mgr.StaticFieldPtr(st.Field))
		case *ir.StaticLoad:
			s.addPFGEdge(s.Mgr.StaticFieldPtr(st.Field), s.Mgr.VarPtr(ctx, st.LHS))
		case *ir.Invoke:
			if st.Kind == ir.CallStatic {
				s.processCall(csMethod, st, nil)
			}
			// CallSpecial/CallVirtual/CallInterface: deferred, driven
			// by Base's points-to growth via InvokesOn.
		}
	}
}

// enqueue pushes delta for ptr, skipping the no-op of an empty delta.
func (s *Solver) enqueue(ptr *Pointer, delta PointsToSet) {
	s.wl.push(ptr, delta)
}

// addPFGEdge adds source -> target to the PFG and, if the edge is new
// and source already has a non-empty points-to set, enqueues that set
// onto target.
func (s *Solver) addPFGEdge(source, target *Pointer) {
	if !s.PFG.AddEdge(source, target) {
		return
	}
	if !source.pts.IsEmpty() {
		s.enqueue(target, source.pts.Snapshot())
	}
}

// AddFlowEdge adds a PFG edge from source to target, flushing
// source's current points-to set onto target if the edge is new and
// non-empty. Exported so a co-iterating pipeline (see package taint)
// can wire flow relationships the ordinary call/field/array rules
// don't model — e.g. a configured taint transfer rule linking an
// opaque library call's argument directly to its result.
func (s *Solver) AddFlowEdge(source, target *Pointer) { s.addPFGEdge(source, target) }

// Seed enqueues objs directly onto ptr's points-to set, as if they had
// just been allocated there. Exported for package taint to inject a
// synthetic taint object at a source call's result pointer.
func (s *Solver) Seed(ptr *Pointer, objs ...*CSObj) {
	s.enqueue(ptr, NewPointsToSet(s.Mgr, objs...))
}

// drain runs the main worklist loop until fixed point.
func (s *Solver) drain() {
	for !s.wl.empty() {
		e := s.wl.pop()
		ptr := e.ptr

		actual := e.delta.Difference(&ptr.pts)
		if actual.IsEmpty() {
			continue
		}
		ptr.pts.UnionWith(&actual)

		for _, succ := range s.PFG.SuccsOf(ptr) {
			s.enqueue(succ, actual.Snapshot())
		}

		if ctx, v, ok := ptr.AsVarPtr(); ok {
			s.processVarDelta(ctx, v, &actual)
		}
	}
}

// processVarDelta wires, for each object newly added to
// VarPtr(ctx, v), the field-store, field-load,
// array-store, array-load, and invoke-on-v statements against it.
func (s *Solver) processVarDelta(ctx Context, v *ir.Var, delta *PointsToSet) {
	m := v.Method
	csMethod := s.Mgr.CSMethodOf(ctx, m)
	delta.Each(func(csObj *CSObj) {
		for _, st := range m.StoresTo(v) {
			s.addPFGEdge(s.Mgr.VarPtr(ctx, st.RHS), s.Mgr.InstanceFieldPtr(csObj, st.Field))
		}
		for _, st := range m.LoadsFrom(v) {
			s.addPFGEdge(s.Mgr.InstanceFieldPtr(csObj, st.Field), s.Mgr.VarPtr(ctx, st.LHS))
		}
		for _, st := range m.ArrayStoresTo(v) {
			s.addPFGEdge(s.Mgr.VarPtr(ctx, st.RHS), s.Mgr.ArrayIndexPtr(csObj))
		}
		for _, st := range m.ArrayLoadsFrom(v) {
			s.addPFGEdge(s.Mgr.ArrayIndexPtr(csObj), s.Mgr.VarPtr(ctx, st.LHS))
		}
		for _, st := range m.InvokesOn(v) {
			s.processCall(csMethod, st, csObj)
		}
	})
	if s.OnVarPtrGrow != nil {
		s.OnVarPtrGrow(ctx, v, delta)
	}
}

// processCall resolves site's callee(s) and wires the call into the
// call graph and PFG. recv is nil for a static call; otherwise it is
// the single heap object that just entered the receiver variable's
// points-to set, and dispatch uses recv.Obj.Type rather than
// enumerating every subtype of the declared receiver class — the
// on-the-fly variant of callgraph.Resolve.
func (s *Solver) processCall(callerCS *CSMethod, site *ir.Invoke, recv *CSObj) {
	ctx := callerCS.Context
	var dynType *ir.Class
	if recv != nil {
		dynType = recv.Obj.Type.Class
	}
	csSite := s.Mgr.CSCallSiteOf(ctx, site)

	for _, callee := range callgraph.Resolve(s.CH, site, dynType) {
		if len(site.Args) != len(callee.Params) {
			panic(fmt.Sprintf("pta: arity mismatch calling %s: %d args, %d params",
				callee, len(site.Args), len(callee.Params)))
		}

		var calleeCtx Context
		if recv != nil {
			calleeCtx = s.Sel.SelectContextRecv(csSite, recv, callee)
		} else {
			calleeCtx = s.Sel.SelectContext(csSite, callee)
		}
		calleeCS := s.Mgr.CSMethodOf(calleeCtx, callee)

		if recv != nil && callee.This != nil {
			s.enqueue(s.Mgr.VarPtr(calleeCtx, callee.This), NewPointsToSet(s.Mgr, recv))
		}

		if s.CG.AddEdge(site.Kind, csSite, callerCS, calleeCS) {
			s.addReachable(calleeCS)
			for i, arg := range site.Args {
				s.addPFGEdge(s.Mgr.VarPtr(ctx, arg), s.Mgr.VarPtr(calleeCtx, callee.Params[i]))
			}
			if site.LHS != nil {
				for _, ret := range callee.Rets {
					s.addPFGEdge(s.Mgr.VarPtr(calleeCtx, ret), s.Mgr.VarPtr(ctx, site.LHS))
				}
			}
		}

		if s.OnCallProcessed != nil {
			s.OnCallProcessed(csSite, callerCS, recv, calleeCS)
		}
	}
}
