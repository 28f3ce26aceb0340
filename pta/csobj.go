package pta

import "github.com/aclements/staticauditor/ir"

// CSObj is a context-qualified heap object: a pair (heap context,
// Obj), canonical per (context, obj). id is its handle inside sparse
// points-to sets (see PointsToSet) — small, dense, and assigned once
// at creation by the CSManager, per the design note recommending
// integer handles over sparse bitsets for points-to sets.
type CSObj struct {
	Context Context
	Obj     *ir.Obj
	id      int
}

func (o *CSObj) String() string {
	if o.Context == EmptyContext {
		return o.Obj.String()
	}
	return o.Context.String() + ":" + o.Obj.String()
}

// CSMethod is a context-qualified method.
type CSMethod struct {
	Context Context
	Method  *ir.Method
}

func (m *CSMethod) String() string {
	if m.Context == EmptyContext {
		return m.Method.String()
	}
	return m.Context.String() + ":" + m.Method.String()
}

// CSCallSite is a context-qualified call site.
type CSCallSite struct {
	Context Context
	Site    *ir.Invoke
}

func (s *CSCallSite) String() string {
	if s.Context == EmptyContext {
		return "invoke"
	}
	return s.Context.String() + ":invoke"
}
