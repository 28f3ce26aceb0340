package pta

import "github.com/aclements/staticauditor/ir"

// pointerKind tags which of the four pointer variants a Pointer is.
type pointerKind int

const (
	kindVar pointerKind = iota
	kindInstanceField
	kindArrayIndex
	kindStaticField
)

// Pointer is one of the four canonicalized pointer-node variants:
// VarPtr, InstanceFieldPtr, ArrayIndexPtr, StaticFieldPtr.
// It is implemented as a single tagged struct rather than four
// interface implementations so the CSManager can canonicalize and
// store it uniformly; exhaustive callers switch on Kind().
//
// Each Pointer owns a mutable PointsToSet, grown monotonically by the
// solver. The CSManager guarantees at most one Pointer exists per
// identity (context+variable, object+field, object, or field).
type Pointer struct {
	kind pointerKind

	ctx Context    // kindVar
	v   *ir.Var    // kindVar
	obj *CSObj     // kindInstanceField, kindArrayIndex
	f   *ir.Field  // kindInstanceField, kindStaticField

	pts PointsToSet
}

func (p *Pointer) Kind() string {
	switch p.kind {
	case kindVar:
		return "var"
	case kindInstanceField:
		return "instancefield"
	case kindArrayIndex:
		return "arrayindex"
	case kindStaticField:
		return "staticfield"
	}
	return "?"
}

// AsVarPtr returns the (context, variable) pair if p is a VarPtr.
func (p *Pointer) AsVarPtr() (Context, *ir.Var, bool) {
	if p.kind != kindVar {
		return Context{}, nil, false
	}
	return p.ctx, p.v, true
}

// AsInstanceFieldPtr returns the (object, field) pair if p is an
// InstanceFieldPtr.
func (p *Pointer) AsInstanceFieldPtr() (*CSObj, *ir.Field, bool) {
	if p.kind != kindInstanceField {
		return nil, nil, false
	}
	return p.obj, p.f, true
}

// AsArrayIndexPtr returns the object if p is an ArrayIndexPtr.
func (p *Pointer) AsArrayIndexPtr() (*CSObj, bool) {
	if p.kind != kindArrayIndex {
		return nil, false
	}
	return p.obj, true
}

// AsStaticFieldPtr returns the field if p is a StaticFieldPtr.
func (p *Pointer) AsStaticFieldPtr() (*ir.Field, bool) {
	if p.kind != kindStaticField {
		return nil, false
	}
	return p.f, true
}

// PointsTo returns p's current points-to set. Do not mutate directly;
// use the solver's worklist discipline (PFG.addEdge / the main loop)
// so additions stay monotone and observably delta-consistent.
func (p *Pointer) PointsTo() *PointsToSet { return &p.pts }

func (p *Pointer) String() string {
	switch p.kind {
	case kindVar:
		return p.ctx.String() + ":" + p.v.String()
	case kindInstanceField:
		return p.obj.String() + "." + p.f.Name
	case kindArrayIndex:
		return p.obj.String() + "[*]"
	case kindStaticField:
		return p.f.String()
	}
	return "?"
}
