package pta

import "github.com/aclements/staticauditor/ir"

// CSManager hash-conses every canonicalized entity the solver touches
// — CSObj, Pointer (in its four variants), CSMethod, and CSCallSite —
// so that equality throughout the solver is always pointer identity.
// It is the one mutable piece of shared state the CI
// and CS solvers both thread explicitly rather than reach for as a
// global.
type CSManager struct {
	objs     map[objKey]*CSObj
	objIndex []*CSObj
	nextObj  int

	varPtrs     map[varKey]*Pointer
	varPtrsOf   map[*ir.Var][]*Pointer
	instFields  map[instFieldKey]*Pointer
	arrayIdx    map[*CSObj]*Pointer
	staticField map[*ir.Field]*Pointer

	methods   map[methodKey]*CSMethod
	callsites map[siteKey]*CSCallSite
}

type objKey struct {
	ctx Context
	obj *ir.Obj
}
type varKey struct {
	ctx Context
	v   *ir.Var
}
type instFieldKey struct {
	obj *CSObj
	f   *ir.Field
}
type methodKey struct {
	ctx Context
	m   *ir.Method
}
type siteKey struct {
	ctx  Context
	site *ir.Invoke
}

func NewCSManager() *CSManager {
	return &CSManager{
		objs:        map[objKey]*CSObj{},
		varPtrs:     map[varKey]*Pointer{},
		instFields:  map[instFieldKey]*Pointer{},
		arrayIdx:    map[*CSObj]*Pointer{},
		staticField: map[*ir.Field]*Pointer{},
		methods:     map[methodKey]*CSMethod{},
		callsites:   map[siteKey]*CSCallSite{},
	}
}

// CSObjOf canonicalizes (ctx, obj).
func (m *CSManager) CSObjOf(ctx Context, obj *ir.Obj) *CSObj {
	k := objKey{ctx, obj}
	if o, ok := m.objs[k]; ok {
		return o
	}
	o := &CSObj{Context: ctx, Obj: obj, id: m.nextObj}
	m.nextObj++
	m.objs[k] = o
	m.objIndex = append(m.objIndex, o)
	return o
}

func (m *CSManager) objByID(id int) *CSObj {
	// Linear scan is avoided by keeping a parallel slice; objs map
	// iteration order is not guaranteed, so maintain an index.
	return m.objIndex[id]
}

// VarPtr canonicalizes the VarPtr(ctx, v) node.
func (m *CSManager) VarPtr(ctx Context, v *ir.Var) *Pointer {
	k := varKey{ctx, v}
	if p, ok := m.varPtrs[k]; ok {
		return p
	}
	p := &Pointer{kind: kindVar, ctx: ctx, v: v}
	m.varPtrs[k] = p
	if m.varPtrsOf == nil {
		m.varPtrsOf = map[*ir.Var][]*Pointer{}
	}
	m.varPtrsOf[v] = append(m.varPtrsOf[v], p)
	return p
}

// VarPtrsOf returns every CS-qualified VarPtr created so far for v,
// across all contexts it has been analyzed in.
func (m *CSManager) VarPtrsOf(v *ir.Var) []*Pointer { return m.varPtrsOf[v] }

// InstanceFieldPtr canonicalizes the InstanceFieldPtr(obj, f) node.
func (m *CSManager) InstanceFieldPtr(obj *CSObj, f *ir.Field) *Pointer {
	k := instFieldKey{obj, f}
	if p, ok := m.instFields[k]; ok {
		return p
	}
	p := &Pointer{kind: kindInstanceField, obj: obj, f: f}
	m.instFields[k] = p
	return p
}

// ArrayIndexPtr canonicalizes the single abstract ArrayIndexPtr(obj)
// node shared by every index of obj.
func (m *CSManager) ArrayIndexPtr(obj *CSObj) *Pointer {
	if p, ok := m.arrayIdx[obj]; ok {
		return p
	}
	p := &Pointer{kind: kindArrayIndex, obj: obj}
	m.arrayIdx[obj] = p
	return p
}

// StaticFieldPtr canonicalizes the StaticFieldPtr(f) node.
func (m *CSManager) StaticFieldPtr(f *ir.Field) *Pointer {
	if p, ok := m.staticField[f]; ok {
		return p
	}
	p := &Pointer{kind: kindStaticField, f: f}
	m.staticField[f] = p
	return p
}

// CSMethodOf canonicalizes (ctx, method).
func (m *CSManager) CSMethodOf(ctx Context, method *ir.Method) *CSMethod {
	k := methodKey{ctx, method}
	if cm, ok := m.methods[k]; ok {
		return cm
	}
	cm := &CSMethod{Context: ctx, Method: method}
	m.methods[k] = cm
	return cm
}

// CSCallSiteOf canonicalizes (ctx, site).
func (m *CSManager) CSCallSiteOf(ctx Context, site *ir.Invoke) *CSCallSite {
	k := siteKey{ctx, site}
	if cs, ok := m.callsites[k]; ok {
		return cs
	}
	cs := &CSCallSite{Context: ctx, Site: site}
	m.callsites[k] = cs
	return cs
}
