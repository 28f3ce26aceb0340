package icfg

import (
	"github.com/aclements/staticauditor/cp"
	"github.com/aclements/staticauditor/ir"
	"github.com/aclements/staticauditor/lattice"
	"github.com/aclements/staticauditor/pta"
)

// fieldKey identifies a (heap object, field) pair. obj is nil for a
// static field, which is keyed by field alone.
type fieldKey struct {
	obj   *ir.Obj
	field *ir.Field
}

// elemKey identifies a (heap object, index value) pair. lattice.Value
// is a small comparable struct, so it can sit directly in the map key
// without any extra encoding.
type elemKey struct {
	obj *ir.Obj
	idx lattice.Value
}

// AliasState holds the alias-aware field/array extension's global,
// points-to-indexed maps: a per-(object,field) constant and a
// per-(object,index) constant, plus the reverse points-to map and
// static-load index used to find which load statements a store might
// affect.
//
// It is built once from a context-insensitive pointer analysis result
// and then threaded through Solve, which mutates it as it processes
// store statements.
type AliasState struct {
	pts *pta.Result

	rPts        map[*ir.Obj][]*ir.Var
	staticLoads map[*ir.Field][]*ir.StaticLoad

	objFieldConst map[fieldKey]lattice.Value
	objElemConst  map[elemKey]lattice.Value
}

// NewAliasState builds an AliasState from ci, the result of a
// context-insensitive pointer analysis over the same program.
func NewAliasState(ci *pta.Result) *AliasState {
	a := &AliasState{
		pts:           ci,
		rPts:          map[*ir.Obj][]*ir.Var{},
		staticLoads:   map[*ir.Field][]*ir.StaticLoad{},
		objFieldConst: map[fieldKey]lattice.Value{},
		objElemConst:  map[elemKey]lattice.Value{},
	}

	seen := map[*ir.Obj]map[*ir.Var]bool{}
	for _, v := range ci.Vars() {
		for _, o := range ci.PointsToMerged(v) {
			if seen[o] == nil {
				seen[o] = map[*ir.Var]bool{}
			}
			if !seen[o][v] {
				seen[o][v] = true
				a.rPts[o] = append(a.rPts[o], v)
			}
		}
	}

	seenMethod := map[*ir.Method]bool{}
	for _, cm := range ci.ReachableMethods() {
		if seenMethod[cm.Method] {
			continue
		}
		seenMethod[cm.Method] = true
		for _, s := range cm.Method.Stmts {
			if sl, ok := s.(*ir.StaticLoad); ok {
				a.staticLoads[sl.Field] = append(a.staticLoads[sl.Field], sl)
			}
		}
	}
	return a
}

// instanceStore applies x.f = y, returning the load statements to
// re-enqueue because objFieldConst changed under them.
func (a *AliasState) instanceStore(st *ir.InstanceStore, in *lattice.CPFact) []ir.Stmt {
	y := in.Get(st.RHS)
	var extra []ir.Stmt
	for _, o := range a.pts.PointsToMerged(st.Base) {
		k := fieldKey{o, st.Field}
		prev := a.objFieldConst[k]
		next := lattice.Meet(prev, y)
		if next.Equal(prev) {
			continue
		}
		a.objFieldConst[k] = next
		for _, v := range a.rPts[o] {
			for _, ld := range v.Method.LoadsFrom(v) {
				if ld.Field == st.Field {
					extra = append(extra, ld)
				}
			}
		}
	}
	return extra
}

// staticStore applies T.f = y.
func (a *AliasState) staticStore(st *ir.StaticStore, in *lattice.CPFact) []ir.Stmt {
	y := in.Get(st.RHS)
	k := fieldKey{nil, st.Field}
	prev := a.objFieldConst[k]
	next := lattice.Meet(prev, y)
	if next.Equal(prev) {
		return nil
	}
	a.objFieldConst[k] = next
	var extra []ir.Stmt
	for _, ld := range a.staticLoads[st.Field] {
		extra = append(extra, ld)
	}
	return extra
}

// arrayStore applies x[i] = y, skipping entirely when the index isn't
// known at all. Re-enqueuing is
// conservative: every array load that could read from one of x's
// objects is re-enqueued, rather than only those whose previously
// observed index provably aliases i — arrayLoadValue still applies
// the precise alias predicate when recomputing the value, so this
// only costs a few extra, harmless worklist iterations.
func (a *AliasState) arrayStore(st *ir.ArrayStore, in *lattice.CPFact) []ir.Stmt {
	iv := cp.Evaluate(st.Index, in)
	if iv.IsUndef() {
		return nil
	}
	y := in.Get(st.RHS)
	var extra []ir.Stmt
	for _, o := range a.pts.PointsToMerged(st.Base) {
		// Every store also meets into the object's wildcard cell
		// (keyed by Undef), which reads with a NAC index consult.
		changed := false
		for _, k := range []elemKey{{o, iv}, {o, lattice.Undef}} {
			prev := a.objElemConst[k]
			next := lattice.Meet(prev, y)
			if !next.Equal(prev) {
				a.objElemConst[k] = next
				changed = true
			}
		}
		if !changed {
			continue
		}
		for _, v := range a.rPts[o] {
			for _, ld := range v.Method.ArrayLoadsFrom(v) {
				extra = append(extra, ld)
			}
		}
	}
	return extra
}

// instanceLoadValue computes z = x.f by meeting objFieldConst[(o,f)]
// over every o ∈ pts(x). A missing map entry is the zero Value, which
// is Undef — the correct identity contribution from an object that
// has never been stored to through this field.
func (a *AliasState) instanceLoadValue(ld *ir.InstanceLoad) lattice.Value {
	v := lattice.Undef
	for _, o := range a.pts.PointsToMerged(ld.Base) {
		v = lattice.Meet(v, a.objFieldConst[fieldKey{o, ld.Field}])
	}
	return v
}

func (a *AliasState) staticLoadValue(ld *ir.StaticLoad) lattice.Value {
	return a.objFieldConst[fieldKey{nil, ld.Field}]
}

// arrayLoadValue computes z = x[i] under the array-index alias
// predicate: a write with an unknown (NAC) index contributes to every
// read, and a read with an unknown index sees every write.
func (a *AliasState) arrayLoadValue(ld *ir.ArrayLoad, in *lattice.CPFact) lattice.Value {
	iv := cp.Evaluate(ld.Index, in)
	if iv.IsUndef() {
		return lattice.Undef
	}
	v := lattice.Undef
	for _, o := range a.pts.PointsToMerged(ld.Base) {
		v = lattice.Meet(v, a.objElemConst[elemKey{o, lattice.NAC}])
		if iv.IsNAC() {
			v = lattice.Meet(v, a.objElemConst[elemKey{o, lattice.Undef}])
		} else {
			v = lattice.Meet(v, a.objElemConst[elemKey{o, iv}])
		}
	}
	return v
}
