package lattice

import "github.com/aclements/staticauditor/ir"

// CPFact maps variables to lattice Values, with the invariant that an
// absent key means UNDEF. It is the per-program-point fact of the
// constant-propagation dataflow analysis.
type CPFact struct {
	m map[*ir.Var]Value
}

func NewFact() *CPFact { return &CPFact{m: map[*ir.Var]Value{}} }

// Get returns the value bound to v, or Undef if unbound.
func (f *CPFact) Get(v *ir.Var) Value {
	if val, ok := f.m[v]; ok {
		return val
	}
	return Undef
}

// Update binds v to val, or removes v's binding if val is Undef.
// Reports whether the fact changed.
func (f *CPFact) Update(v *ir.Var, val Value) bool {
	old, had := f.m[v]
	if val.IsUndef() {
		if !had {
			return false
		}
		delete(f.m, v)
		return true
	}
	if had && old.Equal(val) {
		return false
	}
	f.m[v] = val
	return true
}

// Copy returns a deep copy of f.
func (f *CPFact) Copy() *CPFact {
	m := make(map[*ir.Var]Value, len(f.m))
	for k, v := range f.m {
		m[k] = v
	}
	return &CPFact{m: m}
}

// Equals reports whether f and o bind exactly the same variables to
// exactly the same values.
func (f *CPFact) Equals(o *CPFact) bool {
	if len(f.m) != len(o.m) {
		return false
	}
	for k, v := range f.m {
		ov, ok := o.m[k]
		if !ok || !ov.Equal(v) {
			return false
		}
	}
	return true
}

// MeetInto mutates f to meet(f, other) over the union of both facts'
// keys, and reports whether f changed.
func (f *CPFact) MeetInto(other *CPFact) bool {
	changed := false
	for k, ov := range other.m {
		nv := Meet(f.Get(k), ov)
		if f.Update(k, nv) {
			changed = true
		}
	}
	return changed
}

// Keys returns the variables with a non-UNDEF binding.
func (f *CPFact) Keys() []*ir.Var {
	keys := make([]*ir.Var, 0, len(f.m))
	for k := range f.m {
		keys = append(keys, k)
	}
	return keys
}

// Remove deletes v's binding, equivalent to Update(v, Undef).
func (f *CPFact) Remove(v *ir.Var) bool { return f.Update(v, Undef) }
