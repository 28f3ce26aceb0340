package pta

import "golang.org/x/tools/container/intsets"

// PointsToSet is a set of CSObj, represented as a sparse bitset over
// the small dense integer handles the CSManager assigns each CSObj —
// a more compact representation than a hash set, since
// points-to sets are large, grow monotonically, and are compared and
// unioned far more often than iterated.
type PointsToSet struct {
	bits intsets.Sparse
	mgr  *CSManager
}

// IsEmpty reports whether the set has no members.
func (s *PointsToSet) IsEmpty() bool { return s.bits.IsEmpty() }

// Len reports the number of members.
func (s *PointsToSet) Len() int { return s.bits.Len() }

// Contains reports whether o is a member.
func (s *PointsToSet) Contains(o *CSObj) bool { return s.bits.Has(o.id) }

// AddObject inserts o, reporting whether it was newly added.
func (s *PointsToSet) AddObject(mgr *CSManager, o *CSObj) bool {
	s.mgr = mgr
	return s.bits.Insert(o.id)
}

// Each calls f for every member, in ascending handle order (a
// deterministic, but otherwise arbitrary, order).
func (s *PointsToSet) Each(f func(*CSObj)) {
	if s.mgr == nil {
		return
	}
	var ids []int
	ids = s.bits.AppendTo(ids[:0])
	for _, id := range ids {
		f(s.mgr.objByID(id))
	}
}

// Slice returns the set's members as a slice, in ascending handle
// order.
func (s *PointsToSet) Slice() []*CSObj {
	var out []*CSObj
	s.Each(func(o *CSObj) { out = append(out, o) })
	return out
}

// UnionWith adds every member of other to s, reporting whether s
// changed.
func (s *PointsToSet) UnionWith(other *PointsToSet) bool {
	if other.mgr != nil {
		s.mgr = other.mgr
	}
	return s.bits.UnionWith(&other.bits)
}

// Difference returns a new set containing exactly the members of s
// not present in other: s \ other. Used to compute the delta a
// worklist entry contributes once the pointer's points-to set has
// already absorbed part of it.
func (s *PointsToSet) Difference(other *PointsToSet) PointsToSet {
	var out PointsToSet
	out.mgr = s.mgr
	out.bits.Difference(&s.bits, &other.bits)
	return out
}

// Snapshot returns an independent copy of s. A worklist entry pushed
// with a pointer's live points-to set would otherwise alias memory the
// solver keeps mutating in place, so addPFGEdge and the main loop
// always enqueue a Snapshot rather than a bare reference.
func (s *PointsToSet) Snapshot() PointsToSet {
	var out PointsToSet
	out.mgr = s.mgr
	out.bits.Copy(&s.bits)
	return out
}

// NewPointsToSet returns a set containing exactly objs, convenient
// for building the single-element delta a fresh allocation enqueues.
func NewPointsToSet(mgr *CSManager, objs ...*CSObj) PointsToSet {
	var s PointsToSet
	s.mgr = mgr
	for _, o := range objs {
		s.bits.Insert(o.id)
	}
	return s
}
