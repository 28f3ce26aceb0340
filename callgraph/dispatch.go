package callgraph

import "github.com/aclements/staticauditor/ir"

// Resolve returns the callees a call site may target. Virtual and
// interface calls are dispatched against every subtype of the
// declaring class of site.Callee; dynType, if non-nil, narrows
// virtual/interface dispatch to that single concrete type (the on-the-fly case inside the pointer analysis,
// which dispatches from csObj.Type rather than enumerating every
// subtype).
func Resolve(ch ir.ClassHierarchy, site *ir.Invoke, dynType *ir.Class) []*ir.Method {
	switch site.Kind {
	case ir.CallStatic:
		if site.Callee != nil {
			return []*ir.Method{site.Callee}
		}
		return nil
	case ir.CallSpecial:
		if site.Callee != nil {
			if m, ok := ir.Dispatch(site.Callee.Class, site.Callee.Subsignature()); ok {
				return []*ir.Method{m}
			}
		}
		return nil
	case ir.CallVirtual, ir.CallInterface:
		if dynType != nil {
			if m, ok := ir.Dispatch(dynType, site.Sig); ok {
				return []*ir.Method{m}
			}
			return nil
		}
		return resolveAllSubtypes(ch, site)
	}
	return nil
}

// resolveAllSubtypes dispatches site against every subtype of its
// declared receiver class: c itself, transitive subclasses,
// subinterfaces, and implementors. Treating subinterfaces as
// subclasses here over-approximates (an interface is not instantiable)
// but only ever produces extra dispatch misses, which are silently
// skipped rather than treated as errors.
func resolveAllSubtypes(ch ir.ClassHierarchy, site *ir.Invoke) []*ir.Method {
	declClass := site.Callee.Class
	var out []*ir.Method
	seen := map[*ir.Method]bool{}
	for _, c := range ir.AllSubtypes(ch, declClass) {
		if m, ok := ir.Dispatch(c, site.Sig); ok && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
