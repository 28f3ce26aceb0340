package callgraph

import "github.com/aclements/staticauditor/ir"

// BuildCHA constructs a whole-program call graph from entry using
// Class Hierarchy Analysis: a BFS over reachable methods where every
// virtual/interface call site fans out to every subtype's
// implementation, without any regard to actual pointer flow. This is
// a cheap, unsound-but-fast standalone analysis; the on-the-fly
// variant used inside the pointer-analysis solver lives in pta and
// calls Resolve directly with a concrete dynType instead.
func BuildCHA(ch ir.ClassHierarchy, entry *ir.Method) *Graph {
	g := NewGraph()
	queue := []*ir.Method{entry}
	g.AddReachableMethod(entry)
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		for _, s := range m.Stmts {
			inv, ok := s.(*ir.Invoke)
			if !ok {
				continue
			}
			for _, callee := range Resolve(ch, inv, nil) {
				if g.AddEdge(inv.Kind, inv, m, callee) {
					if g.AddReachableMethod(callee) {
						queue = append(queue, callee)
					}
				}
			}
		}
	}
	return g
}
