package pta

// PFG is the pointer-flow graph: directed edges u -> v assert
// pts(u) ⊆ pts(v). Traversal is worklist-based throughout the
// solver; PFG itself never recurses over its own structure, since it
// is cyclic.
type PFG struct {
	succs map[*Pointer]map[*Pointer]bool
}

func NewPFG() *PFG { return &PFG{succs: map[*Pointer]map[*Pointer]bool{}} }

// AddEdge adds the edge source -> target if it is not already
// present, returning whether it was newly added. When it is new,
// the caller (the solver) is responsible for enqueueing
// (target, pointsToSet(source)) when this returns true and source's
// points-to set is non-empty.
func (g *PFG) AddEdge(source, target *Pointer) bool {
	set, ok := g.succs[source]
	if !ok {
		set = map[*Pointer]bool{}
		g.succs[source] = set
	}
	if set[target] {
		return false
	}
	set[target] = true
	return true
}

// SuccsOf returns the pointers with an edge from p.
func (g *PFG) SuccsOf(p *Pointer) []*Pointer {
	set := g.succs[p]
	if len(set) == 0 {
		return nil
	}
	out := make([]*Pointer, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	return out
}
