package toyir

import "github.com/aclements/staticauditor/ir"

// CFGBuilder assembles an ir.CFG for a single method's statement
// list. A synthetic entry node falls through to the first statement;
// by default, consecutive statements fall through to one another and
// any ir.Return (or the last statement) flows to a synthetic exit
// node; call SetSuccs to override the default for
// branching statements (If, Switch, Goto-like control flow) before
// calling Build.
type CFGBuilder struct {
	method *ir.Method
	stmts  []ir.Stmt
	exit   *ir.Nop
	succs  map[ir.Stmt][]ir.Stmt
	custom map[ir.Stmt]bool
}

func NewCFG(m *ir.Method) *CFGBuilder {
	exit := &ir.Nop{}
	b := &CFGBuilder{
		method: m,
		stmts:  append(append([]ir.Stmt{&ir.Nop{}}, m.Stmts...), exit),
		exit:   exit,
		succs:  map[ir.Stmt][]ir.Stmt{},
		custom: map[ir.Stmt]bool{},
	}
	return b
}

// SetSuccs overrides s's successors (e.g. the IF_TRUE/IF_FALSE targets
// of an *ir.If, or the SWITCH_CASE targets of an *ir.Switch).
func (b *CFGBuilder) SetSuccs(s ir.Stmt, succs ...ir.Stmt) {
	b.succs[s] = succs
	b.custom[s] = true
}

// Exit returns the synthetic exit node, for callers that need to wire
// RETURN edges in an inter-procedural CFG.
func (b *CFGBuilder) Exit() ir.Stmt { return b.exit }

func (b *CFGBuilder) Build() ir.CFG {
	for i, s := range b.stmts {
		if b.custom[s] {
			continue
		}
		if s == b.exit {
			continue
		}
		if _, isRet := s.(*ir.Return); isRet {
			b.succs[s] = []ir.Stmt{b.exit}
			continue
		}
		if i+1 < len(b.stmts) {
			b.succs[s] = []ir.Stmt{b.stmts[i+1]}
		} else {
			b.succs[s] = []ir.Stmt{b.exit}
		}
	}
	preds := map[ir.Stmt][]ir.Stmt{}
	for s, outs := range b.succs {
		for _, t := range outs {
			preds[t] = append(preds[t], s)
		}
	}
	return &toyCFG{
		method: b.method,
		stmts:  b.stmts,
		entry:  b.stmts[0],
		exit:   b.exit,
		succs:  b.succs,
		preds:  preds,
	}
}

type toyCFG struct {
	method *ir.Method
	stmts  []ir.Stmt
	entry  ir.Stmt
	exit   ir.Stmt
	succs  map[ir.Stmt][]ir.Stmt
	preds  map[ir.Stmt][]ir.Stmt
}

func (c *toyCFG) Method() *ir.Method  { return c.method }
func (c *toyCFG) Entry() ir.Stmt      { return c.entry }
func (c *toyCFG) Exit() ir.Stmt       { return c.exit }
func (c *toyCFG) Stmts() []ir.Stmt    { return c.stmts }
func (c *toyCFG) Succs(s ir.Stmt) []ir.Stmt { return c.succs[s] }
func (c *toyCFG) Preds(s ir.Stmt) []ir.Stmt { return c.preds[s] }
