// Package taint co-iterates a configured source/transfer/sink pipeline
// inside the context-sensitive pointer analysis's own worklist. Taint
// objects are ordinary synthetic heap objects that ride the same
// points-to machinery as every other object, so the only
// taint-specific work is injecting them at sources, wiring extra flow
// edges at transfers, and checking for them at sinks.
package taint

import (
	"fmt"

	"github.com/aclements/staticauditor/ir"
	"github.com/aclements/staticauditor/pta"
)

// TaintFlow records that an object produced at SourceSite, tagged
// SourceType, reached argument ArgIndex of a call to SinkSite.
type TaintFlow struct {
	SourceSite *ir.Invoke
	SourceType string
	SinkSite   *ir.Invoke
	ArgIndex   int
}

type taintObjKey struct {
	site *ir.Invoke
	typ  string
}

type flowKey struct {
	source *ir.Invoke
	sink   *ir.Invoke
	arg    int
}

// Pipeline wires itself into a pta.Solver's OnCallProcessed and
// OnVarPtrGrow hooks. Construct it before calling Solver.Solve;
// Flows is populated as the solve progresses and is final once Solve
// returns.
type Pipeline struct {
	solver *pta.Solver

	sourcesByMethod   map[string]string
	sinksByMethod     map[string][]int
	transfersByMethod map[string][]TransferConfig

	taintObjs map[taintObjKey]*pta.CSObj
	objSource map[*pta.CSObj]taintObjKey

	seenFlow map[flowKey]bool
	Flows    []TaintFlow
}

// NewPipeline builds a Pipeline from cfg and attaches it to solver.
// solver must not have its own OnCallProcessed/OnVarPtrGrow hooks
// already set — Pipeline owns them for the lifetime of one solve.
func NewPipeline(solver *pta.Solver, cfg *Config) *Pipeline {
	p := &Pipeline{
		solver:            solver,
		sourcesByMethod:   map[string]string{},
		sinksByMethod:     map[string][]int{},
		transfersByMethod: map[string][]TransferConfig{},
		taintObjs:         map[taintObjKey]*pta.CSObj{},
		objSource:         map[*pta.CSObj]taintObjKey{},
		seenFlow:          map[flowKey]bool{},
	}
	for _, s := range cfg.Sources {
		p.sourcesByMethod[s.Method] = s.Type
	}
	for _, s := range cfg.Sinks {
		p.sinksByMethod[s.Method] = append(p.sinksByMethod[s.Method], s.Index)
	}
	for _, t := range cfg.Transfers {
		p.transfersByMethod[t.Method] = append(p.transfersByMethod[t.Method], t)
	}

	solver.OnCallProcessed = p.onCallProcessed
	solver.OnVarPtrGrow = p.onVarPtrGrow
	return p
}

func (p *Pipeline) onCallProcessed(site *pta.CSCallSite, caller *pta.CSMethod, recv *pta.CSObj, callee *pta.CSMethod) {
	p.runRules(site, callee.Method.String())
}

// onVarPtrGrow re-runs the rules for every call site that reads v as
// an argument or a receiver, since a transfer or sink's relevant
// points-to set may have just grown independent of any new call edge.
func (p *Pipeline) onVarPtrGrow(ctx pta.Context, v *ir.Var, delta *pta.PointsToSet) {
	for _, inv := range callSitesReferencing(v) {
		csSite := p.solver.Mgr.CSCallSiteOf(ctx, inv)
		callerCS := p.solver.Mgr.CSMethodOf(ctx, v.Method)
		for _, e := range p.solver.CG.OutEdges(callerCS) {
			if e.Site == csSite {
				p.runRules(csSite, e.Callee.Method.String())
			}
		}
	}
}

func (p *Pipeline) runRules(site *pta.CSCallSite, sig string) {
	p.runSource(site, sig)
	p.runTransfers(site, sig)
	p.runSink(site, sig)
}

func (p *Pipeline) runSource(site *pta.CSCallSite, sig string) {
	typ, ok := p.sourcesByMethod[sig]
	if !ok || site.Site.LHS == nil {
		return
	}
	key := taintObjKey{site.Site, typ}
	csObj, ok := p.taintObjs[key]
	if !ok {
		obj := &ir.Obj{Label: fmt.Sprintf("taint:%s@%s", typ, sig)}
		csObj = p.solver.Mgr.CSObjOf(pta.EmptyContext, obj)
		p.taintObjs[key] = csObj
		p.objSource[csObj] = key
	}
	p.solver.Seed(p.solver.Mgr.VarPtr(site.Context, site.Site.LHS), csObj)
}

func (p *Pipeline) runTransfers(site *pta.CSCallSite, sig string) {
	for _, t := range p.transfersByMethod[sig] {
		from := p.pointerFor(site, t.From)
		to := p.pointerFor(site, t.To)
		if from == nil || to == nil {
			continue
		}
		p.solver.AddFlowEdge(from, to)
	}
}

func (p *Pipeline) pointerFor(site *pta.CSCallSite, ref ArgRef) *pta.Pointer {
	switch ref {
	case ArgBase:
		if site.Site.Base == nil {
			return nil
		}
		return p.solver.Mgr.VarPtr(site.Context, site.Site.Base)
	case ArgResult:
		if site.Site.LHS == nil {
			return nil
		}
		return p.solver.Mgr.VarPtr(site.Context, site.Site.LHS)
	default:
		idx := int(ref)
		if idx < 0 || idx >= len(site.Site.Args) {
			return nil
		}
		return p.solver.Mgr.VarPtr(site.Context, site.Site.Args[idx])
	}
}

func (p *Pipeline) runSink(site *pta.CSCallSite, sig string) {
	indices, ok := p.sinksByMethod[sig]
	if !ok {
		return
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(site.Site.Args) {
			continue
		}
		argPtr := p.solver.Mgr.VarPtr(site.Context, site.Site.Args[idx])
		argPtr.PointsTo().Each(func(o *pta.CSObj) {
			key, ok := p.objSource[o]
			if !ok {
				return
			}
			fk := flowKey{key.site, site.Site, idx}
			if p.seenFlow[fk] {
				return
			}
			p.seenFlow[fk] = true
			p.Flows = append(p.Flows, TaintFlow{
				SourceSite: key.site,
				SourceType: key.typ,
				SinkSite:   site.Site,
				ArgIndex:   idx,
			})
		})
	}
}

// callSitesReferencing returns every Invoke statement in v's method
// that uses v as a receiver or an argument. The IR only indexes
// receiver usage (Method.InvokesOn); argument usage is scanned
// directly since it is only needed by this co-iteration hook.
func callSitesReferencing(v *ir.Var) []*ir.Invoke {
	var sites []*ir.Invoke
	seen := map[*ir.Invoke]bool{}
	add := func(inv *ir.Invoke) {
		if !seen[inv] {
			seen[inv] = true
			sites = append(sites, inv)
		}
	}
	for _, inv := range v.Method.InvokesOn(v) {
		add(inv)
	}
	for _, s := range v.Method.Stmts {
		inv, ok := s.(*ir.Invoke)
		if !ok {
			continue
		}
		for _, a := range inv.Args {
			if a == v {
				add(inv)
				break
			}
		}
	}
	return sites
}
