// Package pta implements the pointer-flow-graph solver: both the
// context-insensitive (CI) and context-sensitive (CS) pointer
// analyses share this package's core fixed-point algorithm, differing
// only in the ContextSelector plugged into the solver.
package pta

import (
	"fmt"
	"strings"

	"github.com/aclements/staticauditor/ir"
)

// Context is an opaque, comparable value produced by a
// ContextSelector. The empty context is EmptyContext; callers never
// construct other contexts directly. Comparability is required so
// Context can sit inside map keys throughout the CSManager; the
// concrete selectors below always populate key with a plain string,
// which is comparable and hashable by construction.
type Context struct{ key string }

// EmptyContext is the distinguished context used by the CI analysis
// and as the outermost context of any CS analysis.
var EmptyContext = Context{}

func (c Context) String() string {
	if c.key == "" {
		return "[]"
	}
	return "[" + c.key + "]"
}

// ContextSelector chooses contexts for heap allocations and call
// targets. The CI analysis uses CIContextSelector (every call returns
// EmptyContext); the CS analysis plugs in a real policy such as
// call-site sensitivity (NewCallStringSelector).
type ContextSelector interface {
	EmptyContext() Context
	// SelectHeapContext chooses the context under which a freshly
	// allocated Obj is recorded, given the CSMethod performing the
	// allocation.
	SelectHeapContext(caller *CSMethod, obj *ir.Obj) Context
	// SelectContext chooses the callee context for a static call,
	// where there is no receiver object to condition on.
	SelectContext(site *CSCallSite, callee *ir.Method) Context
	// SelectContextRecv chooses the callee context for a dynamic
	// (special/virtual/interface) call, given the resolved receiver
	// object.
	SelectContextRecv(site *CSCallSite, recv *CSObj, callee *ir.Method) Context
}

// contextInsensitiveSelector is the CI analysis's selector: a
// singleton context universe.
type contextInsensitiveSelector struct{}

func (contextInsensitiveSelector) EmptyContext() Context { return EmptyContext }
func (contextInsensitiveSelector) SelectHeapContext(*CSMethod, *ir.Obj) Context {
	return EmptyContext
}
func (contextInsensitiveSelector) SelectContext(*CSCallSite, *ir.Method) Context {
	return EmptyContext
}
func (contextInsensitiveSelector) SelectContextRecv(*CSCallSite, *CSObj, *ir.Method) Context {
	return EmptyContext
}

// CIContextSelector is the shared context-insensitive selector.
var CIContextSelector ContextSelector = contextInsensitiveSelector{}

// callStringSelector implements k-call-site sensitivity: the context
// is the trailing k call sites on the path to this call. Heap
// contexts reuse the allocating method's own context unchanged —
// allocation-site sensitivity is the HeapModel's concern, kept
// separate from call-site context selection.
type callStringSelector struct{ k int }

// NewCallStringSelector returns a ContextSelector implementing
// k-call-site sensitivity.
func NewCallStringSelector(k int) ContextSelector { return callStringSelector{k: k} }

func (s callStringSelector) EmptyContext() Context { return EmptyContext }

func (s callStringSelector) SelectHeapContext(caller *CSMethod, obj *ir.Obj) Context {
	return caller.Context
}

func (s callStringSelector) SelectContext(site *CSCallSite, callee *ir.Method) Context {
	return s.extend(site)
}

func (s callStringSelector) SelectContextRecv(site *CSCallSite, recv *CSObj, callee *ir.Method) Context {
	return s.extend(site)
}

func (s callStringSelector) extend(site *CSCallSite) Context {
	token := fmt.Sprintf("%p", site.Site)
	if site.Context.key == "" {
		return Context{key: token}
	}
	parts := append([]string{token}, strings.Split(site.Context.key, ";")...)
	if len(parts) > s.k {
		parts = parts[:s.k]
	}
	return Context{key: strings.Join(parts, ";")}
}
