// Package toyir is a minimal, in-memory front end: it builds ir
// programs directly (no parser) and implements the ir.ClassHierarchy
// and ir.HeapModel collaborator interfaces over them. It exists so
// the pointer-analysis, constant-propagation, taint, and dead-code
// packages can be exercised end-to-end by tests and by the demo CLI
// without a real source-language parser, which is out of scope for
// this engine.
package toyir

import "github.com/aclements/staticauditor/ir"

// Builder accumulates classes and methods for a single program and
// doubles as its ir.ClassHierarchy.
type Builder struct {
	classes []*ir.Class
	byName  map[string]*ir.Class
	heap    *ir.MapHeapModel
}

func NewBuilder() *Builder {
	return &Builder{byName: map[string]*ir.Class{}, heap: ir.NewMapHeapModel()}
}

// Class returns the class named name, creating it if necessary.
func (b *Builder) Class(name string) *ir.Class {
	if c, ok := b.byName[name]; ok {
		return c
	}
	c := ir.NewClass(name)
	b.byName[name] = c
	b.classes = append(b.classes, c)
	return c
}

// Method creates and declares a new (instance, unless made static
// afterward) method named name on c, with an implicit This variable
// and one Param variable per entry of paramTypes. Stmts is left nil
// for the caller to fill in before calling Finish.
func (b *Builder) Method(c *ir.Class, name string, paramTypes []ir.Type, ret ir.Type) *ir.Method {
	m := &ir.Method{Name: name, ParamTypes: paramTypes, RetType: ret}
	c.AddMethod(m)
	m.This = &ir.Var{Name: "this", Type: ir.Type{Class: c}, Method: m}
	for i, t := range paramTypes {
		m.Params = append(m.Params, &ir.Var{Name: paramName(i), Type: t, Method: m})
	}
	return m
}

func paramName(i int) string {
	names := []string{"p0", "p1", "p2", "p3", "p4", "p5"}
	if i < len(names) {
		return names[i]
	}
	return "pN"
}

// HeapModel returns the builder's ir.HeapModel.
func (b *Builder) HeapModel() ir.HeapModel { return b.heap }

// Hierarchy returns the builder's ir.ClassHierarchy, computed lazily
// over whatever classes have been declared so far.
func (b *Builder) Hierarchy() ir.ClassHierarchy { return hierarchyView{b} }

type hierarchyView struct{ b *Builder }

func (h hierarchyView) DirectSubclasses(c *ir.Class) []*ir.Class {
	var out []*ir.Class
	for _, cls := range h.b.classes {
		if !cls.IsIface && cls.Super == c {
			out = append(out, cls)
		}
	}
	return out
}

func (h hierarchyView) DirectSubinterfaces(c *ir.Class) []*ir.Class {
	var out []*ir.Class
	for _, cls := range h.b.classes {
		if cls.IsIface {
			for _, iface := range cls.Interfaces {
				if iface == c {
					out = append(out, cls)
					break
				}
			}
		}
	}
	return out
}

func (h hierarchyView) DirectImplementors(c *ir.Class) []*ir.Class {
	var out []*ir.Class
	for _, cls := range h.b.classes {
		if cls.IsIface {
			continue
		}
		for _, iface := range cls.Interfaces {
			if iface == c {
				out = append(out, cls)
				break
			}
		}
	}
	return out
}
