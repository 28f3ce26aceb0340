// Package ir defines the class-based intermediate representation that
// the pointer-analysis, constant-propagation, taint, and dead-code
// engines consume. Construction of this IR from a source language —
// parsing, type checking, class-hierarchy resolution — is the job of
// a front end; this package only fixes the shape a front end must
// produce.
package ir

import "fmt"

// Kind classifies a primitive type for the purposes of the
// constant-propagation lattice: only these kinds can hold an integer
// value.
type Kind int

const (
	KindOther Kind = iota
	KindByte
	KindShort
	KindInt
	KindChar
	KindBoolean
)

// CanHoldInt reports whether a variable of this kind participates in
// the integer constant-propagation lattice.
func (k Kind) CanHoldInt() bool {
	switch k {
	case KindByte, KindShort, KindInt, KindChar, KindBoolean:
		return true
	}
	return false
}

// Type is a minimal static type: either a primitive Kind or a
// reference to a Class (for object and array types alike — arrays are
// represented as a Class with Array set).
type Type struct {
	Kind  Kind
	Class *Class
}

func (t Type) CanHoldInt() bool { return t.Kind.CanHoldInt() }

func (t Type) String() string {
	if t.Class != nil {
		return t.Class.Name
	}
	return fmt.Sprintf("kind(%d)", t.Kind)
}

// Var is a local variable or parameter within a single Method. Var
// identity is pointer identity; two Vars in different methods are
// never the same variable even if they share a name.
type Var struct {
	Name   string
	Type   Type
	Method *Method
}

func (v *Var) String() string {
	if v == nil {
		return "<nil-var>"
	}
	return v.Method.Name + "." + v.Name
}

// Field is a declared field, static or instance. Field identity is
// pointer identity.
type Field struct {
	Name   string
	Static bool
	Owner  *Class
	Type   Type
}

func (f *Field) String() string { return f.Owner.Name + "." + f.Name }

// Class is a class or interface declaration.
type Class struct {
	Name       string
	IsIface    bool
	IsAbstract bool
	Super      *Class   // nil for Object or for interfaces
	Interfaces []*Class // implemented/extended interfaces

	methods map[string]*Method // subsignature -> declared method (this class only)
	fields  []*Field
}

func NewClass(name string) *Class {
	return &Class{Name: name, methods: map[string]*Method{}}
}

// AddMethod records m as declared directly on c.
func (c *Class) AddMethod(m *Method) {
	if c.methods == nil {
		c.methods = map[string]*Method{}
	}
	c.methods[m.Subsignature()] = m
	m.Class = c
}

func (c *Class) AddField(f *Field) {
	f.Owner = c
	c.fields = append(c.fields, f)
}

// DeclaredMethod returns the method declared directly on c (not
// inherited) with the given subsignature, if any.
func (c *Class) DeclaredMethod(subsig string) (*Method, bool) {
	m, ok := c.methods[subsig]
	return m, ok
}

func (c *Class) String() string { return c.Name }

// Method is a declared method or constructor. Abstract and interface
// methods have Stmts == nil.
type Method struct {
	Name       string
	ParamTypes []Type
	RetType    Type // zero Type{} for void
	Class      *Class
	IsStatic   bool
	IsAbstract bool

	This   *Var // nil if IsStatic
	Params []*Var
	Stmts  []Stmt
	Rets   []*Var // distinct variables appearing in Return statements

	storeField map[*Var][]*InstanceStore
	loadField  map[*Var][]*InstanceLoad
	storeArr   map[*Var][]*ArrayStore
	loadArr    map[*Var][]*ArrayLoad
	invokesOn  map[*Var][]*Invoke // v used as receiver
}

// Subsignature is the method's identity for dispatch purposes:
// everything but the declaring class (name + parameter types).
func (m *Method) Subsignature() string {
	s := m.Name + "("
	for i, p := range m.ParamTypes {
		if i > 0 {
			s += ","
		}
		s += p.String()
	}
	return s + ")"
}

func (m *Method) String() string {
	if m.Class == nil {
		return m.Name
	}
	return m.Class.Name + "." + m.Subsignature()
}

// Finish indexes m's statements by the variables they reference, and
// collects m.Rets. Front ends call this once after appending all of
// m.Stmts.
func (m *Method) Finish() {
	m.storeField = map[*Var][]*InstanceStore{}
	m.loadField = map[*Var][]*InstanceLoad{}
	m.storeArr = map[*Var][]*ArrayStore{}
	m.loadArr = map[*Var][]*ArrayLoad{}
	m.invokesOn = map[*Var][]*Invoke{}
	seenRet := map[*Var]bool{}
	for _, s := range m.Stmts {
		switch s := s.(type) {
		case *InstanceStore:
			m.storeField[s.Base] = append(m.storeField[s.Base], s)
		case *InstanceLoad:
			m.loadField[s.Base] = append(m.loadField[s.Base], s)
		case *ArrayStore:
			m.storeArr[s.Base] = append(m.storeArr[s.Base], s)
		case *ArrayLoad:
			m.loadArr[s.Base] = append(m.loadArr[s.Base], s)
		case *Invoke:
			if s.Base != nil {
				m.invokesOn[s.Base] = append(m.invokesOn[s.Base], s)
			}
		case *Return:
			if s.Value != nil && !seenRet[s.Value] {
				seenRet[s.Value] = true
				m.Rets = append(m.Rets, s.Value)
			}
		}
	}
}

func (m *Method) StoresTo(v *Var) []*InstanceStore { return m.storeField[v] }
func (m *Method) LoadsFrom(v *Var) []*InstanceLoad { return m.loadField[v] }
func (m *Method) ArrayStoresTo(v *Var) []*ArrayStore { return m.storeArr[v] }
func (m *Method) ArrayLoadsFrom(v *Var) []*ArrayLoad { return m.loadArr[v] }
func (m *Method) InvokesOn(v *Var) []*Invoke         { return m.invokesOn[v] }
