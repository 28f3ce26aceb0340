package lattice

import (
	"testing"

	"github.com/aclements/staticauditor/ir"
)

func testVar(name string) *ir.Var {
	return &ir.Var{Name: name, Type: ir.Type{Kind: ir.KindInt}}
}

func TestFactGetUpdate(t *testing.T) {
	f := NewFact()
	x := testVar("x")
	if !f.Get(x).IsUndef() {
		t.Fatal("absent key should read as UNDEF")
	}
	f.Update(x, Const(5))
	if v := f.Get(x); !v.Equal(Const(5)) {
		t.Fatalf("got %v, want CONST(5)", v)
	}
	if !f.Update(x, Undef) {
		t.Fatal("updating to UNDEF after a binding should report change")
	}
	if !f.Get(x).IsUndef() {
		t.Fatal("updating to UNDEF should remove the key")
	}
}

func TestFactCopyIndependence(t *testing.T) {
	f := NewFact()
	x := testVar("x")
	f.Update(x, Const(1))
	g := f.Copy()
	g.Update(x, Const(2))
	if !f.Get(x).Equal(Const(1)) {
		t.Fatal("copy should not share mutable state with original")
	}
}

func TestFactEqualsAndMeetInto(t *testing.T) {
	x, y := testVar("x"), testVar("y")
	a := NewFact()
	a.Update(x, Const(1))
	a.Update(y, NAC)

	b := NewFact()
	b.Update(x, Const(1))
	b.Update(y, NAC)
	if !a.Equals(b) {
		t.Fatal("facts with identical bindings should be equal")
	}

	c := NewFact()
	c.Update(x, Const(2))
	if a.Equals(c) {
		t.Fatal("facts with differing bindings should not be equal")
	}

	changed := a.MeetInto(c)
	if !changed {
		t.Fatal("meeting in a differing fact should report a change")
	}
	if !a.Get(x).IsNAC() {
		t.Fatalf("meet(CONST(1),CONST(2)) should be NAC, got %v", a.Get(x))
	}
}
