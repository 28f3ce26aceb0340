package lattice

import "testing"

func TestMeetLaws(t *testing.T) {
	vals := []Value{Undef, NAC, Const(1), Const(2), Const(-5)}
	for _, a := range vals {
		for _, b := range vals {
			if !Meet(a, b).Equal(Meet(b, a)) {
				t.Errorf("meet(%v,%v) not commutative", a, b)
			}
			if !Meet(a, a).Equal(a) {
				t.Errorf("meet(%v,%v) not idempotent", a, a)
			}
			for _, c := range vals {
				lhs := Meet(a, Meet(b, c))
				rhs := Meet(Meet(a, b), c)
				if !lhs.Equal(rhs) {
					t.Errorf("meet not associative for %v,%v,%v: %v vs %v", a, b, c, lhs, rhs)
				}
			}
		}
	}
}

func TestMeetAbsorption(t *testing.T) {
	cases := []Value{Undef, NAC, Const(0), Const(7)}
	for _, v := range cases {
		if !Meet(NAC, v).Equal(NAC) {
			t.Errorf("meet(NAC,%v) = %v, want NAC", v, Meet(NAC, v))
		}
		if !Meet(Undef, v).Equal(v) {
			t.Errorf("meet(UNDEF,%v) = %v, want %v", v, Meet(Undef, v), v)
		}
	}
}

func TestMeetDistinctConstants(t *testing.T) {
	if !Meet(Const(3), Const(4)).Equal(NAC) {
		t.Error("meet of distinct constants should be NAC")
	}
	if !Meet(Const(3), Const(3)).Equal(Const(3)) {
		t.Error("meet of equal constants should be the constant")
	}
}

func TestValueAccessors(t *testing.T) {
	if !Undef.IsUndef() || Undef.IsConst() || Undef.IsNAC() {
		t.Error("Undef classification wrong")
	}
	if !NAC.IsNAC() || NAC.IsConst() || NAC.IsUndef() {
		t.Error("NAC classification wrong")
	}
	c := Const(42)
	if !c.IsConst() {
		t.Error("Const classification wrong")
	}
	if v, ok := c.Int(); !ok || v != 42 {
		t.Errorf("Int() = %v,%v, want 42,true", v, ok)
	}
	if _, ok := Undef.Int(); ok {
		t.Error("Int() on Undef should not be ok")
	}
}
