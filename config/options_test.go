package config

import "testing"

func TestOptionsStringMissing(t *testing.T) {
	o := NewOptions()
	if _, err := o.String("pta"); err == nil {
		t.Error("String on missing key: got nil error, want one")
	}
}

func TestOptionsStringWrongType(t *testing.T) {
	o := NewOptions().Set("k", 7)
	if _, err := o.String("k"); err == nil {
		t.Error("String on non-string value: got nil error, want one")
	}
}

func TestOptionsStringOrFallsBack(t *testing.T) {
	o := NewOptions()
	if got := o.StringOr("taint-config", "default"); got != "default" {
		t.Errorf("StringOr = %q, want %q", got, "default")
	}
	o.Set("taint-config", "cfg.yaml")
	if got := o.StringOr("taint-config", "default"); got != "cfg.yaml" {
		t.Errorf("StringOr = %q, want %q", got, "cfg.yaml")
	}
}

func TestOptionsBool(t *testing.T) {
	o := NewOptions()
	if o.Bool("cs") {
		t.Error("Bool on missing key = true, want false")
	}
	o.Set("cs", true)
	if !o.Bool("cs") {
		t.Error("Bool on set key = false, want true")
	}
}

func TestOptionsInt(t *testing.T) {
	o := NewOptions()
	if _, ok := o.Int("k"); ok {
		t.Error("Int on missing key reported ok")
	}
	o.Set("k", 3)
	v, ok := o.Int("k")
	if !ok || v != 3 {
		t.Errorf("Int = (%d, %v), want (3, true)", v, ok)
	}
}
