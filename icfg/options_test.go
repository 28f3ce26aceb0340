package icfg

import (
	"testing"

	"github.com/aclements/staticauditor/config"
	"github.com/aclements/staticauditor/pta"
)

func TestResolveOptionsMissingPTAKey(t *testing.T) {
	opts := config.NewOptions()
	reg := config.NewRegistry()
	if _, _, err := ResolveOptions(opts, reg); err == nil {
		t.Error("ResolveOptions with no \"pta\" option: got nil error, want one")
	}
}

func TestResolveOptionsUnknownRegistryID(t *testing.T) {
	opts := config.NewOptions().Set("pta", "missing")
	reg := config.NewRegistry()
	if _, _, err := ResolveOptions(opts, reg); err == nil {
		t.Error("ResolveOptions with unknown registry id: got nil error, want one")
	}
}

func TestResolveOptionsWrongType(t *testing.T) {
	opts := config.NewOptions().Set("pta", "x")
	reg := config.NewRegistry()
	reg.Put("x", "not a result")
	if _, _, err := ResolveOptions(opts, reg); err == nil {
		t.Error("ResolveOptions with wrong-typed registry entry: got nil error, want one")
	}
}

func TestResolveOptionsOK(t *testing.T) {
	opts := config.NewOptions().Set("pta", "x")
	reg := config.NewRegistry()
	want := &pta.Result{}
	reg.Put("x", want)
	got, tcfg, err := ResolveOptions(opts, reg)
	if err != nil {
		t.Fatalf("ResolveOptions: %v", err)
	}
	if got != want {
		t.Errorf("ResolveOptions result = %p, want %p", got, want)
	}
	if tcfg != nil {
		t.Errorf("ResolveOptions taint config = %v, want nil", tcfg)
	}
}
