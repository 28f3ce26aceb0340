package icfg

import (
	"fmt"

	"github.com/aclements/staticauditor/config"
	"github.com/aclements/staticauditor/pta"
	"github.com/aclements/staticauditor/taint"
)

// ResolveOptions looks up the collaborators an inter-procedural CP run
// needs from opts and reg, instead of threading them as bare
// arguments: opts is expected to carry a "pta" key naming the registry
// entry holding the pointer
// analysis result whose points-to facts this run uses, and may
// optionally carry a "taint-config" key naming a YAML taint
// configuration document on disk. A missing "pta" key, an unknown
// registry id, or a registry entry of the wrong type are all
// configuration errors, not panics.
func ResolveOptions(opts *config.Options, reg *config.Registry) (*pta.Result, *taint.Config, error) {
	id, err := opts.String("pta")
	if err != nil {
		return nil, nil, fmt.Errorf("icfg: %w", err)
	}
	v, err := reg.MustGet(id)
	if err != nil {
		return nil, nil, fmt.Errorf("icfg: %w", err)
	}
	res, ok := v.(*pta.Result)
	if !ok {
		return nil, nil, fmt.Errorf("icfg: registry entry %q holds a %T, not a *pta.Result", id, v)
	}

	var tcfg *taint.Config
	if path := opts.StringOr("taint-config", ""); path != "" {
		tcfg, err = taint.LoadConfigFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("icfg: %w", err)
		}
	}
	return res, tcfg, nil
}
