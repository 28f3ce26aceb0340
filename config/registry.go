package config

import "fmt"

// Registry is a process-wide store of named analysis results, keyed
// by a string id such as "pta" or "constprop". Rather than a true
// package-level global, a Registry is an ordinary owned value that
// cmd/staticauditor
// constructs once and threads through every analysis phase, so
// later phases (inter-procedural CP, taint, dead-code) can fetch an
// earlier phase's result by the ID named in an Options bag (e.g. its
// "pta" key) without a direct Go import-time dependency between
// the packages that produce and consume it.
type Registry struct {
	results map[string]interface{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{results: map[string]interface{}{}} }

// Put stores result under id, overwriting any previous value.
func (r *Registry) Put(id string, result interface{}) { r.results[id] = result }

// Get retrieves the result stored under id.
func (r *Registry) Get(id string) (interface{}, bool) {
	v, ok := r.results[id]
	return v, ok
}

// MustGet retrieves the result stored under id, returning a
// configuration error if it is absent — the shape every "missing pta
// id" lookup in this repository goes through.
func (r *Registry) MustGet(id string) (interface{}, error) {
	v, ok := r.results[id]
	if !ok {
		return nil, fmt.Errorf("config: no analysis result registered under %q", id)
	}
	return v, nil
}
