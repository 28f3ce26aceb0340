// Package config holds the small ambient pieces every analysis in
// this repository is threaded through: a typed options bag and a
// process-wide result registry, modeled as an owned object instead of
// a package-level global.
package config

import "fmt"

// Options is a keyed string/number/boolean configuration bag.
// Unrecognized keys are simply never looked up by a caller; there is
// no schema to reject them against.
type Options struct {
	vals map[string]interface{}
}

// NewOptions builds an empty Options.
func NewOptions() *Options { return &Options{vals: map[string]interface{}{}} }

// Set stores val under key, overwriting any previous value.
func (o *Options) Set(key string, val interface{}) *Options {
	o.vals[key] = val
	return o
}

// String returns the string-valued option key, or an error if it is
// absent or not a string. The inter-procedural CP analysis uses this
// for "pta" and "taint-config"; a missing "pta" is a configuration
// error.
func (o *Options) String(key string) (string, error) {
	v, ok := o.vals[key]
	if !ok {
		return "", fmt.Errorf("config: missing required option %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("config: option %q is %T, want string", key, v)
	}
	return s, nil
}

// StringOr returns the string-valued option key, or def if it is
// absent.
func (o *Options) StringOr(key, def string) string {
	if s, err := o.String(key); err == nil {
		return s
	}
	return def
}

// Bool returns the bool-valued option key, or false if it is absent
// or not a bool.
func (o *Options) Bool(key string) bool {
	v, ok := o.vals[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Int returns the int-valued option key and whether it was present
// and well-typed.
func (o *Options) Int(key string) (int, bool) {
	v, ok := o.vals[key]
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}
