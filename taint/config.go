package taint

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ArgRef identifies a call site position: a 0-based argument index, or
// one of two reserved sentinel values for the receiver and the
// result. The YAML config spells these "base" and "result" instead of
// -1/-2, decoded below.
type ArgRef int

const (
	ArgBase   ArgRef = -1
	ArgResult ArgRef = -2
)

func (a ArgRef) String() string {
	switch a {
	case ArgBase:
		return "base"
	case ArgResult:
		return "result"
	default:
		return fmt.Sprintf("%d", int(a))
	}
}

// UnmarshalYAML accepts either the string aliases "base"/"result" or a
// plain integer: an argument index, or -1/-2 for base/result.
func (a *ArgRef) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		switch s {
		case "base":
			*a = ArgBase
			return nil
		case "result":
			*a = ArgResult
			return nil
		default:
			return fmt.Errorf("taint: unrecognized argument reference %q", s)
		}
	}
	var i int
	if err := node.Decode(&i); err != nil {
		return fmt.Errorf("taint: argument reference must be an index or \"base\"/\"result\": %w", err)
	}
	*a = ArgRef(i)
	return nil
}

// SourceConfig declares that calls to Method produce a taint object of
// Type at the call's result.
type SourceConfig struct {
	Method string `yaml:"method"`
	Type   string `yaml:"type"`
}

// TransferConfig declares that calling Method propagates taint of Type
// from the From position to the To position (base-to-result,
// argument-to-result, or argument-to-base).
type TransferConfig struct {
	Method string `yaml:"method"`
	From   ArgRef `yaml:"from"`
	To     ArgRef `yaml:"to"`
	Type   string `yaml:"type"`
}

// SinkConfig declares that taint reaching argument Index of a call to
// Method is a finding.
type SinkConfig struct {
	Method string `yaml:"method"`
	Index  int    `yaml:"index"`
}

// Config is a taint-analysis configuration document: the named
// sources, transfers, and sinks that drive a Pipeline.
type Config struct {
	Sources   []SourceConfig   `yaml:"sources"`
	Transfers []TransferConfig `yaml:"transfers"`
	Sinks     []SinkConfig     `yaml:"sinks"`
}

// LoadConfig decodes a taint configuration document from r.
func LoadConfig(r io.Reader) (*Config, error) {
	var c Config
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("taint: decode config: %w", err)
	}
	return &c, nil
}

// LoadConfigFile decodes a taint configuration document from path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("taint: open config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}
