// Package config loads YAML filter files describing which versions of
// a distribution a consumer wants to select from its manifest.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for configuration validation
var (
	ErrEmptyFilterFile = errors.New("filter file is empty")
	ErrNoSelection     = errors.New("filter file selects nothing")
)

// ReleaseTypes is a list of release stage names that also accepts a
// single bare string in YAML, so both of these parse:
//
//	release_types: stable
//	release_types: [stable, rc]
type ReleaseTypes []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *ReleaseTypes) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		*r = ReleaseTypes{single}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*r = ReleaseTypes(list)
		return nil
	default:
		return fmt.Errorf("release_types must be a string or a list, got %v", node.Kind)
	}
}

// Filter is one version selection rule.
type Filter struct {
	Version      string       `yaml:"version"`
	ReleaseTypes ReleaseTypes `yaml:"release_types"`
}

// FilterFile is the on-disk filter document. A file may hold a single
// inline filter, a list under "filters", or both.
type FilterFile struct {
	Filter  `yaml:",inline"`
	Filters []Filter `yaml:"filters"`
}

// All returns every filter the file defines, the inline one first.
func (f *FilterFile) All() []Filter {
	var out []Filter
	if f.Version != "" || len(f.ReleaseTypes) > 0 {
		out = append(out, f.Filter)
	}
	out = append(out, f.Filters...)
	return out
}

// NormalizedReleaseTypes returns the filter's stage selection,
// defaulting to stable only.
func (f Filter) NormalizedReleaseTypes() []string {
	if len(f.ReleaseTypes) == 0 {
		return []string{"stable"}
	}
	return f.ReleaseTypes
}

// LoadFilter reads and validates a filter file.
func LoadFilter(path string) (*FilterFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read filter file %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFilterFile)
	}

	var file FilterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse filter file %s: %w", path, err)
	}

	if len(file.All()) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoSelection)
	}
	return &file, nil
}
