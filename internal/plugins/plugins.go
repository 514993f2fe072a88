// Package plugins wraps loader plugin identifiers into plugin
// configurations, optionally enriched from a TOML registry file.
package plugins

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// Config is the configuration of one loader plugin.
type Config struct {
	Name   string            `yaml:"name"`
	Params map[string]string `yaml:"params,omitempty"`
}

// Registry maps plugin names to their default parameters.
type Registry map[string]map[string]string

type registryFile struct {
	Plugins Registry `toml:"plugins"`
}

// LoadRegistry reads a plugin registry from a TOML file. A missing file is
// not an error and yields an empty registry.
func LoadRegistry(path string) (Registry, error) {
	var rf registryFile
	if _, err := toml.DecodeFile(path, &rf); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Registry{}, nil
		}
		return nil, fmt.Errorf("could not decode plugin registry %s: %v", path, err)
	}

	if rf.Plugins == nil {
		return Registry{}, nil
	}
	return rf.Plugins, nil
}

// Wrap turns each plugin identifier into its Config, attaching registry
// parameters when present. An empty identifier list is valid and yields an
// empty slice.
func Wrap(names []string, reg Registry) []Config {
	configs := make([]Config, 0, len(names))
	for _, name := range names {
		configs = append(configs, Config{Name: name, Params: reg[name]})
	}
	return configs
}
