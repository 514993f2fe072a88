// Package model reads a declarative graph data model description into an
// in-memory schema.
//
// A model file is a YAML document with a top-level "Nodes" key mapping each
// node-type name to its field definitions. A schema is loaded once per run
// and never mutated afterwards.
package model

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Semantic field types understood by the model vocabulary.
const (
	TypeString   = "string"
	TypeNumber   = "number"
	TypeInteger  = "integer"
	TypeBoolean  = "boolean"
	TypeArray    = "array"
	TypeObject   = "object"
	TypeDateTime = "datetime"
	TypeDate     = "date"
	TypeTBD      = "TBD"
)

// Field is a single field definition of a node type.
type Field struct {
	Type string `yaml:"type"`
}

// Schema is the immutable in-memory form of a model description.
type Schema struct {
	path  string
	nodes map[string]map[string]Field
}

// ParseError reports a model file that could not be parsed as YAML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse model file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying YAML error.
func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a model file missing its required structure.
type SchemaError struct {
	Path string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("model file %s has no top-level Nodes collection", e.Path)
}

type modelFile struct {
	Nodes map[string]map[string]Field `yaml:"Nodes"`
}

// Load reads and parses the model file at path.
//
// It returns a ParseError if the file is not valid YAML and a SchemaError
// if the document has no Nodes collection.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read model file: %w", err)
	}

	var mf modelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if mf.Nodes == nil {
		return nil, &SchemaError{Path: path}
	}

	return &Schema{path: path, nodes: mf.Nodes}, nil
}

// Path returns the file the schema was loaded from.
func (s *Schema) Path() string { return s.path }

// NodeNames returns the node-type names of the schema in sorted order.
func (s *Schema) NodeNames() []string {
	names := make([]string, 0, len(s.nodes))
	for name := range s.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fields returns the field definitions of the named node type.
func (s *Schema) Fields(node string) map[string]Field {
	return s.nodes[node]
}
