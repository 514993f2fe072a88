// Package props derives the loader property document from a model schema.
//
// The property document records, per node type, its pluralized display name
// and identifier field, plus a fixed mapping from the model's semantic type
// vocabulary to the target database's native type names. It is computed once
// per run, written to a YAML file, and consumed by the external loader.
package props

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ubuntu/decorate"
	"gopkg.in/yaml.v3"

	"github.com/datacommons/graph-dataloader/internal/constants"
	"github.com/datacommons/graph-dataloader/internal/fileutils"
	"github.com/datacommons/graph-dataloader/internal/model"
)

// IDField is the field name used as the unique identifier of every node
// type. This is a fixed convention, not a schema lookup.
const IDField = "id"

// Document is the derived property document. It is never mutated after
// derivation.
type Document struct {
	DomainValue      string            `yaml:"domain_value"`
	RelPropDelimiter string            `yaml:"rel_prop_delimiter"`
	Delimiter        string            `yaml:"delimiter"`
	Plurals          map[string]string `yaml:"plurals"`
	TypeMapping      map[string]string `yaml:"type_mapping"`
	IDFields         map[string]string `yaml:"id_fields"`
}

type propFile struct {
	Properties Document `yaml:"Properties"`
}

// TypeMapping returns the fixed mapping from the model's semantic type
// vocabulary to native database type names. It does not depend on any
// schema instance; unrecognized placeholder tags map to String.
func TypeMapping() map[string]string {
	return map[string]string{
		model.TypeString:   "String",
		model.TypeNumber:   "Float",
		model.TypeInteger:  "Int",
		model.TypeBoolean:  "Boolean",
		model.TypeArray:    "Array",
		model.TypeObject:   "Object",
		model.TypeDateTime: "DateTime",
		model.TypeDate:     "Date",
		model.TypeTBD:      "String",
	}
}

// Deriver computes property documents from model schemas.
type Deriver struct {
	pluralizer Pluralizer
	log        *slog.Logger
}

// Option overrides Deriver defaults.
type Option func(*Deriver)

// WithPluralizer substitutes the pluralization heuristic.
func WithPluralizer(p Pluralizer) Option {
	return func(d *Deriver) { d.pluralizer = p }
}

// New returns a Deriver using the default English pluralizer.
func New(l *slog.Logger, opts ...Option) *Deriver {
	d := &Deriver{pluralizer: EnglishPluralizer{}, log: l}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive computes the property document for schema.
// An empty domain falls back to the placeholder domain value.
func (d *Deriver) Derive(schema *model.Schema, delimiter, domain string) Document {
	if domain == "" {
		domain = constants.DefaultDomain
	}

	plurals := make(map[string]string)
	idFields := make(map[string]string)
	for _, node := range schema.NodeNames() {
		plurals[node] = pluralizeNodeName(d.pluralizer, node)
		idFields[node] = IDField
	}

	return Document{
		DomainValue:      domain,
		RelPropDelimiter: constants.RelPropDelimiter,
		Delimiter:        delimiter,
		Plurals:          plurals,
		TypeMapping:      TypeMapping(),
		IDFields:         idFields,
	}
}

// Generate loads the model at modelPath, derives its property document and
// writes it to outPath, returning outPath. The output file is always fully
// regenerated, replacing any previous one.
func (d *Deriver) Generate(modelPath, delimiter, domain, outPath string) (path string, err error) {
	defer decorate.OnError(&err, "could not generate property file from %s", modelPath)

	schema, err := model.Load(modelPath)
	if err != nil {
		return "", err
	}

	doc := d.Derive(schema, delimiter, domain)
	if err := doc.Write(outPath); err != nil {
		return "", err
	}

	d.log.Info("Wrote property file", "file", outPath, "nodes", len(doc.Plurals))
	d.log.Debug("Derived property document", "plurals", doc.Plurals, "id_fields", doc.IDFields)
	return outPath, nil
}

// Write serializes the document to path as YAML, replacing any existing
// file. The top-level key order {domain_value, rel_prop_delimiter,
// delimiter, plurals, type_mapping, id_fields} is fixed; consumers rely on
// it for readability.
func (doc Document) Write(path string) error {
	data, err := yaml.Marshal(propFile{Properties: doc})
	if err != nil {
		return fmt.Errorf("could not encode property document: %v", err)
	}

	return fileutils.AtomicWrite(path, data)
}

// Read loads a previously written property document from path.
func Read(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("could not read property file: %w", err)
	}

	var pf propFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return Document{}, fmt.Errorf("could not decode property file %s: %v", path, err)
	}

	return pf.Properties, nil
}
