package props_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacommons/graph-dataloader/internal/model"
	"github.com/datacommons/graph-dataloader/internal/props"
	"github.com/datacommons/graph-dataloader/internal/testutils"
)

func TestDerive(t *testing.T) {
	t.Parallel()

	schema, err := model.Load(filepath.Join("testdata", "model.yml"))
	require.NoError(t, err, "Setup: failed to load test model")

	doc := props.New(slog.Default()).Derive(schema, ";", "example.org")

	assert.Equal(t, "example.org", doc.DomainValue)
	assert.Equal(t, "$", doc.RelPropDelimiter)
	assert.Equal(t, ";", doc.Delimiter)
	assert.Equal(t, map[string]string{
		"diagnosis": "diagnoses",
		"patient":   "patients",
		"study_arm": "study_arms",
	}, doc.Plurals, "compound names should pluralize only their final segment")
	assert.Equal(t, map[string]string{
		"diagnosis": "id",
		"patient":   "id",
		"study_arm": "id",
	}, doc.IDFields, "every node type gets the fixed id field")
}

func TestDeriveGolden(t *testing.T) {
	t.Parallel()

	schema, err := model.Load(filepath.Join("testdata", "model.yml"))
	require.NoError(t, err, "Setup: failed to load test model")

	got := props.New(slog.Default()).Derive(schema, ";", "example.org")

	want := testutils.LoadWithUpdateFromGoldenYAML(t, got)
	require.Equal(t, want, got, "Derive should return the expected property document")
}

func TestDeriveDefaultsDomain(t *testing.T) {
	t.Parallel()

	schema, err := model.Load(filepath.Join("testdata", "model.yml"))
	require.NoError(t, err, "Setup: failed to load test model")

	doc := props.New(slog.Default()).Derive(schema, ";", "")
	assert.Equal(t, "Unknown.domain.nci.nih.gov", doc.DomainValue, "empty domain should fall back to the placeholder")
}

func TestDeriveWithStubPluralizer(t *testing.T) {
	t.Parallel()

	schema, err := model.Load(filepath.Join("testdata", "model.yml"))
	require.NoError(t, err, "Setup: failed to load test model")

	d := props.New(slog.Default(), props.WithPluralizer(stubPluralizer{}))
	doc := d.Derive(schema, ";", "example.org")

	assert.Equal(t, "patientX", doc.Plurals["patient"], "pluralizer should be substitutable")
	assert.Equal(t, "study_armX", doc.Plurals["study_arm"])
}

func TestTypeMappingIsSchemaIndependent(t *testing.T) {
	t.Parallel()

	schemaA, err := model.Load(filepath.Join("testdata", "model.yml"))
	require.NoError(t, err, "Setup: failed to load test model")
	schemaB, err := model.Load(filepath.Join("testdata", "other_model.yml"))
	require.NoError(t, err, "Setup: failed to load other test model")

	d := props.New(slog.Default())
	docA := d.Derive(schemaA, ";", "example.org")
	docB := d.Derive(schemaB, "|", "other.example.org")

	assert.Equal(t, docA.TypeMapping, docB.TypeMapping, "type mapping should not depend on the schema instance")
	assert.Equal(t, "String", docA.TypeMapping["TBD"], "placeholder tags should map to String")
	assert.Equal(t, "Float", docA.TypeMapping["number"])
	assert.Equal(t, "Int", docA.TypeMapping["integer"])
}

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	schema, err := model.Load(filepath.Join("testdata", "model.yml"))
	require.NoError(t, err, "Setup: failed to load test model")
	doc := props.New(slog.Default()).Derive(schema, ";", "example.org")

	path := filepath.Join(t.TempDir(), "props_file.yaml")
	require.NoError(t, doc.Write(path), "Write should succeed")

	got, err := props.Read(path)
	require.NoError(t, err, "Read should succeed")
	assert.Equal(t, doc, got, "round trip through the property file should preserve the document")
}

func TestWriteKeyOrder(t *testing.T) {
	t.Parallel()

	schema, err := model.Load(filepath.Join("testdata", "model.yml"))
	require.NoError(t, err, "Setup: failed to load test model")
	doc := props.New(slog.Default()).Derive(schema, ";", "example.org")

	path := filepath.Join(t.TempDir(), "props_file.yaml")
	require.NoError(t, doc.Write(path), "Write should succeed")

	raw, err := os.ReadFile(path)
	require.NoError(t, err, "Setup: failed to read written property file")

	content := string(raw)
	keys := []string{"Properties", "domain_value", "rel_prop_delimiter", "delimiter", "plurals", "type_mapping", "id_fields"}
	last := -1
	for _, key := range keys {
		idx := strings.Index(content, key+":")
		require.NotEqual(t, -1, idx, "property file should contain key %q", key)
		assert.Greater(t, idx, last, "key %q should come after the previous key", key)
		last = idx
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "props_file.yaml")

	// A stale file from a previous run must be fully replaced.
	require.NoError(t, os.WriteFile(out, []byte("stale: content\n"), 0600), "Setup: failed to write stale file")

	path, err := props.New(slog.Default()).Generate(filepath.Join("testdata", "model.yml"), ";", "example.org", out)
	require.NoError(t, err, "Generate should succeed")
	assert.Equal(t, out, path, "Generate should return the output path")

	doc, err := props.Read(path)
	require.NoError(t, err, "written file should be readable")
	assert.Equal(t, "diagnoses", doc.Plurals["diagnosis"])
	assert.Equal(t, "id", doc.IDFields["study_arm"])
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		modelFile string
	}{
		"Missing model file":       {modelFile: "not_a_file.yml"},
		"Malformed model file":     {modelFile: "malformed.yml"},
		"Model file without nodes": {modelFile: "no_nodes.yml"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out := filepath.Join(t.TempDir(), "props_file.yaml")
			_, err := props.New(slog.Default()).Generate(filepath.Join("testdata", tc.modelFile), ";", "example.org", out)
			require.Error(t, err, "Generate should fail")

			_, statErr := os.Stat(out)
			assert.True(t, os.IsNotExist(statErr), "no property file should be written on failure")
		})
	}
}

type stubPluralizer struct{}

func (stubPluralizer) Plural(noun string) string { return noun + "X" }
