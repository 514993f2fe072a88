package plugins_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacommons/graph-dataloader/internal/plugins"
)

func TestLoadRegistry(t *testing.T) {
	t.Parallel()

	reg, err := plugins.LoadRegistry(filepath.Join("testdata", "plugins.toml"))
	require.NoError(t, err, "LoadRegistry should read a valid registry")

	assert.Equal(t, plugins.Registry{
		"cache_visit":        {"block_size": "1000", "node_type": "visit"},
		"individual_creator": {},
	}, reg)
}

func TestLoadRegistryMissingFile(t *testing.T) {
	t.Parallel()

	reg, err := plugins.LoadRegistry(filepath.Join(t.TempDir(), "plugins.toml"))
	require.NoError(t, err, "a missing registry file is not an error")
	assert.Empty(t, reg)
}

func TestLoadRegistryMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plugins.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0600), "Setup: failed to write malformed registry")

	_, err := plugins.LoadRegistry(path)
	require.Error(t, err, "a malformed registry should fail")
}

func TestWrap(t *testing.T) {
	t.Parallel()

	reg := plugins.Registry{"cache_visit": {"block_size": "1000"}}

	tests := map[string]struct {
		names []string

		want []plugins.Config
	}{
		"Empty list is valid": {want: []plugins.Config{}},
		"Registered plugin gains params": {names: []string{"cache_visit"},
			want: []plugins.Config{{Name: "cache_visit", Params: map[string]string{"block_size": "1000"}}}},
		"Unregistered plugin is bare": {names: []string{"individual_creator"},
			want: []plugins.Config{{Name: "individual_creator"}}},
		"Order is preserved": {names: []string{"individual_creator", "cache_visit"},
			want: []plugins.Config{
				{Name: "individual_creator"},
				{Name: "cache_visit", Params: map[string]string{"block_size": "1000"}},
			}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, plugins.Wrap(tc.names, reg))
		})
	}
}
