package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cs := NewConfigServiceAt(filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cs := NewConfigServiceAt(path)

	cfg := DefaultConfig()
	cfg.UI.ScrollToSelection = false
	cfg.Filter.MaxDistance = 3
	cfg.Log.Level = "debug"
	require.NoError(t, cs.Save(cfg))

	loaded, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[ui]\npager = false\n"), 0644))

	cfg, err := NewConfigServiceAt(path).Load()
	require.NoError(t, err)
	assert.False(t, cfg.UI.Pager)
	assert.True(t, cfg.UI.ScrollToSelection)
	assert.True(t, cfg.Selection.DetailSingleValued)
	assert.Equal(t, "blastview.log", cfg.Log.File)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "[ui\npager = "},
		{"negative distance", "[filter]\nmax_distance = -1\n"},
		{"unknown level", "[log]\nlevel = \"chatty\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := NewConfigServiceAt(path).Load()
			assert.Error(t, err)
		})
	}
}
