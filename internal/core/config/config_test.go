package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "tokyonight-night", cfg.Render.SyntaxStyle)
	assert.False(t, cfg.Render.IncludeResolved)
	assert.Equal(t, 32, cfg.Anchors.ContextWindow)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.NotEmpty(t, cfg.Ignore)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Anchors.ContextWindow)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
render:
  syntax_style: dracula
  include_resolved: true
anchors:
  context_window: 64
ignore:
  - "drafts/**"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, dir)
	require.NoError(t, err)

	assert.Equal(t, "dracula", cfg.Render.SyntaxStyle)
	assert.True(t, cfg.Render.IncludeResolved)
	assert.Equal(t, 64, cfg.Anchors.ContextWindow)
	assert.Equal(t, []string{"drafts/**"}, cfg.Ignore)
	assert.Equal(t, dir, cfg.DataDir)

	// unset sections fall back to defaults
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("render: [not a map"), 0o644))

	_, err := Load(path, dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults pass",
			mutate: func(c *Config) {},
		},
		{
			name:    "negative context window",
			mutate:  func(c *Config) { c.Anchors.ContextWindow = -1 },
			wantErr: true,
		},
		{
			name:    "zero pool size",
			mutate:  func(c *Config) { c.Database.MaxOpenConns = 0 },
			wantErr: true,
		},
		{
			name:    "invalid ignore glob",
			mutate:  func(c *Config) { c.Ignore = []string{"[bad"} },
			wantErr: true,
		},
		{
			name:   "empty data dir allowed",
			mutate: func(c *Config) { c.DataDir = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDataDirIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := DefaultConfig()
	cfg.DataDir = file

	assert.Error(t, cfg.Validate())
}
