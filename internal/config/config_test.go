package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config:
// - Defaults load without a config file
// - Config file values override defaults
// - Environment variables override the config file
// - Validation rejects broken values

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := LoadConfigFromDir(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{".cs"}, cfg.Analyzer.Extensions)
	assert.Contains(t, cfg.Analyzer.Exclude, "obj/**")
	assert.Equal(t, []string{"Dto", "Request", "Response", "ViewModel"}, cfg.Classifier.DTOSuffixes)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 16, cfg.Cache.MaxRoots)
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configDir := filepath.Join(dir, ".mcm")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	yaml := `
cache:
  enabled: false
  max_roots: 4
classifier:
  dto_suffixes:
    - Dto
    - Payload
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(yaml), 0o644))

	cfg, err := LoadConfigFromDir(dir)

	require.NoError(t, err)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 4, cfg.Cache.MaxRoots)
	assert.Equal(t, []string{"Dto", "Payload"}, cfg.Classifier.DTOSuffixes)
	// Untouched sections keep defaults
	assert.Equal(t, []string{".cs"}, cfg.Analyzer.Extensions)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MCM_CACHE_MAX_ROOTS", "2")

	dir := t.TempDir()
	cfg, err := LoadConfigFromDir(dir)

	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Cache.MaxRoots)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"no extensions", func(c *Config) { c.Analyzer.Extensions = nil }, true},
		{"extension without dot", func(c *Config) { c.Analyzer.Extensions = []string{"cs"} }, true},
		{"negative max file size", func(c *Config) { c.Analyzer.MaxFileKB = -1 }, true},
		{"zero cache roots", func(c *Config) { c.Cache.MaxRoots = 0 }, true},
		{"negative workers", func(c *Config) { c.Index.Workers = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
