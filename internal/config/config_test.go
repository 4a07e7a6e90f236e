package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090

[classifier]
provider = "forest"
reference_path = "ref.csv"
trees = 10

[artifacts]
dir = "/tmp/misses"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "forest", cfg.Classifier.Provider)
	assert.Equal(t, "ref.csv", cfg.Classifier.ReferencePath)
	assert.Equal(t, 10, cfg.Classifier.Trees)
	assert.Equal(t, "/tmp/misses", cfg.Artifacts.Dir)
	// untouched sections keep their defaults
	assert.Equal(t, 28, cfg.Artifacts.Width)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "[server\nport = "))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("CLASSIFIER_PROVIDER", "centroid")
	t.Setenv("REFERENCE_PATH", "train.csv")
	t.Setenv("ARTIFACT_DIR", "out")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "centroid", cfg.Classifier.Provider)
	assert.Equal(t, "train.csv", cfg.Classifier.ReferencePath)
	assert.Equal(t, "out", cfg.Artifacts.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_BadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	err := Default().ApplyEnv()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Classifier.Provider = "svm" }},
		{"linear without model", func(c *Config) { c.Classifier.ModelPath = "" }},
		{"forest without reference", func(c *Config) { c.Classifier.Provider = "forest" }},
		{"zero scale", func(c *Config) { c.Artifacts.Scale = 0 }},
		{"no artifact dir", func(c *Config) { c.Artifacts.Dir = "" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
