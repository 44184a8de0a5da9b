package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultFillChar, cfg.FillChar)
	assert.Equal(t, '█', cfg.FillRune())
	assert.Equal(t, DefaultMaxTextBytes, cfg.MaxTextBytes)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Empty(t, cfg.StatisticalURL)
	assert.Empty(t, cfg.TransformerURL)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHROUD_DATA_DIR", dir)
	t.Setenv("SHROUD_PATTERN_FILE", "/etc/shroud/patterns.yaml")
	t.Setenv("SHROUD_STATISTICAL_NER_URL", "http://localhost:9001")
	t.Setenv("SHROUD_TRANSFORMER_NER_URL", "http://localhost:9002")
	t.Setenv("SHROUD_FILL_CHAR", "*")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "/etc/shroud/patterns.yaml", cfg.PatternFile)
	assert.Equal(t, "http://localhost:9001", cfg.StatisticalURL)
	assert.Equal(t, "http://localhost:9002", cfg.TransformerURL)
	assert.Equal(t, '*', cfg.FillRune())
	assert.Equal(t, filepath.Join(dir, "audit.db"), cfg.AuditDBPath())
}

func TestLoadRejectsMultiRuneFill(t *testing.T) {
	t.Setenv("SHROUD_FILL_CHAR", "##")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fill_char")
}

func TestEnsureDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	cfg := &Config{DataDir: dir, FillChar: DefaultFillChar, MaxTextBytes: 1}

	require.NoError(t, cfg.EnsureDataDir())
	require.NoError(t, cfg.EnsureDataDir())
}
