// Package config holds operator-level configuration for a shroud process:
// data directory, NER backend endpoints, pattern overrides, and redaction
// defaults. Set via env vars (SHROUD_*) or config file (shroud.config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/viper"
)

// Viper keys. Each maps to an env var with the SHROUD_ prefix
// (e.g. "pattern_file" → SHROUD_PATTERN_FILE) and to a YAML field in
// shroud.config.yaml.
const (
	KeyDataDir        = "data_dir"
	KeyPatternFile    = "pattern_file"
	KeyStatisticalURL = "statistical_ner_url"
	KeyTransformerURL = "transformer_ner_url"
	KeyFillChar       = "fill_char"
	KeyMaxTextBytes   = "max_text_bytes"
)

const (
	DefaultFillChar     = "█"
	DefaultMaxTextBytes = 1 << 20 // 1 MiB request bound for the HTTP API
)

// Config holds resolved operator-level configuration for a shroud process.
type Config struct {
	DataDir        string // Base directory for all state (~/.shroud)
	PatternFile    string // Optional recognizer YAML layered over embedded defaults
	StatisticalURL string // Statistical NER backend; empty disables the detector
	TransformerURL string // Transformer NER backend; empty disables the detector
	FillChar       string // Redaction fill character (exactly one rune)
	MaxTextBytes   int    // Maximum request body size accepted by the API
}

// FillRune returns the configured fill character as a rune.
func (c *Config) FillRune() rune {
	r, _ := utf8.DecodeRuneInString(c.FillChar)
	return r
}

// AuditDBPath returns the full path to the audit SQLite database.
func (c *Config) AuditDBPath() string {
	return filepath.Join(c.DataDir, "audit.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o700)
}

func init() {
	viper.SetEnvPrefix("SHROUD")
	viper.AutomaticEnv()
	viper.SetDefault(KeyFillChar, DefaultFillChar)
	viper.SetDefault(KeyMaxTextBytes, DefaultMaxTextBytes)
}

// Load reads configuration from Viper (which merges env vars, config
// file, and defaults) and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:        resolveDataDir(),
		PatternFile:    viper.GetString(KeyPatternFile),
		StatisticalURL: viper.GetString(KeyStatisticalURL),
		TransformerURL: viper.GetString(KeyTransformerURL),
		FillChar:       viper.GetString(KeyFillChar),
		MaxTextBytes:   viper.GetInt(KeyMaxTextBytes),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func resolveDataDir() string {
	if dir := viper.GetString(KeyDataDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shroud"
	}
	return filepath.Join(home, ".shroud")
}

func (c *Config) validate() error {
	if utf8.RuneCountInString(c.FillChar) != 1 {
		return fmt.Errorf("fill_char must be exactly one character (got %q)", c.FillChar)
	}
	if c.MaxTextBytes <= 0 {
		return fmt.Errorf("max_text_bytes must be positive")
	}
	return nil
}
