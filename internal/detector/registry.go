package detector

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/shroud-io/shroud/internal/entity"
	"github.com/shroud-io/shroud/patterns"
)

// RecognizerFile is the top-level YAML structure for a recognizer config file.
type RecognizerFile struct {
	Recognizers []RecognizerConfig `yaml:"recognizers"`
}

// RecognizerConfig groups the patterns that target one entity category.
type RecognizerConfig struct {
	Name     string          `yaml:"name" json:"name"`
	Category entity.Category `yaml:"category" json:"category"`
	Enabled  *bool           `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Patterns []PatternConfig `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// PatternConfig is a single regex pattern within a recognizer. Score is
// optional; zero means "use the engine-wide pattern confidence".
type PatternConfig struct {
	Name  string  `yaml:"name" json:"name"`
	Regex string  `yaml:"regex" json:"regex"`
	Score float64 `yaml:"score,omitempty" json:"score,omitempty"`
}

// isEnabled returns true if the recognizer is enabled (defaults to true when nil).
func (r *RecognizerConfig) isEnabled() bool {
	if r.Enabled == nil {
		return true
	}
	return *r.Enabled
}

// Rule is a compiled, ready-to-use detection pattern.
type Rule struct {
	Name     string
	Category entity.Category
	Pattern  *regexp.Regexp
	Score    float64
}

// ParseRecognizerFile parses recognizer YAML bytes into a RecognizerFile.
func ParseRecognizerFile(data []byte) (*RecognizerFile, error) {
	var rf RecognizerFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing recognizer YAML: %w", err)
	}
	return &rf, nil
}

// LoadRecognizerFile reads and parses a recognizer YAML file from disk.
// Returns nil (not an error) if the file does not exist, so callers can
// treat a missing operator config as a no-op.
func LoadRecognizerFile(path string) (*RecognizerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading recognizer file %s: %w", path, err)
	}
	return ParseRecognizerFile(data)
}

// DefaultRecognizers returns the built-in recognizers parsed from the
// embedded pii_default.yaml file. This is the first layer in the merge chain.
func DefaultRecognizers() ([]RecognizerConfig, error) {
	rf, err := ParseRecognizerFile(patterns.DefaultYAML())
	if err != nil {
		return nil, fmt.Errorf("parsing embedded recognizers: %w", err)
	}
	return rf.Recognizers, nil
}

// MergeRecognizers layers recognizer lists: later layers override earlier
// ones by matching on the recognizer Name field, new recognizers are appended.
func MergeRecognizers(layers ...[]RecognizerConfig) []RecognizerConfig {
	index := make(map[string]int)
	var merged []RecognizerConfig

	for _, layer := range layers {
		for _, rc := range layer {
			if idx, exists := index[rc.Name]; exists {
				merged[idx] = rc
			} else {
				index[rc.Name] = len(merged)
				merged = append(merged, rc)
			}
		}
	}

	return merged
}

// FilterByCategories applies enabled/disabled category filters to a
// recognizer list. A non-empty enabled list acts as a whitelist, then any
// recognizer whose category is in disabled is removed.
func FilterByCategories(recognizers []RecognizerConfig, enabled, disabled []entity.Category) []RecognizerConfig {
	result := recognizers

	if len(enabled) > 0 {
		allowed := make(map[entity.Category]bool, len(enabled))
		for _, c := range enabled {
			allowed[c] = true
		}
		var filtered []RecognizerConfig
		for _, r := range result {
			if allowed[r.Category] {
				filtered = append(filtered, r)
			}
		}
		result = filtered
	}

	if len(disabled) > 0 {
		blocked := make(map[entity.Category]bool, len(disabled))
		for _, c := range disabled {
			blocked[c] = true
		}
		var filtered []RecognizerConfig
		for _, r := range result {
			if !blocked[r.Category] {
				filtered = append(filtered, r)
			}
		}
		result = filtered
	}

	return result
}

// CompileRules converts recognizer configs into the compiled []Rule slice
// used by the pattern detector at runtime. Disabled recognizers are
// skipped. Unknown categories are a config error, not a silent drop: the
// taxonomy is closed and a typo in an operator file should fail loudly.
func CompileRules(recognizers []RecognizerConfig) ([]Rule, error) {
	var rules []Rule

	for _, rec := range recognizers {
		if !rec.isEnabled() {
			continue
		}
		if !rec.Category.Valid() {
			return nil, fmt.Errorf("recognizer %q: unknown category %q", rec.Name, rec.Category)
		}
		for _, p := range rec.Patterns {
			compiled, err := regexp.Compile(p.Regex)
			if err != nil {
				return nil, fmt.Errorf("compiling pattern %q in recognizer %q: %w", p.Name, rec.Name, err)
			}
			score := p.Score
			if score == 0 {
				score = PatternConfidence
			}
			rules = append(rules, Rule{
				Name:     rec.Name + "/" + p.Name,
				Category: rec.Category,
				Pattern:  compiled,
				Score:    score,
			})
		}
	}

	return rules, nil
}
