package detector

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/shroud-io/shroud/internal/entity"
	shroudotel "github.com/shroud-io/shroud/internal/otel"
)

var tracer = shroudotel.Tracer("github.com/shroud-io/shroud/internal/detector")

// PatternDetector evaluates the compiled recognizer rules against text.
// Rules are scanned independently of each other; two rules may emit
// overlapping spans and resolving that is deferred to the reconciler.
type PatternDetector struct {
	rules []Rule
}

// PatternOption configures a PatternDetector via the functional options pattern.
type PatternOption func(*patternConfig)

type patternConfig struct {
	patternFile        string
	enabledCategories  []entity.Category
	disabledCategories []entity.Category
}

// WithPatternFile loads additional recognizers from an operator YAML file,
// layered over the embedded defaults. A missing file is silently skipped.
func WithPatternFile(path string) PatternOption {
	return func(c *patternConfig) { c.patternFile = path }
}

// WithEnabledCategories sets a whitelist of categories. When non-empty,
// only recognizers targeting a listed category are active.
func WithEnabledCategories(categories []entity.Category) PatternOption {
	return func(c *patternConfig) { c.enabledCategories = categories }
}

// WithDisabledCategories sets a blacklist of categories to exclude.
func WithDisabledCategories(categories []entity.Category) PatternOption {
	return func(c *patternConfig) { c.disabledCategories = categories }
}

// NewPatternDetector creates a pattern detector. Without options it uses
// the embedded defaults. Options layer operator overrides on top.
func NewPatternDetector(opts ...PatternOption) (*PatternDetector, error) {
	var cfg patternConfig
	for _, o := range opts {
		o(&cfg)
	}

	defaults, err := DefaultRecognizers()
	if err != nil {
		return nil, fmt.Errorf("loading default recognizers: %w", err)
	}

	var operator []RecognizerConfig
	if cfg.patternFile != "" {
		rf, err := LoadRecognizerFile(cfg.patternFile)
		if err != nil {
			return nil, fmt.Errorf("loading operator pattern file: %w", err)
		}
		if rf != nil {
			operator = rf.Recognizers
		}
	}

	merged := MergeRecognizers(defaults, operator)
	merged = FilterByCategories(merged, cfg.enabledCategories, cfg.disabledCategories)

	rules, err := CompileRules(merged)
	if err != nil {
		return nil, fmt.Errorf("compiling rules: %w", err)
	}

	return &PatternDetector{rules: rules}, nil
}

// MustNewPatternDetector is like NewPatternDetector but panics on error.
// Useful for zero-config startup where the embedded defaults are expected
// to always compile.
func MustNewPatternDetector(opts ...PatternOption) *PatternDetector {
	d, err := NewPatternDetector(opts...)
	if err != nil {
		panic(fmt.Sprintf("detector.NewPatternDetector: %v", err))
	}
	return d
}

// Name returns the pattern source tag.
func (d *PatternDetector) Name() string { return SourcePattern }

// Rules returns the compiled rule set, for introspection (CLI listing).
func (d *PatternDetector) Rules() []Rule { return d.rules }

// Detect scans text with every rule and emits one match per non-overlapping
// occurrence within that rule's own scan. No input-size limit is enforced;
// bounding text size is the caller's responsibility.
func (d *PatternDetector) Detect(ctx context.Context, text string) ([]entity.Match, error) {
	_, span := tracer.Start(ctx, "detector.pattern")
	defer span.End()

	var out []entity.Match
	runeAt := runeOffsetIndex(text)

	for _, rule := range d.rules {
		for _, loc := range rule.Pattern.FindAllStringIndex(text, -1) {
			out = append(out, entity.Match{
				Text:       text[loc[0]:loc[1]],
				Start:      runeAt[loc[0]],
				End:        runeAt[loc[1]],
				Category:   rule.Category,
				Confidence: rule.Score,
				Source:     SourcePattern,
			})
		}
	}

	span.SetAttributes(attribute.Int("detector.match_count", len(out)))
	return out, nil
}

// runeOffsetIndex maps byte offsets in s to rune offsets. Only offsets on
// rune boundaries are populated, which is all regexp ever reports.
func runeOffsetIndex(s string) []int {
	idx := make([]int, len(s)+1)
	n := 0
	for byteOff := range s {
		idx[byteOff] = n
		n++
	}
	idx[len(s)] = n
	return idx
}
